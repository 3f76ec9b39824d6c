package services

import (
	"context"
	"encoding/json"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"
	"family-registry/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// HistoryEntry - событие для журнала. Details сериализуется в JSON.
type HistoryEntry struct {
	FamilyID    uint64
	MemberID    *uint64
	Action      entities.HistoryAction
	Description string
	Details     interface{}
}

type HistoryServiceInterface interface {
	Append(ctx context.Context, tx pgx.Tx, entry HistoryEntry) (*entities.HistoryRecord, error)
	Record(ctx context.Context, entry HistoryEntry)
	Create(ctx context.Context, familyID uint64, payload dto.CreateHistoryDTO) (*entities.HistoryRecord, error)
	ListByFamily(ctx context.Context, familyID uint64, memberID *uint64) ([]entities.HistoryRecord, error)
	ListAll(ctx context.Context, page, limit int, search string) (*dto.HistoryPageDTO, error)
	Delete(ctx context.Context, historyID uint64) error
}

type HistoryService struct {
	repo       repositories.HistoryRepositoryInterface
	familyRepo repositories.FamilyRepositoryInterface
	memberRepo repositories.FamilyMemberRepositoryInterface
	logger     *zap.Logger
}

func NewHistoryService(
	repo repositories.HistoryRepositoryInterface,
	familyRepo repositories.FamilyRepositoryInterface,
	memberRepo repositories.FamilyMemberRepositoryInterface,
	logger *zap.Logger,
) HistoryServiceInterface {
	return &HistoryService{repo: repo, familyRepo: familyRepo, memberRepo: memberRepo, logger: logger}
}

// Append пишет запись от имени текущего пользователя; без пользователя в контексте автор - система.
func (s *HistoryService) Append(ctx context.Context, tx pgx.Tx, entry HistoryEntry) (*entities.HistoryRecord, error) {
	record := &entities.HistoryRecord{
		FamilyID:    entry.FamilyID,
		MemberID:    entry.MemberID,
		Action:      entry.Action,
		Description: entry.Description,
		UserName:    systemActorName,
	}
	if claims, err := utils.GetClaimsFromContext(ctx); err == nil {
		record.UserID = utils.ToPtr(claims.UserID)
		record.UserName = claims.FullName
		if record.UserName == "" {
			record.UserName = claims.IIN
		}
	}
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return nil, apperrors.NewValidationError("некорректные детали события: %v", err)
		}
		record.Details = raw
	}

	if err := s.repo.CreateInTx(ctx, tx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Record - запись, сопровождающая бизнес-операцию: ошибка журнала не отменяет операцию.
func (s *HistoryService) Record(ctx context.Context, entry HistoryEntry) {
	if _, err := s.Append(ctx, nil, entry); err != nil {
		s.logger.Error("не удалось записать историю",
			zap.Uint64("familyID", entry.FamilyID),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
	}
}

func (s *HistoryService) Create(ctx context.Context, familyID uint64, payload dto.CreateHistoryDTO) (*entities.HistoryRecord, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if !payload.Action.IsValid() {
		return nil, apperrors.NewFieldError("action", "неизвестное действие: %s", payload.Action)
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, familyID, actor); err != nil {
		return nil, err
	}
	if err := checkMemberOfFamily(ctx, s.memberRepo, familyID, payload.MemberID); err != nil {
		return nil, err
	}

	entry := HistoryEntry{
		FamilyID:    familyID,
		MemberID:    payload.MemberID,
		Action:      payload.Action,
		Description: payload.Description,
	}
	if len(payload.Details) > 0 {
		entry.Details = payload.Details
	}
	return s.Append(ctx, nil, entry)
}

func (s *HistoryService) ListByFamily(ctx context.Context, familyID uint64, memberID *uint64) ([]entities.HistoryRecord, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, familyID, actor); err != nil {
		return nil, err
	}
	return s.repo.ListByFamily(ctx, familyID, memberID)
}

// ListAll - общий журнал, страницы от новых к старым.
func (s *HistoryService) ListAll(ctx context.Context, page, limit int, search string) (*dto.HistoryPageDTO, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.IsAdmin(actor) {
		return nil, apperrors.ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = utils.DefaultLimit
	}
	if limit > utils.MaxLimit {
		limit = utils.MaxLimit
	}

	records, total, err := s.repo.ListAll(ctx, limit, (page-1)*limit, search)
	if err != nil {
		return nil, err
	}
	return &dto.HistoryPageDTO{
		Records:   records,
		Total:     total,
		Page:      page,
		Limit:     limit,
		PageCount: types.PageCount(total, limit),
	}, nil
}

// Delete доступен только администратору.
func (s *HistoryService) Delete(ctx context.Context, historyID uint64) error {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	if !authz.IsAdmin(actor) {
		s.logger.Warn("попытка удаления истории без прав",
			zap.Uint64("userID", claims.UserID),
			zap.String("role", actor.Role.String()),
			zap.Uint64("historyID", historyID),
		)
		return apperrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, historyID); err != nil {
		return err
	}
	s.logger.Info("запись истории удалена", zap.Uint64("historyID", historyID), zap.Uint64("userID", claims.UserID))
	return nil
}
