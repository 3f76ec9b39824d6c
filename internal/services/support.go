package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"

	"go.uber.org/zap"
)

type SupportServiceInterface interface {
	List(ctx context.Context, filter repositories.SupportFilter) ([]entities.SupportMeasure, error)
	Get(ctx context.Context, id uint64) (*entities.SupportMeasure, error)
	Create(ctx context.Context, payload dto.CreateSupportMeasureDTO) (*entities.SupportMeasure, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateSupportMeasureDTO) (*entities.SupportMeasure, error)
	Delete(ctx context.Context, id uint64) error
}

type SupportService struct {
	supportRepo repositories.SupportRepositoryInterface
	familyRepo  repositories.FamilyRepositoryInterface
	history     HistoryServiceInterface
	logger      *zap.Logger
}

func NewSupportService(
	supportRepo repositories.SupportRepositoryInterface,
	familyRepo repositories.FamilyRepositoryInterface,
	history HistoryServiceInterface,
	logger *zap.Logger,
) SupportServiceInterface {
	return &SupportService{supportRepo: supportRepo, familyRepo: familyRepo, history: history, logger: logger}
}

var supportStatusLabels = map[string]string{
	entities.SupportStatusInProgress: "в работе",
	entities.SupportStatusCompleted:  "завершена",
	entities.SupportStatusCancelled:  "отменена",
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return nil, apperrors.NewFieldError(field, "Дата должна быть в формате ГГГГ-ММ-ДД")
	}
	return &date, nil
}

func checkPeriod(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperrors.NewFieldError("end_date", "Дата окончания не может быть раньше даты начала")
	}
	return nil
}

// List без family_id для районного специалиста ограничен его районом.
func (s *SupportService) List(ctx context.Context, filter repositories.SupportFilter) ([]entities.SupportMeasure, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if filter.FamilyID != nil {
		if _, err := loadFamilyForActor(ctx, s.familyRepo, *filter.FamilyID, actor); err != nil {
			return nil, err
		}
	} else {
		if !authz.HasJurisdiction(actor) {
			return nil, apperrors.ErrForbidden
		}
		filter.District = authz.FamilyScope(actor)
	}
	return s.supportRepo.List(ctx, filter)
}

func (s *SupportService) load(ctx context.Context, id uint64) (*entities.SupportMeasure, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	measure, err := s.supportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, measure.FamilyID, actor); err != nil {
		return nil, err
	}
	return measure, nil
}

func (s *SupportService) Get(ctx context.Context, id uint64) (*entities.SupportMeasure, error) {
	return s.load(ctx, id)
}

func (s *SupportService) Create(ctx context.Context, p dto.CreateSupportMeasureDTO) (*entities.SupportMeasure, error) {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, p.FamilyID, actor); err != nil {
		return nil, err
	}
	if p.Cost < 0 {
		return nil, apperrors.NewFieldError("cost", "Стоимость не может быть отрицательной")
	}

	measure := &entities.SupportMeasure{
		FamilyID:    p.FamilyID,
		Category:    p.Category,
		Title:       strings.TrimSpace(p.Title),
		Description: optStringPtr(p.Description),
		Status:      p.Status,
		Cost:        p.Cost,
		Provider:    optStringPtr(p.Provider),
		CreatedBy:   utils.ToPtr(claims.UserID),
	}
	if measure.Status == "" {
		measure.Status = entities.SupportStatusInProgress
	}
	if measure.StartDate, err = parseOptionalDate("start_date", utils.SafeDeref(p.StartDate)); err != nil {
		return nil, err
	}
	if measure.EndDate, err = parseOptionalDate("end_date", utils.SafeDeref(p.EndDate)); err != nil {
		return nil, err
	}
	if err := checkPeriod(measure.StartDate, measure.EndDate); err != nil {
		return nil, err
	}

	if err := s.supportRepo.Create(ctx, measure); err != nil {
		return nil, err
	}

	s.history.Record(ctx, HistoryEntry{
		FamilyID:    measure.FamilyID,
		Action:      entities.ActionSupportAdded,
		Description: fmt.Sprintf("Назначена мера поддержки: %s", measure.Title),
		Details: map[string]interface{}{
			"support_id": measure.ID,
			"category":   measure.Category,
			"status":     measure.Status,
			"cost":       measure.Cost,
		},
	})
	return measure, nil
}

func (s *SupportService) Update(ctx context.Context, id uint64, p dto.UpdateSupportMeasureDTO) (*entities.SupportMeasure, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if p.Category.Valid {
		updated.Category = p.Category.String
	}
	if p.Title.Valid {
		updated.Title = strings.TrimSpace(p.Title.String)
	}
	if p.Description.Valid {
		updated.Description = optString(p.Description.String)
	}
	if p.Status.Valid {
		if !entities.CanTransitionSupportStatus(current.Status, p.Status.String) {
			return nil, apperrors.NewFieldError("status", "Нельзя изменить статус меры: %s → %s",
				supportStatusLabels[current.Status], supportStatusLabels[p.Status.String])
		}
		updated.Status = p.Status.String
	}
	if p.Cost.Valid {
		if p.Cost.Float64 < 0 {
			return nil, apperrors.NewFieldError("cost", "Стоимость не может быть отрицательной")
		}
		updated.Cost = p.Cost.Float64
	}
	if p.Provider.Valid {
		updated.Provider = optString(p.Provider.String)
	}
	if p.StartDate.Valid {
		if updated.StartDate, err = parseOptionalDate("start_date", p.StartDate.String); err != nil {
			return nil, err
		}
	}
	if p.EndDate.Valid {
		if updated.EndDate, err = parseOptionalDate("end_date", p.EndDate.String); err != nil {
			return nil, err
		}
	}
	if err := checkPeriod(updated.StartDate, updated.EndDate); err != nil {
		return nil, err
	}

	if err := s.supportRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Обновлена мера поддержки: %s", updated.Title)
	if updated.Status != current.Status {
		description = fmt.Sprintf("Мера поддержки «%s» %s", updated.Title, supportStatusLabels[updated.Status])
	}
	s.history.Record(ctx, HistoryEntry{
		FamilyID:    updated.FamilyID,
		Action:      entities.ActionSupportUpdated,
		Description: description,
		Details: map[string]interface{}{
			"support_id": updated.ID,
			"old_status": current.Status,
			"new_status": updated.Status,
		},
	})
	return &updated, nil
}

func (s *SupportService) Delete(ctx context.Context, id uint64) error {
	measure, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.supportRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.history.Record(ctx, HistoryEntry{
		FamilyID:    measure.FamilyID,
		Action:      entities.ActionSupportRemoved,
		Description: fmt.Sprintf("Удалена мера поддержки: %s", measure.Title),
		Details:     map[string]interface{}{"support_id": measure.ID, "category": measure.Category},
	})
	return nil
}
