package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"

	"go.uber.org/zap"
)

type FamilyMemberServiceInterface interface {
	ListByFamily(ctx context.Context, familyID uint64) ([]entities.FamilyMember, error)
	Get(ctx context.Context, id uint64) (*entities.FamilyMember, error)
	Create(ctx context.Context, payload dto.CreateFamilyMemberDTO) (*entities.FamilyMember, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateFamilyMemberDTO) (*entities.FamilyMember, error)
	Delete(ctx context.Context, id uint64) error
}

type FamilyMemberService struct {
	memberRepo repositories.FamilyMemberRepositoryInterface
	familyRepo repositories.FamilyRepositoryInterface
	history    HistoryServiceInterface
	logger     *zap.Logger
}

func NewFamilyMemberService(
	memberRepo repositories.FamilyMemberRepositoryInterface,
	familyRepo repositories.FamilyRepositoryInterface,
	history HistoryServiceInterface,
	logger *zap.Logger,
) FamilyMemberServiceInterface {
	return &FamilyMemberService{memberRepo: memberRepo, familyRepo: familyRepo, history: history, logger: logger}
}

func parseBirthDate(raw string) (time.Time, error) {
	date, err := time.Parse(dto.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.NewFieldError("birth_date", "Дата рождения должна быть в формате ГГГГ-ММ-ДД")
	}
	if date.After(time.Now()) {
		return time.Time{}, apperrors.NewFieldError("birth_date", "Дата рождения не может быть в будущем")
	}
	return date, nil
}

func (s *FamilyMemberService) ListByFamily(ctx context.Context, familyID uint64) ([]entities.FamilyMember, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, familyID, actor); err != nil {
		return nil, err
	}
	return s.memberRepo.ListByFamily(ctx, familyID)
}

// loadMember находит члена семьи и проверяет доступ к его семье.
func (s *FamilyMemberService) loadMember(ctx context.Context, id uint64) (*entities.FamilyMember, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, member.FamilyID, actor); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *FamilyMemberService) Get(ctx context.Context, id uint64) (*entities.FamilyMember, error) {
	return s.loadMember(ctx, id)
}

func (s *FamilyMemberService) Create(ctx context.Context, p dto.CreateFamilyMemberDTO) (*entities.FamilyMember, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, p.FamilyID, actor); err != nil {
		return nil, err
	}
	birthDate, err := parseBirthDate(p.BirthDate)
	if err != nil {
		return nil, err
	}

	member := &entities.FamilyMember{
		FamilyID:       p.FamilyID,
		LastName:       strings.TrimSpace(p.LastName),
		FirstName:      strings.TrimSpace(p.FirstName),
		MiddleName:     optStringPtr(p.MiddleName),
		BirthDate:      birthDate,
		Relation:       p.Relation,
		DocumentNumber: optStringPtr(p.DocumentNumber),
		Education:      optStringPtr(p.Education),
		HealthStatus:   optStringPtr(p.HealthStatus),
		IsStudying:     p.IsStudying,
		HasDisability:  p.HasDisability,
		NeedsSupport:   p.NeedsSupport,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.history.Record(ctx, HistoryEntry{
		FamilyID:    member.FamilyID,
		MemberID:    utils.ToPtr(member.ID),
		Action:      entities.ActionMemberAdded,
		Description: fmt.Sprintf("Добавлен член семьи: %s", member.FullName()),
	})
	return member, nil
}

func (s *FamilyMemberService) Update(ctx context.Context, id uint64, p dto.UpdateFamilyMemberDTO) (*entities.FamilyMember, error) {
	current, err := s.loadMember(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if p.LastName.Valid {
		updated.LastName = strings.TrimSpace(p.LastName.String)
	}
	if p.FirstName.Valid {
		updated.FirstName = strings.TrimSpace(p.FirstName.String)
	}
	if p.MiddleName.Valid {
		updated.MiddleName = optString(p.MiddleName.String)
	}
	if p.BirthDate.Valid {
		if updated.BirthDate, err = parseBirthDate(p.BirthDate.String); err != nil {
			return nil, err
		}
	}
	if p.Relation.Valid {
		updated.Relation = p.Relation.String
	}
	if p.DocumentNumber.Valid {
		updated.DocumentNumber = optString(p.DocumentNumber.String)
	}
	if p.Education.Valid {
		updated.Education = optString(p.Education.String)
	}
	if p.HealthStatus.Valid {
		updated.HealthStatus = optString(p.HealthStatus.String)
	}
	if p.IsStudying.Valid {
		updated.IsStudying = p.IsStudying.Bool
	}
	if p.HasDisability.Valid {
		updated.HasDisability = p.HasDisability.Bool
	}
	if p.NeedsSupport.Valid {
		updated.NeedsSupport = p.NeedsSupport.Bool
	}

	changes := diffMember(current, &updated)
	if len(changes) == 0 {
		return current, nil
	}
	if err := s.memberRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.history.Record(ctx, HistoryEntry{
		FamilyID:    updated.FamilyID,
		MemberID:    utils.ToPtr(updated.ID),
		Action:      entities.ActionMemberUpdated,
		Description: fmt.Sprintf("Изменены данные члена семьи %s: %s", updated.FullName(), joinDescriptions(changes)),
		Details:     map[string]interface{}{"changes": changes},
	})
	return &updated, nil
}

// Delete удаляет члена семьи. Его записи в журнале остаются без изменений.
func (s *FamilyMemberService) Delete(ctx context.Context, id uint64) error {
	member, err := s.loadMember(ctx, id)
	if err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.history.Record(ctx, HistoryEntry{
		FamilyID:    member.FamilyID,
		MemberID:    utils.ToPtr(member.ID),
		Action:      entities.ActionMemberRemoved,
		Description: fmt.Sprintf("Удалён член семьи: %s", member.FullName()),
		Details:     map[string]interface{}{"member_id": member.ID, "relation": member.Relation},
	})
	return nil
}

func diffMember(old, new *entities.FamilyMember) []FieldChange {
	var changes []FieldChange
	str := func(field, label, o, n string) {
		if o != n {
			changes = append(changes, FieldChange{field, label, o, n})
		}
	}
	ptr := func(field, label string, o, n *string) {
		if utils.DiffPtr(o, n) {
			changes = append(changes, FieldChange{field, label, o, n})
		}
	}
	flag := func(field, label string, o, n bool) {
		if o != n {
			changes = append(changes, FieldChange{field, label, o, n})
		}
	}

	str("last_name", "Фамилия", old.LastName, new.LastName)
	str("first_name", "Имя", old.FirstName, new.FirstName)
	ptr("middle_name", "Отчество", old.MiddleName, new.MiddleName)
	if !old.BirthDate.Equal(new.BirthDate) {
		str("birth_date", "Дата рождения", old.BirthDate.Format(dto.DateLayout), new.BirthDate.Format(dto.DateLayout))
	}
	str("relation", "Родство", old.Relation, new.Relation)
	ptr("document_number", "Документ", old.DocumentNumber, new.DocumentNumber)
	ptr("education", "Образование", old.Education, new.Education)
	ptr("health_status", "Здоровье", old.HealthStatus, new.HealthStatus)
	flag("is_studying", "Учится", old.IsStudying, new.IsStudying)
	flag("has_disability", "Инвалидность", old.HasDisability, new.HasDisability)
	flag("needs_support", "Нуждается в поддержке", old.NeedsSupport, new.NeedsSupport)
	return changes
}
