package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/filestorage"
	"family-registry/pkg/types"
	"family-registry/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FamilyServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Family, uint64, error)
	Get(ctx context.Context, id uint64) (*dto.FamilyDetailsDTO, error)
	Create(ctx context.Context, payload dto.CreateFamilyDTO) (*entities.Family, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateFamilyDTO) (*entities.Family, error)
	Delete(ctx context.Context, id uint64) error
}

type FamilyService struct {
	txManager    repositories.TxManagerInterface
	familyRepo   repositories.FamilyRepositoryInterface
	memberRepo   repositories.FamilyMemberRepositoryInterface
	supportRepo  repositories.SupportRepositoryInterface
	documentRepo repositories.DocumentRepositoryInterface
	history      HistoryServiceInterface
	files        filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewFamilyService(
	txManager repositories.TxManagerInterface,
	familyRepo repositories.FamilyRepositoryInterface,
	memberRepo repositories.FamilyMemberRepositoryInterface,
	supportRepo repositories.SupportRepositoryInterface,
	documentRepo repositories.DocumentRepositoryInterface,
	history HistoryServiceInterface,
	files filestorage.FileStorageInterface,
	logger *zap.Logger,
) FamilyServiceInterface {
	return &FamilyService{
		txManager:    txManager,
		familyRepo:   familyRepo,
		memberRepo:   memberRepo,
		supportRepo:  supportRepo,
		documentRepo: documentRepo,
		history:      history,
		files:        files,
		logger:       logger,
	}
}

var errInactiveReasonRequired = apperrors.NewFieldError("inactive_reason", "Укажите причину снятия семьи с учёта")

// normalizeActivity: снятая с учёта семья обязана иметь причину, активная - не имеет её.
func normalizeActivity(f *entities.Family) error {
	if f.IsActive {
		f.InactiveReason = nil
		return nil
	}
	if f.InactiveReason == nil || strings.TrimSpace(*f.InactiveReason) == "" {
		return errInactiveReasonRequired
	}
	return nil
}

func duplicateCaseNumber(err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.NewFieldError("case_number", "Семья с таким номером дела уже зарегистрирована")
	}
	return err
}

func (s *FamilyService) List(ctx context.Context, filter types.Filter) ([]entities.Family, uint64, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.HasJurisdiction(actor) {
		return nil, 0, apperrors.ErrForbidden
	}
	return s.familyRepo.List(ctx, filter, authz.FamilyScope(actor))
}

func (s *FamilyService) Get(ctx context.Context, id uint64) (*dto.FamilyDetailsDTO, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	family, err := loadFamilyForActor(ctx, s.familyRepo, id, actor)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByFamily(ctx, id)
	if err != nil {
		return nil, err
	}
	measures, err := s.supportRepo.List(ctx, repositories.SupportFilter{FamilyID: &id})
	if err != nil {
		return nil, err
	}
	docs, err := s.documentRepo.CountByFamily(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.FamilyDetailsDTO{
		Family:          *family,
		Members:         members,
		SupportMeasures: measures,
		MembersCount:    len(members),
		SupportCount:    len(measures),
		DocumentsCount:  docs,
	}, nil
}

func (s *FamilyService) Create(ctx context.Context, p dto.CreateFamilyDTO) (*entities.Family, error) {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(authz.CanAddFamily, actor) {
		return nil, apperrors.ErrForbidden
	}

	family := &entities.Family{
		CaseNumber:     strings.TrimSpace(p.CaseNumber),
		FamilyName:     strings.TrimSpace(p.FamilyName),
		Address:        strings.TrimSpace(p.Address),
		ActualAddress:  optStringPtr(p.ActualAddress),
		Region:         strings.TrimSpace(p.Region),
		District:       strings.TrimSpace(p.District),
		City:           strings.TrimSpace(p.City),
		IsTJS:          p.IsTJS,
		IsNeglectful:   p.IsNeglectful,
		RiskLevel:      p.RiskLevel,
		Employment:     optStringPtr(p.Employment),
		MonthlyIncome:  p.MonthlyIncome,
		HousingType:    optStringPtr(p.HousingType),
		ChildrenCount:  p.ChildrenCount,
		IsActive:       true,
		InactiveReason: optStringPtr(p.InactiveReason),
		CreatedBy:      utils.ToPtr(claims.UserID),
		UpdatedBy:      utils.ToPtr(claims.UserID),
	}
	if family.RiskLevel == "" {
		family.RiskLevel = entities.RiskLow
	}
	if p.IsActive != nil {
		family.IsActive = *p.IsActive
	}
	if err := normalizeActivity(family); err != nil {
		return nil, err
	}
	if !authz.CanAccessDistrict(actor, family.District) {
		return nil, apperrors.NewFieldError("district", "Можно регистрировать семьи только своего района")
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.familyRepo.CreateInTx(ctx, tx, family); err != nil {
			return duplicateCaseNumber(err)
		}
		_, err := s.history.Append(ctx, tx, HistoryEntry{
			FamilyID:    family.ID,
			Action:      entities.ActionCreated,
			Description: fmt.Sprintf("Семья %s зарегистрирована (дело %s)", family.FamilyName, family.CaseNumber),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("семья зарегистрирована", zap.Uint64("familyID", family.ID), zap.Uint64("userID", claims.UserID))
	return family, nil
}

func (s *FamilyService) Update(ctx context.Context, id uint64, p dto.UpdateFamilyDTO) (*entities.Family, error) {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	current, err := loadFamilyForActor(ctx, s.familyRepo, id, actor)
	if err != nil {
		return nil, err
	}

	updated := *current
	applyFamilyPatch(&updated, p)
	if err := normalizeActivity(&updated); err != nil {
		return nil, err
	}
	if !authz.CanAccessDistrict(actor, updated.District) {
		return nil, apperrors.NewFieldError("district", "Нельзя перевести семью в чужой район")
	}

	statusChanges, dataChanges := diffFamily(current, &updated)
	if len(statusChanges) == 0 && len(dataChanges) == 0 {
		return current, nil
	}

	updated.UpdatedBy = utils.ToPtr(claims.UserID)
	if err := s.familyRepo.Update(ctx, &updated); err != nil {
		return nil, duplicateCaseNumber(err)
	}

	if len(statusChanges) > 0 {
		s.history.Record(ctx, HistoryEntry{
			FamilyID:    id,
			Action:      entities.ActionStatusChanged,
			Description: "Изменён статус: " + joinDescriptions(statusChanges),
			Details:     map[string]interface{}{"changes": statusChanges},
		})
	}
	if len(dataChanges) > 0 {
		s.history.Record(ctx, HistoryEntry{
			FamilyID:    id,
			Action:      entities.ActionDataUpdated,
			Description: "Обновлены данные: " + joinDescriptions(dataChanges),
			Details:     map[string]interface{}{"changes": dataChanges},
		})
	}

	return &updated, nil
}

// Delete удаляет семью со всеми зависимыми записями и файлами документов.
func (s *FamilyService) Delete(ctx context.Context, id uint64) error {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	if !authz.IsAdmin(actor) {
		return apperrors.ErrForbidden
	}

	var urls []string
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		if urls, err = s.documentRepo.URLsByFamilyInTx(ctx, tx, id); err != nil {
			return err
		}
		return s.familyRepo.DeleteInTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	for _, url := range urls {
		if s.files == nil || !s.files.Owns(url) {
			continue
		}
		if err := s.files.Delete(url); err != nil {
			s.logger.Warn("не удалось удалить файл документа", zap.String("url", url), zap.Error(err))
		}
	}
	s.logger.Info("семья удалена", zap.Uint64("familyID", id), zap.Uint64("userID", claims.UserID))
	return nil
}

func applyFamilyPatch(f *entities.Family, p dto.UpdateFamilyDTO) {
	if p.CaseNumber.Valid {
		f.CaseNumber = strings.TrimSpace(p.CaseNumber.String)
	}
	if p.FamilyName.Valid {
		f.FamilyName = strings.TrimSpace(p.FamilyName.String)
	}
	if p.Address.Valid {
		f.Address = strings.TrimSpace(p.Address.String)
	}
	if p.ActualAddress.Valid {
		f.ActualAddress = optString(p.ActualAddress.String)
	}
	if p.Region.Valid {
		f.Region = strings.TrimSpace(p.Region.String)
	}
	if p.District.Valid {
		f.District = strings.TrimSpace(p.District.String)
	}
	if p.City.Valid {
		f.City = strings.TrimSpace(p.City.String)
	}
	if p.IsTJS.Valid {
		f.IsTJS = p.IsTJS.Bool
	}
	if p.IsNeglectful.Valid {
		f.IsNeglectful = p.IsNeglectful.Bool
	}
	if p.RiskLevel.Valid {
		f.RiskLevel = p.RiskLevel.String
	}
	if p.Employment.Valid {
		f.Employment = optString(p.Employment.String)
	}
	if p.MonthlyIncome.Valid {
		f.MonthlyIncome = utils.ToPtr(p.MonthlyIncome.Float64)
	}
	if p.HousingType.Valid {
		f.HousingType = optString(p.HousingType.String)
	}
	if p.ChildrenCount.Valid {
		f.ChildrenCount = p.ChildrenCount.Int
	}
	if p.IsActive.Valid {
		f.IsActive = p.IsActive.Bool
	}
	if p.InactiveReason.Valid {
		f.InactiveReason = optString(p.InactiveReason.String)
	}
}

// FieldChange - одно изменённое поле для журнала.
type FieldChange struct {
	Field string      `json:"field"`
	Label string      `json:"label"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
}

func (c FieldChange) describe() string {
	return fmt.Sprintf("%s: %s → %s", c.Label, formatValue(c.Old), formatValue(c.New))
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "—"
	case bool:
		if val {
			return "да"
		}
		return "нет"
	case *string:
		if val == nil {
			return "—"
		}
		return *val
	case *float64:
		if val == nil {
			return "—"
		}
		return fmt.Sprintf("%.2f", *val)
	}
	return fmt.Sprintf("%v", v)
}

func joinDescriptions(changes []FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, c.describe())
	}
	return strings.Join(parts, "; ")
}

// diffFamily делит изменения на статусные (учёт, ТЖС, Н/Б, риск) и прочие данные.
func diffFamily(old, new *entities.Family) (status []FieldChange, data []FieldChange) {
	if old.IsActive != new.IsActive || utils.DiffPtr(old.InactiveReason, new.InactiveReason) {
		status = append(status, FieldChange{"is_active", "На учёте", old.IsActive, new.IsActive})
		if !new.IsActive {
			status = append(status, FieldChange{"inactive_reason", "Причина снятия", old.InactiveReason, new.InactiveReason})
		}
	}
	if old.IsTJS != new.IsTJS {
		status = append(status, FieldChange{"is_tjs", "ТЖС", old.IsTJS, new.IsTJS})
	}
	if old.IsNeglectful != new.IsNeglectful {
		status = append(status, FieldChange{"is_neglectful", "Н/Б", old.IsNeglectful, new.IsNeglectful})
	}
	if old.RiskLevel != new.RiskLevel {
		status = append(status, FieldChange{"risk_level", "Уровень риска", old.RiskLevel, new.RiskLevel})
	}

	strField := func(field, label, o, n string) {
		if o != n {
			data = append(data, FieldChange{field, label, o, n})
		}
	}
	ptrField := func(field, label string, o, n *string) {
		if utils.DiffPtr(o, n) {
			data = append(data, FieldChange{field, label, o, n})
		}
	}
	strField("case_number", "Номер дела", old.CaseNumber, new.CaseNumber)
	strField("family_name", "Фамилия семьи", old.FamilyName, new.FamilyName)
	strField("address", "Адрес", old.Address, new.Address)
	ptrField("actual_address", "Фактический адрес", old.ActualAddress, new.ActualAddress)
	strField("region", "Область", old.Region, new.Region)
	strField("district", "Район", old.District, new.District)
	strField("city", "Населённый пункт", old.City, new.City)
	ptrField("employment", "Занятость", old.Employment, new.Employment)
	ptrField("housing_type", "Жильё", old.HousingType, new.HousingType)
	if utils.DiffPtr(old.MonthlyIncome, new.MonthlyIncome) {
		data = append(data, FieldChange{"monthly_income", "Доход", old.MonthlyIncome, new.MonthlyIncome})
	}
	if old.ChildrenCount != new.ChildrenCount {
		data = append(data, FieldChange{"children_count", "Количество детей", old.ChildrenCount, new.ChildrenCount})
	}
	return status, data
}
