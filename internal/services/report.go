package services

import (
	"context"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"
	"family-registry/pkg/utils"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	SupportReport(ctx context.Context, filter entities.SupportReportFilter) (*dto.SupportReportDTO, error)
	ExportFamilies(ctx context.Context, filter types.Filter) ([]entities.Family, error)
}

type ReportService struct {
	supportRepo repositories.SupportRepositoryInterface
	familyRepo  repositories.FamilyRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(
	supportRepo repositories.SupportRepositoryInterface,
	familyRepo repositories.FamilyRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{supportRepo: supportRepo, familyRepo: familyRepo, logger: logger}
}

func (s *ReportService) authorize(ctx context.Context, capability authz.Capability) (authz.Context, error) {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return actor, err
	}
	if !authz.CanDo(capability, actor) || !authz.HasJurisdiction(actor) {
		s.logger.Warn("попытка доступа к отчёту без прав",
			zap.Uint64("userID", claims.UserID), zap.String("capability", string(capability)))
		return actor, apperrors.ErrForbidden
	}
	return actor, nil
}

// SupportReport - отчёт по мерам поддержки. PerPage = 0 означает выгрузку всех строк.
func (s *ReportService) SupportReport(ctx context.Context, filter entities.SupportReportFilter) (*dto.SupportReportDTO, error) {
	actor, err := s.authorize(ctx, authz.CanViewReports)
	if err != nil {
		return nil, err
	}
	if scope := authz.FamilyScope(actor); scope != "" {
		filter.District = scope
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, apperrors.NewFieldError("date_to", "Конец периода раньше начала")
	}
	if filter.PerPage > utils.MaxLimit {
		filter.PerPage = utils.MaxLimit
	}
	if filter.PerPage > 0 && filter.Page < 1 {
		filter.Page = 1
	}

	items, total, totalCost, err := s.supportRepo.Report(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.SupportReportDTO{
		Items:     items,
		Total:     total,
		TotalCost: totalCost,
		Page:      filter.Page,
		PerPage:   filter.PerPage,
	}, nil
}

// ExportFamilies - все семьи по фильтру без пагинации.
func (s *ReportService) ExportFamilies(ctx context.Context, filter types.Filter) ([]entities.Family, error) {
	actor, err := s.authorize(ctx, authz.CanExportData)
	if err != nil {
		return nil, err
	}
	filter.WithPagination = false
	families, _, err := s.familyRepo.List(ctx, filter, authz.FamilyScope(actor))
	if err != nil {
		return nil, err
	}
	s.logger.Info("выгрузка семей", zap.Uint64("userID", actor.UserID), zap.Int("count", len(families)))
	return families, nil
}
