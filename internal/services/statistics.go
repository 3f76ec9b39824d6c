package services

import (
	"context"

	"family-registry/internal/authz"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"

	"go.uber.org/zap"
)

type StatisticsServiceInterface interface {
	FamilyStatistics(ctx context.Context) (*entities.FamilyStatistics, error)
	MapPoints(ctx context.Context) ([]entities.MapPoint, error)
}

type StatisticsService struct {
	repo   repositories.StatisticsRepositoryInterface
	logger *zap.Logger
}

func NewStatisticsService(repo repositories.StatisticsRepositoryInterface, logger *zap.Logger) StatisticsServiceInterface {
	return &StatisticsService{repo: repo, logger: logger}
}

// scope возвращает район, которым ограничены агрегаты для пользователя.
func (s *StatisticsService) scope(ctx context.Context, capability authz.Capability) (string, error) {
	_, actor, err := currentActor(ctx)
	if err != nil {
		return "", err
	}
	if !authz.CanDo(capability, actor) || !authz.HasJurisdiction(actor) {
		return "", apperrors.ErrForbidden
	}
	return authz.FamilyScope(actor), nil
}

func (s *StatisticsService) FamilyStatistics(ctx context.Context) (*entities.FamilyStatistics, error) {
	district, err := s.scope(ctx, authz.CanViewStatistics)
	if err != nil {
		return nil, err
	}
	return s.repo.FamilyStatistics(ctx, district)
}

func (s *StatisticsService) MapPoints(ctx context.Context) ([]entities.MapPoint, error) {
	district, err := s.scope(ctx, authz.CanViewMap)
	if err != nil {
		return nil, err
	}
	return s.repo.MapPoints(ctx, district)
}
