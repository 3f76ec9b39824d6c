package services

import (
	"context"
	"testing"

	"family-registry/internal/authz"
	"family-registry/internal/entities"
	apperrors "family-registry/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStatisticsRepo struct {
	districts []string
}

func (r *stubStatisticsRepo) FamilyStatistics(_ context.Context, district string) (*entities.FamilyStatistics, error) {
	r.districts = append(r.districts, district)
	return &entities.FamilyStatistics{TotalFamilies: 3}, nil
}

func (r *stubStatisticsRepo) MapPoints(_ context.Context, district string) ([]entities.MapPoint, error) {
	r.districts = append(r.districts, district)
	return []entities.MapPoint{{District: district}}, nil
}

func TestStatisticsScope(t *testing.T) {
	repo := &stubStatisticsRepo{}
	svc := NewStatisticsService(repo, zap.NewNop())

	stats, err := svc.FamilyStatistics(ctxAs(authz.RoleAdmin, ""))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalFamilies)

	_, err = svc.FamilyStatistics(ctxAs(authz.RoleDistrict, "Алмалинский"))
	require.NoError(t, err)
	_, err = svc.MapPoints(ctxAs(authz.RoleMobile, "Алмалинский"))
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Алмалинский", ""}, repo.districts)
}

func TestStatisticsDenied(t *testing.T) {
	repo := &stubStatisticsRepo{}
	svc := NewStatisticsService(repo, zap.NewNop())

	_, err := svc.FamilyStatistics(ctxAs(authz.RoleSchool, ""))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.MapPoints(ctxAs(authz.RoleSocial, ""))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.FamilyStatistics(ctxAs(authz.RoleDistrict, ""))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.FamilyStatistics(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Empty(t, repo.districts)
}
