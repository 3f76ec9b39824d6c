package services

import (
	"testing"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSupportFixture() (SupportServiceInterface, *fakeSupportRepo, *fakeHistoryRepo) {
	families := newFakeFamilyRepo(
		entities.Family{ID: 1, CaseNumber: "A-1", District: "Алмалинский", IsActive: true},
		entities.Family{ID: 2, CaseNumber: "B-2", District: "Бостандыкский", IsActive: true},
	)
	repo := newFakeSupportRepo()
	history := &fakeHistoryRepo{}
	svc := NewSupportService(repo, families, NewHistoryService(history, families, newFakeMemberRepo(), zap.NewNop()), zap.NewNop())
	return svc, repo, history
}

func TestSupportCreateDefaultsToInProgress(t *testing.T) {
	svc, _, history := newSupportFixture()
	m, err := svc.Create(ctxAs(authz.RoleSocial, ""), dto.CreateSupportMeasureDTO{
		FamilyID: 1, Category: entities.SupportCategorySocial, Title: "Адресная помощь", Cost: 45000,
		StartDate: utils.ToPtr("2024-03-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.SupportStatusInProgress, m.Status)
	require.NotNil(t, m.StartDate)
	assert.Equal(t, "2024-03-01", m.StartDate.Format(dto.DateLayout))
	assert.Equal(t, []entities.HistoryAction{entities.ActionSupportAdded}, history.actions())
}

func TestSupportCreateRejectsInvertedPeriod(t *testing.T) {
	svc, repo, _ := newSupportFixture()
	_, err := svc.Create(ctxAs(authz.RoleAdmin, ""), dto.CreateSupportMeasureDTO{
		FamilyID: 1, Category: entities.SupportCategoryHealth, Title: "Лечение",
		StartDate: utils.ToPtr("2024-03-10"), EndDate: utils.ToPtr("2024-03-01"),
	})
	assert.Equal(t, 400, apperrors.StatusCode(err))
	assert.Empty(t, repo.measures)
}

func TestSupportStatusLifecycle(t *testing.T) {
	svc, repo, history := newSupportFixture()
	ctx := ctxAs(authz.RoleAdmin, "")
	m, err := svc.Create(ctx, dto.CreateSupportMeasureDTO{FamilyID: 1, Category: entities.SupportCategoryLegal, Title: "Консультация"})
	require.NoError(t, err)

	done, err := svc.Update(ctx, m.ID, dto.UpdateSupportMeasureDTO{Status: null.StringFrom(entities.SupportStatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, entities.SupportStatusCompleted, done.Status)
	assert.Contains(t, history.records[1].Description, "завершена")

	_, err = svc.Update(ctx, m.ID, dto.UpdateSupportMeasureDTO{Status: null.StringFrom(entities.SupportStatusInProgress)})
	assert.Equal(t, 400, apperrors.StatusCode(err))
	assert.Equal(t, entities.SupportStatusCompleted, repo.measures[m.ID].Status)

	_, err = svc.Update(ctx, m.ID, dto.UpdateSupportMeasureDTO{Status: null.StringFrom(entities.SupportStatusCancelled)})
	assert.Error(t, err)
}

func TestSupportListScope(t *testing.T) {
	svc, repo, _ := newSupportFixture()

	_, err := svc.List(ctxAs(authz.RoleDistrict, "Алмалинский"), repositories.SupportFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Алмалинский", repo.lastList.District)

	_, err = svc.List(ctxAs(authz.RoleDistrict, "Алмалинский"), repositories.SupportFilter{FamilyID: utils.ToPtr(uint64(2))})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSupportDeleteRecordsHistory(t *testing.T) {
	svc, repo, history := newSupportFixture()
	ctx := ctxAs(authz.RoleAdmin, "")
	m, err := svc.Create(ctx, dto.CreateSupportMeasureDTO{FamilyID: 2, Category: entities.SupportCategoryCharity, Title: "Продуктовый набор"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.Empty(t, repo.measures)
	assert.Equal(t, entities.ActionSupportRemoved, history.records[len(history.records)-1].Action)
}

func TestCanTransitionSupportStatus(t *testing.T) {
	assert.True(t, entities.CanTransitionSupportStatus(entities.SupportStatusInProgress, entities.SupportStatusCancelled))
	assert.True(t, entities.CanTransitionSupportStatus(entities.SupportStatusCompleted, entities.SupportStatusCompleted))
	assert.False(t, entities.CanTransitionSupportStatus(entities.SupportStatusCancelled, entities.SupportStatusInProgress))
}
