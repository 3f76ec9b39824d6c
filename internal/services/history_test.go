package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	apperrors "family-registry/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHistoryFixture() (*HistoryService, *fakeHistoryRepo) {
	repo := &fakeHistoryRepo{}
	families := newFakeFamilyRepo(
		entities.Family{ID: 1, CaseNumber: "001", District: "Алмалинский", IsActive: true},
		entities.Family{ID: 2, CaseNumber: "002", District: "Бостандыкский", IsActive: true},
	)
	members := newFakeMemberRepo()
	members.members[11] = &entities.FamilyMember{ID: 11, FamilyID: 1}
	members.members[21] = &entities.FamilyMember{ID: 21, FamilyID: 2}
	svc := NewHistoryService(repo, families, members, zap.NewNop()).(*HistoryService)
	return svc, repo
}

func TestHistoryAppendThenListNewestFirst(t *testing.T) {
	svc, _ := newHistoryFixture()
	ctx := ctxAs(authz.RoleSocial, "")

	_, err := svc.Create(ctx, 1, dto.CreateHistoryDTO{Action: entities.ActionDataUpdated, Description: "первая"})
	require.NoError(t, err)
	created, err := svc.Create(ctx, 1, dto.CreateHistoryDTO{Action: entities.ActionStatusChanged, Description: "вторая"})
	require.NoError(t, err)

	list, err := svc.ListByFamily(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Тестовый Пользователь", list[0].UserName)
	require.NotNil(t, list[0].UserID)
	assert.Equal(t, uint64(7), *list[0].UserID)
}

func TestHistoryCreateRejectsUnknownAction(t *testing.T) {
	svc, repo := newHistoryFixture()
	_, err := svc.Create(ctxAs(authz.RoleAdmin, ""), 1, dto.CreateHistoryDTO{Action: "edited", Description: "x"})

	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "action", vErr.Field)
	assert.Empty(t, repo.records)
}

func TestHistoryAppendWithoutUserIsSystem(t *testing.T) {
	svc, _ := newHistoryFixture()
	record, err := svc.Append(context.Background(), nil, HistoryEntry{FamilyID: 1, Action: entities.ActionCreated, Description: "импорт"})
	require.NoError(t, err)
	assert.Equal(t, systemActorName, record.UserName)
	assert.Nil(t, record.UserID)
}

func TestHistoryRecordSwallowsStoreError(t *testing.T) {
	svc, repo := newHistoryFixture()
	repo.failErr = apperrors.StoreError("history.create", errors.New("connection reset"))

	assert.NotPanics(t, func() {
		svc.Record(ctxAs(authz.RoleAdmin, ""), HistoryEntry{FamilyID: 1, Action: entities.ActionDataUpdated})
	})
	assert.Empty(t, repo.records)
}

func TestHistoryListAllPagination(t *testing.T) {
	svc, _ := newHistoryFixture()
	admin := ctxAs(authz.RoleAdmin, "")
	for i := 1; i <= 7; i++ {
		_, err := svc.Append(admin, nil, HistoryEntry{FamilyID: 1, Action: entities.ActionDataUpdated, Description: fmt.Sprintf("запись %d", i)})
		require.NoError(t, err)
	}

	page, err := svc.ListAll(admin, 1, 3, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), page.Total)
	assert.Equal(t, 3, page.PageCount)
	require.Len(t, page.Records, 3)
	assert.Equal(t, "запись 7", page.Records[0].Description)

	last, err := svc.ListAll(admin, 3, 3, "")
	require.NoError(t, err)
	require.Len(t, last.Records, 1)
	assert.Equal(t, "запись 1", last.Records[0].Description)

	filtered, err := svc.ListAll(admin, 1, 10, "ЗАПИСЬ 5")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), filtered.Total)
}

func TestHistoryListAllRequiresAdmin(t *testing.T) {
	svc, _ := newHistoryFixture()
	_, err := svc.ListAll(ctxAs(authz.RoleRegional, ""), 1, 10, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestHistoryDelete(t *testing.T) {
	svc, repo := newHistoryFixture()
	record, err := svc.Append(ctxAs(authz.RoleAdmin, ""), nil, HistoryEntry{FamilyID: 1, Action: entities.ActionCreated})
	require.NoError(t, err)

	for _, role := range []authz.Role{authz.RoleSchool, authz.RoleDistrict, authz.RoleRegional, authz.RoleUnknown} {
		err := svc.Delete(ctxAs(role, "Алмалинский"), record.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden, role)
	}
	assert.Len(t, repo.records, 1)

	require.NoError(t, svc.Delete(ctxAs(authz.RoleAdmin, ""), record.ID))
	assert.Empty(t, repo.records)
	assert.ErrorIs(t, svc.Delete(ctxAs(authz.RoleAdmin, ""), record.ID), apperrors.ErrNotFound)
}

func TestHistoryOutsideDistrictForbidden(t *testing.T) {
	svc, _ := newHistoryFixture()
	_, err := svc.ListByFamily(ctxAs(authz.RoleDistrict, "Алмалинский"), 2, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestHistoryCreateChecksMemberFamily(t *testing.T) {
	svc, repo := newHistoryFixture()
	ctx := ctxAs(authz.RoleAdmin, "")
	own, other := uint64(11), uint64(21)

	_, err := svc.Create(ctx, 1, dto.CreateHistoryDTO{Action: entities.ActionMemberUpdated, Description: "чужой", MemberID: &other})
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "member_id", vErr.Field)

	missing := uint64(999)
	_, err = svc.Create(ctx, 1, dto.CreateHistoryDTO{Action: entities.ActionMemberUpdated, Description: "нет такого", MemberID: &missing})
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, repo.records)

	record, err := svc.Create(ctx, 1, dto.CreateHistoryDTO{Action: entities.ActionMemberUpdated, Description: "свой", MemberID: &own})
	require.NoError(t, err)
	require.NotNil(t, record.MemberID)
	assert.Equal(t, own, *record.MemberID)
}

func TestHistoryUnknownRoleDenied(t *testing.T) {
	svc, repo := newHistoryFixture()
	ctx := ctxAs(authz.RoleUnknown, "")

	_, err := svc.Create(ctx, 1, dto.CreateHistoryDTO{Action: entities.ActionDataUpdated, Description: "запись"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.ListByFamily(ctx, 1, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, repo.records)
}
