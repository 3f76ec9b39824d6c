package services

import (
	"testing"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	apperrors "family-registry/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFamilyMemberLifecycle(t *testing.T) {
	families := newFakeFamilyRepo(entities.Family{ID: 1, CaseNumber: "A-1", District: "Алмалинский", IsActive: true})
	members := newFakeMemberRepo()
	history := &fakeHistoryRepo{}
	svc := NewFamilyMemberService(members, families, NewHistoryService(history, families, members, zap.NewNop()), zap.NewNop())
	ctx := ctxAs(authz.RoleSocial, "")

	m, err := svc.Create(ctx, dto.CreateFamilyMemberDTO{
		FamilyID: 1, LastName: "Ахметова", FirstName: "Алия", BirthDate: "2012-05-14", Relation: entities.RelationChild,
	})
	require.NoError(t, err)
	require.NotNil(t, history.records[0].MemberID)
	assert.Equal(t, m.ID, *history.records[0].MemberID)

	updated, err := svc.Update(ctx, m.ID, dto.UpdateFamilyMemberDTO{IsStudying: null.BoolFrom(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsStudying)
	assert.Contains(t, history.records[1].Description, "Учится")

	require.NoError(t, svc.Delete(ctx, m.ID))
	removed := history.records[2]
	assert.Equal(t, entities.ActionMemberRemoved, removed.Action)
	require.NotNil(t, removed.MemberID)
	assert.Equal(t, m.ID, *removed.MemberID)
	assert.Contains(t, string(removed.Details), `"member_id"`)
}

func TestFamilyMemberRejectsFutureBirthDate(t *testing.T) {
	families := newFakeFamilyRepo(entities.Family{ID: 1, IsActive: true})
	svc := NewFamilyMemberService(newFakeMemberRepo(), families, NewHistoryService(&fakeHistoryRepo{}, families, newFakeMemberRepo(), zap.NewNop()), zap.NewNop())

	_, err := svc.Create(ctxAs(authz.RoleAdmin, ""), dto.CreateFamilyMemberDTO{
		FamilyID: 1, LastName: "А", FirstName: "Б", BirthDate: "2999-01-01", Relation: entities.RelationChild,
	})
	assert.Equal(t, 400, apperrors.StatusCode(err))
}
