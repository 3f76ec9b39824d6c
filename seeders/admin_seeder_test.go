package seeders

import (
	"context"
	"strings"
	"testing"

	"family-registry/internal/authz"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryUsers struct {
	repositories.UserRepositoryInterface
	byIIN     map[string]*entities.User
	passwords map[uint64]string
	nextID    uint64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byIIN: map[string]*entities.User{}, passwords: map[uint64]string{}}
}

func (m *memoryUsers) FindByIIN(_ context.Context, iin string) (*entities.User, error) {
	if u, ok := m.byIIN[iin]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *memoryUsers) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	m.nextID++
	user.ID = m.nextID
	m.byIIN[user.IIN] = user
	m.passwords[user.ID] = user.Password
	return user, nil
}

func (m *memoryUsers) Update(_ context.Context, user *entities.User) error {
	cp := *user
	m.byIIN[user.IIN] = &cp
	return nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	m.passwords[id] = hash
	return nil
}

func TestSeedAdmin_CreatesThenResets(t *testing.T) {
	repo := newMemoryUsers()
	ctx := context.Background()

	created, err := SeedAdmin(ctx, repo, AdminParams{IIN: "123456789013", Password: "first-pass"}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, created)

	user := repo.byIIN["123456789013"]
	assert.Equal(t, authz.RoleAdmin, user.Role)
	assert.Equal(t, "Администратор системы", user.FullName)
	require.NoError(t, utils.ComparePasswords(repo.passwords[user.ID], "first-pass"))

	repo.byIIN["123456789013"].IsActive = false
	repo.byIIN["123456789013"].Role = authz.RoleSchool

	created, err = SeedAdmin(ctx, repo, AdminParams{IIN: "123456789013", Password: "second-pass", FullName: "Главный админ"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, created)

	user = repo.byIIN["123456789013"]
	assert.True(t, user.IsActive)
	assert.Equal(t, authz.RoleAdmin, user.Role)
	assert.Equal(t, "Главный админ", user.FullName)
	assert.NoError(t, utils.ComparePasswords(repo.passwords[user.ID], "second-pass"))
}

func TestSeedAdmin_RejectsBadInput(t *testing.T) {
	repo := newMemoryUsers()

	_, err := SeedAdmin(context.Background(), repo, AdminParams{IIN: "12345", Password: "long-enough"}, zap.NewNop())
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "iin", vErr.Field)

	_, err = SeedAdmin(context.Background(), repo, AdminParams{IIN: "123456789013", Password: "short"}, zap.NewNop())
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
	assert.Empty(t, repo.byIIN)
}

func TestSeedAdmin_PasswordPolicyMatchesAPI(t *testing.T) {
	repo := newMemoryUsers()

	_, err := SeedAdmin(context.Background(), repo, AdminParams{IIN: "123456789013", Password: strings.Repeat("x", utils.MinPasswordLength-1)}, zap.NewNop())
	require.Error(t, err)

	created, err := SeedAdmin(context.Background(), repo, AdminParams{IIN: "123456789013", Password: strings.Repeat("x", utils.MinPasswordLength)}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, created)
}
