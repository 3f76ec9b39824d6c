package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/pkg/config"
	"family-registry/pkg/contextkeys"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/service"
	"family-registry/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "secret-pass"

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeCache, service.JWTService) {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)

	users := newFakeUserRepo(
		entities.User{ID: 1, IIN: "123456789013", Password: hash, FullName: "Администратор", Role: authz.RoleAdmin, IsActive: true},
		entities.User{ID: 2, IIN: "990101300123", Password: hash, FullName: "Отключённый", Role: authz.RoleSchool, IsActive: false},
		entities.User{ID: 3, IIN: "880202400456", Password: hash, FullName: "Без роли", Role: authz.ParseRole("Инспектор"), IsActive: true},
	)
	cache := newFakeCache()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	cfg := &config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: 15 * time.Minute}
	svc := NewAuthService(users, cache, jwtSvc, zap.NewNop(), cfg).(*AuthService)
	return svc, users, cache, jwtSvc
}

func TestLoginSuccess(t *testing.T) {
	svc, _, cache, jwtSvc := newAuthFixture(t)
	cache.data[loginAttemptsKeyPrefix+"123456789013"] = "2"

	res, refresh, err := svc.Login(context.Background(), dto.LoginDTO{IIN: " 123456789013 ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdmin, res.User.Role)
	assert.True(t, res.Permissions.CanManageUsers)
	assert.NotEmpty(t, refresh)

	claims, err := jwtSvc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.False(t, claims.IsRefreshToken)
	assert.NotContains(t, cache.data, loginAttemptsKeyPrefix+"123456789013")
}

func TestLoginRejectsMalformedIINBeforeStore(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	for _, iin := range []string{"12345678901", "1234567890123", "12345678901a", ""} {
		_, _, err := svc.Login(context.Background(), dto.LoginDTO{IIN: iin, Password: testPassword})
		assert.Equal(t, 400, apperrors.StatusCode(err), iin)
	}
	assert.Zero(t, users.findCalls)
}

func TestLoginWrongPasswordLocksOut(t *testing.T) {
	svc, users, cache, _ := newAuthFixture(t)
	key := loginAttemptsKeyPrefix + "123456789013"

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "123456789013", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}
	assert.Equal(t, "3", cache.data[key])
	assert.Equal(t, 15*time.Minute, cache.ttl[key])

	calls := users.findCalls
	_, _, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "123456789013", Password: testPassword})
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)
	assert.Equal(t, 429, apperrors.StatusCode(err))
	assert.Equal(t, calls, users.findCalls)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	_, _, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "990101300123", Password: testPassword})
	assert.ErrorIs(t, err, apperrors.ErrUserInactive)
	assert.Equal(t, 401, apperrors.StatusCode(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, jwtSvc := newAuthFixture(t)
	res, refresh, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "123456789013", Password: testPassword})
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateToken(res.Token)
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), contextkeys.UserClaimsKey, claims.ToUserClaims())

	require.NoError(t, svc.Logout(ctx, refresh))

	revoked, err := svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, _, err = svc.RefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	res, refresh, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "123456789013", Password: testPassword})
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(context.Background(), res.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)

	next, nextRefresh, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, next.Token)
	assert.NotEqual(t, refresh, nextRefresh)

	_, _, err = svc.RefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestSessionUsesStoredRole(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.users[1].Role = authz.RoleSchool

	session, err := svc.Session(ctxAs(authz.RoleAdmin, ""))
	require.Error(t, err)
	assert.Nil(t, session)

	ctx := context.WithValue(context.Background(), contextkeys.UserClaimsKey, &dto.UserClaims{UserID: 1, Role: authz.RoleAdmin})
	session, err = svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleSchool, session.Role)
	assert.False(t, session.Permissions.CanManageUsers)
	for _, item := range session.Navigation {
		assert.NotEqual(t, "users", item.Key)
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	res, refresh, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "880202400456", Password: testPassword})
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)
	assert.Equal(t, 401, apperrors.StatusCode(err))
	assert.Nil(t, res)
	assert.Empty(t, refresh)
}

func TestRefreshRejectsRoleThatBecameUnknown(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	_, refresh, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "123456789013", Password: testPassword})
	require.NoError(t, err)

	users.users[1].Role = authz.RoleUnknown
	_, _, err = svc.RefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)
	assert.Equal(t, 401, apperrors.StatusCode(err))
}

func TestRefreshFailsWhenRevocationStoreFails(t *testing.T) {
	svc, _, cache, _ := newAuthFixture(t)
	_, refresh, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "123456789013", Password: testPassword})
	require.NoError(t, err)

	cache.failErr = apperrors.StoreError("redis.setnx", errors.New("connection refused"))
	res, next, err := svc.RefreshToken(context.Background(), refresh)
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.StatusCode(err))
	assert.Nil(t, res)
	assert.Empty(t, next)
}

func TestConcurrentRefreshSucceedsOnce(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	_, refresh, err := svc.Login(context.Background(), dto.LoginDTO{IIN: "123456789013", Password: testPassword})
	require.NoError(t, err)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.RefreshToken(context.Background(), refresh)
		}(i)
	}
	wg.Wait()

	var ok, revoked int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrTokenRevoked):
			revoked++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, revoked)
}
