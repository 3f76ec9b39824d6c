package utils

import (
	"context"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/pkg/contextkeys"
	apperrors "family-registry/pkg/errors"
)

func GetClaimsFromContext(ctx context.Context) (*dto.UserClaims, error) {
	claims, ok := ctx.Value(contextkeys.UserClaimsKey).(*dto.UserClaims)
	if !ok || claims == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// GetAuthContext - контекст авторизации текущего пользователя.
func GetAuthContext(ctx context.Context) (authz.Context, error) {
	claims, err := GetClaimsFromContext(ctx)
	if err != nil {
		return authz.Context{}, err
	}
	return claims.AuthContext(), nil
}
