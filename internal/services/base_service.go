package services

import (
	"context"
	"errors"
	"strings"

	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"
)

const systemActorName = "Система"

// currentActor - пользователь текущего запроса.
func currentActor(ctx context.Context) (*dto.UserClaims, authz.Context, error) {
	claims, err := utils.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, authz.Context{}, err
	}
	return claims, claims.AuthContext(), nil
}

// loadFamilyForActor загружает семью и проверяет, что она в юрисдикции пользователя.
func loadFamilyForActor(ctx context.Context, repo repositories.FamilyRepositoryInterface, familyID uint64, actor authz.Context) (*entities.Family, error) {
	family, err := repo.FindByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessDistrict(actor, family.District) {
		return nil, apperrors.ErrForbidden
	}
	return family, nil
}

// checkMemberOfFamily проверяет, что член семьи memberID относится к семье familyID.
func checkMemberOfFamily(ctx context.Context, repo repositories.FamilyMemberRepositoryInterface, familyID uint64, memberID *uint64) error {
	if memberID == nil {
		return nil
	}
	member, err := repo.FindByID(ctx, *memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewFieldError("member_id", "Член семьи не найден")
		}
		return err
	}
	if member.FamilyID != familyID {
		return apperrors.NewFieldError("member_id", "Член семьи не относится к этой семье")
	}
	return nil
}

// optString превращает пустую строку в nil.
func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optString(*s)
}
