package repositories

import (
	"errors"
	"net/http"
	"testing"

	apperrors "family-registry/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	assert.NoError(t, mapPgError("op", nil))
	assert.ErrorIs(t, mapPgError("op", pgx.ErrNoRows), apperrors.ErrNotFound)
	assert.ErrorIs(t, mapPgError("op", &pgconn.PgError{Code: pgUniqueViolation}), apperrors.ErrConflict)
	assert.ErrorIs(t, mapPgError("op", &pgconn.PgError{Code: pgForeignKeyViolation}), apperrors.ErrNotFound)

	check := mapPgError("families.update", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "families_risk_level_check"})
	assert.ErrorIs(t, check, apperrors.ErrBadRequest)
	assert.Contains(t, check.Error(), "families_risk_level_check")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(check))

	other := mapPgError("families.update", errors.New("connection reset"))
	assert.ErrorIs(t, other, apperrors.ErrStore)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(other))
}
