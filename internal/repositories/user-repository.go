package repositories

import (
	"context"
	"time"

	"family-registry/internal/authz"
	"family-registry/internal/entities"
	db "family-registry/internal/infrastructure/bd"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userTable = "users"

var userColumns = []string{
	"id", "iin", "password", "full_name", "role", "region", "district", "city",
	"is_active", "created_at", "updated_at",
}

var userAllowedFields = map[string]string{
	"role":       "role",
	"region":     "region",
	"district":   "district",
	"city":       "city",
	"is_active":  "is_active",
	"full_name":  "full_name",
	"created_at": "created_at",
	"id":         "id",
}

type UserRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByIIN(ctx context.Context, iin string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
	Deactivate(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

// scanUser приводит строку роли из БД к каноническому значению.
func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	var role string
	err := row.Scan(
		&user.ID, &user.IIN, &user.Password, &user.FullName, &role,
		&user.Region, &user.District, &user.City,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = authz.ParseRole(role)
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	base := db.Psql.Select().From(userTable)
	base = db.ApplyFilters(base, filter, userAllowedFields)
	base = db.ApplySearch(base, filter.Search, "full_name", "iin", "district")

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, apperrors.StoreError("users.count", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.StoreError("users.count", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	query, args, err := db.ApplySortAndPage(base.Columns(userColumns...), filter, userAllowedFields, "id DESC").ToSql()
	if err != nil {
		return nil, 0, apperrors.StoreError("users.list", err)
	}
	r.logger.Debug("users.list", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.StoreError("users.list", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, apperrors.StoreError("users.scan", err)
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	query, args, err := db.Psql.Select(userColumns...).From(userTable).Where(where).ToSql()
	if err != nil {
		return nil, apperrors.StoreError("users.find", err)
	}
	user, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError("users.find", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) FindByIIN(ctx context.Context, iin string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"iin": iin})
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query, args, err := db.Psql.Insert(userTable).
		Columns("iin", "password", "full_name", "role", "region", "district", "city", "is_active").
		Values(user.IIN, user.Password, user.FullName, user.Role.String(), user.Region, user.District, user.City, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, apperrors.StoreError("users.create", err)
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, mapPgError("users.create", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	query, args, err := db.Psql.Update(userTable).
		SetMap(map[string]interface{}{
			"full_name":  user.FullName,
			"role":       user.Role.String(),
			"region":     user.Region,
			"district":   user.District,
			"city":       user.City,
			"is_active":  user.IsActive,
			"updated_at": time.Now(),
		}).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return apperrors.StoreError("users.update", err)
	}
	return r.execOne(ctx, "users.update", query, args...)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	return r.execOne(ctx, "users.update_password",
		"UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2", passwordHash, userID)
}

func (r *UserRepository) Deactivate(ctx context.Context, id uint64) error {
	return r.execOne(ctx, "users.deactivate",
		"UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
}

func (r *UserRepository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
