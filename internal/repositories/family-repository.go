package repositories

import (
	"context"
	"strings"
	"time"

	"family-registry/internal/entities"
	db "family-registry/internal/infrastructure/bd"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const familyTable = "families f"

var familyColumns = []string{
	"f.id", "f.case_number", "f.family_name", "f.address", "f.actual_address",
	"f.region", "f.district", "f.city", "f.is_tjs", "f.is_neglectful", "f.risk_level",
	"f.employment", "f.monthly_income::float8", "f.housing_type", "f.children_count",
	"f.is_active", "f.inactive_reason", "f.created_by", "f.updated_by", "f.created_at", "f.updated_at",
}

var familyAllowedFields = map[string]string{
	"id":             "f.id",
	"case_number":    "f.case_number",
	"family_name":    "f.family_name",
	"risk_level":     "f.risk_level",
	"region":         "f.region",
	"district":       "f.district",
	"city":           "f.city",
	"children_count": "f.children_count",
	"created_at":     "f.created_at",
	"updated_at":     "f.updated_at",
}

// familyStatusFilters - значения filter[status].
var familyStatusFilters = map[string]sq.Sqlizer{
	"tjs":      sq.Eq{"f.is_tjs": true},
	"nb":       sq.Eq{"f.is_neglectful": true},
	"active":   sq.Eq{"f.is_active": true},
	"inactive": sq.Eq{"f.is_active": false},
}

type FamilyRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter, districtScope string) ([]entities.Family, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Family, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, family *entities.Family) error
	Update(ctx context.Context, family *entities.Family) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type FamilyRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFamilyRepository(storage *pgxpool.Pool, logger *zap.Logger) FamilyRepositoryInterface {
	return &FamilyRepository{storage: storage, logger: logger}
}

func scanFamily(row pgx.Row) (*entities.Family, error) {
	var f entities.Family
	err := row.Scan(
		&f.ID, &f.CaseNumber, &f.FamilyName, &f.Address, &f.ActualAddress,
		&f.Region, &f.District, &f.City, &f.IsTJS, &f.IsNeglectful, &f.RiskLevel,
		&f.Employment, &f.MonthlyIncome, &f.HousingType, &f.ChildrenCount,
		&f.IsActive, &f.InactiveReason, &f.CreatedBy, &f.UpdatedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func applyFamilyFilter(builder sq.SelectBuilder, filter types.Filter, districtScope string) sq.SelectBuilder {
	builder = db.ApplyFilters(builder, filter, familyAllowedFields)
	if raw, ok := filter.Filter["status"].(string); ok {
		for _, status := range strings.Split(raw, ",") {
			if cond, ok := familyStatusFilters[strings.TrimSpace(status)]; ok {
				builder = builder.Where(cond)
			}
		}
	}
	if districtScope != "" {
		builder = builder.Where(sq.Eq{"f.district": districtScope})
	}
	return db.ApplySearch(builder, filter.Search, "f.family_name", "f.case_number", "f.address", "f.district")
}

// List возвращает семьи и общее количество. Непустой districtScope ограничивает выборку районом.
func (r *FamilyRepository) List(ctx context.Context, filter types.Filter, districtScope string) ([]entities.Family, uint64, error) {
	base := applyFamilyFilter(db.Psql.Select().From(familyTable), filter, districtScope)

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, apperrors.StoreError("families.count", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.StoreError("families.count", err)
	}
	if total == 0 {
		return []entities.Family{}, 0, nil
	}

	query, args, err := db.ApplySortAndPage(base.Columns(familyColumns...), filter, familyAllowedFields, "f.created_at DESC", "f.id DESC").ToSql()
	if err != nil {
		return nil, 0, apperrors.StoreError("families.list", err)
	}
	r.logger.Debug("families.list", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.StoreError("families.list", err)
	}
	defer rows.Close()

	families := make([]entities.Family, 0)
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, 0, apperrors.StoreError("families.scan", err)
		}
		families = append(families, *f)
	}
	return families, total, rows.Err()
}

func (r *FamilyRepository) FindByID(ctx context.Context, id uint64) (*entities.Family, error) {
	query, args, err := db.Psql.Select(familyColumns...).From(familyTable).Where(sq.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, apperrors.StoreError("families.find", err)
	}
	f, err := scanFamily(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError("families.find", err)
	}
	return f, nil
}

func (r *FamilyRepository) CreateInTx(ctx context.Context, tx pgx.Tx, f *entities.Family) error {
	query, args, err := db.Psql.Insert("families").
		Columns(
			"case_number", "family_name", "address", "actual_address", "region", "district", "city",
			"is_tjs", "is_neglectful", "risk_level", "employment", "monthly_income", "housing_type",
			"children_count", "is_active", "inactive_reason", "created_by", "updated_by",
		).
		Values(
			f.CaseNumber, f.FamilyName, f.Address, f.ActualAddress, f.Region, f.District, f.City,
			f.IsTJS, f.IsNeglectful, f.RiskLevel, f.Employment, f.MonthlyIncome, f.HousingType,
			f.ChildrenCount, f.IsActive, f.InactiveReason, f.CreatedBy, f.UpdatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return apperrors.StoreError("families.create", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return mapPgError("families.create", err)
	}
	return nil
}

func (r *FamilyRepository) Update(ctx context.Context, f *entities.Family) error {
	now := time.Now()
	query, args, err := db.Psql.Update("families").
		SetMap(map[string]interface{}{
			"case_number":     f.CaseNumber,
			"family_name":     f.FamilyName,
			"address":         f.Address,
			"actual_address":  f.ActualAddress,
			"region":          f.Region,
			"district":        f.District,
			"city":            f.City,
			"is_tjs":          f.IsTJS,
			"is_neglectful":   f.IsNeglectful,
			"risk_level":      f.RiskLevel,
			"employment":      f.Employment,
			"monthly_income":  f.MonthlyIncome,
			"housing_type":    f.HousingType,
			"children_count":  f.ChildrenCount,
			"is_active":       f.IsActive,
			"inactive_reason": f.InactiveReason,
			"updated_by":      f.UpdatedBy,
			"updated_at":      now,
		}).
		Where(sq.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return apperrors.StoreError("families.update", err)
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError("families.update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	f.UpdatedAt = &now
	return nil
}

// DeleteInTx удаляет семью, зависимые записи удаляются каскадом.
func (r *FamilyRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := pick(r.storage, tx).Exec(ctx, "DELETE FROM families WHERE id = $1", id)
	if err != nil {
		return mapPgError("families.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
