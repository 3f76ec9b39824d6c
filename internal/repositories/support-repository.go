package repositories

import (
	"context"
	"time"

	"family-registry/internal/entities"
	db "family-registry/internal/infrastructure/bd"
	apperrors "family-registry/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var supportColumns = []string{
	"id", "family_id", "category", "title", "description", "status", "cost::float8",
	"provider", "start_date", "end_date", "created_by", "created_at", "updated_at",
}

type SupportFilter struct {
	FamilyID *uint64
	Category string
	Status   string
	District string
}

type SupportRepositoryInterface interface {
	List(ctx context.Context, filter SupportFilter) ([]entities.SupportMeasure, error)
	FindByID(ctx context.Context, id uint64) (*entities.SupportMeasure, error)
	Create(ctx context.Context, measure *entities.SupportMeasure) error
	Update(ctx context.Context, measure *entities.SupportMeasure) error
	Delete(ctx context.Context, id uint64) error
	Report(ctx context.Context, filter entities.SupportReportFilter) ([]entities.SupportReportItem, uint64, float64, error)
}

type SupportRepository struct {
	storage *pgxpool.Pool
}

func NewSupportRepository(storage *pgxpool.Pool) SupportRepositoryInterface {
	return &SupportRepository{storage: storage}
}

func scanSupport(row pgx.Row) (*entities.SupportMeasure, error) {
	var s entities.SupportMeasure
	err := row.Scan(
		&s.ID, &s.FamilyID, &s.Category, &s.Title, &s.Description, &s.Status, &s.Cost,
		&s.Provider, &s.StartDate, &s.EndDate, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupportRepository) List(ctx context.Context, filter SupportFilter) ([]entities.SupportMeasure, error) {
	builder := db.Psql.Select(supportColumns...).From("support_measures").OrderBy("created_at DESC", "id DESC")
	if filter.FamilyID != nil {
		builder = builder.Where(sq.Eq{"family_id": *filter.FamilyID})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.District != "" {
		builder = builder.Where("family_id IN (SELECT id FROM families WHERE district = ?)", filter.District)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperrors.StoreError("support.list", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.StoreError("support.list", err)
	}
	defer rows.Close()

	measures := make([]entities.SupportMeasure, 0)
	for rows.Next() {
		s, err := scanSupport(rows)
		if err != nil {
			return nil, apperrors.StoreError("support.scan", err)
		}
		measures = append(measures, *s)
	}
	return measures, rows.Err()
}

func (r *SupportRepository) FindByID(ctx context.Context, id uint64) (*entities.SupportMeasure, error) {
	query, args, err := db.Psql.Select(supportColumns...).From("support_measures").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, apperrors.StoreError("support.find", err)
	}
	s, err := scanSupport(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError("support.find", err)
	}
	return s, nil
}

func (r *SupportRepository) Create(ctx context.Context, s *entities.SupportMeasure) error {
	query, args, err := db.Psql.Insert("support_measures").
		Columns("family_id", "category", "title", "description", "status", "cost", "provider", "start_date", "end_date", "created_by").
		Values(s.FamilyID, s.Category, s.Title, s.Description, s.Status, s.Cost, s.Provider, s.StartDate, s.EndDate, s.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return apperrors.StoreError("support.create", err)
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return mapPgError("support.create", err)
	}
	return nil
}

func (r *SupportRepository) Update(ctx context.Context, s *entities.SupportMeasure) error {
	now := time.Now()
	query, args, err := db.Psql.Update("support_measures").
		SetMap(map[string]interface{}{
			"category":    s.Category,
			"title":       s.Title,
			"description": s.Description,
			"status":      s.Status,
			"cost":        s.Cost,
			"provider":    s.Provider,
			"start_date":  s.StartDate,
			"end_date":    s.EndDate,
			"updated_at":  now,
		}).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return apperrors.StoreError("support.update", err)
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError("support.update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	s.UpdatedAt = &now
	return nil
}

func (r *SupportRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM support_measures WHERE id = $1", id)
	if err != nil {
		return mapPgError("support.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func reportWhere(builder sq.SelectBuilder, filter entities.SupportReportFilter) sq.SelectBuilder {
	if filter.DateFrom != nil {
		builder = builder.Where(sq.GtOrEq{"s.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		builder = builder.Where(sq.Lt{"s.created_at": filter.DateTo.AddDate(0, 0, 1)})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"s.category": filter.Category})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"s.status": filter.Status})
	}
	if filter.District != "" {
		builder = builder.Where(sq.Eq{"f.district": filter.District})
	}
	return builder
}

// Report - меры поддержки с данными семьи. PerPage <= 0 отдаёт все строки.
func (r *SupportRepository) Report(ctx context.Context, filter entities.SupportReportFilter) ([]entities.SupportReportItem, uint64, float64, error) {
	base := reportWhere(db.Psql.Select().From("support_measures s").Join("families f ON f.id = s.family_id"), filter)

	countSQL, countArgs, err := base.Columns("COUNT(*)", "COALESCE(SUM(s.cost), 0)::float8").ToSql()
	if err != nil {
		return nil, 0, 0, apperrors.StoreError("support.report_count", err)
	}
	var total uint64
	var totalCost float64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total, &totalCost); err != nil {
		return nil, 0, 0, apperrors.StoreError("support.report_count", err)
	}

	builder := base.Columns(
		"s.id", "f.case_number", "f.family_name", "f.district", "s.category", "s.title", "s.status",
		"s.cost::float8", "s.provider", "s.start_date", "s.end_date", "s.created_at",
	).OrderBy("s.created_at DESC", "s.id DESC")
	if filter.PerPage > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		builder = builder.Limit(uint64(filter.PerPage)).Offset(uint64((page - 1) * filter.PerPage))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, 0, apperrors.StoreError("support.report", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, apperrors.StoreError("support.report", err)
	}
	defer rows.Close()

	items := make([]entities.SupportReportItem, 0)
	for rows.Next() {
		var it entities.SupportReportItem
		if err := rows.Scan(
			&it.ID, &it.CaseNumber, &it.FamilyName, &it.District, &it.Category, &it.Title, &it.Status,
			&it.Cost, &it.Provider, &it.StartDate, &it.EndDate, &it.CreatedAt,
		); err != nil {
			return nil, 0, 0, apperrors.StoreError("support.report_scan", err)
		}
		items = append(items, it)
	}
	return items, total, totalCost, rows.Err()
}
