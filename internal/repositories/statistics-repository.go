package repositories

import (
	"context"
	"database/sql"

	"family-registry/internal/entities"
	apperrors "family-registry/pkg/errors"

	"go.uber.org/zap"
)

// Все запросы статистики принимают один аргумент: район ('' - без ограничения).
const (
	statsTotalsQuery = `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE is_active),
		COUNT(*) FILTER (WHERE is_tjs),
		COUNT(*) FILTER (WHERE is_neglectful)
		FROM families WHERE ($1 = '' OR district = $1)`

	statsMembersQuery = `SELECT COUNT(*) FROM family_members m
		JOIN families f ON f.id = m.family_id
		WHERE ($1 = '' OR f.district = $1)`

	statsByRiskQuery = `SELECT risk_level, COUNT(*) FROM families
		WHERE ($1 = '' OR district = $1)
		GROUP BY risk_level ORDER BY risk_level`

	statsByDistrictQuery = `SELECT district, COUNT(*) FROM families
		WHERE ($1 = '' OR district = $1)
		GROUP BY district ORDER BY COUNT(*) DESC, district`

	statsSupportByCategoryQuery = `SELECT s.category, COUNT(*) FROM support_measures s
		JOIN families f ON f.id = s.family_id
		WHERE ($1 = '' OR f.district = $1)
		GROUP BY s.category ORDER BY s.category`

	statsSupportByStatusQuery = `SELECT s.status, COUNT(*) FROM support_measures s
		JOIN families f ON f.id = s.family_id
		WHERE ($1 = '' OR f.district = $1)
		GROUP BY s.status ORDER BY s.status`

	statsSupportCostQuery = `SELECT COALESCE(SUM(s.cost), 0)::float8 FROM support_measures s
		JOIN families f ON f.id = s.family_id
		WHERE ($1 = '' OR f.district = $1)`

	mapDistrictsQuery = `SELECT region, district, city,
		COUNT(*) FILTER (WHERE is_active),
		COUNT(*) FILTER (WHERE is_active AND risk_level = 'high')
		FROM families WHERE ($1 = '' OR district = $1)
		GROUP BY region, district, city
		ORDER BY region, district, city`
)

type StatisticsRepositoryInterface interface {
	FamilyStatistics(ctx context.Context, district string) (*entities.FamilyStatistics, error)
	MapPoints(ctx context.Context, district string) ([]entities.MapPoint, error)
}

// StatisticsRepository работает через database/sql на драйвере pgx: только чтение агрегатов.
type StatisticsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStatisticsRepository(db *sql.DB, logger *zap.Logger) StatisticsRepositoryInterface {
	return &StatisticsRepository{db: db, logger: logger}
}

func (r *StatisticsRepository) FamilyStatistics(ctx context.Context, district string) (*entities.FamilyStatistics, error) {
	stats := &entities.FamilyStatistics{}

	if err := r.db.QueryRowContext(ctx, statsTotalsQuery, district).Scan(
		&stats.TotalFamilies, &stats.ActiveFamilies, &stats.TJSFamilies, &stats.NeglectfulFamilies,
	); err != nil {
		return nil, apperrors.StoreError("statistics.totals", err)
	}
	if err := r.db.QueryRowContext(ctx, statsMembersQuery, district).Scan(&stats.TotalMembers); err != nil {
		return nil, apperrors.StoreError("statistics.members", err)
	}

	var err error
	if stats.ByRisk, err = r.groupCounts(ctx, statsByRiskQuery, district); err != nil {
		return nil, err
	}
	if stats.ByDistrict, err = r.groupCounts(ctx, statsByDistrictQuery, district); err != nil {
		return nil, err
	}
	if stats.SupportByCategory, err = r.groupCounts(ctx, statsSupportByCategoryQuery, district); err != nil {
		return nil, err
	}
	if stats.SupportByStatus, err = r.groupCounts(ctx, statsSupportByStatusQuery, district); err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx, statsSupportCostQuery, district).Scan(&stats.TotalSupportCost); err != nil {
		return nil, apperrors.StoreError("statistics.support_cost", err)
	}

	return stats, nil
}

func (r *StatisticsRepository) groupCounts(ctx context.Context, query, district string) ([]entities.GroupCount, error) {
	rows, err := r.db.QueryContext(ctx, query, district)
	if err != nil {
		return nil, apperrors.StoreError("statistics.group", err)
	}
	defer rows.Close()

	result := make([]entities.GroupCount, 0)
	for rows.Next() {
		var gc entities.GroupCount
		if err := rows.Scan(&gc.Name, &gc.Count); err != nil {
			return nil, apperrors.StoreError("statistics.group_scan", err)
		}
		result = append(result, gc)
	}
	return result, rows.Err()
}

func (r *StatisticsRepository) MapPoints(ctx context.Context, district string) ([]entities.MapPoint, error) {
	rows, err := r.db.QueryContext(ctx, mapDistrictsQuery, district)
	if err != nil {
		return nil, apperrors.StoreError("statistics.map", err)
	}
	defer rows.Close()

	points := make([]entities.MapPoint, 0)
	for rows.Next() {
		var p entities.MapPoint
		if err := rows.Scan(&p.Region, &p.District, &p.City, &p.ActiveFamilies, &p.HighRisk); err != nil {
			return nil, apperrors.StoreError("statistics.map_scan", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
