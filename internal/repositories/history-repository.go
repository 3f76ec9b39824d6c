package repositories

import (
	"context"

	"family-registry/internal/entities"
	db "family-registry/internal/infrastructure/bd"
	apperrors "family-registry/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var historyColumns = []string{
	"id", "family_id", "member_id", "action", "description", "details", "user_id", "user_name", "created_at",
}

// HistoryRepositoryInterface не содержит операции изменения записи.
type HistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, record *entities.HistoryRecord) error
	ListByFamily(ctx context.Context, familyID uint64, memberID *uint64) ([]entities.HistoryRecord, error)
	ListAll(ctx context.Context, limit, offset int, search string) ([]entities.HistoryRecord, uint64, error)
	Delete(ctx context.Context, id uint64) error
}

type HistoryRepository struct {
	storage *pgxpool.Pool
}

func NewHistoryRepository(storage *pgxpool.Pool) HistoryRepositoryInterface {
	return &HistoryRepository{storage: storage}
}

func scanHistory(row pgx.Row) (*entities.HistoryRecord, error) {
	var h entities.HistoryRecord
	var action string
	if err := row.Scan(
		&h.ID, &h.FamilyID, &h.MemberID, &action, &h.Description, &h.Details, &h.UserID, &h.UserName, &h.CreatedAt,
	); err != nil {
		return nil, err
	}
	h.Action = entities.HistoryAction(action)
	return &h, nil
}

func collectHistory(rows pgx.Rows) ([]entities.HistoryRecord, error) {
	defer rows.Close()
	records := make([]entities.HistoryRecord, 0)
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, apperrors.StoreError("history.scan", err)
		}
		records = append(records, *h)
	}
	return records, rows.Err()
}

// CreateInTx пишет запись; tx может быть nil. Время назначает сервер БД.
func (r *HistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, h *entities.HistoryRecord) error {
	var details interface{}
	if len(h.Details) > 0 {
		details = string(h.Details)
	}
	query, args, err := db.Psql.Insert("history_records").
		Columns("family_id", "member_id", "action", "description", "details", "user_id", "user_name").
		Values(h.FamilyID, h.MemberID, string(h.Action), h.Description, details, h.UserID, h.UserName).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return apperrors.StoreError("history.create", err)
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&h.ID, &h.CreatedAt); err != nil {
		return mapPgError("history.create", err)
	}
	return nil
}

// ListByFamily - от новых к старым.
func (r *HistoryRepository) ListByFamily(ctx context.Context, familyID uint64, memberID *uint64) ([]entities.HistoryRecord, error) {
	builder := db.Psql.Select(historyColumns...).From("history_records").
		Where(sq.Eq{"family_id": familyID}).
		OrderBy("created_at DESC", "id DESC")
	if memberID != nil {
		builder = builder.Where(sq.Eq{"member_id": *memberID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperrors.StoreError("history.list", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.StoreError("history.list", err)
	}
	return collectHistory(rows)
}

func (r *HistoryRepository) ListAll(ctx context.Context, limit, offset int, search string) ([]entities.HistoryRecord, uint64, error) {
	base := db.ApplySearch(db.Psql.Select().From("history_records"), search, "action", "description", "user_name")

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, apperrors.StoreError("history.count", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.StoreError("history.count", err)
	}

	query, args, err := base.Columns(historyColumns...).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, apperrors.StoreError("history.list_all", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.StoreError("history.list_all", err)
	}
	records, err := collectHistory(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *HistoryRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM history_records WHERE id = $1", id)
	if err != nil {
		return mapPgError("history.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
