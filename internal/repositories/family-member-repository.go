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

var memberColumns = []string{
	"id", "family_id", "last_name", "first_name", "middle_name", "birth_date", "relation",
	"document_number", "education", "health_status", "is_studying", "has_disability", "needs_support",
	"created_at", "updated_at",
}

type FamilyMemberRepositoryInterface interface {
	ListByFamily(ctx context.Context, familyID uint64) ([]entities.FamilyMember, error)
	FindByID(ctx context.Context, id uint64) (*entities.FamilyMember, error)
	Create(ctx context.Context, member *entities.FamilyMember) error
	Update(ctx context.Context, member *entities.FamilyMember) error
	Delete(ctx context.Context, id uint64) error
}

type FamilyMemberRepository struct {
	storage *pgxpool.Pool
}

func NewFamilyMemberRepository(storage *pgxpool.Pool) FamilyMemberRepositoryInterface {
	return &FamilyMemberRepository{storage: storage}
}

func scanMember(row pgx.Row) (*entities.FamilyMember, error) {
	var m entities.FamilyMember
	err := row.Scan(
		&m.ID, &m.FamilyID, &m.LastName, &m.FirstName, &m.MiddleName, &m.BirthDate, &m.Relation,
		&m.DocumentNumber, &m.Education, &m.HealthStatus, &m.IsStudying, &m.HasDisability, &m.NeedsSupport,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *FamilyMemberRepository) ListByFamily(ctx context.Context, familyID uint64) ([]entities.FamilyMember, error) {
	query, args, err := db.Psql.Select(memberColumns...).From("family_members").
		Where(sq.Eq{"family_id": familyID}).
		OrderBy("birth_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, apperrors.StoreError("members.list", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.StoreError("members.list", err)
	}
	defer rows.Close()

	members := make([]entities.FamilyMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, apperrors.StoreError("members.scan", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *FamilyMemberRepository) FindByID(ctx context.Context, id uint64) (*entities.FamilyMember, error) {
	query, args, err := db.Psql.Select(memberColumns...).From("family_members").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, apperrors.StoreError("members.find", err)
	}
	m, err := scanMember(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError("members.find", err)
	}
	return m, nil
}

func (r *FamilyMemberRepository) Create(ctx context.Context, m *entities.FamilyMember) error {
	query, args, err := db.Psql.Insert("family_members").
		Columns(
			"family_id", "last_name", "first_name", "middle_name", "birth_date", "relation",
			"document_number", "education", "health_status", "is_studying", "has_disability", "needs_support",
		).
		Values(
			m.FamilyID, m.LastName, m.FirstName, m.MiddleName, m.BirthDate, m.Relation,
			m.DocumentNumber, m.Education, m.HealthStatus, m.IsStudying, m.HasDisability, m.NeedsSupport,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return apperrors.StoreError("members.create", err)
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return mapPgError("members.create", err)
	}
	return nil
}

func (r *FamilyMemberRepository) Update(ctx context.Context, m *entities.FamilyMember) error {
	now := time.Now()
	query, args, err := db.Psql.Update("family_members").
		SetMap(map[string]interface{}{
			"last_name":       m.LastName,
			"first_name":      m.FirstName,
			"middle_name":     m.MiddleName,
			"birth_date":      m.BirthDate,
			"relation":        m.Relation,
			"document_number": m.DocumentNumber,
			"education":       m.Education,
			"health_status":   m.HealthStatus,
			"is_studying":     m.IsStudying,
			"has_disability":  m.HasDisability,
			"needs_support":   m.NeedsSupport,
			"updated_at":      now,
		}).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return apperrors.StoreError("members.update", err)
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError("members.update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	m.UpdatedAt = &now
	return nil
}

func (r *FamilyMemberRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM family_members WHERE id = $1", id)
	if err != nil {
		return mapPgError("members.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
