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

var documentColumns = []string{
	"id", "family_id", "member_id", "name", "file_name", "mime_type", "size", "url", "uploaded_by", "created_at",
}

type DocumentRepositoryInterface interface {
	List(ctx context.Context, familyID, memberID *uint64) ([]entities.Document, error)
	FindByID(ctx context.Context, id uint64) (*entities.Document, error)
	Create(ctx context.Context, doc *entities.Document) error
	Delete(ctx context.Context, id uint64) error
	CountByFamily(ctx context.Context, familyID uint64) (int64, error)
	URLsByFamilyInTx(ctx context.Context, tx pgx.Tx, familyID uint64) ([]string, error)
}

type DocumentRepository struct {
	storage *pgxpool.Pool
}

func NewDocumentRepository(storage *pgxpool.Pool) DocumentRepositoryInterface {
	return &DocumentRepository{storage: storage}
}

func scanDocument(row pgx.Row) (*entities.Document, error) {
	var d entities.Document
	if err := row.Scan(
		&d.ID, &d.FamilyID, &d.MemberID, &d.Name, &d.FileName, &d.MimeType, &d.Size, &d.URL, &d.UploadedBy, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) List(ctx context.Context, familyID, memberID *uint64) ([]entities.Document, error) {
	builder := db.Psql.Select(documentColumns...).From("documents").OrderBy("created_at DESC", "id DESC")
	if familyID != nil {
		builder = builder.Where(sq.Eq{"family_id": *familyID})
	}
	if memberID != nil {
		builder = builder.Where(sq.Eq{"member_id": *memberID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperrors.StoreError("documents.list", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.StoreError("documents.list", err)
	}
	defer rows.Close()

	docs := make([]entities.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, apperrors.StoreError("documents.scan", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uint64) (*entities.Document, error) {
	query, args, err := db.Psql.Select(documentColumns...).From("documents").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, apperrors.StoreError("documents.find", err)
	}
	d, err := scanDocument(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError("documents.find", err)
	}
	return d, nil
}

func (r *DocumentRepository) Create(ctx context.Context, d *entities.Document) error {
	query, args, err := db.Psql.Insert("documents").
		Columns("family_id", "member_id", "name", "file_name", "mime_type", "size", "url", "uploaded_by").
		Values(d.FamilyID, d.MemberID, d.Name, d.FileName, d.MimeType, d.Size, d.URL, d.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return apperrors.StoreError("documents.create", err)
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		return mapPgError("documents.create", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return mapPgError("documents.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) CountByFamily(ctx context.Context, familyID uint64) (int64, error) {
	var n int64
	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM documents WHERE family_id = $1", familyID).Scan(&n); err != nil {
		return 0, apperrors.StoreError("documents.count", err)
	}
	return n, nil
}

// URLsByFamilyInTx - ссылки на файлы семьи, нужны перед каскадным удалением.
func (r *DocumentRepository) URLsByFamilyInTx(ctx context.Context, tx pgx.Tx, familyID uint64) ([]string, error) {
	rows, err := pick(r.storage, tx).Query(ctx, "SELECT url FROM documents WHERE family_id = $1", familyID)
	if err != nil {
		return nil, apperrors.StoreError("documents.urls", err)
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, apperrors.StoreError("documents.urls", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
