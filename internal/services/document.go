package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"family-registry/config"
	"family-registry/internal/authz"
	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/repositories"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/filestorage"
	"family-registry/pkg/utils"
	"family-registry/pkg/validation"

	"go.uber.org/zap"
)

const documentUploadContext = "family_document"

type DocumentServiceInterface interface {
	List(ctx context.Context, familyID, memberID *uint64) ([]entities.Document, error)
	Get(ctx context.Context, id uint64) (*entities.Document, error)
	// File возвращает документ и путь к его файлу на диске.
	// Для внешних ссылок путь пустой.
	File(ctx context.Context, id uint64) (*entities.Document, string, error)
	Create(ctx context.Context, payload dto.CreateDocumentDTO) (*entities.Document, error)
	Upload(ctx context.Context, payload dto.UploadDocumentDTO, fileHeader *multipart.FileHeader) (*entities.Document, error)
	Delete(ctx context.Context, id uint64) error
}

type DocumentService struct {
	documentRepo repositories.DocumentRepositoryInterface
	familyRepo   repositories.FamilyRepositoryInterface
	memberRepo   repositories.FamilyMemberRepositoryInterface
	history      HistoryServiceInterface
	files        filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewDocumentService(
	documentRepo repositories.DocumentRepositoryInterface,
	familyRepo repositories.FamilyRepositoryInterface,
	memberRepo repositories.FamilyMemberRepositoryInterface,
	history HistoryServiceInterface,
	files filestorage.FileStorageInterface,
	logger *zap.Logger,
) DocumentServiceInterface {
	return &DocumentService{
		documentRepo: documentRepo,
		familyRepo:   familyRepo,
		memberRepo:   memberRepo,
		history:      history,
		files:        files,
		logger:       logger,
	}
}

func (s *DocumentService) actor(ctx context.Context) (*dto.UserClaims, authz.Context, error) {
	claims, actor, err := currentActor(ctx)
	if err != nil {
		return nil, actor, err
	}
	if !authz.CanDo(authz.CanViewDocuments, actor) {
		return nil, actor, apperrors.ErrForbidden
	}
	return claims, actor, nil
}

// checkOwner проверяет доступ к семье и принадлежность члена семьи к ней.
func (s *DocumentService) checkOwner(ctx context.Context, actor authz.Context, familyID uint64, memberID *uint64) error {
	if _, err := loadFamilyForActor(ctx, s.familyRepo, familyID, actor); err != nil {
		return err
	}
	return checkMemberOfFamily(ctx, s.memberRepo, familyID, memberID)
}

func (s *DocumentService) List(ctx context.Context, familyID, memberID *uint64) ([]entities.Document, error) {
	_, actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if familyID == nil {
		if !authz.IsAdmin(actor) {
			return nil, apperrors.NewFieldError("family_id", "Укажите семью")
		}
	} else if err := s.checkOwner(ctx, actor, *familyID, memberID); err != nil {
		return nil, err
	}
	return s.documentRepo.List(ctx, familyID, memberID)
}

func (s *DocumentService) Get(ctx context.Context, id uint64) (*entities.Document, error) {
	_, actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadFamilyForActor(ctx, s.familyRepo, doc.FamilyID, actor); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) File(ctx context.Context, id uint64) (*entities.Document, string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !s.files.Owns(doc.URL) {
		return doc, "", nil
	}
	path, err := s.files.Path(doc.URL)
	if err != nil {
		s.logger.Warn("File: путь документа вне хранилища", zap.Uint64("documentID", id), zap.Error(err))
		return nil, "", apperrors.ErrNotFound
	}
	return doc, path, nil
}

func (s *DocumentService) Create(ctx context.Context, p dto.CreateDocumentDTO) (*entities.Document, error) {
	claims, actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, actor, p.FamilyID, p.MemberID); err != nil {
		return nil, err
	}

	doc := &entities.Document{
		FamilyID:   p.FamilyID,
		MemberID:   p.MemberID,
		Name:       strings.TrimSpace(p.Name),
		FileName:   strings.TrimSpace(p.FileName),
		MimeType:   p.MimeType,
		Size:       p.Size,
		URL:        p.URL,
		UploadedBy: utils.ToPtr(claims.UserID),
	}
	if doc.FileName == "" {
		doc.FileName = doc.Name
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.recordAdded(ctx, doc)
	return doc, nil
}

// Upload сохраняет файл в хранилище и регистрирует документ. При ошибке БД файл удаляется.
func (s *DocumentService) Upload(ctx context.Context, p dto.UploadDocumentDTO, fileHeader *multipart.FileHeader) (*entities.Document, error) {
	claims, actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if fileHeader == nil {
		return nil, apperrors.NewFieldError("file", "Файл не передан")
	}
	if err := s.checkOwner(ctx, actor, p.FamilyID, p.MemberID); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewFieldError("file", "Не удалось открыть файл")
	}
	defer src.Close()

	mimeType, err := validation.ValidateFile(fileHeader, src, documentUploadContext)
	if err != nil {
		return nil, apperrors.NewFieldError("file", "%s", err.Error())
	}

	url, err := s.files.Save(src, fileHeader.Filename, config.UploadContexts[documentUploadContext].PathPrefix)
	if err != nil {
		return nil, apperrors.StoreError("сохранение файла", err)
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = fileHeader.Filename
	}
	doc := &entities.Document{
		FamilyID:   p.FamilyID,
		MemberID:   p.MemberID,
		Name:       name,
		FileName:   fileHeader.Filename,
		MimeType:   mimeType,
		Size:       fileHeader.Size,
		URL:        url,
		UploadedBy: utils.ToPtr(claims.UserID),
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.files.Delete(url); delErr != nil {
			s.logger.Warn("не удалось удалить файл после ошибки", zap.String("url", url), zap.Error(delErr))
		}
		return nil, err
	}

	s.recordAdded(ctx, doc)
	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, id uint64) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.files.Owns(doc.URL) {
		if err := s.files.Delete(doc.URL); err != nil {
			s.logger.Warn("не удалось удалить файл документа", zap.String("url", doc.URL), zap.Error(err))
		}
	}

	s.history.Record(ctx, HistoryEntry{
		FamilyID:    doc.FamilyID,
		Action:      entities.ActionDocumentRemove,
		Description: fmt.Sprintf("Удалён документ: %s", doc.Name),
		Details:     map[string]interface{}{"document_id": doc.ID, "file_name": doc.FileName},
	})
	return nil
}

func (s *DocumentService) recordAdded(ctx context.Context, doc *entities.Document) {
	s.history.Record(ctx, HistoryEntry{
		FamilyID:    doc.FamilyID,
		MemberID:    doc.MemberID,
		Action:      entities.ActionDocumentAdded,
		Description: fmt.Sprintf("Добавлен документ: %s", doc.Name),
		Details:     map[string]interface{}{"document_id": doc.ID, "mime_type": doc.MimeType, "size": doc.Size},
	})
}
