package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"family-registry/internal/dto"
	"family-registry/internal/services"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DocumentController struct {
	documentService services.DocumentServiceInterface
	logger          *zap.Logger
}

func NewDocumentController(documentService services.DocumentServiceInterface, logger *zap.Logger) *DocumentController {
	return &DocumentController{documentService: documentService, logger: logger}
}

func (c *DocumentController) GetDocuments(ctx echo.Context) error {
	familyID, err := parseOptionalID(ctx.QueryParam("family_id"), "family_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	memberID, err := parseOptionalID(ctx.QueryParam("member_id"), "member_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	docs, err := c.documentService.List(ctx.Request().Context(), familyID, memberID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, docs, "Документы получены", http.StatusOK)
}

func (c *DocumentController) FindDocument(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	doc, err := c.documentService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, doc, "Документ найден", http.StatusOK)
}

// DownloadDocument отдаёт файл документа после проверки прав.
// Внешние ссылки отдаются редиректом.
func (c *DocumentController) DownloadDocument(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	doc, path, err := c.documentService.File(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if path == "" {
		return ctx.Redirect(http.StatusFound, doc.URL)
	}
	name := doc.FileName
	if name == "" {
		name = doc.Name
	}
	return ctx.Inline(path, name)
}

func (c *DocumentController) CreateDocument(ctx echo.Context) error {
	var payload dto.CreateDocumentDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	doc, err := c.documentService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, doc, "Документ добавлен", http.StatusCreated)
}

// UploadDocument принимает multipart-форму: family_id, member_id, name и file.
func (c *DocumentController) UploadDocument(ctx echo.Context) error {
	familyID, err := strconv.ParseUint(ctx.FormValue("family_id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewFieldError("family_id", "Укажите семью"), c.logger)
	}
	memberID, err := parseOptionalID(ctx.FormValue("member_id"), "member_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload := dto.UploadDocumentDTO{
		FamilyID: familyID,
		MemberID: memberID,
		Name:     strings.TrimSpace(ctx.FormValue("name")),
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		c.logger.Debug("UploadDocument: файл не получен", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewFieldError("file", "Файл не передан"), c.logger)
	}

	doc, err := c.documentService.Upload(ctx.Request().Context(), payload, fileHeader)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, doc, "Документ загружен", http.StatusCreated)
}

func (c *DocumentController) DeleteDocument(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.documentService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Документ удалён", http.StatusOK)
}
