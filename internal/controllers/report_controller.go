package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/internal/services"
	apperrors "family-registry/pkg/errors"
	"family-registry/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetSupportReport(ctx echo.Context) error {
	filter, format, err := c.parseFilters(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Debug("Запрос на отчёт с фильтрами", zap.Any("filters", filter), zap.String("format", format))

	report, err := c.reportService.SupportReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, "support_report", func(w io.Writer) error {
			return writeSupportReport(w, report)
		})
	}
	return utils.SuccessResponse(ctx, report, "Отчёт успешно сформирован", http.StatusOK)
}

func (c *ReportController) ExportFamilies(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	if status := ctx.QueryParam("status"); status != "" {
		filter.Filter["status"] = status
	}

	families, err := c.reportService.ExportFamilies(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, "families", func(w io.Writer) error {
		return writeFamilies(w, families)
	})
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.SupportReportFilter, string, error) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := entities.SupportReportFilter{
		Page:     stdFilter.Page,
		PerPage:  stdFilter.Limit,
		Category: ctx.QueryParam("category"),
		Status:   ctx.QueryParam("status"),
		District: ctx.QueryParam("district"),
	}
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		filter.Page = 1
		filter.PerPage = 0
	}

	parseDate := func(name string) (*time.Time, error) {
		raw := ctx.QueryParam(name)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			return nil, apperrors.NewFieldError(name, "Дата должна быть в формате ГГГГ-ММ-ДД")
		}
		return &t, nil
	}
	var err error
	if filter.DateFrom, err = parseDate("date_from"); err != nil {
		return filter, format, err
	}
	if filter.DateTo, err = parseDate("date_to"); err != nil {
		return filter, format, err
	}
	return filter, format, nil
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, name string, write func(io.Writer) error) error {
	fileName := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	if err := write(ctx.Response().Writer); err != nil {
		c.logger.Error("не удалось сформировать xlsx", zap.String("file", fileName), zap.Error(err))
		return err
	}
	return nil
}

var familyHeaders = []interface{}{
	"№", "Номер дела", "Семья", "Адрес", "Область", "Район", "Населённый пункт", "ТЖС", "Н/Б",
	"Уровень риска", "Детей", "Доход", "На учёте", "Причина снятия",
}

var supportHeaders = []interface{}{
	"№", "Номер дела", "Семья", "Район", "Категория", "Мера", "Статус", "Стоимость",
	"Исполнитель", "Начало", "Окончание", "Создана",
}

var riskLabels = map[string]string{
	entities.RiskLow:    "Низкий",
	entities.RiskMedium: "Средний",
	entities.RiskHigh:   "Высокий",
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02.01.2006")
}

func newSheet(title string, headers []interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", title); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(title, "A1", &headers); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(title, "A1", lastCol+"1", style); err != nil {
		return nil, err
	}
	return f, nil
}

func writeFamilies(w io.Writer, families []entities.Family) error {
	const sheet = "Семьи"
	f, err := newSheet(sheet, familyHeaders)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, fam := range families {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			i + 1, fam.CaseNumber, fam.FamilyName, fam.Address, fam.Region, fam.District, fam.City,
			yesNo(fam.IsTJS), yesNo(fam.IsNeglectful), riskLabels[fam.RiskLevel], fam.ChildrenCount,
			utils.SafeDeref(fam.MonthlyIncome), yesNo(fam.IsActive), utils.SafeDeref(fam.InactiveReason),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "B", "D", 28)
	_ = f.SetColWidth(sheet, "E", "G", 20)
	_ = f.SetColWidth(sheet, "N", "N", 40)
	return f.Write(w)
}

func writeSupportReport(w io.Writer, report *dto.SupportReportDTO) error {
	const sheet = "Меры поддержки"
	f, err := newSheet(sheet, supportHeaders)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, item := range report.Items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			i + 1, item.CaseNumber, item.FamilyName, item.District, item.Category, item.Title, item.Status,
			item.Cost, utils.SafeDeref(item.Provider), formatDate(item.StartDate), formatDate(item.EndDate),
			item.CreatedAt.Format("02.01.2006"),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	totalCell, _ := excelize.CoordinatesToCellName(7, len(report.Items)+2)
	costCell, _ := excelize.CoordinatesToCellName(8, len(report.Items)+2)
	_ = f.SetCellValue(sheet, totalCell, "Итого")
	_ = f.SetCellValue(sheet, costCell, report.TotalCost)

	_ = f.SetColWidth(sheet, "B", "C", 25)
	_ = f.SetColWidth(sheet, "F", "F", 40)
	return f.Write(w)
}
