package controllers

import (
	"bytes"
	"testing"
	"time"

	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteFamilies(t *testing.T) {
	var buf bytes.Buffer
	err := writeFamilies(&buf, []entities.Family{
		{CaseNumber: "A-1", FamilyName: "Ахметовы", District: "Алмалинский", IsTJS: true, RiskLevel: entities.RiskHigh, IsActive: true},
		{CaseNumber: "B-2", FamilyName: "Иваненко", RiskLevel: entities.RiskLow, InactiveReason: utils.ToPtr("Переезд")},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Семьи")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Номер дела", rows[0][1])
	assert.Equal(t, "A-1", rows[1][1])
	assert.Equal(t, "Да", rows[1][7])
	assert.Equal(t, "Высокий", rows[1][9])
	assert.Equal(t, "Переезд", rows[2][13])
}

func TestWriteSupportReportTotals(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	report := &dto.SupportReportDTO{
		Items: []entities.SupportReportItem{
			{CaseNumber: "A-1", Title: "Адресная помощь", Status: entities.SupportStatusInProgress, Cost: 1500, StartDate: &start, CreatedAt: start},
		},
		Total:     1,
		TotalCost: 1500,
	}

	var buf bytes.Buffer
	require.NoError(t, writeSupportReport(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	start1, err := f.GetCellValue("Меры поддержки", "J2")
	require.NoError(t, err)
	assert.Equal(t, "01.03.2024", start1)

	label, err := f.GetCellValue("Меры поддержки", "G3")
	require.NoError(t, err)
	assert.Equal(t, "Итого", label)
	total, err := f.GetCellValue("Меры поддержки", "H3")
	require.NoError(t, err)
	assert.Equal(t, "1500", total)
}
