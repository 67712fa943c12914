package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vqdung71104/student-management-sub001/internal/dto"
	"github.com/vqdung71104/student-management-sub001/internal/models"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
)

func sampleResult() *dto.AdvisorResult {
	a := option("IT3080-01", "IT3080", models.WeekdaySet{models.Monday, models.Wednesday}, "07:00", "09:00")
	a.Weeks = []int{1, 2, 3, 4, 6}
	b := option("IT4409-02", "IT4409", models.WeekdaySet{models.Sunday}, "13:00", "15:30")
	return &dto.AdvisorResult{
		SessionID: "sess-1",
		StudentID: "sv-001",
		Combinations: []*models.Combination{
			{
				ID:          "combo-1",
				Score:       127.5,
				Recommended: true,
				Selections: []models.Selection{
					{SubjectID: "IT3080", SubjectName: "Mạng máy tính", Credits: 3, Class: a},
					{SubjectID: "IT4409", SubjectName: "Công nghệ Web", Credits: 2, Class: b},
				},
			},
		},
		Metadata: dto.GenerationMetadata{TermID: "2025-1"},
	}
}

func newExportServiceForTest() *ExportService {
	svc := NewExportService(nil, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 8, 18, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestBuildDatasetOneRowPerSelection(t *testing.T) {
	data := BuildDataset(sampleResult().Combinations)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, exportHeaders, data.Headers)

	first := data.Rows[0]
	assert.Equal(t, "1", first[colRank])
	assert.Equal(t, "127.50", first[colScore])
	assert.Equal(t, "x", first[colRecommended])
	assert.Equal(t, "Thứ 2, Thứ 4", first[colDays])
	assert.Equal(t, "07:00-09:00", first[colTime])
	assert.Equal(t, "1-4, 6", first[colWeeks])
	assert.Equal(t, "3", first[colCredits])

	second := data.Rows[1]
	assert.Equal(t, "Chủ nhật", second[colDays])
	assert.Equal(t, "Tất cả", second[colWeeks])
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportServiceForTest()
	file, err := svc.Render(sampleResult(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "lich_hoc_sv-001_20250818_103000.csv", file.Filename)
	assert.Contains(t, file.ContentType, "text/csv")
	assert.Contains(t, string(file.Payload), "Mạng máy tính")
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportServiceForTest()
	file, err := svc.Render(sampleResult(), ExportFormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportServiceXLSX(t *testing.T) {
	svc := newExportServiceForTest()
	file, err := svc.Render(sampleResult(), ExportFormatXLSX)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(file.Payload))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Contains(t, rows[0][0], "Phương án lịch học sv-001")
	header := rows[len(rows)-3]
	assert.Equal(t, colRank, header[0])
	assert.Equal(t, "Công nghệ Web", rows[len(rows)-1][4])
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest()
	_, err := svc.Render(sampleResult(), ExportFormat("docx"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceEmptyResult(t *testing.T) {
	result := sampleResult()
	result.Combinations = nil
	_, err := newExportServiceForTest().Render(result, ExportFormatCSV)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNoFeasibleSchedule.Code, appErr.Code)
}

func TestExportServiceMissingResult(t *testing.T) {
	_, err := newExportServiceForTest().Render(nil, ExportFormatCSV)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
