package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vqdung71104/student-management-sub001/internal/dto"
	"github.com/vqdung71104/student-management-sub001/internal/models"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
	"github.com/vqdung71104/student-management-sub001/pkg/export"
)

// ExportFormat is a supported download format.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatPDF:  "application/pdf",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Export column headers, one row per selected section.
const (
	colRank        = "Hạng"
	colCombination = "Phương án"
	colScore       = "Điểm"
	colRecommended = "Đề xuất"
	colSubject     = "Môn học"
	colClass       = "Lớp"
	colDays        = "Thứ"
	colTime        = "Giờ"
	colWeeks       = "Tuần"
	colRoom        = "Phòng"
	colTeacher     = "Giảng viên"
	colCredits     = "Tín chỉ"
)

var exportHeaders = []string{
	colRank, colCombination, colScore, colRecommended, colSubject, colClass,
	colDays, colTime, colWeeks, colRoom, colTeacher, colCredits,
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders ranked combinations for download.
type ExportService struct {
	csv     csvRenderer
	pdf     titledRenderer
	xlsx    titledRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers use the package defaults.
func NewExportService(logger *zap.Logger, csv csvRenderer, pdf, xlsx titledRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = &export.PDFExporter{Widths: map[string]float64{
			colRank:        10,
			colCombination: 50,
			colScore:       14,
			colRecommended: 14,
			colCredits:     12,
		}}
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, xlsx: xlsx, logger: logger, now: time.Now}
}

// Render produces a download of a ranked result in the requested format.
func (s *ExportService) Render(result *dto.AdvisorResult, format ExportFormat) (*ExportFile, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if result == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found or expired")
	}
	if len(result.Combinations) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoFeasibleSchedule, "result has no combinations to export")
	}

	dataset := BuildDataset(result.Combinations)
	title := fmt.Sprintf("Phương án lịch học %s", result.StudentID)
	if result.Metadata.TermID != "" {
		title = fmt.Sprintf("%s - %s", title, result.Metadata.TermID)
	}

	var (
		payload []byte
		err     error
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	case ExportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, title)
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("session_id", result.SessionID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("advisor result exported",
		zap.String("session_id", result.SessionID),
		zap.String("format", string(format)),
		zap.Int("bytes", len(payload)),
	)
	return &ExportFile{
		Filename:    s.buildFilename(result, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildFilename(result *dto.AdvisorResult, format ExportFormat) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("lich_hoc_%s_%s.%s", sanitizeFilename(result.StudentID), timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

// BuildDataset flattens ranked combinations into one row per selection.
func BuildDataset(combos []*models.Combination) export.Dataset {
	rows := make([]map[string]string, 0, len(combos)*4)
	for i, combo := range combos {
		recommended := ""
		if combo.Recommended {
			recommended = "x"
		}
		for _, sel := range combo.Selections {
			row := map[string]string{
				colRank:        strconv.Itoa(i + 1),
				colCombination: combo.ID,
				colScore:       strconv.FormatFloat(combo.Score, 'f', 2, 64),
				colRecommended: recommended,
				colSubject:     sel.SubjectName,
				colCredits:     strconv.Itoa(sel.Credits),
			}
			if sel.Class != nil {
				row[colClass] = sel.Class.ID
				row[colDays] = formatDays(sel.Class.Days)
				row[colTime] = fmt.Sprintf("%s-%s", sel.Class.Start, sel.Class.End)
				row[colWeeks] = formatWeeks(sel.Class.Weeks)
				row[colRoom] = sel.Class.Room
				row[colTeacher] = sel.Class.Teacher
			}
			if row[colSubject] == "" {
				row[colSubject] = sel.SubjectID
			}
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: append([]string(nil), exportHeaders...), Rows: rows}
}

func formatDays(days models.WeekdaySet) string {
	labels := make([]string, 0, len(days))
	for _, d := range days {
		labels = append(labels, d.VietnameseLabel())
	}
	return strings.Join(labels, ", ")
}

// formatWeeks collapses consecutive weeks into ranges, e.g. "1-8, 10".
func formatWeeks(weeks []int) string {
	if len(weeks) == 0 {
		return "Tất cả"
	}
	var parts []string
	start, prev := weeks[0], weeks[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
			return
		}
		parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
	}
	for _, w := range weeks[1:] {
		if w == prev+1 {
			prev = w
			continue
		}
		flush()
		start, prev = w, w
	}
	flush()
	return strings.Join(parts, ", ")
}
