package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// classOptionRow mirrors the class_sections table; days are stored as weekday
// codes (2..8) and times as minutes since midnight.
type classOptionRow struct {
	ID          string        `db:"id"`
	SubjectID   string        `db:"subject_id"`
	DayCodes    pq.Int64Array `db:"day_codes"`
	StartMinute int           `db:"start_minute"`
	EndMinute   int           `db:"end_minute"`
	Weeks       pq.Int64Array `db:"weeks"`
	Room        string        `db:"room"`
	TeacherName string        `db:"teacher_name"`
	Capacity    int           `db:"capacity"`
}

func (row classOptionRow) toModel() *models.ClassOption {
	days := make([]models.Weekday, 0, len(row.DayCodes))
	for _, code := range row.DayCodes {
		if day, ok := models.WeekdayFromCode(int(code)); ok {
			days = append(days, day)
		}
	}
	weeks := make([]int, 0, len(row.Weeks))
	for _, w := range row.Weeks {
		weeks = append(weeks, int(w))
	}
	return &models.ClassOption{
		ID:        row.ID,
		SubjectID: row.SubjectID,
		Days:      models.NewWeekdaySet(days...),
		Start:     models.ClockTime(row.StartMinute),
		End:       models.ClockTime(row.EndMinute),
		Weeks:     weeks,
		Room:      row.Room,
		Teacher:   row.TeacherName,
		Capacity:  row.Capacity,
	}
}

// ClassOptionRepository reads offered sections.
type ClassOptionRepository struct {
	db *sqlx.DB
}

// NewClassOptionRepository constructs the repository.
func NewClassOptionRepository(db *sqlx.DB) *ClassOptionRepository {
	return &ClassOptionRepository{db: db}
}

// ListCandidates returns the open sections of a subject in a term.
func (r *ClassOptionRepository) ListCandidates(ctx context.Context, subjectID, termID string) ([]*models.ClassOption, error) {
	const query = `SELECT id, subject_id, day_codes, start_minute, end_minute, weeks, room, teacher_name, capacity
		FROM class_sections
		WHERE subject_id = $1 AND term_id = $2 AND status = 'OPEN'
		ORDER BY start_minute ASC, id ASC`
	var rows []classOptionRow
	if err := r.db.SelectContext(ctx, &rows, query, subjectID, termID); err != nil {
		return nil, fmt.Errorf("list class options: %w", err)
	}
	options := make([]*models.ClassOption, 0, len(rows))
	for _, row := range rows {
		options = append(options, row.toModel())
	}
	return options, nil
}
