package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

func newAdvisorMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubjectRequirementRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newAdvisorMock(t)
	defer cleanup()
	repo := NewSubjectRequirementRepository(db)

	rows := sqlmock.NewRows([]string{"subject_id", "subject_name", "credits"}).
		AddRow("IT3080", "Mạng máy tính", 3).
		AddRow("IT4785", "Phát triển ứng dụng", 2)
	mock.ExpectQuery("FROM student_subject_requirements").
		WithArgs("20210001").
		WillReturnRows(rows)

	reqs, err := repo.ListByStudent(context.Background(), "20210001")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "IT3080", reqs[0].SubjectID)
	assert.Equal(t, "Mạng máy tính", reqs[0].Name)
	assert.Equal(t, 2, reqs[1].Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassOptionRepositoryListCandidates(t *testing.T) {
	db, mock, cleanup := newAdvisorMock(t)
	defer cleanup()
	repo := NewClassOptionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "subject_id", "day_codes", "start_minute", "end_minute", "weeks", "room", "teacher_name", "capacity"}).
		AddRow("147001", "IT3080", "{2,4}", 390, 525, "{1,2,3}", "D9-301", "Nguyễn Văn A", 60).
		AddRow("147002", "IT3080", "{8}", 780, 915, "{}", "TC-205", "Trần Thị B", 40)
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sections")).
		WithArgs("IT3080", "20241").
		WillReturnRows(rows)

	options, err := repo.ListCandidates(context.Background(), "IT3080", "20241")
	require.NoError(t, err)
	require.Len(t, options, 2)

	first := options[0]
	assert.Equal(t, models.WeekdaySet{models.Monday, models.Wednesday}, first.Days)
	assert.Equal(t, models.NewClockTime(6, 30), first.Start)
	assert.Equal(t, models.NewClockTime(8, 45), first.End)
	assert.Equal(t, []int{1, 2, 3}, first.Weeks)
	assert.Equal(t, "Nguyễn Văn A", first.Teacher)

	second := options[1]
	assert.Equal(t, models.WeekdaySet{models.Sunday}, second.Days)
	assert.Empty(t, second.Weeks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassOptionRepositoryPropagatesErrors(t *testing.T) {
	db, mock, cleanup := newAdvisorMock(t)
	defer cleanup()
	repo := NewClassOptionRepository(db)

	mock.ExpectQuery("FROM class_sections").WillReturnError(assert.AnError)

	_, err := repo.ListCandidates(context.Background(), "IT3080", "20241")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
