package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// SubjectRequirementRepository reads the subjects a student still has to register for.
type SubjectRequirementRepository struct {
	db *sqlx.DB
}

// NewSubjectRequirementRepository constructs the repository.
func NewSubjectRequirementRepository(db *sqlx.DB) *SubjectRequirementRepository {
	return &SubjectRequirementRepository{db: db}
}

// ListByStudent returns pending subject requirements in registration order.
func (r *SubjectRequirementRepository) ListByStudent(ctx context.Context, studentID string) ([]models.SubjectRequirement, error) {
	const query = `SELECT sr.subject_id, s.name AS subject_name, s.credits
		FROM student_subject_requirements sr
		JOIN subjects s ON s.id = sr.subject_id
		WHERE sr.student_id = $1 AND sr.status = 'PENDING'
		ORDER BY sr.priority ASC, s.name ASC`
	var requirements []models.SubjectRequirement
	if err := r.db.SelectContext(ctx, &requirements, query, studentID); err != nil {
		return nil, fmt.Errorf("list subject requirements: %w", err)
	}
	return requirements, nil
}
