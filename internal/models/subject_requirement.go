package models

// SubjectRequirement is a subject the student still has to schedule this term.
type SubjectRequirement struct {
	SubjectID      string   `db:"subject_id" json:"subject_id"`
	Name           string   `db:"subject_name" json:"name"`
	Credits        int      `db:"credits" json:"credits"`
	ClassOptionIDs []string `db:"-" json:"class_option_ids"`
}
