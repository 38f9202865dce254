package models

import "fmt"

// Course represents one course record in the catalogue.
type Course struct {
	ID          int    `db:"id" json:"id,omitempty"`
	Code        string `db:"code" json:"code" validate:"required"`
	Description string `db:"description" json:"description"`
}

// String renders the course for log lines.
func (c Course) String() string {
	return fmt.Sprintf("Course{id=%d, code=%q, description=%q}", c.ID, c.Code, c.Description)
}

// CourseFilter captures the criteria accepted by the filter search.
type CourseFilter struct {
	Code string `json:"code"`
}
