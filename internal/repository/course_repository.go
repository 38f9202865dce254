package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cursos-api/internal/models"
)

const courseColumns = "id, code, description"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindAll returns every course ordered by id.
func (r *CourseRepository) FindAll(ctx context.Context) ([]models.Course, error) {
	query := "SELECT " + courseColumns + " FROM cursos ORDER BY id"
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by id. Absent rows surface as sql.ErrNoRows.
func (r *CourseRepository) FindByID(ctx context.Context, id int) (*models.Course, error) {
	query := "SELECT " + courseColumns + " FROM cursos WHERE id = $1"
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Save inserts the course when it has no id and upserts it otherwise. The
// stored id is written back to course.
func (r *CourseRepository) Save(ctx context.Context, course *models.Course) error {
	var (
		query string
		args  []interface{}
	)
	if course.ID == 0 {
		query = `INSERT INTO cursos (code, description) VALUES ($1, $2) RETURNING id`
		args = []interface{}{course.Code, course.Description}
	} else {
		query = `INSERT INTO cursos (id, code, description) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, description = EXCLUDED.description RETURNING id`
		args = []interface{}{course.ID, course.Code, course.Description}
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&course.ID); err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	return nil
}

// DeleteByID removes the course. Deleting an absent id is not an error.
func (r *CourseRepository) DeleteByID(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cursos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// FindAllByCodeContains returns courses whose code contains fragment, ordered by id.
func (r *CourseRepository) FindAllByCodeContains(ctx context.Context, fragment string) ([]models.Course, error) {
	query := "SELECT " + courseColumns + ` FROM cursos WHERE code LIKE $1 ESCAPE '\' ORDER BY id`
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query, "%"+likeEscaper.Replace(fragment)+"%"); err != nil {
		return nil, fmt.Errorf("filter courses by code: %w", err)
	}
	return courses, nil
}
