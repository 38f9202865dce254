package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cursos-api/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "description"})
}

func TestCourseRepositoryFindAll(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, description FROM cursos ORDER BY id")).
		WillReturnRows(courseRows().AddRow(1, "MC102", "Intro").AddRow(2, "MC202", "Data Structures"))

	courses, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, models.Course{ID: 2, Code: "MC202", Description: "Data Structures"}, courses[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindAllEmpty(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("FROM cursos ORDER BY id").WillReturnRows(courseRows())

	courses, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}

func TestCourseRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, description FROM cursos WHERE id = $1")).
		WithArgs(9).
		WillReturnRows(courseRows())

	course, err := repo.FindByID(context.Background(), 9)
	assert.Nil(t, course)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySaveInsertAssignsID(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cursos (code, description) VALUES ($1, $2) RETURNING id")).
		WithArgs("MC102", "Intro to Programming").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	course := &models.Course{Code: "MC102", Description: "Intro to Programming"}
	require.NoError(t, repo.Save(context.Background(), course))
	assert.Equal(t, 1, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySaveUpsertsExistingID(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(5, "MC202", "Updated").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	course := &models.Course{ID: 5, Code: "MC202", Description: "Updated"}
	require.NoError(t, repo.Save(context.Background(), course))
	assert.Equal(t, 5, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySaveError(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("INSERT INTO cursos").WillReturnError(errors.New("null value in column"))

	err := repo.Save(context.Background(), &models.Course{Code: "MC102"})
	assert.ErrorContains(t, err, "save course")
}

func TestCourseRepositoryDeleteByID(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cursos WHERE id = $1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByID(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindAllByCodeContainsEscapesPattern(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cursos WHERE code LIKE $1")).
		WithArgs(`%MC\_1%`).
		WillReturnRows(courseRows().AddRow(1, "MC_102", "Intro"))

	courses, err := repo.FindAllByCodeContains(context.Background(), "MC_1")
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
