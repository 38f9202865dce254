package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cursos-api/internal/models"
	appErrors "github.com/noah-isme/cursos-api/pkg/errors"
)

const (
	courseListCacheKey     = "cursos:all"
	storeOpFindAll         = "courses.find_all"
	storeOpFindByID        = "courses.find_by_id"
	storeOpSave            = "courses.save"
	storeOpDeleteByID      = "courses.delete_by_id"
	storeOpFindByCodeMatch = "courses.find_all_by_code_contains"
)

type courseStore interface {
	FindAll(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int) (*models.Course, error)
	Save(ctx context.Context, course *models.Course) error
	DeleteByID(ctx context.Context, id int) error
	FindAllByCodeContains(ctx context.Context, fragment string) ([]models.Course, error)
}

// CourseService maps course store results onto the API error taxonomy.
type CourseService struct {
	store     courseStore
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger

	// writeMu orders list cache fills against write invalidation; generation
	// changes whenever a write finishes.
	writeMu    sync.RWMutex
	generation uint64
}

// NewCourseService creates a new course service. cache and metrics may be nil.
func NewCourseService(store courseStore, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: store, validator: validate, cache: cache, metrics: metrics, logger: logger}
}

// List returns every course, served from cache when possible.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, courseListCacheKey, &cached); hit {
		return cached, nil
	}

	generation := s.currentGeneration()

	start := time.Now()
	courses, err := s.store.FindAll(ctx)
	s.metrics.ObserveStoreCall(storeOpFindAll, time.Since(start), err)
	if err != nil {
		return nil, appErrors.StoreFailure(err, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}

	s.writeMu.RLock()
	if s.generation == generation {
		_ = s.cache.Set(ctx, courseListCacheKey, courses, 0)
	}
	s.writeMu.RUnlock()
	return courses, nil
}

// Get returns the course with the given id or ErrNotFound.
func (s *CourseService) Get(ctx context.Context, id int) (*models.Course, error) {
	start := time.Now()
	course, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		s.metrics.ObserveStoreCall(storeOpFindByID, time.Since(start), nil)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	s.metrics.ObserveStoreCall(storeOpFindByID, time.Since(start), err)
	if err != nil {
		return nil, appErrors.StoreFailure(err, "failed to load course")
	}
	return course, nil
}

// Create persists a new course and returns it with its assigned id.
func (s *CourseService) Create(ctx context.Context, course models.Course) (*models.Course, error) {
	if err := s.validator.Struct(course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	// Ids are always assigned by the store on create.
	course.ID = 0
	if err := s.save(ctx, &course); err != nil {
		return nil, appErrors.StoreFailure(err, "failed to save course")
	}
	return &course, nil
}

// Update copies code and description from the payload onto the stored course
// identified by id and persists that record.
func (s *CourseService) Update(ctx context.Context, id int, payload models.Course) (*models.Course, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Code = payload.Code
	course.Description = payload.Description

	if err := s.save(ctx, course); err != nil {
		return nil, appErrors.StoreFailure(err, "failed to update course")
	}
	return course, nil
}

// Delete removes the course without checking that it exists.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	s.invalidate(ctx)
	defer s.finishWrite(ctx)

	start := time.Now()
	err := s.store.DeleteByID(ctx, id)
	s.metrics.ObserveStoreCall(storeOpDeleteByID, time.Since(start), err)
	if err != nil {
		return appErrors.StoreFailure(err, "failed to delete course")
	}
	return nil
}

// Filter returns the courses whose code contains filter.Code, or ErrEmptyResult.
// An empty code matches every course.
func (s *CourseService) Filter(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	start := time.Now()
	courses, err := s.store.FindAllByCodeContains(ctx, filter.Code)
	s.metrics.ObserveStoreCall(storeOpFindByCodeMatch, time.Since(start), err)
	if err != nil {
		return nil, appErrors.StoreFailure(err, "failed to filter courses")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyResult, "no course matched the filter")
	}
	return courses, nil
}

func (s *CourseService) save(ctx context.Context, course *models.Course) error {
	s.invalidate(ctx)
	defer s.finishWrite(ctx)

	start := time.Now()
	err := s.store.Save(ctx, course)
	s.metrics.ObserveStoreCall(storeOpSave, time.Since(start), err)
	return err
}

// finishWrite bumps the generation and drops the list cache once the store
// write is done, so a list read from before the write cannot be cached.
func (s *CourseService) finishWrite(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.generation++
	s.invalidate(ctx)
}

func (s *CourseService) currentGeneration() uint64 {
	s.writeMu.RLock()
	defer s.writeMu.RUnlock()
	return s.generation
}

func (s *CourseService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, courseListCacheKey); err != nil {
		s.logger.Warn("course cache not invalidated", zap.Error(err))
	}
}
