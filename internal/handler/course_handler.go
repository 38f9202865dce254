package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/cursos-api/internal/hateoas"
	"github.com/noah-isme/cursos-api/internal/models"
	"github.com/noah-isme/cursos-api/internal/service"
	appErrors "github.com/noah-isme/cursos-api/pkg/errors"
	"github.com/noah-isme/cursos-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id int) (*models.Course, error)
	Create(ctx context.Context, course models.Course) (*models.Course, error)
	Update(ctx context.Context, id int, payload models.Course) (*models.Course, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
}

type courseExporter interface {
	Export(ctx context.Context, format string) (*service.ExportedFile, error)
}

// CourseHandler serves the /v3 course endpoints and their /v4 hypermedia variants.
type CourseHandler struct {
	service  courseService
	exporter courseExporter
	logger   *zap.Logger
	port     int
}

// NewCourseHandler constructs a course handler. port is only reported in logs.
func NewCourseHandler(svc courseService, exporter courseExporter, logger *zap.Logger, port int) *CourseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseHandler{service: svc, exporter: exporter, logger: logger, port: port}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /v3/cursos [get]
func (h *CourseHandler) List(c *gin.Context) {
	h.logger.Info("listing all courses", zap.Int("port", h.port))

	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Get godoc
// @Summary Get course by id
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404
// @Router /v3/cursos/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.logger.Info("fetching course", zap.Int("id", id), zap.Int("port", h.port))

	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.Course true "Course payload"
// @Success 200 {object} models.Course
// @Failure 500
// @Router /v3/cursos [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var payload models.Course
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.logger.Info("saving new course", zap.Stringer("course", payload), zap.Int("port", h.port))

	course, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body models.Course true "Course payload"
// @Success 200 {object} models.Course
// @Failure 404
// @Router /v3/cursos/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var payload models.Course
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.logger.Info("updating course", zap.Int("id", id), zap.Int("port", h.port))

	course, err := h.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Failure 500
// @Router /v3/cursos/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.logger.Info("deleting course", zap.Int("id", id), zap.Int("port", h.port))

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Filter godoc
// @Summary Search courses by code fragment
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CourseFilter true "Filter"
// @Success 200 {array} models.Course
// @Failure 404
// @Router /v3/cursos/filter [post]
func (h *CourseHandler) Filter(c *gin.Context) {
	var filter models.CourseFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter"))
		return
	}
	h.logger.Info("filtering courses", zap.String("code", filter.Code), zap.Int("port", h.port))

	courses, err := h.service.Filter(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// GetLinked godoc
// @Summary Get course by id with navigation links
// @Tags Courses (hypermedia)
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.LinkedCourse
// @Failure 404
// @Router /v4/cursos/hateoas/{id} [get]
func (h *CourseHandler) GetLinked(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.logger.Info("fetching linked course", zap.Int("id", id), zap.Int("port", h.port))

	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, linkBuilder(c).Decorate(*course))
}

// ListLinked godoc
// @Summary List courses with navigation links
// @Tags Courses (hypermedia)
// @Produce json
// @Success 200 {array} models.LinkedCourse
// @Router /v4/cursos/hateoas [get]
func (h *CourseHandler) ListLinked(c *gin.Context) {
	h.logger.Info("listing all linked courses", zap.Int("port", h.port))

	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, linkBuilder(c).DecorateAll(courses))
}

// Export godoc
// @Summary Download the course catalogue
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /v3/cursos/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	h.logger.Info("exporting courses", zap.String("format", format), zap.Int("port", h.port))

	file, err := h.exporter.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// pathID parses the id path parameter. Course ids are 32-bit, so anything
// outside that range is rejected before reaching the store.
func (h *CourseHandler) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course id"))
		return 0, false
	}
	return int(id), true
}

func linkBuilder(c *gin.Context) hateoas.Builder {
	return hateoas.NewBuilder(hateoas.BaseURLFrom(c.Request))
}
