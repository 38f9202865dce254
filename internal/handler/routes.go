package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cursos-api/internal/hateoas"
)

// RegisterCourseRoutes mounts the course endpoints using the shared route table.
func RegisterCourseRoutes(r gin.IRouter, h *CourseHandler) {
	r.GET(hateoas.CoursesPath, h.List)
	r.POST(hateoas.CoursesPath, h.Create)
	r.GET(hateoas.CourseExportPath, h.Export)
	r.POST(hateoas.CourseFilterPath, h.Filter)
	r.GET(hateoas.CoursePath, h.Get)
	r.PUT(hateoas.CoursePath, h.Update)
	r.DELETE(hateoas.CoursePath, h.Delete)

	r.GET(hateoas.LinkedCoursesPath, h.ListLinked)
	r.GET(hateoas.LinkedCoursePath, h.GetLinked)
}

// RegisterOpsRoutes mounts health, readiness and metrics endpoints.
func RegisterOpsRoutes(r gin.IRouter, h *MetricsHandler, exposeMetrics bool) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	if exposeMetrics {
		r.GET("/metrics", h.Prometheus)
		r.GET("/stats", h.Stats)
	}
}
