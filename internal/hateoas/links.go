// Package hateoas owns the course route table and derives navigation links from it.
package hateoas

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/noah-isme/cursos-api/internal/models"
)

// Route templates shared by the router and the link builder.
const (
	CoursesPath       = "/v3/cursos"
	CoursePath        = "/v3/cursos/:id"
	CourseFilterPath  = "/v3/cursos/filter"
	CourseExportPath  = "/v3/cursos/export"
	LinkedCoursesPath = "/v4/cursos/hateoas"
	LinkedCoursePath  = "/v4/cursos/hateoas/:id"
)

// Expand substitutes the :id segment of a route template.
func Expand(template string, id int) string {
	return strings.Replace(template, ":id", strconv.Itoa(id), 1)
}

// Builder produces absolute links rooted at BaseURL.
type Builder struct {
	BaseURL string
}

// NewBuilder trims any trailing slash from the base URL.
func NewBuilder(baseURL string) Builder {
	return Builder{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Self links to the plain get-by-id endpoint of the course.
func (b Builder) Self(id int) models.Link {
	return models.NewGetLink(models.RelSelf, b.BaseURL+Expand(CoursePath, id))
}

// All links to the list-all endpoint.
func (b Builder) All() models.Link {
	return models.NewGetLink(models.RelAll, b.BaseURL+CoursesPath)
}

// Decorate pairs the course with its self and all links, in that order.
func (b Builder) Decorate(course models.Course) models.LinkedCourse {
	return models.LinkedCourse{
		Course: course,
		Links:  []models.Link{b.Self(course.ID), b.All()},
	}
}

// DecorateAll decorates every course, preserving order.
func (b Builder) DecorateAll(courses []models.Course) []models.LinkedCourse {
	linked := make([]models.LinkedCourse, 0, len(courses))
	for _, course := range courses {
		linked = append(linked, b.Decorate(course))
	}
	return linked
}

// BaseURLFrom derives scheme://host for the request, honouring proxy headers.
func BaseURLFrom(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}

	host := r.Host
	if fwd := firstValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}

func firstValue(header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.Split(header, ",")[0])
}
