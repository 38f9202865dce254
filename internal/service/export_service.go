package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/noah-isme/cursos-api/internal/models"
	appErrors "github.com/noah-isme/cursos-api/pkg/errors"
	"github.com/noah-isme/cursos-api/pkg/export"
)

// Supported catalogue export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportedFile is a rendered catalogue ready to be streamed.
type ExportedFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the course catalogue as a downloadable file.
type ExportService struct {
	courses courseLister
	csv     tableRenderer
	pdf     tableRenderer
}

// NewExportService wires the catalogue source with the CSV and PDF renderers.
func NewExportService(courses courseLister, csv, pdf tableRenderer) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(1, 2, 6)
	}
	return &ExportService{courses: courses, csv: csv, pdf: pdf}
}

// Export renders every course in the requested format.
func (s *ExportService) Export(ctx context.Context, format string) (*ExportedFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}

	var (
		renderer    tableRenderer
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		renderer, contentType = s.csv, "text/csv; charset=utf-8"
	case ExportFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(courseTable(courses))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render course export")
	}
	return &ExportedFile{Filename: "cursos." + format, ContentType: contentType, Payload: payload}, nil
}

func courseTable(courses []models.Course) export.Table {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Code, c.Description})
	}
	return export.Table{
		Title:   "Cursos",
		Columns: []string{"id", "code", "description"},
		Rows:    rows,
	}
}
