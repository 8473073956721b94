package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/export"
)

const exportPageSize = maxLimit

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type reportLister interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.StudentReport, error)
}

// Renderer encodes a dataset in one format.
type Renderer func(format export.Format, data export.Dataset) ([]byte, error)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders student and report listings as downloadable files.
type ExportService struct {
	students studentLister
	reports  reportLister
	render   Renderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService. render defaults to export.Render.
func NewExportService(students studentLister, reports reportLister, render Renderer, logger *zap.Logger) *ExportService {
	if render == nil {
		render = export.Render
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, reports: reports, render: render, logger: logger}
}

// ExportStudents renders every student matching the list filters.
func (s *ExportService) ExportStudents(ctx context.Context, query dto.ExportStudentsQuery) (*ExportFile, error) {
	format, err := parseExportFormat(query.Format)
	if err != nil {
		return nil, err
	}

	filter := BuildStudentFilter(query.Name, query.Period, query.Status)
	filter.Limit = exportPageSize
	var students []models.Student
	for page := 1; ; page++ {
		filter.Page = page
		batch, total, err := s.students.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load students")
		}
		students = append(students, batch...)
		if len(batch) < exportPageSize || len(students) >= total {
			break
		}
	}

	data := export.Dataset{
		Title:   "Students",
		Headers: []string{"Name", "NIM", "Email", "Major", "Semester", "Period", "Tempat Magang", "Phone", "Status", "Faculty Supervisor", "Site Supervisor", "Notes"},
		Rows:    make([][]string, 0, len(students)),
	}
	for _, st := range students {
		data.Rows = append(data.Rows, []string{
			st.Name, st.NIM, st.Email, st.Major, st.Semester, st.Period, st.TempatMagang,
			st.Phone, st.Status, st.FacultySupervisor, st.SiteSupervisor, st.Notes,
		})
	}
	return s.file(format, "students", data)
}

// ExportReports renders the reports of one student within the optional range.
func (s *ExportService) ExportReports(ctx context.Context, query dto.ExportReportsQuery) (*ExportFile, error) {
	format, err := parseExportFormat(query.Format)
	if err != nil {
		return nil, err
	}
	filter, err := buildReportFilter(dto.ReportQuery{StudentName: query.StudentName, StartDate: query.StartDate, EndDate: query.EndDate})
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load reports")
	}

	data := export.Dataset{
		Title:   fmt.Sprintf("Reports %s", filter.StudentName),
		Headers: []string{"Timestamp", "Type", "Person", "Status", "Report", "Writer"},
		Rows:    make([][]string, 0, len(reports)),
	}
	for _, r := range reports {
		data.Rows = append(data.Rows, []string{
			r.Timestamp.UTC().Format(time.RFC3339), string(r.Type), r.Person, r.Status, r.Report, r.Writer,
		})
	}
	return s.file(format, "reports_"+sanitizeFilename(filter.StudentName), data)
}

func (s *ExportService) file(format export.Format, base string, data export.Dataset) (*ExportFile, error) {
	payload, err := s.render(format, data)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	name := fmt.Sprintf("%s_%s.%s", base, time.Now().UTC().Format("20060102_150405"), format)
	s.logger.Info("export rendered", zap.String("file", name), zap.Int("rows", len(data.Rows)))
	return &ExportFile{Filename: name, ContentType: format.ContentType(), Data: payload}, nil
}

func parseExportFormat(raw string) (export.Format, error) {
	format, err := export.ParseFormat(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be one of xlsx, csv or pdf")
	}
	return format, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
