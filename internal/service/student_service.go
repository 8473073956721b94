package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var periodDigits = regexp.MustCompile(`\d+`)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdateNotes(ctx context.Context, id, notes string) error
}

type reportCounter interface {
	CountByStudentName(ctx context.Context, name string) (int, error)
}

// StudentService handles intern record use cases.
type StudentService struct {
	repo    studentRepository
	reports reportCounter
	logger  *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, reports reportCounter, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, reports: reports, logger: logger}
}

// GetByID returns a student.
func (s *StudentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("student id is required")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// GetPaginated lists students matching the optional name, period and status
// filters. Unusable filter values are ignored.
func (s *StudentService) GetPaginated(ctx context.Context, query dto.StudentListQuery) ([]models.Student, *models.Pagination, error) {
	filter := BuildStudentFilter(query.Name, query.Period, query.Status)
	filter.Page, filter.Limit = normalisePage(query.Page, query.Limit)
	return s.list(ctx, filter)
}

// Search lists students whose name contains name. Page and limit must be
// positive.
func (s *StudentService) Search(ctx context.Context, query dto.StudentSearchQuery) ([]models.Student, *models.Pagination, error) {
	if query.Page <= 0 || query.Limit <= 0 {
		return nil, nil, appErrors.Validation("page and limit must be positive integers")
	}
	limit := query.Limit
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.list(ctx, models.StudentFilter{Name: strings.TrimSpace(query.Name), Page: query.Page, Limit: limit})
}

func (s *StudentService) list(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// UpdateNotes replaces the advisor notes and returns the updated student.
func (s *StudentService) UpdateNotes(ctx context.Context, id, notes string) (*models.Student, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("student id is required")
	}
	if strings.TrimSpace(notes) == "" {
		return nil, appErrors.Validation("notes are required")
	}
	if err := s.repo.UpdateNotes(ctx, id, notes); err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notes")
	}
	return s.GetByID(ctx, id)
}

// GetReportCount counts the reports written about a student. Reports link to
// students by name.
func (s *StudentService) GetReportCount(ctx context.Context, id string) (*dto.ReportCountResponse, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.reports.CountByStudentName(ctx, student.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports")
	}
	return &dto.ReportCountResponse{StudentID: student.ID, StudentName: student.Name, Count: count}, nil
}

// BuildStudentFilter normalises raw list filters. The period keeps only its
// first run of digits and the status maps onto the two stored values.
func BuildStudentFilter(name, period, status string) models.StudentFilter {
	return models.StudentFilter{
		Name:   strings.TrimSpace(name),
		Period: periodDigits.FindString(period),
		Status: normaliseStatus(status),
	}
}

func normaliseStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return models.StudentStatusActive
	case "not active", "inactive", "not_active", "nonactive":
		return models.StudentStatusNotActive
	}
	return ""
}

func normalisePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
