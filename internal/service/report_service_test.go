package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

type mockReportRepo struct {
	reports     map[string]models.StudentReport
	lastFilter  models.ReportFilter
	created     []models.StudentReport
	typeQueries int
}

func (m *mockReportRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.StudentReport, error) {
	m.lastFilter = filter
	var out []models.StudentReport
	for _, r := range m.reports {
		if r.StudentName == filter.StudentName {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) ListByType(ctx context.Context, reportType models.ReportType) ([]models.StudentReport, error) {
	m.typeQueries++
	var out []models.StudentReport
	for _, r := range m.reports {
		if r.Type == reportType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) ListByStudentNames(ctx context.Context, names []string) ([]models.StudentReport, error) {
	var out []models.StudentReport
	for _, r := range m.reports {
		for _, n := range names {
			if r.StudentName == n {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *mockReportRepo) FindByID(ctx context.Context, id string) (*models.StudentReport, error) {
	if r, ok := m.reports[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReportRepo) Create(ctx context.Context, report *models.StudentReport) error {
	report.ID = "new"
	m.created = append(m.created, *report)
	m.reports[report.ID] = *report
	return nil
}

func (m *mockReportRepo) Update(ctx context.Context, report *models.StudentReport) error {
	if _, ok := m.reports[report.ID]; !ok {
		return sql.ErrNoRows
	}
	m.reports[report.ID] = *report
	return nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.reports[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.reports, id)
	return nil
}

type mockCommentRepo struct {
	comments []models.Comment
}

func (m *mockCommentRepo) ListByReport(ctx context.Context, reportID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range m.comments {
		if c.StudentReportID == reportID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = "c-new"
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *mockCommentRepo) CountByReportIDs(ctx context.Context, reportIDs []string) ([]models.ReportCommentCount, error) {
	counts := map[string]int{}
	for _, c := range m.comments {
		for _, id := range reportIDs {
			if c.StudentReportID == id {
				counts[id]++
			}
		}
	}
	out := make([]models.ReportCommentCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, models.ReportCommentCount{StudentReportID: id, Count: n})
	}
	return out, nil
}

func newReportFixtures() (*mockReportRepo, *mockCommentRepo) {
	ts := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	repo := &mockReportRepo{reports: map[string]models.StudentReport{
		"r1": {ID: "r1", Type: models.ReportTypeUrgent, StudentName: "Bob", Report: "absent", Timestamp: ts},
		"r2": {ID: "r2", Type: models.ReportTypeReport, StudentName: "Bob", Report: "ok", Timestamp: ts},
		"r3": {ID: "r3", Type: models.ReportTypeComplaint, StudentName: "Cara", Report: "late", Timestamp: ts},
	}}
	comments := &mockCommentRepo{comments: []models.Comment{
		{ID: "c1", StudentReportID: "r1"},
		{ID: "c2", StudentReportID: "r1"},
		{ID: "c3", StudentReportID: "r2"},
	}}
	return repo, comments
}

func validReportPayload() dto.ReportPayload {
	return dto.ReportPayload{
		Type: "Report", Person: "Company", Status: "open", Report: "doing well",
		StudentName: "Bob", Timestamp: "2024-01-10T09:00:00Z", Writer: "adv@example.com",
	}
}

func TestReportServiceGetReportsFilters(t *testing.T) {
	repo, comments := newReportFixtures()
	svc := NewReportService(repo, comments, nil, nil, nil)

	_, err := svc.GetReports(context.Background(), dto.ReportQuery{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.GetReports(context.Background(), dto.ReportQuery{StudentName: "Bob", StartDate: "yesterday"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.GetReports(context.Background(), dto.ReportQuery{StudentName: "Bob", StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	reports, err := svc.GetReports(context.Background(), dto.ReportQuery{StudentName: "Bob", StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	require.NotNil(t, repo.lastFilter.EndDate)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), *repo.lastFilter.EndDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *repo.lastFilter.StartDate)
}

func TestReportServiceCreateRequiresEveryField(t *testing.T) {
	blankers := []func(*dto.ReportPayload){
		func(p *dto.ReportPayload) { p.Report = "" },
		func(p *dto.ReportPayload) { p.StudentName = "" },
		func(p *dto.ReportPayload) { p.Type = "" },
		func(p *dto.ReportPayload) { p.Status = "" },
		func(p *dto.ReportPayload) { p.Person = "" },
		func(p *dto.ReportPayload) { p.Writer = "" },
		func(p *dto.ReportPayload) { p.Timestamp = "not a date" },
		func(p *dto.ReportPayload) { p.StudentName = "   " },
		func(p *dto.ReportPayload) { p.Report = "  " },
		func(p *dto.ReportPayload) { p.Person = "\t" },
		func(p *dto.ReportPayload) { p.Writer = " " },
		func(p *dto.ReportPayload) { p.Type = " \n" },
		func(p *dto.ReportPayload) { p.Status = "  " },
	}
	for _, blank := range blankers {
		repo, comments := newReportFixtures()
		svc := NewReportService(repo, comments, nil, nil, nil)
		payload := validReportPayload()
		blank(&payload)

		_, err := svc.CreateReport(context.Background(), payload)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
		assert.Empty(t, repo.created)
	}
}

func TestReportServiceCreateStampsNeutralAndInvalidatesUrgent(t *testing.T) {
	repo, comments := newReportFixtures()
	cacheRepo := newMemCache()
	svc := NewReportService(repo, comments, NewCacheService(cacheRepo, nil, 0, nil, true), nil, nil)

	_, err := svc.GetUrgentReports(context.Background())
	require.NoError(t, err)
	require.Contains(t, cacheRepo.items, urgentReportsKey)

	report, err := svc.CreateReport(context.Background(), validReportPayload())
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, report.Sentiment)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), report.Timestamp)
	assert.NotContains(t, cacheRepo.items, urgentReportsKey)
}

func TestReportServiceUrgentReportsServedFromCache(t *testing.T) {
	repo, comments := newReportFixtures()
	svc := NewReportService(repo, comments, NewCacheService(newMemCache(), nil, 0, nil, true), nil, nil)

	first, err := svc.GetUrgentReports(context.Background())
	require.NoError(t, err)
	second, err := svc.GetUrgentReports(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.typeQueries)
	require.Len(t, first, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestReportServiceUpdate(t *testing.T) {
	repo, comments := newReportFixtures()
	svc := NewReportService(repo, comments, nil, nil, nil)

	_, err := svc.UpdateReport(context.Background(), "r2", dto.ReportUpdatePayload{Status: "closed"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateReport(context.Background(), "missing", dto.ReportUpdatePayload{Timestamp: "2024-01-11"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	report, err := svc.UpdateReport(context.Background(), "r2", dto.ReportUpdatePayload{Status: "closed", Timestamp: "2024-01-11T08:30"})
	require.NoError(t, err)
	assert.Equal(t, "closed", report.Status)
	assert.Equal(t, "ok", report.Report)
	assert.Equal(t, time.Date(2024, 1, 11, 8, 30, 0, 0, time.UTC), report.Timestamp)
}

func TestReportServiceDeleteMissingIsNotFound(t *testing.T) {
	repo, comments := newReportFixtures()
	svc := NewReportService(repo, comments, nil, nil, nil)

	err := svc.DeleteReport(context.Background(), "does-not-exist")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, svc.DeleteReport(context.Background(), "r3"))
}

type unparsableIDReportRepo struct {
	*mockReportRepo
}

func (m unparsableIDReportRepo) FindByID(ctx context.Context, id string) (*models.StudentReport, error) {
	return nil, fmt.Errorf("find report: %w", &pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid"})
}

func (m unparsableIDReportRepo) Delete(ctx context.Context, id string) error {
	return fmt.Errorf("delete report: %w", &pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid"})
}

func TestReportServiceUnparsableIDIsNotFound(t *testing.T) {
	repo, comments := newReportFixtures()
	svc := NewReportService(unparsableIDReportRepo{repo}, comments, nil, nil, nil)

	err := svc.DeleteReport(context.Background(), "R1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.ListComments(context.Background(), "R1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.UpdateReport(context.Background(), "R1", dto.ReportUpdatePayload{Timestamp: "2024-01-11"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestReportServiceTotalCommentsByStudents(t *testing.T) {
	repo, comments := newReportFixtures()
	svc := NewReportService(repo, comments, nil, nil, nil)

	totals, err := svc.GetTotalCommentsByStudents(context.Background(), []dto.StudentRef{{Name: "Bob"}, {Name: "Cara"}, {Name: "Alice"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Bob": 3, "Cara": 0, "Alice": 0}, totals)

	totals, err = svc.GetTotalCommentsByStudents(context.Background(), []dto.StudentRef{{Name: "Alice"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Alice": 0}, totals)

	totals, err = svc.GetTotalCommentsByStudents(context.Background(), []dto.StudentRef{{Name: "Bob "}, {Name: "Alice "}, {Name: "Cara"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Bob ": 3, "Alice ": 0, "Cara": 0}, totals)

	_, err = svc.GetTotalCommentsByStudents(context.Background(), nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestReportServiceComments(t *testing.T) {
	repo, comments := newReportFixtures()
	svc := NewReportService(repo, comments, nil, nil, nil)

	list, err := svc.ListComments(context.Background(), "r1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.CreateComment(context.Background(), "missing", "adv@example.com", dto.CommentRequest{Content: "hi"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = svc.CreateComment(context.Background(), "r3", "adv@example.com", dto.CommentRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	comment, err := svc.CreateComment(context.Background(), "r3", "adv@example.com", dto.CommentRequest{Content: " called the company "})
	require.NoError(t, err)
	assert.Equal(t, "called the company", comment.Content)
	assert.Equal(t, "adv@example.com", comment.Writer)
}
