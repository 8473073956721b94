package handler

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/middleware"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/internal/repository"
	"github.com/abelkristv/magang-sub001/internal/service"
	"github.com/abelkristv/magang-sub001/pkg/envelope"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

type reportServiceMock struct {
	query      dto.ReportQuery
	created    dto.ReportPayload
	updatedID  string
	updated    dto.ReportUpdatePayload
	students   []dto.StudentRef
	commentBy  string
	comment    dto.CommentRequest
	reports    []models.StudentReport
	totals     map[string]int
	err        error
	createCall int
}

func (m *reportServiceMock) GetReports(ctx context.Context, query dto.ReportQuery) ([]models.StudentReport, error) {
	m.query = query
	return m.reports, m.err
}

func (m *reportServiceMock) CreateReport(ctx context.Context, payload dto.ReportPayload) (*models.StudentReport, error) {
	m.createCall++
	m.created = payload
	if m.err != nil {
		return nil, m.err
	}
	return &models.StudentReport{ID: "r1", StudentName: payload.StudentName, Sentiment: models.SentimentNeutral}, nil
}

func (m *reportServiceMock) UpdateReport(ctx context.Context, id string, payload dto.ReportUpdatePayload) (*models.StudentReport, error) {
	m.updatedID = id
	m.updated = payload
	if m.err != nil {
		return nil, m.err
	}
	return &models.StudentReport{ID: id, Report: payload.Report}, nil
}

func (m *reportServiceMock) DeleteReport(ctx context.Context, id string) error {
	return m.err
}

func (m *reportServiceMock) GetUrgentReports(ctx context.Context) ([]models.StudentReport, error) {
	return m.reports, m.err
}

func (m *reportServiceMock) GetTotalCommentsByStudents(ctx context.Context, students []dto.StudentRef) (map[string]int, error) {
	m.students = students
	return m.totals, m.err
}

func (m *reportServiceMock) ListComments(ctx context.Context, reportID string) ([]models.Comment, error) {
	return []models.Comment{{ID: "c1", StudentReportID: reportID}}, m.err
}

func (m *reportServiceMock) CreateComment(ctx context.Context, reportID, writer string, req dto.CommentRequest) (*models.Comment, error) {
	m.commentBy = writer
	m.comment = req
	return &models.Comment{ID: "c9", StudentReportID: reportID, Writer: writer, Content: req.Content}, m.err
}

func sealedBody(t *testing.T, codec *envelope.Codec, payload interface{}) []byte {
	t.Helper()
	sealed, err := codec.Seal(payload)
	require.NoError(t, err)
	return mustJSON(t, map[string]string{"encryptedData": sealed})
}

func TestReportHandlerCreateDecryptsBody(t *testing.T) {
	codec := envelope.New("secret")
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, codec, nil)

	payload := dto.ReportPayload{Type: "Urgent", Person: "Advisor", Status: "open", Report: "late", StudentName: "Alice", Timestamp: "2024-01-10T09:00", Writer: "a@x.io"}
	c, w := newGinContext(http.MethodPost, "/reports", sealedBody(t, codec, payload))

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, payload, svc.created)

	var report models.StudentReport
	decodeEnvelope(t, w, &report)
	assert.Equal(t, "Alice", report.StudentName)
	assert.Equal(t, models.SentimentNeutral, report.Sentiment)
}

func TestReportHandlerCreateRejectsBadEnvelope(t *testing.T) {
	metrics := service.NewMetricsService()
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, envelope.New("secret"), metrics)

	cases := []struct {
		name string
		body string
		code string
	}{
		{"not an object", `"plain"`, appErrors.ErrInvalidFormat.Code},
		{"empty ciphertext", `{"encryptedData":""}`, appErrors.ErrInvalidFormat.Code},
		{"garbage ciphertext", `{"encryptedData":"hello"}`, appErrors.ErrDecryptionFailed.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newGinContext(http.MethodPost, "/reports", []byte(tc.body))
			h.Create(c)

			require.Equal(t, http.StatusBadRequest, w.Code)
			env := decodeEnvelope(t, w, nil)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
	assert.Zero(t, svc.createCall)
}

func TestReportHandlerCreateWrongKey(t *testing.T) {
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, envelope.New("server"), nil)

	body := sealedBody(t, envelope.New("client"), dto.ReportPayload{Report: "x"})
	c, w := newGinContext(http.MethodPost, "/reports", body)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.createCall)
}

func TestReportHandlerUpdate(t *testing.T) {
	codec := envelope.New("secret")
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, codec, nil)

	body := sealedBody(t, codec, dto.ReportUpdatePayload{Report: "resolved", Timestamp: "2024-01-11"})
	c, w := newGinContext(http.MethodPut, "/reports/r1", body)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}

	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", svc.updatedID)
	assert.Equal(t, "resolved", svc.updated.Report)
}

func TestReportHandlerListPassesQuery(t *testing.T) {
	svc := &reportServiceMock{reports: []models.StudentReport{{ID: "r1"}}}
	h := NewReportHandler(svc, nil, nil)

	c, w := newGinContext(http.MethodGet, "/reports?studentName=Bob&startDate=2024-01-01&endDate=2024-01-31", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ReportQuery{StudentName: "Bob", StartDate: "2024-01-01", EndDate: "2024-01-31"}, svc.query)
}

func TestReportHandlerDeleteNotFound(t *testing.T) {
	svc := &reportServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "report not found")}
	h := NewReportHandler(svc, nil, nil)

	c, w := newGinContext(http.MethodDelete, "/reports/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerDeleteUnparsableIDIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_reports WHERE id = $1")).
		WithArgs("R1").
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "R1"`})

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	svc := service.NewReportService(repository.NewReportRepository(sqlxDB), repository.NewCommentRepository(sqlxDB), nil, nil, nil)
	h := NewReportHandler(svc, nil, nil)

	c, w := newGinContext(http.MethodDelete, "/reports/R1", nil)
	c.Params = gin.Params{{Key: "id", Value: "R1"}}
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandlerTotalComments(t *testing.T) {
	svc := &reportServiceMock{totals: map[string]int{"Bob": 3, "Cara": 0}}
	h := NewReportHandler(svc, nil, nil)

	body := []byte(`{"students":[{"name":"Bob"},{"name":"Cara"}]}`)
	c, w := newGinContext(http.MethodPost, "/reports/comments/total", body)
	h.TotalComments(c)

	require.Equal(t, http.StatusOK, w.Code)
	var totals map[string]int
	decodeEnvelope(t, w, &totals)
	assert.Equal(t, map[string]int{"Bob": 3, "Cara": 0}, totals)
	assert.Len(t, svc.students, 2)
}

func TestReportHandlerCreateCommentUsesCaller(t *testing.T) {
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, nil, nil)

	c, w := newGinContext(http.MethodPost, "/reports/r1/comments", []byte(`{"content":"called parents"}`))
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "advisor@x.io", Role: models.RoleEnrichment})

	h.CreateComment(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "advisor@x.io", svc.commentBy)
	assert.Equal(t, "called parents", svc.comment.Content)
}

func TestReportHandlerCreateCommentRequiresClaims(t *testing.T) {
	h := NewReportHandler(&reportServiceMock{}, nil, nil)

	c, w := newGinContext(http.MethodPost, "/reports/r1/comments", []byte(`{"content":"x"}`))
	h.CreateComment(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
