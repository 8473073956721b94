package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/service"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

type exportServiceMock struct {
	students dto.ExportStudentsQuery
}

func (m *exportServiceMock) ExportStudents(ctx context.Context, query dto.ExportStudentsQuery) (*service.ExportFile, error) {
	m.students = query
	return &service.ExportFile{Filename: "students_20240101.csv", ContentType: "text/csv", Data: []byte("name\nAlice\n")}, nil
}

func (m *exportServiceMock) ExportReports(ctx context.Context, query dto.ExportReportsQuery) (*service.ExportFile, error) {
	return nil, appErrors.Validation("studentName is required")
}

func TestExportHandlerStudentsAttachment(t *testing.T) {
	svc := &exportServiceMock{}
	h := NewExportHandler(svc)

	c, w := newGinContext(http.MethodGet, "/export/students?format=csv&period=2024&status=active", nil)
	h.Students(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="students_20240101.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "name\nAlice\n", w.Body.String())
	assert.Equal(t, dto.ExportStudentsQuery{Format: "csv", Period: "2024", Status: "active"}, svc.students)
}

func TestExportHandlerReportsError(t *testing.T) {
	h := NewExportHandler(&exportServiceMock{})

	c, w := newGinContext(http.MethodGet, "/export/reports", nil)
	h.Reports(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
