package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/middleware"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

type documentationServiceMock struct {
	writer string
	id     string
}

func (m *documentationServiceMock) GetAll(ctx context.Context) ([]models.DocumentationWithDetails, error) {
	return []models.DocumentationWithDetails{}, nil
}

func (m *documentationServiceMock) GetByEmail(ctx context.Context, email string) ([]models.DocumentationWithDetails, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no documentation found for "+email)
}

func (m *documentationServiceMock) CreateWithDetails(ctx context.Context, writer string, req dto.DocumentationRequest) (*models.DocumentationWithDetails, error) {
	m.writer = writer
	if writer == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.DocumentationWithDetails{}, nil
}

func (m *documentationServiceMock) UpdateWithDetails(ctx context.Context, id, writer string, req dto.DocumentationRequest) (*models.DocumentationWithDetails, error) {
	m.id = id
	m.writer = writer
	return &models.DocumentationWithDetails{}, nil
}

func (m *documentationServiceMock) Delete(ctx context.Context, id string) error {
	return nil
}

func TestDocumentationHandlerCreateUsesCallerEmail(t *testing.T) {
	svc := &documentationServiceMock{}
	h := NewDocumentationHandler(svc)

	c, w := newGinContext(http.MethodPost, "/documentation", []byte(`{"type":"Meeting","place":"Room"}`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "doc@x.io"})
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "doc@x.io", svc.writer)
}

func TestDocumentationHandlerCreateWithoutCaller(t *testing.T) {
	h := NewDocumentationHandler(&documentationServiceMock{})

	c, w := newGinContext(http.MethodPost, "/documentation", []byte(`{}`))
	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDocumentationHandlerUpdateAndByEmail(t *testing.T) {
	svc := &documentationServiceMock{}
	h := NewDocumentationHandler(svc)

	c, w := newGinContext(http.MethodPut, "/documentation/d1", []byte(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "d1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "doc@x.io"})
	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "d1", svc.id)

	c, w = newGinContext(http.MethodGet, "/documentation/email/none@x.io", nil)
	c.Params = gin.Params{{Key: "email", Value: "none@x.io"}}
	h.ByEmail(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodDelete, "/documentation/d1", nil)
	c.Params = gin.Params{{Key: "id", Value: "d1"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}
