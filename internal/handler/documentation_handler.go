package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/pkg/response"
)

type documentationService interface {
	GetAll(ctx context.Context) ([]models.DocumentationWithDetails, error)
	GetByEmail(ctx context.Context, email string) ([]models.DocumentationWithDetails, error)
	CreateWithDetails(ctx context.Context, writer string, req dto.DocumentationRequest) (*models.DocumentationWithDetails, error)
	UpdateWithDetails(ctx context.Context, id, writer string, req dto.DocumentationRequest) (*models.DocumentationWithDetails, error)
	Delete(ctx context.Context, id string) error
}

// DocumentationHandler exposes meeting documentation endpoints.
type DocumentationHandler struct {
	docs documentationService
}

// NewDocumentationHandler constructs DocumentationHandler.
func NewDocumentationHandler(docs documentationService) *DocumentationHandler {
	return &DocumentationHandler{docs: docs}
}

// List godoc
// @Summary List documentation
// @Tags Documentation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /documentation [get]
func (h *DocumentationHandler) List(c *gin.Context) {
	docs, err := h.docs.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// ByEmail godoc
// @Summary List documentation written by a user
// @Tags Documentation
// @Produce json
// @Security BearerAuth
// @Param email path string true "Writer email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documentation/email/{email} [get]
func (h *DocumentationHandler) ByEmail(c *gin.Context) {
	docs, err := h.docs.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// Create godoc
// @Summary Create documentation with discussion details
// @Tags Documentation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.DocumentationRequest true "Documentation"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /documentation [post]
func (h *DocumentationHandler) Create(c *gin.Context) {
	var req dto.DocumentationRequest
	if err := bindJSON(c, &req, "invalid documentation payload"); err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.docs.CreateWithDetails(c.Request.Context(), writerEmail(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Update godoc
// @Summary Replace documentation and its details
// @Tags Documentation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Documentation ID"
// @Param payload body dto.DocumentationRequest true "Documentation"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documentation/{id} [put]
func (h *DocumentationHandler) Update(c *gin.Context) {
	var req dto.DocumentationRequest
	if err := bindJSON(c, &req, "invalid documentation payload"); err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.docs.UpdateWithDetails(c.Request.Context(), c.Param("id"), writerEmail(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// Delete godoc
// @Summary Delete documentation
// @Tags Documentation
// @Security BearerAuth
// @Param id path string true "Documentation ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /documentation/{id} [delete]
func (h *DocumentationHandler) Delete(c *gin.Context) {
	if err := h.docs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func writerEmail(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.Email
	}
	return ""
}

