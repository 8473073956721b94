package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/internal/service"
	"github.com/abelkristv/magang-sub001/pkg/envelope"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/response"
)

type reportService interface {
	GetReports(ctx context.Context, query dto.ReportQuery) ([]models.StudentReport, error)
	CreateReport(ctx context.Context, payload dto.ReportPayload) (*models.StudentReport, error)
	UpdateReport(ctx context.Context, id string, payload dto.ReportUpdatePayload) (*models.StudentReport, error)
	DeleteReport(ctx context.Context, id string) error
	GetUrgentReports(ctx context.Context) ([]models.StudentReport, error)
	GetTotalCommentsByStudents(ctx context.Context, students []dto.StudentRef) (map[string]int, error)
	ListComments(ctx context.Context, reportID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, reportID, writer string, req dto.CommentRequest) (*models.Comment, error)
}

// ReportHandler exposes student report endpoints. Create and update bodies
// arrive encrypted.
type ReportHandler struct {
	reports reportService
	codec   *envelope.Codec
	metrics *service.MetricsService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService, codec *envelope.Codec, metrics *service.MetricsService) *ReportHandler {
	return &ReportHandler{reports: reports, codec: codec, metrics: metrics}
}

// List godoc
// @Summary List reports of a student
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param studentName query string true "Student name"
// @Param startDate query string false "Inclusive lower bound"
// @Param endDate query string false "Inclusive upper bound"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	reports, err := h.reports.GetReports(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// Create godoc
// @Summary Create report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body object true "{encryptedData: string}"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var payload dto.ReportPayload
	if err := decodeEncrypted(c, h.codec, h.metrics, &payload); err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.CreateReport(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Update godoc
// @Summary Update report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body object true "{encryptedData: string}"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	var payload dto.ReportUpdatePayload
	if err := decodeEncrypted(c, h.codec, h.metrics, &payload); err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.UpdateReport(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Delete godoc
// @Summary Delete report
// @Tags Reports
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.reports.DeleteReport(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Urgent godoc
// @Summary List urgent reports
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/urgent [get]
func (h *ReportHandler) Urgent(c *gin.Context) {
	reports, err := h.reports.GetUrgentReports(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// TotalComments godoc
// @Summary Sum comments per student
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TotalCommentsRequest true "Students"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/comments/total [post]
func (h *ReportHandler) TotalComments(c *gin.Context) {
	var req dto.TotalCommentsRequest
	if err := bindJSON(c, &req, "students must be a list of {name}"); err != nil {
		response.Error(c, err)
		return
	}
	totals, err := h.reports.GetTotalCommentsByStudents(c.Request.Context(), req.Students)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, totals, nil)
}

// ListComments godoc
// @Summary List comments of a report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/comments [get]
func (h *ReportHandler) ListComments(c *gin.Context) {
	comments, err := h.reports.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comments, nil)
}

// CreateComment godoc
// @Summary Comment on a report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body dto.CommentRequest true "Comment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/comments [post]
func (h *ReportHandler) CreateComment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CommentRequest
	if err := bindJSON(c, &req, "invalid comment payload"); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := h.reports.CreateComment(c.Request.Context(), c.Param("id"), claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}
