package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/response"
)

type studentService interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetPaginated(ctx context.Context, query dto.StudentListQuery) ([]models.Student, *models.Pagination, error)
	Search(ctx context.Context, query dto.StudentSearchQuery) ([]models.Student, *models.Pagination, error)
	UpdateNotes(ctx context.Context, id, notes string) (*models.Student, error)
	GetReportCount(ctx context.Context, id string) (*dto.ReportCountResponse, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains"
// @Param period query string false "Period, digits are extracted"
// @Param status query string false "active or not active"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /student [get]
func (h *StudentHandler) List(c *gin.Context) {
	var query dto.StudentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	students, pagination, err := h.students.GetPaginated(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Search godoc
// @Summary Search students by name
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains"
// @Param page query int true "Page"
// @Param limit query int true "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	var query dto.StudentSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "page and limit must be integers"))
		return
	}
	students, pagination, err := h.students.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdateNotes godoc
// @Summary Replace advisor notes
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateNotesRequest true "Notes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/{id}/notes [put]
func (h *StudentHandler) UpdateNotes(c *gin.Context) {
	var req dto.UpdateNotesRequest
	if err := bindJSON(c, &req, "invalid notes payload"); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// ReportCount godoc
// @Summary Count reports about a student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/{id}/reports/count [get]
func (h *StudentHandler) ReportCount(c *gin.Context) {
	count, err := h.students.GetReportCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil)
}
