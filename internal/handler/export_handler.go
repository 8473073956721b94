package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/service"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/response"
)

type exportService interface {
	ExportStudents(ctx context.Context, query dto.ExportStudentsQuery) (*service.ExportFile, error)
	ExportReports(ctx context.Context, query dto.ExportReportsQuery) (*service.ExportFile, error)
}

// ExportHandler streams student and report exports as attachments.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Students godoc
// @Summary Export students
// @Tags Export
// @Produce application/octet-stream
// @Security BearerAuth
// @Param format query string false "xlsx, csv or pdf"
// @Param name query string false "Name contains"
// @Param period query string false "Period"
// @Param status query string false "Status"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export/students [get]
func (h *ExportHandler) Students(c *gin.Context) {
	var query dto.ExportStudentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	file, err := h.exports.ExportStudents(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	attach(c, file)
}

// Reports godoc
// @Summary Export reports of a student
// @Tags Export
// @Produce application/octet-stream
// @Security BearerAuth
// @Param studentName query string true "Student name"
// @Param format query string false "xlsx, csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export/reports [get]
func (h *ExportHandler) Reports(c *gin.Context) {
	var query dto.ExportReportsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	file, err := h.exports.ExportReports(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	attach(c, file)
}

func attach(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
