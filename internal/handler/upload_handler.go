package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/response"
	"github.com/abelkristv/magang-sub001/pkg/spreadsheet"
	"github.com/abelkristv/magang-sub001/pkg/storage"
)

type studentImporter interface {
	Import(ctx context.Context, wb *spreadsheet.Workbook, period string) (*dto.ImportResponse, error)
}

// WorkbookReader loads a staged spreadsheet file.
type WorkbookReader func(path string) (*spreadsheet.Workbook, error)

// UploadHandler accepts spreadsheet uploads and imports their students.
type UploadHandler struct {
	importer studentImporter
	storage  *storage.LocalStorage
	read     WorkbookReader
	logger   *zap.Logger
}

// NewUploadHandler constructs UploadHandler. read defaults to spreadsheet.Read.
func NewUploadHandler(importer studentImporter, store *storage.LocalStorage, read WorkbookReader, logger *zap.Logger) *UploadHandler {
	if read == nil {
		read = spreadsheet.Read
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{importer: importer, storage: store, read: read, logger: logger}
}

// UploadStudents godoc
// @Summary Import students from a spreadsheet
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx, xls or csv workbook"
// @Param period formData string true "Internship period"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /upload-student-data [post]
func (h *UploadHandler) UploadStudents(c *gin.Context) {
	period := strings.TrimSpace(c.PostForm("period"))
	if period == "" {
		response.Error(c, appErrors.Validation("period is required"))
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	if !spreadsheet.SupportedExtension(header.Filename) {
		response.Error(c, appErrors.Validation("file must be .xlsx, .xls or .csv"))
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to open upload"))
		return
	}
	defer src.Close() //nolint:errcheck

	path, err := h.storage.Stage(header.Filename, src)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
			return
		}
		response.Error(c, appErrors.Internal(err, "failed to store upload"))
		return
	}
	defer func() {
		if err := h.storage.Remove(path); err != nil {
			h.logger.Warn("failed to remove staged upload", zap.String("path", path), zap.Error(err))
		}
	}()

	wb, err := h.read(path)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read spreadsheet"))
		return
	}
	result, err := h.importer.Import(c.Request.Context(), wb, period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
