package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/pkg/response"
)

type referenceService interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListMajors(ctx context.Context) ([]models.Major, error)
	CreateMajor(ctx context.Context, req dto.NamedEntityRequest) (*models.Major, error)
	ListPeriods(ctx context.Context) ([]models.Period, error)
	CreatePeriod(ctx context.Context, req dto.NamedEntityRequest) (*models.Period, error)
}

// ReferenceHandler serves lookup lists used by frontend filters.
type ReferenceHandler struct {
	refs referenceService
}

// NewReferenceHandler constructs ReferenceHandler.
func NewReferenceHandler(refs referenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

// Companies godoc
// @Summary List companies
// @Tags Reference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /companies [get]
func (h *ReferenceHandler) Companies(c *gin.Context) {
	companies, err := h.refs.ListCompanies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, companies, nil)
}

// Majors godoc
// @Summary List majors
// @Tags Reference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /majors [get]
func (h *ReferenceHandler) Majors(c *gin.Context) {
	majors, err := h.refs.ListMajors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, majors, nil)
}

// CreateMajor godoc
// @Summary Create major
// @Tags Reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.NamedEntityRequest true "Major"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /majors [post]
func (h *ReferenceHandler) CreateMajor(c *gin.Context) {
	var req dto.NamedEntityRequest
	if err := bindJSON(c, &req, "invalid major payload"); err != nil {
		response.Error(c, err)
		return
	}
	major, err := h.refs.CreateMajor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, major)
}

// Periods godoc
// @Summary List periods
// @Tags Reference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *ReferenceHandler) Periods(c *gin.Context) {
	periods, err := h.refs.ListPeriods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// CreatePeriod godoc
// @Summary Create period
// @Tags Reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.NamedEntityRequest true "Period"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /periods [post]
func (h *ReferenceHandler) CreatePeriod(c *gin.Context) {
	var req dto.NamedEntityRequest
	if err := bindJSON(c, &req, "invalid period payload"); err != nil {
		response.Error(c, err)
		return
	}
	period, err := h.refs.CreatePeriod(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}
