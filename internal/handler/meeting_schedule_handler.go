package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/internal/service"
	"github.com/abelkristv/magang-sub001/pkg/envelope"
	"github.com/abelkristv/magang-sub001/pkg/response"
)

type meetingScheduleService interface {
	GetSchedules(ctx context.Context, reportIDs []string) (map[string]models.MeetingScheduleWithWriter, error)
	CreateSchedule(ctx context.Context, req dto.CreateMeetingRequest) (*dto.CreateMeetingResponse, error)
	UpdateSchedule(ctx context.Context, id string, req dto.UpdateMeetingRequest) (*models.MeetingSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error
}

// MeetingScheduleHandler exposes follow-up meeting endpoints.
type MeetingScheduleHandler struct {
	schedules meetingScheduleService
	codec     *envelope.Codec
	metrics   *service.MetricsService
}

// NewMeetingScheduleHandler constructs MeetingScheduleHandler.
func NewMeetingScheduleHandler(schedules meetingScheduleService, codec *envelope.Codec, metrics *service.MetricsService) *MeetingScheduleHandler {
	return &MeetingScheduleHandler{schedules: schedules, codec: codec, metrics: metrics}
}

// List godoc
// @Summary Latest schedule per report
// @Tags MeetingSchedules
// @Produce json
// @Security BearerAuth
// @Param reportIds query string true "Comma separated report ids"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /meeting-schedules [get]
func (h *MeetingScheduleHandler) List(c *gin.Context) {
	var ids []string
	for _, raw := range c.QueryArray("reportIds") {
		ids = append(ids, strings.Split(raw, ",")...)
	}
	schedules, err := h.schedules.GetSchedules(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Create godoc
// @Summary Schedule a meeting
// @Tags MeetingSchedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateMeetingRequest true "Schedule"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /meeting-schedules [post]
func (h *MeetingScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateMeetingRequest
	if err := bindJSON(c, &req, "invalid meeting schedule payload"); err != nil {
		response.Error(c, err)
		return
	}
	h.create(c, req)
}

// CreateEncrypted godoc
// @Summary Schedule a meeting from an encrypted body
// @Tags MeetingSchedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body object true "{encryptedData: string}"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /meeting-schedules/create [post]
func (h *MeetingScheduleHandler) CreateEncrypted(c *gin.Context) {
	var req dto.CreateMeetingRequest
	if err := decodeEncrypted(c, h.codec, h.metrics, &req); err != nil {
		response.Error(c, err)
		return
	}
	h.create(c, req)
}

func (h *MeetingScheduleHandler) create(c *gin.Context, req dto.CreateMeetingRequest) {
	res, err := h.schedules.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Update godoc
// @Summary Update a meeting
// @Tags MeetingSchedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param payload body dto.UpdateMeetingRequest true "Fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /meeting-schedules/{id} [put]
func (h *MeetingScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateMeetingRequest
	if err := bindJSON(c, &req, "invalid meeting schedule payload"); err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.schedules.UpdateSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete a meeting
// @Tags MeetingSchedules
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /meeting-schedules/{id} [delete]
func (h *MeetingScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
