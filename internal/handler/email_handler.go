package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/pkg/response"
)

type emailService interface {
	Send(ctx context.Context, req dto.SendEmailRequest) (*dto.SendEmailResponse, error)
}

// EmailHandler queues outgoing mail.
type EmailHandler struct {
	email emailService
}

// NewEmailHandler constructs EmailHandler.
func NewEmailHandler(email emailService) *EmailHandler {
	return &EmailHandler{email: email}
}

// Send godoc
// @Summary Queue an email
// @Tags Email
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SendEmailRequest true "Email"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /send-email [post]
func (h *EmailHandler) Send(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := bindJSON(c, &req, "invalid email payload"); err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.email.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, res)
}
