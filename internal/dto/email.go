package dto

// SendEmailRequest is the body of POST /send-email.
type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text" validate:"required"`
}

// SendEmailResponse acknowledges a queued email.
type SendEmailResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
