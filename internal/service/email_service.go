package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/jobs"
	"github.com/abelkristv/magang-sub001/pkg/mailer"
	"github.com/abelkristv/magang-sub001/pkg/middleware/requestid"
)

const (
	emailJobType     = "email.send"
	emailStatusQueue = "queued"
)

// EmailConfig tunes the dispatch queue.
type EmailConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// EmailService validates outbound emails and delivers them asynchronously.
type EmailService struct {
	sender    mailer.Sender
	queue     *jobs.Queue
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmailService builds the service and its dispatch queue. Call Start
// before sending.
func NewEmailService(sender mailer.Sender, cfg EmailConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EmailService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &EmailService{sender: sender, metrics: metrics, validator: validate, logger: logger}
	svc.queue = jobs.NewQueue("email", svc.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnSuccess:  func(jobs.Job) { metrics.RecordMail("sent") },
		OnGiveUp:   func(jobs.Job, error) { metrics.RecordMail("failed") },
	})
	return svc
}

// Start launches the dispatch workers.
func (s *EmailService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts the workers. Unsent emails are dropped.
func (s *EmailService) Stop() {
	s.queue.Stop()
}

// Send queues req for delivery and returns its job id.
func (s *EmailService) Send(ctx context.Context, req dto.SendEmailRequest) (*dto.SendEmailResponse, error) {
	req.To = strings.TrimSpace(req.To)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a valid to address, subject and text are required")
	}

	id := uuid.NewString()
	job := jobs.Job{
		ID:      id,
		Type:    emailJobType,
		Payload: mailer.Message{To: req.To, Subject: req.Subject, Text: req.Text},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.metrics.RecordMail("rejected")
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "email queue is full, try again later")
		}
		return nil, appErrors.Internal(err, "failed to queue email")
	}
	s.metrics.RecordMail("queued")
	s.logger.Info("email queued", zap.String("job_id", id), zap.String("to", req.To), zap.String("request_id", requestid.FromContext(ctx)))
	return &dto.SendEmailResponse{ID: id, Status: emailStatusQueue}, nil
}

func (s *EmailService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	return s.sender.Send(ctx, msg)
}
