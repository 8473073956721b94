package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	prommodel "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkristv/magang-sub001/internal/dto"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/mailer"
)

type stubSender struct {
	mu       sync.Mutex
	failures int
	sent     []mailer.Message
	done     chan struct{}
}

func newStubSender(failures int) *stubSender {
	return &stubSender{failures: failures, done: make(chan struct{}, 1)}
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("temporary failure")
	}
	s.sent = append(s.sent, msg)
	s.done <- struct{}{}
	return nil
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestEmailServiceDeliversAsynchronously(t *testing.T) {
	sender := newStubSender(0)
	metrics := NewMetricsService()
	svc := NewEmailService(sender, EmailConfig{Workers: 1, Retries: 1, RetryDelay: time.Millisecond}, metrics, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	resp, err := svc.Send(context.Background(), dto.SendEmailRequest{To: " student@example.com ", Subject: "Hi", Text: "Welcome"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "queued", resp.Status)

	waitFor(t, sender.done)
	sender.mu.Lock()
	assert.Equal(t, []mailer.Message{{To: "student@example.com", Subject: "Hi", Text: "Welcome"}}, sender.sent)
	sender.mu.Unlock()
	var counter prommodel.Metric
	require.NoError(t, metrics.mailDispatch.WithLabelValues("queued").Write(&counter))
	assert.Equal(t, float64(1), counter.GetCounter().GetValue())
}

func TestEmailServiceRetriesFailedDelivery(t *testing.T) {
	sender := newStubSender(2)
	svc := NewEmailService(sender, EmailConfig{Workers: 1, Retries: 3, RetryDelay: time.Millisecond}, nil, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	_, err := svc.Send(context.Background(), dto.SendEmailRequest{To: "a@example.com", Subject: "s", Text: "t"})
	require.NoError(t, err)
	waitFor(t, sender.done)
}

func TestEmailServiceValidatesRequest(t *testing.T) {
	svc := NewEmailService(newStubSender(0), EmailConfig{}, nil, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	for _, req := range []dto.SendEmailRequest{
		{To: "not-an-email", Subject: "s", Text: "t"},
		{To: "a@example.com", Text: "t"},
		{To: "a@example.com", Subject: "s"},
	} {
		_, err := svc.Send(context.Background(), req)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
	}
}

func TestEmailServiceBeforeStartFails(t *testing.T) {
	svc := NewEmailService(newStubSender(0), EmailConfig{}, nil, nil, nil)
	_, err := svc.Send(context.Background(), dto.SendEmailRequest{To: "a@example.com", Subject: "s", Text: "t"})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}
