package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWithoutKeyLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := New(Config{}, zap.New(core))
	require.IsType(t, &LogSender{}, sender)

	require.NoError(t, sender.Send(context.Background(), Message{To: "a@example.com", Subject: "hi", Text: "body"}))
	entries := logs.FilterMessage("email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a@example.com", entries[0].ContextMap()["to"])
}

func TestSendgridSenderPostsMessage(t *testing.T) {
	var body map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, endpoint, r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := New(Config{APIKey: "key", FromName: "Enrichment", FromAddress: "noreply@example.com", Host: srv.URL}, nil)
	err := sender.Send(context.Background(), Message{To: "student@example.com", Subject: "Meeting", Text: "See you"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer key", auth)
	from := body["from"].(map[string]interface{})
	assert.Equal(t, "noreply@example.com", from["email"])
	personalizations := body["personalizations"].([]interface{})
	require.Len(t, personalizations, 1)
	assert.Equal(t, "Meeting", personalizations[0].(map[string]interface{})["subject"])
}

func TestSendgridSenderReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	sender := New(Config{APIKey: "bad", FromAddress: "noreply@example.com", Host: srv.URL}, nil)
	err := sender.Send(context.Background(), Message{To: "student@example.com", Subject: "x", Text: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
