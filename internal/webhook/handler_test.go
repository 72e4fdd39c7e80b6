package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olharstudio/booking-assistant/internal/engine"
	"github.com/olharstudio/booking-assistant/pkg/logging"
)

var testNow = time.Date(2026, time.January, 14, 10, 0, 0, 0, time.UTC)

type memorySessions struct {
	mu      sync.Mutex
	records map[string]engine.SessionRecord
	loadErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{records: make(map[string]engine.SessionRecord)}
}

func (m *memorySessions) Load(ctx context.Context, phone string) (engine.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return engine.SessionRecord{}, m.loadErr
	}
	return m.records[phone], nil
}

func (m *memorySessions) Save(ctx context.Context, phone string, rec engine.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[phone] = rec
	return nil
}

type recordingSender struct {
	mu    sync.Mutex
	sends []string
}

func (s *recordingSender) SendText(ctx context.Context, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, message)
	return nil
}

type staticMutes struct{ muted bool }

func (s staticMutes) IsMuted(ctx context.Context, phone string) (bool, error) {
	return s.muted, nil
}

type nopGateway struct{}

func (nopGateway) OpenDates(ctx context.Context) ([]string, error)     { return nil, nil }
func (nopGateway) OpenSlots(ctx context.Context, d string) ([]string, error) {
	return nil, nil
}
func (nopGateway) Book(ctx context.Context, r engine.BookingRequest) (engine.BookResult, error) {
	return engine.BookBooked, nil
}
func (nopGateway) Cancel(ctx context.Context, p string) (bool, error)         { return false, nil }
func (nopGateway) RequestHuman(ctx context.Context, p, n, r string) error     { return nil }

func newTestHandler(t *testing.T, cfg Config) *Handler {
	t.Helper()
	if cfg.Engine == nil {
		cfg.Engine = engine.New(nil, nopGateway{}, logging.NewWithWriter(io.Discard, "error"),
			engine.WithClock(func() time.Time { return testNow }))
	}
	if cfg.Sessions == nil {
		cfg.Sessions = newMemorySessions()
	}
	cfg.Logger = logging.NewWithWriter(io.Discard, "error")
	return New(cfg)
}

func postWebhook(t *testing.T, h *Handler, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleWebhook(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out["status"]
}

func TestHandleWebhookGreeting(t *testing.T) {
	sessions := newMemorySessions()
	sender := &recordingSender{}
	h := newTestHandler(t, Config{Sessions: sessions, Sender: sender})

	w := postWebhook(t, h, map[string]any{
		"phone":     "5511999999999",
		"messageId": "m1",
		"text":      map[string]any{"message": "oi"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "processed", decodeStatus(t, w))

	require.Len(t, sender.sends, 1)
	assert.Contains(t, sender.sends[0], "Studio Olhar Sob Medida")

	rec, err := sessions.Load(context.Background(), "5511999999999")
	require.NoError(t, err)
	assert.Equal(t, "awaiting_welcome_response", rec.CurrentStep)
}

func TestHandleWebhookIgnoresNoise(t *testing.T) {
	h := newTestHandler(t, Config{})

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"own message", map[string]any{"phone": "551199", "fromMe": true, "text": map[string]any{"message": "oi"}}},
		{"group message", map[string]any{"phone": "551199", "isGroup": true, "text": map[string]any{"message": "oi"}}},
		{"missing phone", map[string]any{"text": map[string]any{"message": "oi"}}},
		{"empty body", map[string]any{"phone": "551199"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postWebhook(t, h, tt.payload)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "ignored", decodeStatus(t, w))
		})
	}
}

func TestHandleWebhookDeduplicates(t *testing.T) {
	sender := &recordingSender{}
	h := newTestHandler(t, Config{Sender: sender})

	payload := map[string]any{
		"phone":     "551199",
		"messageId": "m42",
		"text":      map[string]any{"message": "oi"},
	}
	first := postWebhook(t, h, payload)
	assert.Equal(t, "processed", decodeStatus(t, first))

	second := postWebhook(t, h, payload)
	assert.Equal(t, "duplicate", decodeStatus(t, second))
	assert.Len(t, sender.sends, 1)
}

func TestHandleWebhookMuted(t *testing.T) {
	sender := &recordingSender{}
	h := newTestHandler(t, Config{Sender: sender, Mutes: staticMutes{muted: true}})

	w := postWebhook(t, h, map[string]any{
		"phone": "551199",
		"text":  map[string]any{"message": "oi"},
	})
	assert.Equal(t, "muted", decodeStatus(t, w))
	assert.Empty(t, sender.sends)
}

func TestHandleWebhookMalformed(t *testing.T) {
	h := newTestHandler(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.HandleWebhook(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleWebhookSessionStoreDown(t *testing.T) {
	sessions := newMemorySessions()
	sessions.loadErr = context.DeadlineExceeded
	h := newTestHandler(t, Config{Sessions: sessions})

	w := postWebhook(t, h, map[string]any{
		"phone": "551199",
		"text":  map[string]any{"message": "oi"},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleWebhookRedeliveryAfterFailureIsRetried(t *testing.T) {
	sessions := newMemorySessions()
	sessions.loadErr = context.DeadlineExceeded
	sender := &recordingSender{}
	h := newTestHandler(t, Config{Sessions: sessions, Sender: sender})

	payload := map[string]any{
		"phone":     "551199",
		"messageId": "m7",
		"text":      map[string]any{"message": "oi"},
	}
	first := postWebhook(t, h, payload)
	assert.Equal(t, http.StatusInternalServerError, first.Code)

	// The provider redelivers once the store is back; the ID must not have
	// been recorded by the failed attempt.
	sessions.loadErr = nil
	second := postWebhook(t, h, payload)
	assert.Equal(t, "processed", decodeStatus(t, second))
	require.Len(t, sender.sends, 1)
}

func TestHandleChat(t *testing.T) {
	h := newTestHandler(t, Config{})

	body, _ := json.Marshal(chatRequest{Phone: "551199", Message: "oi"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleChat(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var out chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Reply, "Studio Olhar Sob Medida")
	assert.Equal(t, "awaiting_welcome_response", out.Step)
}

func TestHandleChatValidation(t *testing.T) {
	h := newTestHandler(t, Config{})

	body, _ := json.Marshal(chatRequest{Phone: "", Message: "oi"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleChat(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleServices(t *testing.T) {
	h := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	w := httptest.NewRecorder()
	h.HandleServices(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Services []serviceView `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Services)
	assert.Equal(t, "Buço", out.Services[0].Name)
	assert.Equal(t, "R$ 20.00", out.Services[0].Price)
	assert.Equal(t, 30, out.Services[0].DurationMinutes)
}
