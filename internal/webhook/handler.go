// Package webhook receives Z-API message notifications and drives the
// dialogue engine: payload extraction, duplicate suppression, the per-phone
// mute switch, session load/save, message logging and reply dispatch.
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/olharstudio/booking-assistant/internal/engine"
	"github.com/olharstudio/booking-assistant/internal/observability/metrics"
	"github.com/olharstudio/booking-assistant/pkg/logging"
)

// SessionStore persists conversation records between messages.
type SessionStore interface {
	Load(ctx context.Context, phone string) (engine.SessionRecord, error)
	Save(ctx context.Context, phone string, rec engine.SessionRecord) error
}

// Sender delivers replies back to the customer.
type Sender interface {
	SendText(ctx context.Context, phone, message string) error
}

// MuteChecker reports whether the assistant is muted for a phone.
type MuteChecker interface {
	IsMuted(ctx context.Context, phone string) (bool, error)
}

// MessageLog records processed exchanges. Implementations must never block
// the reply on failure.
type MessageLog interface {
	RecordExchange(ctx context.Context, phone, inbound, reply string)
}

// Config wires the handler's collaborators. Mutes, Log and Metrics are
// optional.
type Config struct {
	Engine   *engine.Engine
	Sessions SessionStore
	Sender   Sender
	Mutes    MuteChecker
	Log      MessageLog
	Metrics  *metrics.AssistantMetrics
	Logger   *logging.Logger
	Tracer   trace.Tracer
}

// Handler serves the inbound webhook plus the direct chat and catalog
// endpoints.
type Handler struct {
	engine   *engine.Engine
	sessions SessionStore
	sender   Sender
	mutes    MuteChecker
	log      MessageLog
	metrics  *metrics.AssistantMetrics
	logger   *logging.Logger
	tracer   trace.Tracer
	dedupe   *dedupe
	locks    *phoneLocks
}

// New creates a webhook handler.
func New(cfg Config) *Handler {
	if cfg.Engine == nil {
		panic("webhook: engine cannot be nil")
	}
	if cfg.Sessions == nil {
		panic("webhook: session store cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("studio.internal.webhook")
	}
	return &Handler{
		engine:   cfg.Engine,
		sessions: cfg.Sessions,
		sender:   cfg.Sender,
		mutes:    cfg.Mutes,
		log:      cfg.Log,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
		dedupe:   newDedupe(512),
		locks:    newPhoneLocks(),
	}
}

// HandleWebhook processes one Z-API message notification. It always answers
// 200 for messages it chooses to ignore; Z-API retries anything else.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := h.tracer.Start(r.Context(), "webhook.process")
	defer span.End()

	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		h.metrics.ObserveInbound("malformed")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	body := payload.Body()
	if payload.FromMe || payload.IsGroup || payload.Phone == "" || body == "" {
		h.metrics.ObserveInbound("ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if h.dedupe.Seen(payload.MessageID) {
		h.metrics.ObserveInbound("duplicate")
		writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	lock := h.locks.Lock(payload.Phone)
	defer lock.Unlock()

	if h.mutes != nil {
		muted, err := h.mutes.IsMuted(ctx, payload.Phone)
		if err != nil {
			span.RecordError(err)
			h.logger.Error("mute check failed", "error", err, "phone", payload.Phone)
		}
		if muted {
			h.metrics.ObserveInbound("muted")
			writeJSON(w, http.StatusOK, map[string]string{"status": "muted"})
			return
		}
	}

	reply, rec, err := h.respond(ctx, payload.Phone, body, payload.SenderName)
	if err != nil {
		span.RecordError(err)
		h.metrics.ObserveInbound("error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}

	if h.log != nil {
		h.log.RecordExchange(ctx, payload.Phone, body, reply)
	}

	if h.sender != nil && reply != "" {
		if err := h.sender.SendText(ctx, payload.Phone, reply); err != nil {
			span.RecordError(err)
			h.logger.Error("reply dispatch failed", "error", err, "phone", payload.Phone)
		}
	}

	h.dedupe.Mark(payload.MessageID)

	h.metrics.ObserveInbound("processed")
	h.metrics.ObserveReply(rec.CurrentStep)
	h.metrics.ObserveResponseLatency(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// respond runs the engine against the stored session and persists the
// updated record. A save failure is logged but does not lose the reply.
func (h *Handler) respond(ctx context.Context, phone, body, senderName string) (string, engine.SessionRecord, error) {
	stored, err := h.sessions.Load(ctx, phone)
	if err != nil {
		return "", engine.SessionRecord{}, err
	}

	reply, rec := h.engine.Respond(ctx, engine.Request{
		Phone:       phone,
		Message:     body,
		SenderName:  senderName,
		CurrentStep: stored.CurrentStep,
		Session:     stored.ConversationData,
	})

	if err := h.sessions.Save(ctx, phone, rec); err != nil {
		h.logger.Error("session save failed", "error", err, "phone", phone)
	}
	return reply, rec, nil
}

type chatRequest struct {
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	SenderName string `json:"sender_name"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Step  string `json:"step"`
}

// HandleChat runs the engine directly, without WhatsApp in the loop. Used
// for manual testing and the studio's own tooling.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	if req.Phone == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone and message are required"})
		return
	}

	lock := h.locks.Lock(req.Phone)
	defer lock.Unlock()

	reply, rec, err := h.respond(r.Context(), req.Phone, req.Message, req.SenderName)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Step: rec.CurrentStep})
}

type serviceView struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

// HandleServices returns the catalog.
func (h *Handler) HandleServices(w http.ResponseWriter, r *http.Request) {
	services := h.engine.Catalog().Services()
	out := make([]serviceView, len(services))
	for i, s := range services {
		out[i] = serviceView{
			Name:            s.Name,
			Category:        s.Category,
			Price:           s.Price.String(),
			DurationMinutes: s.DurationMinutes,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
