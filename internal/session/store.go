// Package session persists one conversation record per customer phone in
// Redis. The dialogue engine is stateless; this store is the only place a
// conversation survives between webhook deliveries.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/olharstudio/booking-assistant/internal/engine"
)

const defaultTTL = 24 * time.Hour

// Store reads and writes engine session records keyed by phone number.
type Store struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// Option customizes store construction.
type Option func(*Store)

// WithTTL overrides the 24-hour record lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New creates a session store over the given Redis client.
func New(client *redis.Client, tracer trace.Tracer, opts ...Option) *Store {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("studio.internal.session")
	}
	s := &Store{
		redis:  client,
		tracer: tracer,
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load retrieves the session record for a phone. A missing key yields a zero
// record and no error: the engine treats it as a brand-new conversation.
func (s *Store) Load(ctx context.Context, phone string) (engine.SessionRecord, error) {
	ctx, span := s.tracer.Start(ctx, "session.load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(phone)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return engine.SessionRecord{}, nil
		}
		span.RecordError(err)
		return engine.SessionRecord{}, fmt.Errorf("session: failed to load record: %w", err)
	}

	var rec engine.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		span.RecordError(err)
		return engine.SessionRecord{}, fmt.Errorf("session: failed to decode record: %w", err)
	}
	return rec, nil
}

// Save persists the session record, refreshing its TTL.
func (s *Store) Save(ctx context.Context, phone string, rec engine.SessionRecord) error {
	ctx, span := s.tracer.Start(ctx, "session.save")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal record: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(phone), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist record: %w", err)
	}
	return nil
}

// Delete removes the session record, if any.
func (s *Store) Delete(ctx context.Context, phone string) error {
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(phone)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to delete record: %w", err)
	}
	return nil
}

func sessionKey(phone string) string {
	return fmt.Sprintf("session:%s", phone)
}
