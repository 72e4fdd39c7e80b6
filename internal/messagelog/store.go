// Package messagelog records every inbound and outbound WhatsApp message.
// The log is append-only; the assistant never reads it back, staff and
// audits do.
package messagelog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/olharstudio/booking-assistant/pkg/logging"
)

// Message direction relative to the studio.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store appends message records to Postgres.
type Store struct {
	db     db
	logger *logging.Logger
	now    func() time.Time
}

// Option customizes store construction.
type Option func(*Store)

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a message log store.
func New(db db, logger *logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the messages table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			phone TEXT NOT NULL,
			body TEXT NOT NULL,
			direction TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	)
	if err != nil {
		return fmt.Errorf("messagelog: failed to ensure schema: %w", err)
	}
	return nil
}

// Record appends one message. direction is DirectionIn or DirectionOut.
func (s *Store) Record(ctx context.Context, phone, body, direction string) error {
	if direction != DirectionIn && direction != DirectionOut {
		return fmt.Errorf("messagelog: invalid direction %q", direction)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO messages (id, phone, body, direction, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), phone, body, direction, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("messagelog: failed to record message: %w", err)
	}
	return nil
}

// RecordExchange appends the inbound message and its reply in one call.
// Either failure is logged and swallowed: the log must never block a reply.
func (s *Store) RecordExchange(ctx context.Context, phone, inbound, reply string) {
	if err := s.Record(ctx, phone, inbound, DirectionIn); err != nil {
		s.logger.Error("failed to log inbound message", "error", err, "phone", phone)
	}
	if reply == "" {
		return
	}
	if err := s.Record(ctx, phone, reply, DirectionOut); err != nil {
		s.logger.Error("failed to log outbound message", "error", err, "phone", phone)
	}
}
