// Package agenda is the availability and booking ledger. The agenda is a
// grid of 30-minute slots per working day; a booking claims every slot the
// service's duration spans. It also holds the per-customer mute switch used
// by the human hand-off.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/olharstudio/booking-assistant/internal/engine"
	"github.com/olharstudio/booking-assistant/pkg/logging"
)

// Slot statuses as they appear in the agenda rows. The continuation marker
// carries the customer name so staff reading the raw agenda can tell which
// booking a blocked slot belongs to.
const (
	statusFree   = "Disponível"
	statusBooked = "Agendado"
)

const slotMinutes = 30

const ledgerDateLayout = "02/01/2006"

type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ledger implements engine.Gateway on Postgres.
type Ledger struct {
	db        db
	durations func(service string) int
	logger    *logging.Logger
}

// New creates a ledger. durations maps a service name to its length in
// minutes; it is consulted to decide how many slots a booking spans.
func New(db db, durations func(service string) int, logger *logging.Logger) *Ledger {
	if durations == nil {
		durations = func(string) int { return slotMinutes }
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Ledger{db: db, durations: durations, logger: logger}
}

// EnsureSchema creates the agenda tables when they do not exist yet. The
// schema is small enough that a migration tool would be overhead.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS agenda_slots (
			day DATE NOT NULL,
			slot TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Disponível',
			client_name TEXT,
			service TEXT,
			phone TEXT,
			PRIMARY KEY (day, slot)
		)`,
		`CREATE TABLE IF NOT EXISTS robot_control (
			phone TEXT PRIMARY KEY,
			muted BOOLEAN NOT NULL DEFAULT FALSE,
			customer_name TEXT,
			reason TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("agenda: failed to ensure schema: %w", err)
		}
	}
	return nil
}

// OpenDates returns every date with at least one free slot, in DD/MM/YYYY
// form, soonest first.
func (l *Ledger) OpenDates(ctx context.Context) ([]string, error) {
	rows, err := l.db.Query(ctx,
		`SELECT DISTINCT day FROM agenda_slots WHERE status = $1 ORDER BY day`,
		statusFree,
	)
	if err != nil {
		return nil, fmt.Errorf("agenda: failed to list open dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("agenda: failed to scan open date: %w", err)
		}
		dates = append(dates, day.Format(ledgerDateLayout))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agenda: failed to list open dates: %w", err)
	}
	return dates, nil
}

// OpenSlots returns the free HH:MM slots of one date, earliest first.
func (l *Ledger) OpenSlots(ctx context.Context, date string) ([]string, error) {
	day, err := time.Parse(ledgerDateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("agenda: invalid date %q: %w", date, err)
	}

	rows, err := l.db.Query(ctx,
		`SELECT slot FROM agenda_slots WHERE day = $1 AND status = $2 ORDER BY slot`,
		day, statusFree,
	)
	if err != nil {
		return nil, fmt.Errorf("agenda: failed to list open slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("agenda: failed to scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agenda: failed to list open slots: %w", err)
	}
	return slots, nil
}

// Book reserves every slot the service spans, atomically. The first slot is
// marked booked with the customer details; the continuation slots are marked
// reserved so they stop showing as free without looking like bookings of
// their own.
func (l *Ledger) Book(ctx context.Context, req engine.BookingRequest) (engine.BookResult, error) {
	day, err := time.Parse(ledgerDateLayout, req.Date)
	if err != nil {
		return engine.BookNotFound, fmt.Errorf("agenda: invalid date %q: %w", req.Date, err)
	}

	span, err := spanSlots(req.Time, l.durations(req.Service))
	if err != nil {
		return engine.BookNotFound, err
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return engine.BookNotFound, fmt.Errorf("agenda: failed to begin booking: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, slot := range span {
		var status string
		err := tx.QueryRow(ctx,
			`SELECT status FROM agenda_slots WHERE day = $1 AND slot = $2 FOR UPDATE`,
			day, slot,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return engine.BookNotFound, nil
		}
		if err != nil {
			return engine.BookNotFound, fmt.Errorf("agenda: failed to inspect slot %s: %w", slot, err)
		}
		if status != statusFree {
			return engine.BookConflict, nil
		}
	}

	for i, slot := range span {
		status := statusBooked
		if i > 0 {
			status = fmt.Sprintf("RESERVADO (%s)", req.Name)
		}
		tag, err := tx.Exec(ctx,
			`UPDATE agenda_slots
			 SET status = $1, client_name = $2, service = $3, phone = $4
			 WHERE day = $5 AND slot = $6`,
			status, req.Name, req.Service, req.Phone, day, slot,
		)
		if err != nil {
			return engine.BookNotFound, fmt.Errorf("agenda: failed to reserve slot %s: %w", slot, err)
		}
		if tag.RowsAffected() == 0 {
			return engine.BookNotFound, nil
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return engine.BookNotFound, fmt.Errorf("agenda: failed to commit booking: %w", err)
	}

	l.logger.Info("slots reserved",
		"phone", req.Phone,
		"service", req.Service,
		"date", req.Date,
		"time", req.Time,
		"slots", len(span),
	)
	return engine.BookBooked, nil
}

// Cancel frees every slot held by the phone's booking, including the
// reserved continuation slots. ok is false when the phone holds nothing.
func (l *Ledger) Cancel(ctx context.Context, phone string) (bool, error) {
	tag, err := l.db.Exec(ctx,
		`UPDATE agenda_slots
		 SET status = $1, client_name = NULL, service = NULL, phone = NULL
		 WHERE phone = $2`,
		statusFree, phone,
	)
	if err != nil {
		return false, fmt.Errorf("agenda: failed to cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	l.logger.Info("booking cancelled", "phone", phone, "slots", tag.RowsAffected())
	return true, nil
}

// RequestHuman mutes the assistant for the phone so a person can take over.
func (l *Ledger) RequestHuman(ctx context.Context, phone, name, reason string) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO robot_control (phone, muted, customer_name, reason, updated_at)
		 VALUES ($1, TRUE, $2, $3, NOW())
		 ON CONFLICT (phone) DO UPDATE
		 SET muted = TRUE, customer_name = $2, reason = $3, updated_at = NOW()`,
		phone, name, reason,
	)
	if err != nil {
		return fmt.Errorf("agenda: failed to record hand-off: %w", err)
	}
	return nil
}

// IsMuted reports whether the assistant is muted for the phone.
func (l *Ledger) IsMuted(ctx context.Context, phone string) (bool, error) {
	var muted bool
	err := l.db.QueryRow(ctx,
		`SELECT muted FROM robot_control WHERE phone = $1`,
		phone,
	).Scan(&muted)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("agenda: failed to read mute state: %w", err)
	}
	return muted, nil
}

// SetMuted flips the assistant on or off for the phone. Staff use this to
// hand a conversation back to the assistant.
func (l *Ledger) SetMuted(ctx context.Context, phone string, muted bool) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO robot_control (phone, muted, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (phone) DO UPDATE
		 SET muted = $2, updated_at = NOW()`,
		phone, muted,
	)
	if err != nil {
		return fmt.Errorf("agenda: failed to set mute state: %w", err)
	}
	return nil
}

// spanSlots expands a start time plus a duration into the HH:MM slots a
// booking occupies, on the 30-minute grid.
func spanSlots(start string, durationMinutes int) ([]string, error) {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return nil, fmt.Errorf("agenda: invalid time %q: %w", start, err)
	}
	count := (durationMinutes + slotMinutes - 1) / slotMinutes
	if count < 1 {
		count = 1
	}
	slots := make([]string, count)
	for i := range slots {
		slots[i] = t.Add(time.Duration(i*slotMinutes) * time.Minute).Format("15:04")
	}
	return slots, nil
}
