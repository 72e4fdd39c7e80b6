package engine

import "context"

// BookResult distinguishes booking outcomes that the availability ledger
// historically collapsed into a single boolean. The engine renders a distinct
// message per outcome.
type BookResult int

const (
	// BookBooked means every slot spanning the service duration was reserved.
	BookBooked BookResult = iota
	// BookConflict means at least one required slot was already taken.
	BookConflict
	// BookNotFound means the agenda has no row for the requested date/time.
	BookNotFound
)

// BookingRequest carries everything the ledger needs to reserve the slots
// spanning the service's duration.
type BookingRequest struct {
	Phone   string
	Name    string
	Service string
	Date    string // DD/MM/YYYY
	Time    string // HH:MM
}

// Gateway is the external availability/booking collaborator. All calls are
// synchronous; any failure must be caught at the call site and converted into
// a user-facing apology, never propagated out of the engine.
type Gateway interface {
	// OpenDates returns every date (DD/MM/YYYY) with at least one free slot.
	// May be cached by the collaborator; treated as eventually consistent.
	OpenDates(ctx context.Context) ([]string, error)

	// OpenSlots returns the ordered free "HH:MM" slots for one DD/MM/YYYY
	// date. An empty list means "show no options", not an error.
	OpenSlots(ctx context.Context, date string) ([]string, error)

	// Book reserves the slots spanning the service's duration. No partial
	// side effects are assumed on a non-Booked result.
	Book(ctx context.Context, req BookingRequest) (BookResult, error)

	// Cancel frees the customer's current reservation. ok is false when
	// nothing was found.
	Cancel(ctx context.Context, phone string) (ok bool, err error)

	// RequestHuman records a mute/hand-off event. Failure is logged but never
	// blocks the hand-off acknowledgement.
	RequestHuman(ctx context.Context, phone, name, reason string) error
}
