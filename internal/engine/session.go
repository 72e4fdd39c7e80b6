package engine

import (
	"time"
)

// Status is the dialogue state machine's step label.
type Status string

const (
	StatusStart                      Status = "start"
	StatusAwaitingWelcomeResponse    Status = "awaiting_welcome_response"
	StatusAwaitingServiceSelection   Status = "awaiting_service_selection"
	StatusAwaitingEngagementResponse Status = "awaiting_engagement_response"
	StatusAwaitingDate               Status = "awaiting_date"
	StatusAwaitingTime               Status = "awaiting_time"
	StatusAwaitingName               Status = "awaiting_name"
	StatusAwaitingConfirmation       Status = "awaiting_confirmation"
	StatusCompleted                  Status = "completed"
	StatusFarewellSent               Status = "farewell_sent"
)

// Coarse lifecycle markers of the persisted record.
const (
	SessionActive       = "active"
	SessionCompleted    = "completed"
	SessionWaitingHuman = "waiting_human"
)

// Informational topics that can trigger an engagement offer.
const (
	TopicAddress   = "address"
	TopicPhone     = "phone"
	TopicInstagram = "instagram"
)

// BookingSnapshot records the last confirmed booking so follow-up questions
// ("where are you located?") can be personalized.
type BookingSnapshot struct {
	Name    string `json:"name"`
	Service string `json:"service"`
	Date    string `json:"date"` // display form DD/MM
	Time    string `json:"time"`
}

// ConversationState is the engine's working state for one customer. The
// engine owns it for the duration of a single invocation; everything it needs
// arrives through the decoded session record.
//
// Time is only meaningful together with Date. Name must hold at least two
// tokens before a booking can be confirmed.
type ConversationState struct {
	Status            Status
	Service           *Service
	Date              *time.Time
	Time              string
	Name              string
	LastBooking       *BookingSnapshot
	EngagementContext string
}

// SessionData is the serializable subset of ConversationState as persisted in
// the session record's conversation_data mapping. Empty fields are dropped so
// the stored record stays minimal.
type SessionData struct {
	Service           *Service         `json:"service,omitempty"`
	Date              string           `json:"date,omitempty"` // ISO calendar date, 2006-01-02
	Time              string           `json:"time,omitempty"`
	Name              string           `json:"name,omitempty"`
	LastBooking       *BookingSnapshot `json:"last_booking,omitempty"`
	EngagementContext string           `json:"engagement_context,omitempty"`
	LastActivity      string           `json:"last_activity,omitempty"` // ISO-8601
}

// SessionRecord is the externally persisted representation of one
// conversation. The caller owns its durability and concurrency control.
type SessionRecord struct {
	CurrentStep      string      `json:"current_step"`
	ConversationData SessionData `json:"conversation_data"`
	Status           string      `json:"status"`
}

// IsZero reports whether the record carries no conversation progress at all.
func (d SessionData) IsZero() bool {
	return d.Service == nil && d.Date == "" && d.Time == "" && d.Name == "" &&
		d.LastBooking == nil && d.EngagementContext == "" && d.LastActivity == ""
}

// Expired reports whether the session's last recorded activity is older than
// the idle threshold. A record without a timestamp is treated as fresh so
// brand-new sessions are never punished; an unparseable timestamp is
// swallowed the same way.
func (d SessionData) Expired(now time.Time, idle time.Duration) bool {
	if d.LastActivity == "" {
		return false
	}
	last, err := time.Parse(time.RFC3339, d.LastActivity)
	if err != nil {
		return false
	}
	return now.Sub(last.In(now.Location())) > idle
}

// DecodeState converts a persisted step label plus conversation data into the
// engine's typed state. An absent step defaults to start; a malformed stored
// date is treated as absent.
func DecodeState(currentStep string, data SessionData) ConversationState {
	state := ConversationState{
		Status:            Status(currentStep),
		Service:           data.Service,
		Time:              data.Time,
		Name:              data.Name,
		LastBooking:       data.LastBooking,
		EngagementContext: data.EngagementContext,
	}
	if currentStep == "" {
		state.Status = StatusStart
	}
	if data.Date != "" {
		if d, err := time.Parse("2006-01-02", data.Date); err == nil {
			state.Date = &d
		}
	}
	return state
}

// EncodeState converts engine state back into a persistable record, stamping
// the current time as last_activity. The coarse status marker is "completed"
// only when the step is exactly completed; the waiting_human marker is set by
// the hand-off branch directly, never here.
func EncodeState(state ConversationState, now time.Time) SessionRecord {
	data := SessionData{
		Service:           state.Service,
		Time:              state.Time,
		Name:              state.Name,
		LastBooking:       state.LastBooking,
		EngagementContext: state.EngagementContext,
		LastActivity:      now.Format(time.RFC3339),
	}
	if state.Date != nil {
		data.Date = state.Date.Format("2006-01-02")
	}

	step := state.Status
	if step == "" {
		step = StatusStart
	}

	marker := SessionActive
	if state.Status == StatusCompleted {
		marker = SessionCompleted
	}

	return SessionRecord{
		CurrentStep:      string(step),
		ConversationData: data,
		Status:           marker,
	}
}
