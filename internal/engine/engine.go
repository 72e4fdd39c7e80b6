package engine

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/olharstudio/booking-assistant/pkg/logging"
)

// The business clock runs on a fixed UTC-3 offset.
var businessZone = time.FixedZone("BRT", -3*60*60)

const defaultIdleTimeout = 30 * time.Minute

const unidentifiedCustomer = "Cliente não identificado"

// Engine is the dialogue state machine. It is stateless between invocations:
// every Respond call receives the persisted session, computes one reply, and
// hands an updated record back to the caller for persistence. Safe for
// concurrent use as long as the caller serializes per-phone processing.
type Engine struct {
	catalog     *Catalog
	gateway     Gateway
	logger      *logging.Logger
	now         func() time.Time
	idleTimeout time.Duration
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the business clock. Tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIdleTimeout overrides the 30-minute session expiry threshold.
func WithIdleTimeout(d time.Duration) Option {
	return func(e *Engine) { e.idleTimeout = d }
}

// New creates a dialogue engine over the given catalog and gateway.
func New(catalog *Catalog, gateway Gateway, logger *logging.Logger, opts ...Option) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		catalog: catalog,
		gateway: gateway,
		logger:  logger,
		now: func() time.Time {
			return time.Now().In(businessZone)
		},
		idleTimeout: defaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog exposes the engine's service list for the HTTP surface.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Request carries one inbound message plus the persisted session snapshot.
type Request struct {
	Phone       string
	Message     string
	SenderName  string
	CurrentStep string
	Session     SessionData
}

// turn is the per-invocation working set shared by intent handlers.
type turn struct {
	ctx        context.Context
	e          *Engine
	now        time.Time
	phone      string
	message    string // raw, for name capture
	text       string // normalized
	senderName string
	step       string
	data       SessionData
	state      ConversationState
}

// priorityIntent pairs a predicate with its handler. done=false means the
// handler only adjusted state and processing falls through to the next check.
type priorityIntent struct {
	name   string
	match  func(*turn) bool
	handle func(*turn) (reply string, rec SessionRecord, done bool)
}

// Evaluated top-to-bottom before any state-specific logic. Order is part of
// the contract: hand-off dominates everything, topic answers outrank the main
// flow, and opportunistic service detection runs last so it never shadows an
// explicit answer.
var priorityIntents = []priorityIntent{
	{"human_handoff", (*turn).matchHumanHandoff, (*turn).handleHumanHandoff},
	{"post_completion_farewell", (*turn).matchPostCompletionFarewell, (*turn).handlePostCompletionFarewell},
	{"farewell_reentry", (*turn).matchFarewellReentry, (*turn).handleFarewellReentry},
	{"service_topic", (*turn).matchServiceTopic, (*turn).handleServiceTopic},
	{"cancellation", (*turn).matchCancellation, (*turn).handleCancellation},
	{"simple_farewell", (*turn).matchSimpleFarewell, (*turn).handleSimpleFarewell},
	{"topic_address", (*turn).matchTopicAddress, (*turn).handleTopicAddress},
	{"topic_phone", (*turn).matchTopicPhone, (*turn).handleTopicPhone},
	{"topic_instagram", (*turn).matchTopicInstagram, (*turn).handleTopicInstagram},
	{"engagement_response", (*turn).matchEngagementResponse, (*turn).handleEngagementResponse},
	{"service_shortcut", (*turn).matchServiceShortcut, (*turn).handleServiceShortcut},
}

// Respond processes one inbound message against the persisted session and
// returns the reply plus the record to persist. It never returns an error:
// collaborator failures become user-facing apologies.
func (e *Engine) Respond(ctx context.Context, req Request) (string, SessionRecord) {
	text := Normalize(req.Message)
	now := e.now()

	data := req.Session
	step := req.CurrentStep

	// Expired sessions are discarded wholesale and treated as new.
	if data.Expired(now, e.idleTimeout) {
		e.logger.Info("session expired, starting over", "phone", req.Phone, "last_activity", data.LastActivity)
		data = SessionData{}
		step = ""
	}

	// A bare greeting restarts only an empty or never-started session.
	// Greetings inside longer text, or mid-flow, never reset progress.
	if equalsAny(text, initialGreetings) && (data.IsZero() || step == "" || step == string(StatusStart)) {
		state := ConversationState{Status: StatusAwaitingWelcomeResponse}
		return msgWelcome, EncodeState(state, now)
	}

	t := &turn{
		ctx:        ctx,
		e:          e,
		now:        now,
		phone:      req.Phone,
		message:    req.Message,
		text:       text,
		senderName: req.SenderName,
		step:       step,
		data:       data,
		state:      DecodeState(step, data),
	}

	for _, intent := range priorityIntents {
		if !intent.match(t) {
			continue
		}
		reply, rec, done := intent.handle(t)
		if done {
			return reply, rec
		}
	}

	return t.flow()
}

func (t *turn) encode() SessionRecord {
	return EncodeState(t.state, t.now)
}

func (t *turn) flow() (string, SessionRecord) {
	switch t.state.Status {
	case StatusStart:
		t.state.Status = StatusAwaitingWelcomeResponse
		return msgWelcome, t.encode()

	case StatusAwaitingWelcomeResponse:
		return t.flowWelcomeResponse()

	case StatusAwaitingServiceSelection:
		if svc := t.e.catalog.Match(t.text); svc != nil {
			return t.serviceChosen(svc)
		}
		return msgServiceRetry, t.encode()

	case StatusAwaitingDate:
		return t.flowDate()

	case StatusAwaitingTime:
		return t.flowTime()

	case StatusAwaitingName:
		return t.flowName()

	case StatusAwaitingConfirmation:
		return t.flowConfirmation()
	}

	// Nothing matched. With a booking on record we keep everything and offer
	// the follow-up menu; otherwise the conversation starts over.
	if t.state.LastBooking != nil {
		return msgFallbackMenu, t.encode()
	}
	t.state = ConversationState{Status: StatusStart}
	return msgFallbackReset, t.encode()
}

func (t *turn) flowWelcomeResponse() (string, SessionRecord) {
	// Negatives first: "não quero" contains an affirmative substring.
	if containsAny(t.text, welcomeNegatives) {
		t.state = ConversationState{Status: StatusStart}
		return msgWelcomeDeclined, t.encode()
	}
	if containsAny(t.text, welcomeAffirmatives) {
		t.state.Status = StatusAwaitingServiceSelection
		return msgCatalog(t.e.catalog.Render()), t.encode()
	}
	return msgWelcomeRetry, t.encode()
}

// serviceChosen stores the selection and asks for a date. The prompt depends
// on whether the studio is open today.
func (t *turn) serviceChosen(svc *Service) (string, SessionRecord) {
	t.state.Service = svc
	t.state.Status = StatusAwaitingDate

	today := t.now
	if open, _ := isWorkingDay(today); open {
		return msgServiceChosenOpenToday(svc.Name), t.encode()
	}
	_, todayName := isWorkingDay(today)
	nextStr := "próximo dia útil"
	if next := nextWorkingDay(today); next != nil {
		nextStr = displayDate(*next)
	}
	return msgServiceChosenClosedToday(svc.Name, todayName, nextStr), t.encode()
}

func (t *turn) flowDate() (string, SessionRecord) {
	date, clock := ExtractDateTime(t.text, t.now)
	if date == nil {
		return msgDateRetry, t.encode()
	}

	if open, dayName := isWorkingDay(*date); !open {
		nextStr := "próximo dia útil"
		if next := nextWorkingDay(*date); next != nil {
			nextStr = displayDate(*next)
		}
		return msgClosedDay(dayName, displayDate(*date), nextStr), t.encode()
	}

	openDates, err := t.e.gateway.OpenDates(t.ctx)
	if err != nil {
		t.e.logger.Error("failed to list open dates", "error", err, "phone", t.phone)
		return msgGatewayApology, t.encode()
	}

	wanted := ledgerDate(*date)
	if !containsString(standardizeLedgerDates(openDates), wanted) {
		return msgDateUnavailable(displayDate(*date)), t.encode()
	}

	t.state.Date = date

	if clock != "" {
		// Date and time arrived in one utterance; a valid time skips the
		// awaiting_time step entirely.
		slots, err := t.e.gateway.OpenSlots(t.ctx, wanted)
		if err != nil {
			t.e.logger.Error("failed to list open slots", "error", err, "phone", t.phone, "date", wanted)
			return msgSlotsLookupFailedDate(displayDate(*date)), t.encode()
		}
		if !containsString(slots, clock) {
			return msgTimeTakenWithDate(displayDate(*date), clock, slots), t.encode()
		}
		t.state.Time = clock
		t.state.Status = StatusAwaitingName
		return msgAskName(displayDate(*date), clock), t.encode()
	}

	t.state.Status = StatusAwaitingTime
	return msgDateChosen(displayDate(*date)), t.encode()
}

func (t *turn) flowTime() (string, SessionRecord) {
	_, clock := ExtractDateTime(t.text, t.now)
	if clock == "" {
		return msgTimeRetry, t.encode()
	}
	if t.state.Date == nil {
		// Session data lost its date somewhere; restart date selection.
		t.state.Status = StatusAwaitingDate
		return msgDateRetry, t.encode()
	}

	wanted := ledgerDate(*t.state.Date)
	slots, err := t.e.gateway.OpenSlots(t.ctx, wanted)
	if err != nil {
		t.e.logger.Error("failed to list open slots", "error", err, "phone", t.phone, "date", wanted)
		return msgSlotsLookupFailed, t.encode()
	}
	if !containsString(slots, clock) {
		return msgTimeTaken(clock, slots), t.encode()
	}

	t.state.Time = clock
	t.state.Status = StatusAwaitingName
	return msgAskName(displayDate(*t.state.Date), clock), t.encode()
}

// \b is ASCII-only in Go regexps, so after the accented "é" the word
// boundary never matches; the filler tail is anchored on whitespace instead.
var nameFillerRE = regexp.MustCompile(`(?i)\b(meu nome [eé]|me chamo|eu sou|sou)(?:\s+|$)`)

var nameTitleCaser = cases.Title(language.BrazilianPortuguese)

func (t *turn) flowName() (string, SessionRecord) {
	if IsGreeting(t.message) {
		return msgNameIsGreeting, t.encode()
	}

	name := strings.TrimSpace(nameFillerRE.ReplaceAllString(t.message, ""))
	if len(strings.Fields(name)) < 2 {
		return msgNameIncomplete, t.encode()
	}

	t.state.Name = nameTitleCaser.String(strings.ToLower(name))
	t.state.Status = StatusAwaitingConfirmation
	return msgBookingSummary(
		t.state.Name,
		t.state.Service.Name,
		displayDate(*t.state.Date),
		t.state.Time,
	), t.encode()
}

func (t *turn) flowConfirmation() (string, SessionRecord) {
	if IsGreeting(t.message) {
		return msgConfirmIsGreeting(
			t.state.Name,
			t.state.Service.Name,
			displayDate(*t.state.Date),
			t.state.Time,
		), t.encode()
	}

	if containsAny(t.text, confirmNegatives) {
		t.state = ConversationState{Status: StatusStart}
		return msgConfirmDeclined, t.encode()
	}

	if containsAny(t.text, confirmAffirmatives) {
		return t.confirmBooking()
	}

	return msgConfirmRetry, t.encode()
}

func (t *turn) confirmBooking() (string, SessionRecord) {
	dateStr := ledgerDate(*t.state.Date)
	result, err := t.e.gateway.Book(t.ctx, BookingRequest{
		Phone:   t.phone,
		Name:    t.state.Name,
		Service: t.state.Service.Name,
		Date:    dateStr,
		Time:    t.state.Time,
	})
	if err != nil {
		t.e.logger.Error("booking failed", "error", err, "phone", t.phone, "date", dateStr, "time", t.state.Time)
		return msgGatewayApology, t.encode()
	}

	switch result {
	case BookConflict:
		// Someone took the slot between selection and confirmation. Keep the
		// date, drop the time and offer what is still free.
		slots, slotErr := t.e.gateway.OpenSlots(t.ctx, dateStr)
		if slotErr != nil {
			t.e.logger.Error("failed to refresh open slots", "error", slotErr, "phone", t.phone, "date", dateStr)
			slots = nil
		}
		conflicted := t.state.Time
		t.state.Time = ""
		if len(slots) == 0 {
			t.state.Date = nil
			t.state.Status = StatusAwaitingDate
			return msgNoSlotsLeft, t.encode()
		}
		t.state.Status = StatusAwaitingTime
		return msgBookingConflict(conflicted, slots), t.encode()

	case BookNotFound:
		dateDisplay := displayDate(*t.state.Date)
		t.state.Date = nil
		t.state.Time = ""
		t.state.Status = StatusAwaitingDate
		return msgBookingNotFound(dateDisplay), t.encode()
	}

	t.state.LastBooking = &BookingSnapshot{
		Name:    t.state.Name,
		Service: t.state.Service.Name,
		Date:    displayDate(*t.state.Date),
		Time:    t.state.Time,
	}
	t.state.Status = StatusCompleted
	t.e.logger.Info("booking confirmed",
		"phone", t.phone,
		"service", t.state.Service.Name,
		"date", dateStr,
		"time", t.state.Time,
	)
	return msgBookingConfirmed(t.state.Name, t.state.LastBooking.Date, t.state.Time), t.encode()
}
