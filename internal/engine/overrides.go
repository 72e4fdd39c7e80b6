package engine

import "strconv"

// Priority override match/handle pairs, in the precedence order registered in
// priorityIntents. Handlers that return done=false only adjust state and let
// the remaining checks plus the main flow run on the same turn.

func (t *turn) matchHumanHandoff() bool {
	return containsAny(t.text, humanHandoffKeywords)
}

// handleHumanHandoff mutes the assistant for this customer and acknowledges.
// The record goes out with the conversation data untouched so a human can see
// exactly where the dialogue stood.
func (t *turn) handleHumanHandoff() (string, SessionRecord, bool) {
	name := t.handoffDisplayName()
	if err := t.e.gateway.RequestHuman(t.ctx, t.phone, name, t.message); err != nil {
		t.e.logger.Error("failed to record human hand-off", "error", err, "phone", t.phone)
	}
	t.e.logger.Info("human hand-off requested", "phone", t.phone, "name", name)

	step := t.step
	if step == "" {
		step = string(StatusStart)
	}
	return msgHumanHandoff, SessionRecord{
		CurrentStep:      step,
		ConversationData: t.data,
		Status:           SessionWaitingHuman,
	}, true
}

// handoffDisplayName picks the name the staff will see. A customer who chose
// a service but never gave a name is flagged as unidentified even when the
// messenger profile carries a display name.
func (t *turn) handoffDisplayName() string {
	if t.state.Service != nil && t.state.Name == "" {
		return unidentifiedCustomer
	}
	if t.senderName != "" {
		return t.senderName
	}
	if t.state.Name != "" {
		return t.state.Name
	}
	if t.state.LastBooking != nil && t.state.LastBooking.Name != "" {
		return t.state.LastBooking.Name
	}
	return unidentifiedCustomer
}

func (t *turn) matchPostCompletionFarewell() bool {
	return t.state.Status == StatusCompleted && containsAny(t.text, closingVocabulary)
}

func (t *turn) handlePostCompletionFarewell() (string, SessionRecord, bool) {
	t.state.Status = StatusFarewellSent
	return msgPostBookingFarewell(t.state.LastBooking), t.encode(), true
}

func (t *turn) matchFarewellReentry() bool {
	return t.state.Status == StatusFarewellSent
}

// handleFarewellReentry reopens a conversation the farewell closed. A
// customer with a confirmed booking re-enters at completed so the follow-up
// menu and closing branch still apply; everyone else starts fresh. The
// message falls through to be handled from the reopened state.
func (t *turn) handleFarewellReentry() (string, SessionRecord, bool) {
	status := StatusStart
	if t.state.LastBooking != nil {
		status = StatusCompleted
	}
	t.state = ConversationState{
		Status:      status,
		LastBooking: t.state.LastBooking,
	}
	return "", SessionRecord{}, false
}

func (t *turn) matchServiceTopic() bool {
	return !protectedStatuses[t.state.Status] && containsAny(t.text, serviceTopicKeywords)
}

func (t *turn) handleServiceTopic() (string, SessionRecord, bool) {
	t.state.Status = StatusAwaitingServiceSelection
	return msgCatalog(t.e.catalog.Render()), t.encode(), true
}

func (t *turn) matchCancellation() bool {
	return containsAny(t.text, cancelKeywords)
}

// handleCancellation resolves three distinct situations: a confirmed booking
// to cancel in the agenda, an in-progress selection to abandon, or nothing to
// cancel at all.
func (t *turn) handleCancellation() (string, SessionRecord, bool) {
	if b := t.state.LastBooking; b != nil {
		ok, err := t.e.gateway.Cancel(t.ctx, t.phone)
		if err != nil {
			t.e.logger.Error("cancellation failed", "error", err, "phone", t.phone)
		}
		snapshot := *b
		t.state = ConversationState{Status: StatusStart}
		if err != nil || !ok {
			return msgCancelFailed(snapshot.Name), t.encode(), true
		}
		t.e.logger.Info("booking cancelled", "phone", t.phone, "date", snapshot.Date, "time", snapshot.Time)
		return msgCancelConfirmed(snapshot), t.encode(), true
	}

	if t.state.Service != nil || t.state.Date != nil {
		service := ""
		if t.state.Service != nil {
			service = t.state.Service.Name
		}
		date := ""
		if t.state.Date != nil {
			date = displayDate(*t.state.Date)
		}
		clock := t.state.Time
		t.state = ConversationState{Status: StatusStart}
		return msgCancelInProgress(service, date, clock), t.encode(), true
	}

	t.state = ConversationState{Status: StatusStart}
	return msgCancelNothing, t.encode(), true
}

func (t *turn) matchSimpleFarewell() bool {
	return containsAny(t.text, farewellKeywords)
}

// handleSimpleFarewell answers a goodbye without touching the state, so a
// "tchau" typed mid-booking never loses the selection in progress.
func (t *turn) handleSimpleFarewell() (string, SessionRecord, bool) {
	name := t.state.Name
	if name == "" && t.state.LastBooking != nil {
		name = t.state.LastBooking.Name
	}
	return msgFarewell(name), t.encode(), true
}

func (t *turn) matchTopicAddress() bool {
	return containsAny(t.text, addressKeywords)
}

func (t *turn) handleTopicAddress() (string, SessionRecord, bool) {
	return t.answerTopic(TopicAddress)
}

func (t *turn) matchTopicPhone() bool {
	return containsAny(t.text, phoneKeywords)
}

func (t *turn) handleTopicPhone() (string, SessionRecord, bool) {
	return t.answerTopic(TopicPhone)
}

func (t *turn) matchTopicInstagram() bool {
	return containsAny(t.text, instagramKeywords)
}

func (t *turn) handleTopicInstagram() (string, SessionRecord, bool) {
	return t.answerTopic(TopicInstagram)
}

// answerTopic sends an informational block. With a confirmed booking on
// record the reply is personalized and the state untouched; at the welcome
// question the block is answered in place so the pending sim/não stays
// pending; anywhere else the block ends with an engagement offer and the
// conversation waits for the answer.
func (t *turn) answerTopic(topic string) (string, SessionRecord, bool) {
	if t.state.LastBooking != nil {
		return msgTopic(topic, t.state.LastBooking, false), t.encode(), true
	}
	if t.state.Status == StatusAwaitingWelcomeResponse {
		return msgTopic(topic, nil, true), t.encode(), true
	}
	t.state.Status = StatusAwaitingEngagementResponse
	t.state.EngagementContext = topic
	return msgTopic(topic, nil, false), t.encode(), true
}

func (t *turn) matchEngagementResponse() bool {
	return t.state.Status == StatusAwaitingEngagementResponse
}

func (t *turn) handleEngagementResponse() (string, SessionRecord, bool) {
	if containsAny(t.text, engagementNegatives) {
		t.state = ConversationState{
			Status:      StatusStart,
			LastBooking: t.state.LastBooking,
		}
		return msgEngagementDeclined, t.encode(), true
	}
	if containsAny(t.text, engagementAffirmatives) {
		t.state.Status = StatusAwaitingServiceSelection
		t.state.EngagementContext = ""
		return msgEngagementAccepted(t.e.catalog.Render()), t.encode(), true
	}
	// A service named instead of a yes/no answer starts the booking directly.
	if svc := t.e.catalog.Match(t.text); svc != nil {
		t.state.EngagementContext = ""
		reply, rec := t.serviceChosen(svc)
		return reply, rec, true
	}
	return msgEngagementRetry, t.encode(), true
}

// matchServiceShortcut is the opportunistic service detector: a service named
// outside the selection step starts a booking for it. Pure numbers are left
// alone so ordinal answers and day numbers in other steps are never hijacked.
func (t *turn) matchServiceShortcut() bool {
	if protectedStatuses[t.state.Status] || t.state.Status == StatusAwaitingServiceSelection {
		return false
	}
	if _, err := strconv.Atoi(t.text); err == nil {
		return false
	}
	return t.e.catalog.Match(t.text) != nil
}

func (t *turn) handleServiceShortcut() (string, SessionRecord, bool) {
	svc := t.e.catalog.Match(t.text)
	reply, rec := t.serviceChosen(svc)
	return reply, rec, true
}
