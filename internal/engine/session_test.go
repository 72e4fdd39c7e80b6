package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	date := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	state := ConversationState{
		Status:  StatusAwaitingConfirmation,
		Service: &Service{Name: "Sobrancelha", Category: "Cílios & Sobrancelhas", Price: PriceFromValue(45), DurationMinutes: 30},
		Date:    &date,
		Time:    "15:00",
		Name:    "Maria Silva",
	}

	rec := EncodeState(state, testNow)
	assert.Equal(t, "awaiting_confirmation", rec.CurrentStep)
	assert.Equal(t, SessionActive, rec.Status)
	assert.Equal(t, "2026-01-20", rec.ConversationData.Date)
	assert.NotEmpty(t, rec.ConversationData.LastActivity)

	decoded := DecodeState(rec.CurrentStep, rec.ConversationData)
	assert.Equal(t, state.Status, decoded.Status)
	require.NotNil(t, decoded.Service)
	assert.Equal(t, "Sobrancelha", decoded.Service.Name)
	require.NotNil(t, decoded.Date)
	assert.True(t, decoded.Date.Equal(date))
	assert.Equal(t, "15:00", decoded.Time)
	assert.Equal(t, "Maria Silva", decoded.Name)
}

func TestEncodeStateMarkers(t *testing.T) {
	rec := EncodeState(ConversationState{Status: StatusCompleted}, testNow)
	assert.Equal(t, SessionCompleted, rec.Status)

	rec = EncodeState(ConversationState{Status: StatusAwaitingDate}, testNow)
	assert.Equal(t, SessionActive, rec.Status)

	rec = EncodeState(ConversationState{}, testNow)
	assert.Equal(t, "start", rec.CurrentStep)
}

func TestDecodeStateDefaults(t *testing.T) {
	state := DecodeState("", SessionData{})
	assert.Equal(t, StatusStart, state.Status)

	state = DecodeState("awaiting_date", SessionData{Date: "not-a-date"})
	assert.Equal(t, StatusAwaitingDate, state.Status)
	assert.Nil(t, state.Date)
}

func TestSessionDataExpired(t *testing.T) {
	idle := 30 * time.Minute

	fresh := SessionData{LastActivity: testNow.Add(-29 * time.Minute).Format(time.RFC3339)}
	assert.False(t, fresh.Expired(testNow, idle))

	stale := SessionData{LastActivity: testNow.Add(-31 * time.Minute).Format(time.RFC3339)}
	assert.True(t, stale.Expired(testNow, idle))

	assert.False(t, SessionData{}.Expired(testNow, idle))
	assert.False(t, SessionData{LastActivity: "garbage"}.Expired(testNow, idle))
}

func TestSessionDataIsZero(t *testing.T) {
	assert.True(t, SessionData{}.IsZero())
	assert.False(t, SessionData{Name: "Maria Silva"}.IsZero())
	assert.False(t, SessionData{LastActivity: testNow.Format(time.RFC3339)}.IsZero())
}
