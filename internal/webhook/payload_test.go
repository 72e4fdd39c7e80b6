package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadBodyShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"text as string", `{"phone":"551199","text":"oi"}`, "oi"},
		{"text.message", `{"phone":"551199","text":{"message":"bom dia"}}`, "bom dia"},
		{"message.text", `{"phone":"551199","message":{"text":"quero agendar"}}`, "quero agendar"},
		{"message as string", `{"phone":"551199","message":"tchau"}`, "tchau"},
		{"whitespace trimmed", `{"phone":"551199","text":{"message":"  oi  "}}`, "oi"},
		{"no text at all", `{"phone":"551199","image":{"caption":"foto"}}`, ""},
		{"empty payload", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Payload
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			assert.Equal(t, tt.want, p.Body())
		})
	}
}

func TestPayloadBodyPrefersTextOverMessage(t *testing.T) {
	var p Payload
	raw := `{"text":{"message":"primeiro"},"message":"segundo"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, "primeiro", p.Body())
}

func TestDedupe(t *testing.T) {
	d := newDedupe(2)

	assert.False(t, d.Seen("a"))
	d.Mark("a")
	assert.True(t, d.Seen("a"))
	d.Mark("b")
	d.Mark("c") // evicts "a"
	assert.False(t, d.Seen("a"))
	assert.True(t, d.Seen("b"))
	assert.True(t, d.Seen("c"))
}

func TestDedupeChecksWithoutRecording(t *testing.T) {
	d := newDedupe(2)

	assert.False(t, d.Seen("a"))
	assert.False(t, d.Seen("a"))
}

func TestDedupeIgnoresEmptyIDs(t *testing.T) {
	d := newDedupe(2)
	d.Mark("")
	assert.False(t, d.Seen(""))
}

func TestPhoneLocksSerializes(t *testing.T) {
	locks := newPhoneLocks()

	m1 := locks.Lock("551199")
	done := make(chan struct{})
	go func() {
		m := locks.Lock("551199")
		m.Unlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first held")
	default:
	}

	m1.Unlock()
	<-done
}
