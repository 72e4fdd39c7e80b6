package webhook

import (
	"encoding/json"
	"strings"
)

// Payload is an inbound Z-API message notification. Z-API has shipped the
// message body under several shapes over time; Body() folds them all.
type Payload struct {
	Phone      string          `json:"phone"`
	FromMe     bool            `json:"fromMe"`
	IsGroup    bool            `json:"isGroup"`
	MessageID  string          `json:"messageId"`
	SenderName string          `json:"senderName"`
	Text       json.RawMessage `json:"text"`
	Message    json.RawMessage `json:"message"`
}

type nestedMessage struct {
	Message string `json:"message"`
	Text    string `json:"text"`
}

// Body extracts the message text, trying each known payload shape in order:
// "text" as a plain string, "text.message", "message.text", and "message" as
// a plain string. Returns "" when none carries text.
func (p *Payload) Body() string {
	if s := asString(p.Text); s != "" {
		return s
	}
	if n := asNested(p.Text); n != nil && n.Message != "" {
		return strings.TrimSpace(n.Message)
	}
	if n := asNested(p.Message); n != nil && n.Text != "" {
		return strings.TrimSpace(n.Text)
	}
	if s := asString(p.Message); s != "" {
		return s
	}
	return ""
}

func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func asNested(raw json.RawMessage) *nestedMessage {
	if len(raw) == 0 {
		return nil
	}
	var n nestedMessage
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}
