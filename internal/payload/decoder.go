// Package payload turns raw push messages into typed notification payloads.
package payload

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/sescandon/nevexp/internal/models"
)

// Fixed fallbacks used whenever the sender gives us nothing usable.
const (
	DefaultTitle = "Monitor de Vencimientos"
	DefaultBody  = "Nueva notificación de producto"
)

// Decoder parses inbound push messages. It is a total function over raw
// bytes: whatever arrives, Decode returns a payload the policy can resolve.
type Decoder struct{}

func New() *Decoder {
	return &Decoder{}
}

// Decode attempts to parse raw as a JSON push payload. A non-JSON message is
// treated as a plain-text body under the default title; an empty message
// yields the default title/body pair. Decode never fails.
func (d *Decoder) Decode(raw []byte) models.PushNotificationPayload {
	if len(raw) == 0 {
		return models.PushNotificationPayload{
			Title: DefaultTitle,
			Body:  DefaultBody,
		}
	}

	var p models.PushNotificationPayload
	if err := json.Unmarshal(raw, &p); err == nil {
		// A structurally valid message may still omit the texts. The
		// decoder's contract is a usable title/body no matter what.
		if p.Title == "" {
			p.Title = DefaultTitle
		}
		if p.Body == "" {
			p.Body = DefaultBody
		}
		return p
	}

	text := strings.TrimSpace(string(raw))
	if text == "" || !utf8.ValidString(text) {
		text = DefaultBody
	}
	return models.PushNotificationPayload{
		Title: DefaultTitle,
		Body:  text,
	}
}
