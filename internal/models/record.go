package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Delivery record kinds, one per observable point in a notification's life.
const (
	RecordShown    = "shown"
	RecordFallback = "fallback"
	RecordClicked  = "clicked"
	RecordClosed   = "closed"
)

// DeliveryRecord is one row of the notification lifecycle log. The agent only
// ever writes these; nothing reads them back to make decisions.
type DeliveryRecord struct {
	ID        [16]byte     `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Kind      string       `json:"kind"`
	Tag       string       `json:"tag"`
	Action    string       `json:"action,omitempty"`
	ProductID string       `json:"product_id,omitempty"`
	Title     string       `json:"title,omitempty"`
	Urgency   UrgencyLevel `json:"urgency,omitempty"`
}

// MarshalJSON serializes the record ID as a UUID string.
func (r DeliveryRecord) MarshalJSON() ([]byte, error) {
	type Alias DeliveryRecord
	return json.Marshal(&struct {
		ID string `json:"id"`
		*Alias
	}{
		ID:    uuid.UUID(r.ID).String(),
		Alias: (*Alias)(&r),
	})
}
