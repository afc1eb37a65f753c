package models

// UrgencyLevel classifies how intrusive a product-expiry notification should be.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "LOW"
	UrgencyMedium   UrgencyLevel = "MEDIUM"
	UrgencyHigh     UrgencyLevel = "HIGH"
	UrgencyCritical UrgencyLevel = "CRITICAL"
)

// NotificationData is the structured product context carried inside a push
// payload. It rides along as the data of the shown notification and comes
// back untouched on click/close.
type NotificationData struct {
	ProductID       string       `json:"productId,omitempty"`
	ProductName     string       `json:"productName,omitempty"`
	ExpiryDate      string       `json:"expiryDate,omitempty"`
	DaysUntilExpiry *int         `json:"daysUntilExpiry,omitempty"` // negative means already expired
	Timestamp       string       `json:"timestamp,omitempty"`
	UrgencyLevel    UrgencyLevel `json:"urgencyLevel,omitempty"`
}

// Expired reports whether the product counts as already expired for action
// derivation. A value of exactly 0 days counts as expired.
func (d NotificationData) Expired() bool {
	return d.DaysUntilExpiry != nil && *d.DaysUntilExpiry <= 0
}

// NotificationAction is one action button offered on a notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// PushNotificationPayload is the wire shape of an inbound push message.
// Every field is optional; the decoder and policy fill in whatever the
// sender left out.
type PushNotificationPayload struct {
	Title              string               `json:"title,omitempty"`
	Body               string               `json:"body,omitempty"`
	Icon               string               `json:"icon,omitempty"`
	Badge              string               `json:"badge,omitempty"`
	Data               NotificationData     `json:"data,omitempty"`
	Actions            []NotificationAction `json:"actions,omitempty"`
	RequireInteraction *bool                `json:"requireInteraction,omitempty"`
	Silent             *bool                `json:"silent,omitempty"`
	Vibrate            []int                `json:"vibrate,omitempty"`
	Tag                string               `json:"tag,omitempty"`
}
