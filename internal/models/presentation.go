package models

// Action identifiers understood by the action router. Anything outside this
// set falls back to opening the app.
const (
	ActionView        = "view"
	ActionOpen        = "open"
	ActionDismiss     = "dismiss"
	ActionMarkChecked = "mark_checked"
	ActionRemindLater = "remind_later"
)

// PresentationParameters is the fully resolved, platform-ready form of a
// notification. By the time one of these reaches the presenter no field is
// left to guess: the policy has already applied every default and
// urgency-derived flag.
type PresentationParameters struct {
	Title              string               `json:"title"`
	Body               string               `json:"body"`
	Icon               string               `json:"icon"`
	Badge              string               `json:"badge"`
	Data               NotificationData     `json:"data"`
	Tag                string               `json:"tag"`
	RequireInteraction bool                 `json:"requireInteraction"`
	Silent             bool                 `json:"silent"`
	Vibrate            []int                `json:"vibrate"`
	Actions            []NotificationAction `json:"actions"`
}
