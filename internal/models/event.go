package models

// EventKind enumerates the discrete platform events the agent handles.
type EventKind string

const (
	EventPush              EventKind = "push"
	EventNotificationClick EventKind = "notificationclick"
	EventNotificationClose EventKind = "notificationclose"
	EventInstall           EventKind = "install"
	EventActivate          EventKind = "activate"
)

// Event is one unit of work for the agent's event loop. Push events carry the
// raw message bytes; click and close events carry the interaction context
// recovered from the notification's data payload.
type Event struct {
	Kind    EventKind        `json:"kind"`
	Payload []byte           `json:"payload,omitempty"` // push only
	Action  string           `json:"action,omitempty"`  // click only; empty means body click
	Tag     string           `json:"tag,omitempty"`
	Data    NotificationData `json:"data,omitempty"`
}
