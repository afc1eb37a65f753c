// Package policy maps a decoded push payload to platform-ready presentation
// parameters. Resolution is deterministic: the same payload at the same
// instant always resolves to the same parameters.
package policy

import (
	"fmt"
	"time"

	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/payload"
)

// Fallback body when the payload carries none.
const DefaultBody = "Tienes productos próximos a vencer"

// DefaultVibrate is the vibration pattern applied when the sender sets none.
var DefaultVibrate = []int{200, 100, 200}

// Policy resolves presentation parameters from urgency classification and
// process-wide defaults. Now is injectable so tag generation is testable.
type Policy struct {
	Icon  string
	Badge string
	Now   func() time.Time
}

func New(cfg config.Config) *Policy {
	return &Policy{
		Icon:  cfg.Notification.Icon,
		Badge: cfg.Notification.Badge,
		Now:   time.Now,
	}
}

// Resolve fills in every absent field of the payload. The result never
// requires the presenter to branch on missing data.
func (p *Policy) Resolve(pl models.PushNotificationPayload) models.PresentationParameters {
	params := models.PresentationParameters{
		Title:   pl.Title,
		Body:    pl.Body,
		Icon:    pl.Icon,
		Badge:   pl.Badge,
		Data:    pl.Data,
		Tag:     pl.Tag,
		Vibrate: pl.Vibrate,
		Actions: pl.Actions,
	}

	if params.Title == "" {
		params.Title = payload.DefaultTitle
	}
	if params.Body == "" {
		params.Body = DefaultBody
	}
	if params.Icon == "" {
		params.Icon = p.Icon
	}
	if params.Badge == "" {
		params.Badge = p.Badge
	}
	if params.Tag == "" {
		params.Tag = p.tag(pl.Data)
	}
	if len(params.Vibrate) == 0 {
		params.Vibrate = DefaultVibrate
	}

	urgency := pl.Data.UrgencyLevel
	if pl.RequireInteraction != nil {
		params.RequireInteraction = *pl.RequireInteraction
	} else {
		params.RequireInteraction = urgency == models.UrgencyHigh || urgency == models.UrgencyCritical
	}
	if pl.Silent != nil {
		params.Silent = *pl.Silent
	} else {
		params.Silent = urgency == models.UrgencyLow
	}

	if len(params.Actions) == 0 {
		params.Actions = defaultActions(pl.Data)
	}

	return params
}

// tag keys the notification for dedup/grouping: notifications for the same
// product replace each other, anonymous ones stay distinct per send.
func (p *Policy) tag(data models.NotificationData) string {
	if data.ProductID != "" {
		return fmt.Sprintf("product-%s", data.ProductID)
	}
	return fmt.Sprintf("expiry-notification-%d", p.Now().UnixMilli())
}

// defaultActions derives the action set offered on the notification. An
// already-expired product (zero or negative days left) or a CRITICAL urgency
// gets the mark-checked flow; anything else can be snoozed or dismissed.
func defaultActions(data models.NotificationData) []models.NotificationAction {
	actions := []models.NotificationAction{
		{Action: models.ActionView, Title: "Ver Producto"},
	}
	if data.UrgencyLevel == models.UrgencyCritical || data.Expired() {
		actions = append(actions, models.NotificationAction{Action: models.ActionMarkChecked, Title: "Marcar Revisado"})
		return actions
	}
	actions = append(actions,
		models.NotificationAction{Action: models.ActionRemindLater, Title: "Recordar Después"},
		models.NotificationAction{Action: models.ActionDismiss, Title: "Descartar"},
	)
	return actions
}
