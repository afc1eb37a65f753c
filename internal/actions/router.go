// Package actions routes user interaction on a shown notification back into
// application behavior. Dispatch is stateless: everything it needs travels in
// the notification's data payload.
package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/platform"
)

// ReminderDelay is how far in the future a snoozed notification comes back.
const ReminderDelay = 4 * time.Hour

// Backend is the subset of the application backend the router calls into.
type Backend interface {
	MarkChecked(ctx context.Context, productID string) error
	ScheduleReminder(ctx context.Context, productID string, remindAt time.Time) error
}

type handlerFunc func(ctx context.Context, data models.NotificationData) error

type Router struct {
	windows  platform.Windows
	backend  Backend
	logger   *logging.Logger
	origin   string
	now      func() time.Time
	handlers map[string]handlerFunc
}

func New(windows platform.Windows, backend Backend, logger *logging.Logger, cfg config.Config) *Router {
	r := &Router{
		windows: windows,
		backend: backend,
		logger:  logger,
		origin:  cfg.App.Origin,
		now:     time.Now,
	}
	// Closed action set; a body click arrives as the empty action id.
	r.handlers = map[string]handlerFunc{
		models.ActionView:        r.openApp,
		models.ActionOpen:        r.openApp,
		"":                       r.openApp,
		models.ActionDismiss:     r.dismiss,
		models.ActionMarkChecked: r.markChecked,
		models.ActionRemindLater: r.remindLater,
	}
	return r
}

// Route dispatches one user interaction. The notification itself has already
// been closed by the caller. Handler failures are logged, never retried, and
// never surfaced to the user.
func (r *Router) Route(ctx context.Context, action string, data models.NotificationData) {
	h, ok := r.handlers[action]
	if !ok {
		r.logger.Warnf("Unknown notification action %q, opening app", action)
		h = r.openApp
	}
	if err := h(ctx, data); err != nil {
		r.logger.Errorf("Action %q failed: %v", action, err)
	}
}

// openApp focuses the first window on our origin and navigates it to the
// product page, or opens a new window when none is open. At most one window
// is touched.
func (r *Router) openApp(ctx context.Context, data models.NotificationData) error {
	target := "/"
	if data.ProductID != "" {
		target = "/?product=" + data.ProductID
	}

	wins, err := r.windows.MatchAll(ctx, true)
	if err != nil {
		return fmt.Errorf("enumerate windows failed: %w", err)
	}

	for _, w := range wins {
		if !strings.Contains(w.URL(), r.origin) {
			continue
		}
		if err := w.Focus(ctx); err != nil {
			r.logger.Warnf("Focus window failed: %v", err)
		}
		if err := w.Navigate(ctx, target); err != nil {
			r.logger.Warnf("Navigate window to %s failed: %v", target, err)
		}
		return nil
	}

	if err := r.windows.OpenWindow(ctx, target); err != nil {
		return fmt.Errorf("open window at %s failed: %w", target, err)
	}
	return nil
}

func (r *Router) dismiss(_ context.Context, _ models.NotificationData) error {
	r.logger.Debugf("Notification dismissed by user")
	return nil
}

func (r *Router) markChecked(ctx context.Context, data models.NotificationData) error {
	if data.ProductID == "" {
		return nil
	}
	if err := r.backend.MarkChecked(ctx, data.ProductID); err != nil {
		return fmt.Errorf("mark product %s as checked failed: %w", data.ProductID, err)
	}
	r.logger.Infof("Product %s marked as checked", data.ProductID)
	return nil
}

func (r *Router) remindLater(ctx context.Context, data models.NotificationData) error {
	if data.ProductID == "" {
		return nil
	}
	remindAt := r.now().Add(ReminderDelay)
	if err := r.backend.ScheduleReminder(ctx, data.ProductID, remindAt); err != nil {
		return fmt.Errorf("schedule reminder for product %s failed: %w", data.ProductID, err)
	}
	r.logger.Infof("Reminder scheduled for product %s at %s", data.ProductID, remindAt.Format(time.RFC3339))
	return nil
}
