// Package agent is the background push-notification agent: an event loop
// detached from any page, driven by discrete platform events (push, click,
// close, install, activate). Events are handled one at a time; a handler's
// side effects are fully settled before the next event is taken, which is
// how the "extend the event's lifetime until async work settles" platform
// contract is kept.
package agent

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sescandon/nevexp/internal/actions"
	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/db"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/platform"
	"github.com/sescandon/nevexp/internal/presenter"
)

type Agent struct {
	presenter *presenter.Presenter
	router    *actions.Router
	notifier  platform.Notifier
	windows   platform.Windows
	store     *db.DB
	logger    *logging.Logger
	events    chan models.Event
	ctx       context.Context
	cancel    context.CancelFunc
	wg        *sync.WaitGroup
	handlers  map[models.EventKind]func(context.Context, models.Event) error
	installed atomic.Bool
	active    atomic.Bool
}

// Status is the agent state reported to the foreground UI surface.
type Status struct {
	Supported  bool `json:"supported"`
	Installed  bool `json:"installed"`
	Active     bool `json:"active"`
	QueueDepth int  `json:"queue_depth"`
}

func New(pres *presenter.Presenter, router *actions.Router, notifier platform.Notifier, windows platform.Windows, store *db.DB, logger *logging.Logger, cfg config.Config) *Agent {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Agent{
		presenter: pres,
		router:    router,
		notifier:  notifier,
		windows:   windows,
		store:     store,
		logger:    logger,
		events:    make(chan models.Event, cfg.Notification.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	a.handlers = map[models.EventKind]func(context.Context, models.Event) error{
		models.EventPush:              a.handlePush,
		models.EventNotificationClick: a.handleClick,
		models.EventNotificationClose: a.handleClose,
		models.EventInstall:           a.handleInstall,
		models.EventActivate:          a.handleActivate,
	}
	return a
}

// Start launches the event loop. A single worker keeps delivery ordered: one
// event runs to completion before the next is taken.
func (a *Agent) Start(wg *sync.WaitGroup) {
	a.wg = wg
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-a.ctx.Done():
				a.logger.Infof("Agent event loop stopped")
				return
			case evt := <-a.events:
				a.handle(a.ctx, evt)
			}
		}
	}()
	a.Dispatch(models.Event{Kind: models.EventInstall})
}

// Stop cancels the event loop.
func (a *Agent) Stop() {
	a.cancel()
}

// Dispatch enqueues an event for the agent. Events are dropped with a log
// when the environment is unsupported. A push blocks until there is queue
// room: the caller's own backpressure (the broker read loop, the HTTP
// request) stalls instead, and every delivered push still ends in a visible
// notification. Interaction and lifecycle events stay drop-on-full.
func (a *Agent) Dispatch(evt models.Event) {
	if !a.supported() {
		a.logger.Warnf("Unsupported environment, dropping %s event", evt.Kind)
		return
	}
	if evt.Kind == models.EventPush {
		select {
		case a.events <- evt:
			a.logger.Debugf("Queued %s event", evt.Kind)
		case <-a.ctx.Done():
			a.logger.Warnf("Agent stopped, dropping %s event", evt.Kind)
		}
		return
	}
	select {
	case a.events <- evt:
		a.logger.Debugf("Queued %s event", evt.Kind)
	default:
		a.logger.Errorf("Event queue full, dropping %s event", evt.Kind)
	}
}

// Status reports agent state for the status endpoint.
func (a *Agent) Status() Status {
	return Status{
		Supported:  a.supported(),
		Installed:  a.installed.Load(),
		Active:     a.active.Load(),
		QueueDepth: len(a.events),
	}
}

func (a *Agent) supported() bool {
	return a.notifier != nil && a.windows != nil
}

func (a *Agent) handle(ctx context.Context, evt models.Event) {
	h, ok := a.handlers[evt.Kind]
	if !ok {
		a.logger.Warnf("No handler for %s event", evt.Kind)
		return
	}
	if err := h(ctx, evt); err != nil {
		a.logger.Errorf("Handling %s event failed: %v", evt.Kind, err)
	}
}

// handleInstall takes over immediately instead of waiting for previously
// loaded versions to finish: activation is queued right away, leaving no
// multi-version coexistence window.
func (a *Agent) handleInstall(_ context.Context, _ models.Event) error {
	a.installed.Store(true)
	a.logger.Infof("Agent installed, skipping waiting")
	a.Dispatch(models.Event{Kind: models.EventActivate})
	return nil
}

// handleActivate claims every open application window so the new agent
// version owns push handling before the next navigation.
func (a *Agent) handleActivate(ctx context.Context, _ models.Event) error {
	if err := a.windows.Claim(ctx); err != nil {
		a.logger.Errorf("Claiming windows failed: %v", err)
	}
	a.active.Store(true)
	a.logger.Infof("Agent activated, all windows claimed")
	return nil
}

func (a *Agent) handlePush(ctx context.Context, evt models.Event) error {
	a.presenter.Present(ctx, evt.Payload)
	return nil
}

// handleClick closes the notification first, unconditionally, then routes
// the chosen action.
func (a *Agent) handleClick(ctx context.Context, evt models.Event) error {
	if err := a.notifier.Close(ctx, evt.Tag); err != nil {
		a.logger.Warnf("Close notification %s failed: %v", evt.Tag, err)
	}
	a.record(ctx, models.RecordClicked, evt)
	a.router.Route(ctx, evt.Action, evt.Data)
	return nil
}

// handleClose observes a notification dismissed via platform chrome. No
// routing happens; only a note when a product was attached.
func (a *Agent) handleClose(ctx context.Context, evt models.Event) error {
	if evt.Data.ProductID == "" {
		return nil
	}
	a.logger.Infof("Notification closed for product %s (%s)", evt.Data.ProductID, evt.Data.ProductName)
	a.record(ctx, models.RecordClosed, evt)
	return nil
}

func (a *Agent) record(ctx context.Context, kind string, evt models.Event) {
	rec := models.DeliveryRecord{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Kind:      kind,
		Tag:       evt.Tag,
		Action:    evt.Action,
		ProductID: evt.Data.ProductID,
		Urgency:   evt.Data.UrgencyLevel,
	}
	if err := a.store.RecordEvent(ctx, rec); err != nil {
		a.logger.Errorf("Record %s event failed: %v", kind, err)
	}
}
