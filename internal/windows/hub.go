// Package windows is the websocket-backed implementation of the platform
// collaborators: every open application window keeps a session against the
// hub, notifications are pushed to the sessions as frames, and user
// interaction comes back as click/closed frames that turn into agent events.
package windows

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/platform"
)

// Frame types exchanged with window sessions.
const (
	frameHello        = "hello"        // window -> hub: announce current url
	frameClick        = "click"        // window -> hub: user clicked the notification
	frameClosed       = "closed"       // window -> hub: user dismissed via chrome
	frameNotification = "notification" // hub -> window: render a notification
	frameClose        = "close"        // hub -> window: remove a notification
	frameFocus        = "focus"        // hub -> window: bring window to front
	frameNavigate     = "navigate"     // hub -> window: navigate to url
	frameOpen         = "open"         // hub -> window: open a new window
	frameClaim        = "claim"        // hub -> window: this agent version took control
)

type frame struct {
	Type         string                         `json:"type"`
	URL          string                         `json:"url,omitempty"`
	Tag          string                         `json:"tag,omitempty"`
	Action       string                         `json:"action,omitempty"`
	Data         models.NotificationData        `json:"data,omitempty"`
	Notification *models.PresentationParameters `json:"notification,omitempty"`
}

// Hub tracks window sessions and visible notifications. It implements both
// platform.Notifier and platform.Windows.
type Hub struct {
	mu       sync.Mutex
	sessions map[*session]bool
	active   map[string]models.PresentationParameters // visible notifications by tag
	sink     func(models.Event)
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		sessions: make(map[*session]bool),
		active:   make(map[string]models.PresentationParameters),
		sink:     func(models.Event) {},
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// SetSink routes interaction events from window sessions into the agent.
func (h *Hub) SetSink(sink func(models.Event)) {
	h.sink = sink
}

// session is one connected application window.
type session struct {
	conn       *websocket.Conn
	writeMu    sync.Mutex
	mu         sync.Mutex
	url        string
	controlled bool
}

func (s *session) send(f frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(f)
}

// URL returns the window's last known location.
func (s *session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

func (s *session) Focus(_ context.Context) error {
	return s.send(frame{Type: frameFocus})
}

func (s *session) Navigate(_ context.Context, url string) error {
	if err := s.send(frame{Type: frameNavigate, URL: url}); err != nil {
		return err
	}
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	return nil
}

// Show makes a notification visible on every connected window. A repeated
// tag replaces the prior notification with that tag.
func (h *Hub) Show(_ context.Context, params models.PresentationParameters) error {
	h.mu.Lock()
	h.active[params.Tag] = params
	sessions := h.snapshotLocked()
	h.mu.Unlock()

	if len(sessions) == 0 {
		h.logger.Debugf("No windows connected, notification %s held on surface", params.Tag)
		return nil
	}
	h.broadcast(sessions, frame{Type: frameNotification, Tag: params.Tag, Notification: &params})
	return nil
}

// Close removes a notification from the surface.
func (h *Hub) Close(_ context.Context, tag string) error {
	h.mu.Lock()
	delete(h.active, tag)
	sessions := h.snapshotLocked()
	h.mu.Unlock()

	h.broadcast(sessions, frame{Type: frameClose, Tag: tag})
	return nil
}

// MatchAll lists connected windows, optionally including ones this agent
// version has not yet claimed.
func (h *Hub) MatchAll(_ context.Context, includeUncontrolled bool) ([]platform.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var wins []platform.Window
	for s := range h.sessions {
		if !includeUncontrolled && !s.controlled {
			continue
		}
		wins = append(wins, s)
	}
	return wins, nil
}

// OpenWindow asks a connected window shell to open a new window at url. With
// nothing connected there is nowhere to open from; the request is logged and
// dropped.
func (h *Hub) OpenWindow(_ context.Context, url string) error {
	h.mu.Lock()
	sessions := h.snapshotLocked()
	h.mu.Unlock()

	if len(sessions) == 0 {
		h.logger.Warnf("Open window at %s requested with no windows connected", url)
		return nil
	}
	return sessions[0].send(frame{Type: frameOpen, URL: url})
}

// Claim marks every connected window as controlled by this agent version and
// tells it so.
func (h *Hub) Claim(_ context.Context) error {
	h.mu.Lock()
	for s := range h.sessions {
		s.controlled = true
	}
	sessions := h.snapshotLocked()
	h.mu.Unlock()

	h.broadcast(sessions, frame{Type: frameClaim})
	return nil
}

// HandleWS upgrades an application window's connection and pumps its
// interaction frames into the agent until it disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("Window upgrade failed: %v", err)
		return
	}

	s := &session{conn: conn, url: r.URL.Query().Get("url")}
	h.register(s)
	defer h.unregister(s)

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debugf("Window session ended: %v", err)
			}
			return
		}
		switch f.Type {
		case frameHello:
			s.mu.Lock()
			s.url = f.URL
			s.mu.Unlock()
		case frameClick:
			h.sink(models.Event{
				Kind:   models.EventNotificationClick,
				Action: f.Action,
				Tag:    f.Tag,
				Data:   f.Data,
			})
		case frameClosed:
			// The window already removed the notification from view; the
			// surface forgets it too so new windows don't get a replay.
			h.mu.Lock()
			delete(h.active, f.Tag)
			h.mu.Unlock()
			h.sink(models.Event{
				Kind: models.EventNotificationClose,
				Tag:  f.Tag,
				Data: f.Data,
			})
		default:
			h.logger.Debugf("Ignoring %q frame from window", f.Type)
		}
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	h.sessions[s] = true
	count := len(h.sessions)
	active := make([]models.PresentationParameters, 0, len(h.active))
	for _, params := range h.active {
		active = append(active, params)
	}
	h.mu.Unlock()

	h.logger.Infof("Window connected (total: %d)", count)
	// Late joiners still see what is currently on the surface.
	for i := range active {
		if err := s.send(frame{Type: frameNotification, Tag: active[i].Tag, Notification: &active[i]}); err != nil {
			h.logger.Warnf("Replay notification to new window failed: %v", err)
		}
	}
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	delete(h.sessions, s)
	count := len(h.sessions)
	h.mu.Unlock()
	_ = s.conn.Close()
	h.logger.Infof("Window disconnected (remaining: %d)", count)
}

func (h *Hub) snapshotLocked() []*session {
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func (h *Hub) broadcast(sessions []*session, f frame) {
	for _, s := range sessions {
		if err := s.send(f); err != nil {
			h.logger.Errorf("Send %s frame to window failed: %v", f.Type, err)
		}
	}
}
