package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sescandon/nevexp/internal/backend"
	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/platform"
)

type fakeWindow struct {
	url       string
	focused   bool
	navigated string
}

func (w *fakeWindow) URL() string { return w.url }

func (w *fakeWindow) Focus(context.Context) error {
	w.focused = true
	return nil
}

func (w *fakeWindow) Navigate(_ context.Context, url string) error {
	w.navigated = url
	return nil
}

type fakeWindows struct {
	windows []*fakeWindow
	opened  []string
	claimed bool
}

func (f *fakeWindows) MatchAll(context.Context, bool) ([]platform.Window, error) {
	wins := make([]platform.Window, 0, len(f.windows))
	for _, w := range f.windows {
		wins = append(wins, w)
	}
	return wins, nil
}

func (f *fakeWindows) OpenWindow(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return nil
}

func (f *fakeWindows) Claim(context.Context) error {
	f.claimed = true
	return nil
}

type fakeBackend struct {
	checked   []string
	reminders []string
}

func (f *fakeBackend) MarkChecked(_ context.Context, productID string) error {
	f.checked = append(f.checked, productID)
	return nil
}

func (f *fakeBackend) ScheduleReminder(_ context.Context, productID string, _ time.Time) error {
	f.reminders = append(f.reminders, productID)
	return nil
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.App.Origin = "http://localhost:5173"
	return cfg
}

func newTestRouter(w *fakeWindows, b Backend) *Router {
	return New(w, b, logging.Discard(), testConfig())
}

func TestRouteBodyClickOpensNewWindow(t *testing.T) {
	w := &fakeWindows{}
	r := newTestRouter(w, &fakeBackend{})

	r.Route(context.Background(), "", models.NotificationData{ProductID: "P3"})

	require.Len(t, w.opened, 1)
	assert.Equal(t, "/?product=P3", w.opened[0])
}

func TestRouteViewFocusesFirstMatchingWindow(t *testing.T) {
	other := &fakeWindow{url: "https://example.com/elsewhere"}
	first := &fakeWindow{url: "http://localhost:5173/inventory"}
	second := &fakeWindow{url: "http://localhost:5173/"}
	w := &fakeWindows{windows: []*fakeWindow{other, first, second}}
	r := newTestRouter(w, &fakeBackend{})

	r.Route(context.Background(), models.ActionView, models.NotificationData{ProductID: "P3"})

	assert.True(t, first.focused)
	assert.Equal(t, "/?product=P3", first.navigated)
	assert.False(t, second.focused, "search stops at the first origin match")
	assert.False(t, other.focused)
	assert.Empty(t, w.opened)
}

func TestRouteOpenWithoutProductTargetsRoot(t *testing.T) {
	w := &fakeWindows{}
	r := newTestRouter(w, &fakeBackend{})

	r.Route(context.Background(), models.ActionOpen, models.NotificationData{})

	require.Len(t, w.opened, 1)
	assert.Equal(t, "/", w.opened[0])
}

func TestRouteDismissDoesNothing(t *testing.T) {
	w := &fakeWindows{}
	b := &fakeBackend{}
	r := newTestRouter(w, b)

	r.Route(context.Background(), models.ActionDismiss, models.NotificationData{ProductID: "P3"})

	assert.Empty(t, w.opened)
	assert.Empty(t, b.checked)
	assert.Empty(t, b.reminders)
}

func TestRouteMarkCheckedWithoutProductSkipsCall(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRouter(&fakeWindows{}, b)

	r.Route(context.Background(), models.ActionMarkChecked, models.NotificationData{})

	assert.Empty(t, b.checked)
}

func TestRouteMarkChecked(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRouter(&fakeWindows{}, b)

	r.Route(context.Background(), models.ActionMarkChecked, models.NotificationData{ProductID: "P5"})

	assert.Equal(t, []string{"P5"}, b.checked)
}

func TestRouteRemindLaterCallsBackend(t *testing.T) {
	var got struct {
		ProductID string `json:"productId"`
		RemindAt  string `json:"remindAt"`
	}
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/products/schedule-reminder", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := newTestRouter(&fakeWindows{}, backend.New(srv.URL))
	before := time.Now()

	r.Route(context.Background(), models.ActionRemindLater, models.NotificationData{ProductID: "P7"})

	require.Equal(t, 1, calls)
	assert.Equal(t, "P7", got.ProductID)
	remindAt, err := time.Parse(time.RFC3339, got.RemindAt)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(ReminderDelay), remindAt, 5*time.Second)
}

func TestRouteUnknownActionOpensApp(t *testing.T) {
	w := &fakeWindows{}
	r := newTestRouter(w, &fakeBackend{})

	r.Route(context.Background(), "share", models.NotificationData{ProductID: "P1"})

	require.Len(t, w.opened, 1)
	assert.Equal(t, "/?product=P1", w.opened[0])
}

func TestRouteBackendFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestRouter(&fakeWindows{}, backend.New(srv.URL))

	// Must not panic or surface anything; the failure is logged only.
	r.Route(context.Background(), models.ActionMarkChecked, models.NotificationData{ProductID: "P1"})
}
