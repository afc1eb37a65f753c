package presenter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/payload"
	"github.com/sescandon/nevexp/internal/policy"
)

type fakeNotifier struct {
	shown    []models.PresentationParameters
	closed   []string
	failNext int
}

func (f *fakeNotifier) Show(_ context.Context, params models.PresentationParameters) error {
	if f.failNext > 0 {
		f.failNext--
		return errors.New("display refused")
	}
	f.shown = append(f.shown, params)
	return nil
}

func (f *fakeNotifier) Close(_ context.Context, tag string) error {
	f.closed = append(f.closed, tag)
	return nil
}

type panicResolver struct{}

func (panicResolver) Resolve(models.PushNotificationPayload) models.PresentationParameters {
	panic("policy broke its contract")
}

type fakeMirror struct {
	mirrored []models.PresentationParameters
}

func (f *fakeMirror) Mirror(_ context.Context, params models.PresentationParameters) error {
	f.mirrored = append(f.mirrored, params)
	return nil
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.Notification.Icon = "/icons/app-icon-192.png"
	cfg.Notification.Badge = "/icons/badge-72.png"
	return cfg
}

func newTestPresenter(n *fakeNotifier) *Presenter {
	cfg := testConfig()
	return New(payload.New(), policy.New(cfg), n, nil, logging.Discard(), cfg)
}

func TestPresentShowsResolvedNotification(t *testing.T) {
	n := &fakeNotifier{}
	p := newTestPresenter(n)

	p.Present(context.Background(), []byte(`{"data":{"productId":"P1","urgencyLevel":"HIGH"}}`))

	require.Len(t, n.shown, 1)
	assert.Equal(t, "product-P1", n.shown[0].Tag)
	assert.True(t, n.shown[0].RequireInteraction)
	assert.Equal(t, payload.DefaultTitle, n.shown[0].Title)
}

func TestPresentFallbackOnResolverPanic(t *testing.T) {
	n := &fakeNotifier{}
	cfg := testConfig()
	p := New(payload.New(), panicResolver{}, n, nil, logging.Discard(), cfg)

	p.Present(context.Background(), []byte(`{}`))

	require.Len(t, n.shown, 1)
	assert.Equal(t, FallbackTag, n.shown[0].Tag)
	assert.Equal(t, FallbackBody, n.shown[0].Body)
	assert.Empty(t, n.shown[0].Actions)
}

func TestPresentFallbackOnShowFailure(t *testing.T) {
	n := &fakeNotifier{failNext: 1}
	p := newTestPresenter(n)

	p.Present(context.Background(), []byte(`{"body":"hola"}`))

	require.Len(t, n.shown, 1)
	assert.Equal(t, FallbackTag, n.shown[0].Tag)
}

func TestPresentSurvivesTotalDisplayFailure(t *testing.T) {
	n := &fakeNotifier{failNext: 2}
	p := newTestPresenter(n)

	// Both the real and the fallback notification are refused; the push is
	// logged and dropped without panicking the event loop.
	p.Present(context.Background(), []byte(`{"body":"hola"}`))

	assert.Empty(t, n.shown)
}

func TestPresentMirrorsCriticalOnly(t *testing.T) {
	n := &fakeNotifier{}
	m := &fakeMirror{}
	p := newTestPresenter(n)
	p.SetMirror(m)

	p.Present(context.Background(), []byte(`{"data":{"urgencyLevel":"CRITICAL","productId":"P9"}}`))
	p.Present(context.Background(), []byte(`{"data":{"urgencyLevel":"MEDIUM","productId":"P9"}}`))

	require.Len(t, n.shown, 2)
	require.Len(t, m.mirrored, 1)
	assert.Equal(t, models.UrgencyCritical, m.mirrored[0].Data.UrgencyLevel)
}
