// Package presenter turns raw push messages into visible notifications.
// Its one guarantee: a push never ends in silence. If anything between
// decoding and display fails, the user still gets the fixed fallback
// notification.
package presenter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/db"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/payload"
	"github.com/sescandon/nevexp/internal/platform"
)

// Fallback notification shown when decode, policy, or display fails.
const (
	FallbackTag  = "fallback-notification"
	FallbackBody = "Error procesando notificación, pero tienes productos pendientes de revisar"
)

// Decoder parses raw push bytes into a payload.
type Decoder interface {
	Decode(raw []byte) models.PushNotificationPayload
}

// Resolver resolves a payload into presentation parameters.
type Resolver interface {
	Resolve(pl models.PushNotificationPayload) models.PresentationParameters
}

// Mirror duplicates a shown notification onto a secondary channel.
type Mirror interface {
	Mirror(ctx context.Context, params models.PresentationParameters) error
}

type Presenter struct {
	decoder  Decoder
	resolver Resolver
	notifier platform.Notifier
	mirror   Mirror
	store    *db.DB
	logger   *logging.Logger
	icon     string
	badge    string
}

func New(dec Decoder, res Resolver, notifier platform.Notifier, store *db.DB, logger *logging.Logger, cfg config.Config) *Presenter {
	return &Presenter{
		decoder:  dec,
		resolver: res,
		notifier: notifier,
		store:    store,
		logger:   logger,
		icon:     cfg.Notification.Icon,
		badge:    cfg.Notification.Badge,
	}
}

// SetMirror attaches an optional secondary channel for critical notifications.
func (p *Presenter) SetMirror(m Mirror) {
	p.mirror = m
}

// Present decodes, resolves, and shows the notification for one push message.
// It never returns an error: every failure path ends in the fallback
// notification instead.
func (p *Presenter) Present(ctx context.Context, raw []byte) {
	params, err := p.resolve(raw)
	if err != nil {
		p.logger.Errorf("Error processing push payload: %v", err)
		p.showFallback(ctx)
		return
	}

	if err := p.notifier.Show(ctx, params); err != nil {
		p.logger.Errorf("Show notification failed (tag=%s): %v", params.Tag, err)
		p.showFallback(ctx)
		return
	}
	p.logger.Infof("Notification shown: tag=%s urgency=%s", params.Tag, params.Data.UrgencyLevel)
	p.record(ctx, models.RecordShown, params)

	if p.mirror != nil && params.Data.UrgencyLevel == models.UrgencyCritical {
		if err := p.mirror.Mirror(ctx, params); err != nil {
			p.logger.Errorf("Mirror of critical notification failed: %v", err)
		}
	}
}

// resolve shields the event loop from a misbehaving decoder or policy. Both
// are total by contract, but the fallback guarantee must hold even if that
// contract is broken.
func (p *Presenter) resolve(raw []byte) (params models.PresentationParameters, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic resolving push payload: %v", r)
		}
	}()
	params = p.resolver.Resolve(p.decoder.Decode(raw))
	return params, nil
}

func (p *Presenter) showFallback(ctx context.Context) {
	params := models.PresentationParameters{
		Title: payload.DefaultTitle,
		Body:  FallbackBody,
		Icon:  p.icon,
		Badge: p.badge,
		Tag:   FallbackTag,
	}
	if err := p.notifier.Show(ctx, params); err != nil {
		p.logger.Errorf("Fallback notification failed: %v", err)
		return
	}
	p.logger.Warnf("Fallback notification shown")
	p.record(ctx, models.RecordFallback, params)
}

func (p *Presenter) record(ctx context.Context, kind string, params models.PresentationParameters) {
	rec := models.DeliveryRecord{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Kind:      kind,
		Tag:       params.Tag,
		ProductID: params.Data.ProductID,
		Title:     params.Title,
		Urgency:   params.Data.UrgencyLevel,
	}
	if err := p.store.RecordEvent(ctx, rec); err != nil {
		p.logger.Errorf("Record %s event failed: %v", kind, err)
	}
}
