package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
	"github.com/sescandon/nevexp/internal/utils"
)

// Telegram mirrors critical expiry notifications to an ops chat. It is an
// optional secondary channel: the platform notification surface stays the
// source of truth for the user.
type Telegram struct {
	token   string
	chatID  int64
	logger  *logging.Logger
	limiter *rate.Limiter
}

// NewTelegram returns nil when no bot token or chat is configured; callers
// treat a nil mirror as disabled.
func NewTelegram(cfg config.Config, logger *logging.Logger) *Telegram {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		return nil
	}
	rps := cfg.Telegram.RatePerSecond
	return &Telegram{
		token:   cfg.Telegram.BotToken,
		chatID:  cfg.Telegram.ChatID,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(float64(rps)), rps),
	}
}

// Mirror sends the notification text to the configured chat.
func (t *Telegram) Mirror(ctx context.Context, params models.PresentationParameters) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	text := fmt.Sprintf("*%s*\n%s", params.Title, params.Body)
	if params.Data.ProductName != "" {
		text += fmt.Sprintf("\n\n*Producto:* %s", params.Data.ProductName)
	}
	if params.Data.ExpiryDate != "" {
		text += fmt.Sprintf("\n*Vence:* %s", params.Data.ExpiryDate)
	}
	if params.Data.DaysUntilExpiry != nil {
		text += fmt.Sprintf("\n*Días restantes:* %d", *params.Data.DaysUntilExpiry)
	}

	return utils.Retry(t.logger, 3, time.Second, func() error {
		b, err := bot.New(t.token)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot: %w", err)
		}
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: "Markdown",
		}); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", t.chatID, err)
		}
		return nil
	})
}
