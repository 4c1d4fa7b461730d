package services

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cryptoupi/internal/models"
)

// AccountNotifier is told about freshly created accounts.
type AccountNotifier interface {
	NotifyAccountCreated(ctx context.Context, rec *models.UserRecord) error
}

// TelegramNotifier posts account events into the admin chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(botToken string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	return newTelegramNotifier(botToken, tgbotapi.APIEndpoint, chatID, logger)
}

func newTelegramNotifier(botToken, endpoint string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	logger.Info("telegram notifier ready", zap.String("bot", bot.Self.UserName), zap.Int64("chat_id", chatID))
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *TelegramNotifier) NotifyAccountCreated(_ context.Context, rec *models.UserRecord) error {
	if t == nil || t.chatID == 0 {
		return nil
	}
	name := "-"
	if rec.DisplayName != nil && *rec.DisplayName != "" {
		name = *rec.DisplayName
	}
	text := fmt.Sprintf("<b>New account</b>\nwallet: <code>%s</code>\nname: %s\ncreated: %s",
		html.EscapeString(rec.WalletAddress),
		html.EscapeString(name),
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	t.logger.Debug("account notification sent", zap.String("wallet", rec.WalletAddress))
	return nil
}
