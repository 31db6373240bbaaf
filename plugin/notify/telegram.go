package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// TelegramSink forwards alerts to a Telegram chat. Useful when the plan
// owner coaches through Telegram instead of the app's own notifications.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink creates the sink, validating the token against the API.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

// Send delivers the alert as a plain text message.
func (s *TelegramSink) Send(_ context.Context, alert *Alert) error {
	text := fmt.Sprintf("%s\n\n%s", alert.Title, alert.Body)
	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		return errors.Wrapf(err, "failed to send telegram alert %s", alert.UID)
	}
	return nil
}
