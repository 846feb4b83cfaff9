package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram sends notifications to a single group chat using Markdown
// formatting, matching the emphasis markers in the composed text.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

// NewTelegram creates a sink bound to one group chat.
func NewTelegram(api *tgbotapi.BotAPI, chatID int64, log *zap.Logger) *Telegram {
	return &Telegram{
		api:    api,
		chatID: chatID,
		log:    log,
	}
}

// Send delivers one notification message. A failed delivery is returned
// as an error and never retried here: the message stays unseen in the
// mailbox and the next poll pass tries again.
func (t *Telegram) Send(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message to chat %d: %w", t.chatID, err)
	}

	t.log.Debug("notification delivered", zap.Int64("chat_id", t.chatID))
	return nil
}
