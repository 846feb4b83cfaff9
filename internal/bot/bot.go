// Package bot implements the Telegram command interface: /start,
// /status, /help, and the shared-secret gate for private chats.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	replyStartPrivate  = "👋 Привет! Введите пароль для доступа:"
	replyStartGroup    = "Бот работает в группе и пересылает бронирования."
	replyStatusOK      = "✅ Бот работает и следит за новыми бронированиями!"
	replyStatusLocked  = "🔒 Введите пароль для доступа."
	replyStatusGroup   = "✅ Бот работает в группе."
	replyHelp          = "ℹ️ Этот бот пересылает бронирования в группу.\n\nКоманды:\n/status – Проверить статус\n/help – Помощь"
	replyPasswordOK    = "✅ Доступ подтверждён! Теперь вы можете использовать команды."
	replyPasswordWrong = "❌ Неверный пароль. Попробуйте снова."
)

// sender is the slice of tgbotapi.BotAPI the handlers need; narrowed so
// tests can capture outgoing replies.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers commands in private and group chats. It shares nothing
// with the mail pipeline beyond the underlying Telegram transport.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender sender
	secret string
	access *AccessStore
	log    *zap.Logger
	menu   tgbotapi.ReplyKeyboardMarkup
}

// New creates the command interface around an authorized Telegram API
// client.
func New(api *tgbotapi.BotAPI, secret string, access *AccessStore, log *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		sender: api,
		secret: secret,
		access: access,
		log:    log,
		menu: tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("/status"),
				tgbotapi.NewKeyboardButton("/help"),
			),
		),
	}
}

// Run long-polls Telegram updates until ctx is cancelled. It runs on its
// own goroutine; nothing here blocks or aborts the mail pipeline.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("command interface listening")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start":
			b.handleStart(msg)
		case "status":
			b.handleStatus(msg)
		case "help":
			b.reply(msg.Chat.ID, replyHelp, false)
		default:
			// Unknown commands in private chats land in the password
			// check, like any other free text; groups get no reply.
			if msg.Chat.IsPrivate() {
				b.checkPassword(msg)
			}
		}
	case msg.Chat.IsPrivate():
		b.checkPassword(msg)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	if msg.Chat.IsPrivate() {
		b.reply(msg.Chat.ID, replyStartPrivate, false)
		return
	}
	b.reply(msg.Chat.ID, replyStartGroup, false)
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	if !msg.Chat.IsPrivate() {
		b.reply(msg.Chat.ID, replyStatusGroup, false)
		return
	}
	if msg.From != nil && b.access.IsApproved(msg.From.ID) {
		b.reply(msg.Chat.ID, replyStatusOK, true)
		return
	}
	b.reply(msg.Chat.ID, replyStatusLocked, false)
}

// checkPassword compares free text in a private chat against the shared
// secret. A match approves the sender for the rest of the process
// lifetime and reveals the command menu.
func (b *Bot) checkPassword(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.Text == b.secret {
		b.access.Approve(msg.From.ID)
		b.log.Info("user approved", zap.Int64("user_id", msg.From.ID))
		b.reply(msg.Chat.ID, replyPasswordOK, true)
		return
	}
	b.reply(msg.Chat.ID, replyPasswordWrong, false)
}

func (b *Bot) reply(chatID int64, text string, withMenu bool) {
	out := tgbotapi.NewMessage(chatID, text)
	if withMenu {
		out.ReplyMarkup = b.menu
	}
	if _, err := b.sender.Send(out); err != nil {
		b.log.Error("sending reply failed",
			zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
