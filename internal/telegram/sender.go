package telegram

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
)

// Send delivers a plain message, logging instead of propagating delivery
// failures: a recipient who blocked the bot must never abort the flow that
// produced the message.
func Send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	SendWithKeyboard(ctx, b, chatID, text, nil)
}

// SendWithKeyboard is Send with an optional inline keyboard.
func SendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, kb models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		slog.Warn("send message failed", "error", err, "chat_id", chatID)
	}
}

// SendLong splits a message exceeding the Telegram limit into parts.
func SendLong(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	for len(text) > config.MaxTelegramMessageLen {
		part := text[:config.MaxTelegramMessageLen]
		// Prefer to break on a line boundary.
		if i := strings.LastIndexByte(part, '\n'); i > 0 {
			part = part[:i]
		}
		Send(ctx, b, chatID, part)
		text = text[len(part):]
	}
	if text != "" {
		Send(ctx, b, chatID, text)
	}
}

// NotifyAdmins fans a message out to every configured admin. Per-recipient
// failures are swallowed so one unreachable admin never hides the request
// from the others.
func NotifyAdmins(ctx context.Context, b *bot.Bot, adminIDs []int64, text string, kb models.ReplyMarkup) {
	for _, id := range adminIDs {
		SendWithKeyboard(ctx, b, id, text, kb)
	}
}

// AnswerCallback acknowledges a callback query, optionally with an alert.
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		slog.Warn("answer callback failed", "error", err)
	}
}
