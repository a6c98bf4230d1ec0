package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/middleware"
	"github.com/gigahub/adsrewards/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	account := middleware.GetAccount(ctx)
	if account == nil {
		return
	}
	h.states.clear(account.TelegramID)

	text := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"Earn points by watching ads, claiming the daily bonus and inviting friends, "+
			"then cash them out once you reach %d points.\n\n"+
			"Pick an option below to get started.",
		account.FirstName, config.MinWithdraw,
	)
	telegram.SendWithKeyboard(ctx, b, update.Message.Chat.ID, text, h.mainMenu(account.TelegramID))
}

// handleMenu re-sends the main menu, used by the "back" buttons.
func (h *Handler) handleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	h.states.clear(cq.From.ID)
	telegram.SendWithKeyboard(ctx, b, cq.From.ID, "🏠 Main menu", h.mainMenu(cq.From.ID))
}

func (h *Handler) mainMenu(userID int64) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		telegram.ButtonRow(
			telegram.InlineButton("📺 Watch ads", "watch_ads"),
			telegram.InlineButton("🎁 Daily bonus", "daily_bonus"),
		),
		telegram.ButtonRow(
			telegram.InlineButton("⛏ Mining", "mining"),
			telegram.InlineButton("💰 Wallet", "wallet"),
		),
		telegram.ButtonRow(
			telegram.InlineButton("👥 Invite friends", "referral"),
			telegram.InlineButton("💸 Withdraw", "withdraw_start"),
		),
		telegram.ButtonRow(
			telegram.InlineButton("📖 Rules", "rules"),
			telegram.InlineButton("✉️ Feedback", "feedback"),
		),
	}
	if h.cfg.IsAdmin(userID) {
		rows = append(rows, telegram.ButtonRow(telegram.InlineButton("🛠 Admin panel", "admin_panel")))
	}
	return telegram.InlineKeyboard(rows...)
}
