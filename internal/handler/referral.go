package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/telegram"
)

// handleReferral shows the personal invite link and the payout conditions.
func (h *Handler) handleReferral(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	userID := cq.From.ID

	account, err := h.accounts.Get(ctx, userID)
	if err != nil {
		h.replyServiceError(ctx, userID, err)
		return
	}

	link := fmt.Sprintf("https://t.me/%s?start=%d", h.botUsername, userID)
	text := fmt.Sprintf(
		"👥 Invite friends, earn points!\n\n"+
			"You get %d points for every friend who joins with your link and watches their first ad.\n\n"+
			"Your link:\n%s\n\n"+
			"Friends invited so far: %d",
		config.ReferralBonus, link, account.ReferralCount,
	)
	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.URLButton("📤 Share",
			fmt.Sprintf("https://t.me/share/url?url=%s", link))),
		telegram.ButtonRow(telegram.InlineButton("⬅️ Back", "menu")),
	)
	telegram.SendWithKeyboard(ctx, b, userID, text, kb)
}
