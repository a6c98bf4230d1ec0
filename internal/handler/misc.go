package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/telegram"
)

func rulesText() string {
	return fmt.Sprintf(
		"📖 How it works\n\n"+
			"• Watch an ad for %d seconds and claim its reward\n"+
			"• Daily bonus: %d points every 24 hours\n"+
			"• Mining: %d points per tap\n"+
			"• Referral: %d points when an invited friend watches their first ad\n"+
			"• Each ad pays at most once per day\n\n"+
			"⚠️ Claiming before the timer runs out is a violation. "+
			"%d violations earn a temporary ban.\n\n"+
			"💸 Withdraw from %d points. Requests are reviewed by an admin; "+
			"the points are reserved while the request is pending and returned if it is rejected.",
		config.WatchRequiredSeconds,
		config.DailyBonus, config.MiningReward, config.ReferralBonus,
		config.ViolationThreshold, config.MinWithdraw,
	)
}

func (h *Handler) handleRules(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	telegram.Send(ctx, b, update.Message.Chat.ID, rulesText())
}

func (h *Handler) handleRulesCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	kb := telegram.InlineKeyboard(telegram.ButtonRow(telegram.InlineButton("⬅️ Back", "menu")))
	telegram.SendWithKeyboard(ctx, b, cq.From.ID, rulesText(), kb)
}

// handleFeedback arms the free-text prompt; the message is relayed to admins.
func (h *Handler) handleFeedback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	h.states.set(cq.From.ID, convState{Tag: awaitingFeedback})
	telegram.Send(ctx, b, cq.From.ID, "✉️ Send your message and we'll pass it on to the team.")
}
