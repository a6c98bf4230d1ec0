package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypePrefix, h.handleWallet)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleRules)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin", bot.MatchTypePrefix, h.handleAdminPanel)

	// Main menu callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu", bot.MatchTypeExact, h.handleMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "watch_ads", bot.MatchTypeExact, h.handleWatchStart)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "claim_watch", bot.MatchTypeExact, h.handleWatchClaim)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "daily_bonus", bot.MatchTypeExact, h.handleDaily)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "mining", bot.MatchTypeExact, h.handleMine)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wallet", bot.MatchTypeExact, h.handleWalletCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "referral", bot.MatchTypeExact, h.handleReferral)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "rules", bot.MatchTypeExact, h.handleRulesCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "feedback", bot.MatchTypeExact, h.handleFeedback)

	// Wallet callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wallet_set_", bot.MatchTypePrefix, h.handleWalletSet)

	// Withdrawal callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "withdraw_start", bot.MatchTypeExact, h.handleWithdrawStart)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_m_", bot.MatchTypePrefix, h.handleWithdrawMethod)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_all_", bot.MatchTypePrefix, h.handleWithdrawAll)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_custom_", bot.MatchTypePrefix, h.handleWithdrawCustom)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_approve_", bot.MatchTypePrefix, h.handleWithdrawApprove)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wd_reject_", bot.MatchTypePrefix, h.handleWithdrawReject)

	// Admin callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_panel", bot.MatchTypeExact, h.handleAdminPanelCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_stats", bot.MatchTypeExact, h.handleAdminStats)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_broadcast", bot.MatchTypeExact, h.handleAdminBroadcast)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_users", bot.MatchTypeExact, h.handleAdminUsers)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_withdrawals", bot.MatchTypeExact, h.handleAdminWithdrawals)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "acct_", bot.MatchTypePrefix, h.handleAdminAccountAction)

	// Ad inventory callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "ads_list", bot.MatchTypeExact, h.handleAdsList)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "ads_add", bot.MatchTypeExact, h.handleAdsAdd)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "ads_remove", bot.MatchTypeExact, h.handleAdsRemove)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "ads_toggle_", bot.MatchTypePrefix, h.handleAdsToggle)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "close", bot.MatchTypeExact, h.handleClose)
}

// handleClose removes the message carrying the pressed button.
func (h *Handler) handleClose(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})
	if cq.Message.Message != nil {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    cq.Message.Message.Chat.ID,
			MessageID: cq.Message.Message.ID,
		})
	}
}
