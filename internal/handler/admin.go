package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/service"
	"github.com/gigahub/adsrewards/internal/telegram"
)

// The menu is gated on the admin id here for UX only; every admin operation
// re-checks the caller identity in the service layer.
func (h *Handler) handleAdminPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := update.Message.From.ID
	if !h.cfg.IsAdmin(userID) {
		return
	}
	h.sendAdminPanel(ctx, b, userID)
}

func (h *Handler) handleAdminPanelCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	if !h.cfg.IsAdmin(cq.From.ID) {
		return
	}
	h.sendAdminPanel(ctx, b, cq.From.ID)
}

func (h *Handler) sendAdminPanel(ctx context.Context, b *bot.Bot, adminID int64) {
	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(
			telegram.InlineButton("📊 Stats", "admin_stats"),
			telegram.InlineButton("📣 Broadcast", "admin_broadcast"),
		),
		telegram.ButtonRow(
			telegram.InlineButton("👤 Find user", "admin_users"),
			telegram.InlineButton("💸 Withdrawals", "admin_withdrawals"),
		),
		telegram.ButtonRow(
			telegram.InlineButton("📺 Ads", "ads_list"),
			telegram.InlineButton("⬅️ Back", "menu"),
		),
	)
	telegram.SendWithKeyboard(ctx, b, adminID, "🛠 Admin panel", kb)
}

func (h *Handler) handleAdminStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	adminID := cq.From.ID

	stats, err := h.accounts.Stats(ctx, adminID)
	if err != nil {
		h.replyServiceError(ctx, adminID, err)
		return
	}
	text := fmt.Sprintf(
		"📊 Stats\n\n"+
			"Users: %d\n"+
			"Blocked: %d\n"+
			"Banned right now: %d\n"+
			"Points in circulation: %d (~$%s)",
		stats.TotalUsers, stats.Blocked, stats.Banned,
		stats.TotalPoints, service.EstimatedUSD(stats.TotalPoints).StringFixed(2),
	)
	telegram.Send(ctx, b, adminID, text)
}

func (h *Handler) handleAdminBroadcast(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	if !h.cfg.IsAdmin(cq.From.ID) {
		return
	}
	h.states.set(cq.From.ID, convState{Tag: awaitingBroadcast})
	telegram.Send(ctx, b, cq.From.ID, "📣 Send the broadcast text. It goes to every user.")
}

func (h *Handler) handleAdminUsers(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	if !h.cfg.IsAdmin(cq.From.ID) {
		return
	}
	h.states.set(cq.From.ID, convState{Tag: awaitingUserFind})
	telegram.Send(ctx, b, cq.From.ID, "👤 Send the Telegram id of the user to look up.")
}

// sendUserCard shows one account with the moderation actions.
func (h *Handler) sendUserCard(ctx context.Context, adminID, targetID int64) {
	account, err := h.accounts.Get(ctx, targetID)
	if err != nil {
		h.replyServiceError(ctx, adminID, err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 %s (@%s)\nID: %d\n", account.FirstName, account.Username, account.TelegramID)
	fmt.Fprintf(&sb, "Points: %d\n", account.Points)
	fmt.Fprintf(&sb, "Violations: %d\n", account.ViolationCount)
	fmt.Fprintf(&sb, "Friends invited: %d\n", account.ReferralCount)
	if account.Blocked {
		sb.WriteString("Status: 🚫 blocked\n")
	} else if account.BannedUntil != nil {
		fmt.Fprintf(&sb, "Status: ⛔️ banned until %s\n", account.BannedUntil.Format("15:04 Jan 2"))
	} else {
		sb.WriteString("Status: ✅ active\n")
	}
	if w := account.PendingWithdrawal; w != nil {
		fmt.Fprintf(&sb, "Pending withdrawal: %d via %s\n", w.Amount, payoutMethodLabel(w.Method))
	}

	id := strconv.FormatInt(targetID, 10)
	blockBtn := telegram.InlineButton("🚫 Block", "acct_"+id+"_block")
	if account.Blocked {
		blockBtn = telegram.InlineButton("♻️ Unblock", "acct_"+id+"_unblock")
	}
	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(
			blockBtn,
			telegram.InlineButton("💯 Set points", "acct_"+id+"_setpts"),
			telegram.InlineButton("➕➖ Adjust", "acct_"+id+"_adjpts"),
		),
		telegram.ButtonRow(telegram.InlineButton("⬅️ Back", "admin_panel")),
	)
	telegram.SendWithKeyboard(ctx, h.bot, adminID, sb.String(), kb)
}

// handleAdminAccountAction dispatches the per-user moderation buttons
// (acct_<id>_<action>).
func (h *Handler) handleAdminAccountAction(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	adminID := cq.From.ID

	rest := strings.TrimPrefix(cq.Data, "acct_")
	idStr, action, ok := strings.Cut(rest, "_")
	if !ok {
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
		return
	}
	targetID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
		return
	}

	switch action {
	case "block", "unblock":
		if err := h.accounts.SetBlocked(ctx, adminID, targetID, action == "block"); err != nil {
			telegram.AnswerCallback(ctx, b, cq.ID, "Failed", true)
			h.replyServiceError(ctx, adminID, err)
			return
		}
		telegram.AnswerCallback(ctx, b, cq.ID, "Done", false)
		h.sendUserCard(ctx, adminID, targetID)
	case "setpts":
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
		h.states.set(adminID, convState{Tag: awaitingSetPoints, TargetID: targetID})
		telegram.Send(ctx, b, adminID, "✍️ Send the new balance for this user.")
	case "adjpts":
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
		h.states.set(adminID, convState{Tag: awaitingAdjustPoints, TargetID: targetID})
		telegram.Send(ctx, b, adminID, "✍️ Send the delta, e.g. 50 or -50.")
	default:
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	}
}

func (h *Handler) handleAdminWithdrawals(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	adminID := cq.From.ID

	list, err := h.withdrawals.List(ctx, adminID, config.WithdrawListLimit)
	if err != nil {
		h.replyServiceError(ctx, adminID, err)
		return
	}
	if len(list) == 0 {
		telegram.Send(ctx, b, adminID, "No withdrawal requests yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("💸 Recent withdrawals\n\n")
	for _, w := range list {
		icon := "⏳"
		switch w.Status {
		case "approved":
			icon = "✅"
		case "rejected":
			icon = "❌"
		}
		fmt.Fprintf(&sb, "%s %d pts • user %d • %s • %s\n",
			icon, w.Amount, w.UserID, payoutMethodLabel(w.Method),
			w.CreatedAt.Format("Jan 2 15:04"))
	}
	telegram.SendLong(ctx, b, adminID, sb.String())
}
