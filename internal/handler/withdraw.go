package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/service"
	"github.com/gigahub/adsrewards/internal/telegram"
)

// handleWithdrawStart shows the payout method choice. Gate checks happen in
// the service when the request is actually made.
func (h *Handler) handleWithdrawStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	userID := cq.From.ID

	view, err := h.accounts.BalanceView(ctx, userID)
	if err != nil {
		h.replyServiceError(ctx, userID, err)
		return
	}
	if view.PendingWithdrawal != nil {
		telegram.Send(ctx, b, userID, "⏳ You already have a withdrawal awaiting review.")
		return
	}
	if view.Points < config.MinWithdraw {
		telegram.Send(ctx, b, userID,
			fmt.Sprintf("ℹ️ Minimum withdrawal is %d points, you have %d. Keep earning!",
				config.MinWithdraw, view.Points))
		return
	}
	if len(view.PayoutMethods) == 0 {
		telegram.SendWithKeyboard(ctx, b, userID,
			"ℹ️ Add payout details first.",
			telegram.InlineKeyboard(telegram.ButtonRow(telegram.InlineButton("💰 Wallet", "wallet"))))
		return
	}

	var row []models.InlineKeyboardButton
	for _, m := range view.PayoutMethods {
		row = append(row, telegram.InlineButton(payoutMethodLabel(m), "wd_m_"+m))
	}
	telegram.SendWithKeyboard(ctx, b, userID,
		fmt.Sprintf("💸 Withdraw from %d points. Choose a payout method:", view.Points),
		telegram.InlineKeyboard(row, telegram.ButtonRow(telegram.InlineButton("⬅️ Back", "menu"))))
}

func (h *Handler) handleWithdrawMethod(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	method := strings.TrimPrefix(cq.Data, "wd_m_")
	if !domain.IsKnownPayoutMethod(method) {
		return
	}

	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(
			telegram.InlineButton("💯 Withdraw all", "wd_all_"+method),
			telegram.InlineButton("🔢 Custom amount", "wd_custom_"+method),
		),
	)
	telegram.SendWithKeyboard(ctx, b, cq.From.ID, "How much would you like to withdraw?", kb)
}

func (h *Handler) handleWithdrawAll(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	method := strings.TrimPrefix(cq.Data, "wd_all_")
	userID := cq.From.ID

	account, err := h.accounts.Get(ctx, userID)
	if err != nil {
		h.replyServiceError(ctx, userID, err)
		return
	}
	h.submitWithdrawal(ctx, userID, account.Points, method)
}

func (h *Handler) handleWithdrawCustom(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	method := strings.TrimPrefix(cq.Data, "wd_custom_")

	h.states.set(cq.From.ID, convState{Tag: awaitingWithdrawAmount, Method: method})
	telegram.Send(ctx, b, cq.From.ID,
		fmt.Sprintf("✍️ Send the amount to withdraw (minimum %d points).", config.MinWithdraw))
}

// submitWithdrawal runs the escrow request and notifies both sides.
func (h *Handler) submitWithdrawal(ctx context.Context, userID, amount int64, method string) {
	w, err := h.withdrawals.Request(ctx, userID, amount, method)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWithdrawalPending):
			telegram.Send(ctx, h.bot, userID, "⏳ You already have a withdrawal awaiting review.")
		case errors.Is(err, domain.ErrBelowMinimum):
			telegram.Send(ctx, h.bot, userID,
				fmt.Sprintf("❌ Minimum withdrawal is %d points.", config.MinWithdraw))
		case errors.Is(err, domain.ErrInsufficientBalance):
			telegram.Send(ctx, h.bot, userID, "❌ Not enough points for that amount.")
		case errors.Is(err, domain.ErrPayoutTargetMissing):
			telegram.Send(ctx, h.bot, userID, "❌ No payout details on file for that method.")
		case errors.Is(err, domain.ErrInvalidAmount):
			telegram.Send(ctx, h.bot, userID, "❌ That is not a valid amount.")
		default:
			h.replyServiceError(ctx, userID, err)
		}
		return
	}

	telegram.Send(ctx, h.bot, userID,
		fmt.Sprintf("✅ Withdrawal request for %d points via %s submitted. "+
			"The points are reserved until an admin reviews it.",
			w.Amount, payoutMethodLabel(w.Method)))

	adminText := fmt.Sprintf(
		"💸 New withdrawal request\n\n"+
			"User: %d\n"+
			"Amount: %d points (~$%s)\n"+
			"Method: %s\n"+
			"Details: %s",
		w.UserID, w.Amount, service.EstimatedUSD(w.Amount).StringFixed(2),
		payoutMethodLabel(w.Method), w.Details,
	)
	kb := telegram.InlineKeyboard(telegram.ButtonRow(
		telegram.InlineButton("✅ Approve", "wd_approve_"+strconv.FormatInt(w.UserID, 10)),
		telegram.InlineButton("❌ Reject", "wd_reject_"+strconv.FormatInt(w.UserID, 10)),
	))
	telegram.NotifyAdmins(ctx, h.bot, h.cfg.AdminIDs, adminText, kb)
}

func (h *Handler) handleWithdrawApprove(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.resolveWithdrawal(ctx, b, update, true)
}

func (h *Handler) handleWithdrawReject(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.resolveWithdrawal(ctx, b, update, false)
}

func (h *Handler) resolveWithdrawal(ctx context.Context, b *bot.Bot, update *models.Update, approve bool) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	adminID := cq.From.ID

	prefix := "wd_reject_"
	if approve {
		prefix = "wd_approve_"
	}
	targetID, err := strconv.ParseInt(strings.TrimPrefix(cq.Data, prefix), 10, 64)
	if err != nil {
		telegram.AnswerCallback(ctx, b, cq.ID, "Bad request id", true)
		return
	}

	var w *domain.Withdrawal
	if approve {
		w, err = h.withdrawals.Approve(ctx, adminID, targetID)
	} else {
		w, err = h.withdrawals.Reject(ctx, adminID, targetID)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAuthorized):
			telegram.AnswerCallback(ctx, b, cq.ID, "You are not an admin.", true)
		case errors.Is(err, domain.ErrNoPendingRequest):
			// Another admin got there first.
			telegram.AnswerCallback(ctx, b, cq.ID, "Already resolved.", true)
		default:
			telegram.AnswerCallback(ctx, b, cq.ID, "Failed, try again.", true)
		}
		return
	}

	if approve {
		telegram.AnswerCallback(ctx, b, cq.ID, "Approved ✅", false)
		telegram.Send(ctx, b, w.UserID,
			fmt.Sprintf("✅ Your withdrawal of %d points was approved! The payout is on its way.", w.Amount))
	} else {
		telegram.AnswerCallback(ctx, b, cq.ID, "Rejected ❌", false)
		telegram.Send(ctx, b, w.UserID,
			fmt.Sprintf("❌ Your withdrawal of %d points was rejected. The points are back on your balance.", w.Amount))
	}
}
