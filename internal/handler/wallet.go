package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/service"
	"github.com/gigahub/adsrewards/internal/telegram"
)

func payoutMethodLabel(method string) string {
	switch method {
	case domain.PayoutMethodCrypto:
		return "Crypto wallet"
	case domain.PayoutMethodPayPal:
		return "PayPal"
	default:
		return method
	}
}

func (h *Handler) handleWallet(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendWallet(ctx, b, update.Message.From.ID)
}

func (h *Handler) handleWalletCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	h.sendWallet(ctx, b, cq.From.ID)
}

func (h *Handler) sendWallet(ctx context.Context, b *bot.Bot, userID int64) {
	view, err := h.accounts.BalanceView(ctx, userID)
	if err != nil {
		h.replyServiceError(ctx, userID, err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 Balance: %d points (~$%s)\n", view.Points, service.EstimatedUSD(view.Points).StringFixed(2))
	fmt.Fprintf(&sb, "👥 Friends invited: %d\n", view.ReferralCount)
	if len(view.PayoutMethods) == 0 {
		sb.WriteString("\nNo payout details on file yet. Add one below to enable withdrawals.")
	} else {
		sb.WriteString("\nPayout methods on file: ")
		for i, m := range view.PayoutMethods {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(payoutMethodLabel(m))
		}
	}
	if w := view.PendingWithdrawal; w != nil {
		fmt.Fprintf(&sb, "\n\n⏳ Pending withdrawal: %d points via %s", w.Amount, payoutMethodLabel(w.Method))
	}

	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(
			telegram.InlineButton("🪙 Set crypto wallet", "wallet_set_"+domain.PayoutMethodCrypto),
			telegram.InlineButton("💳 Set PayPal", "wallet_set_"+domain.PayoutMethodPayPal),
		),
		telegram.ButtonRow(telegram.InlineButton("⬅️ Back", "menu")),
	)
	telegram.SendWithKeyboard(ctx, b, userID, sb.String(), kb)
}

// handleWalletSet arms the text prompt for payout details of one method.
func (h *Handler) handleWalletSet(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	method := strings.TrimPrefix(cq.Data, "wallet_set_")
	if !domain.IsKnownPayoutMethod(method) {
		telegram.AnswerCallback(ctx, b, cq.ID, "Unknown payout method", true)
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)

	h.states.set(cq.From.ID, convState{Tag: awaitingPayoutDetails, Method: method})
	telegram.Send(ctx, b, cq.From.ID,
		fmt.Sprintf("✍️ Send your %s details as a single message.", payoutMethodLabel(method)))
}
