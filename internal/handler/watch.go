package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/telegram"
)

// handleWatchStart opens a timed watch session on a random active ad.
func (h *Handler) handleWatchStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	userID := cq.From.ID

	ad, err := h.watch.Start(ctx, userID)
	if err != nil {
		h.replyServiceError(ctx, userID, err)
		return
	}

	text := fmt.Sprintf(
		"📺 %s\n\n"+
			"Open the link and watch for at least %d seconds. "+
			"The claim button unlocks when the time is up; claiming early counts as a violation.",
		ad.Name, config.WatchRequiredSeconds,
	)
	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.URLButton("▶️ Open ad", ad.URL)),
		telegram.ButtonRow(telegram.InlineButton(fmt.Sprintf("✅ Claim %d points", ad.Reward), "claim_watch")),
	)
	telegram.SendWithKeyboard(ctx, b, userID, text, kb)
}

// handleWatchClaim settles the open session; the service decides between
// credit, violation and ban.
func (h *Handler) handleWatchClaim(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	userID := cq.From.ID

	res, err := h.watch.Claim(ctx, userID)
	if err != nil {
		h.replyServiceError(ctx, userID, err)
		return
	}
	h.sendClaimResult(ctx, userID, res)
}

func (h *Handler) sendClaimResult(ctx context.Context, userID int64, res *domain.ClaimResult) {
	switch res.Status {
	case domain.ClaimCredited:
		telegram.SendWithKeyboard(ctx, h.bot, userID,
			fmt.Sprintf("🎉 +%d points! Your balance: %d", res.Amount, res.Balance),
			h.mainMenu(userID))
		if res.Referral != nil {
			telegram.Send(ctx, h.bot, userID, "🤝 Your referrer just earned a bonus thanks to you!")
			telegram.Send(ctx, h.bot, res.Referral.ReferrerID,
				fmt.Sprintf("👥 Referral bonus! +%d points, balance: %d",
					res.Referral.Bonus, res.Referral.ReferrerBalance))
		}
	case domain.ClaimViolation:
		telegram.Send(ctx, h.bot, userID,
			fmt.Sprintf("⚠️ You claimed too early. The session was cancelled. Violations: %d", res.ViolationCount))
	case domain.ClaimBanned:
		telegram.Send(ctx, h.bot, userID,
			"⛔️ Too many early claims. You are banned until "+res.BannedUntil.Format("15:04 Jan 2")+".")
	case domain.ClaimAlreadyClaimed:
		telegram.Send(ctx, h.bot, userID, "ℹ️ You already earned from this ad today. Try another one tomorrow.")
	case domain.ClaimNoSession:
		telegram.Send(ctx, h.bot, userID, "ℹ️ No watch in progress. Press «Watch ads» first.")
	}
}

// WatchUnlocked implements service.UnlockNotifier for the button-gated mode.
func (h *Handler) WatchUnlocked(userID int64, ad *domain.Ad) {
	ctx := context.Background()
	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.InlineButton(fmt.Sprintf("✅ Claim %d points", ad.Reward), "claim_watch")),
	)
	telegram.SendWithKeyboard(ctx, h.bot, userID, "⏰ Time's up! You can claim your reward now.", kb)
}

// WatchAutoClaimed implements service.UnlockNotifier for the auto-claim mode.
func (h *Handler) WatchAutoClaimed(userID int64, res *domain.ClaimResult) {
	h.sendClaimResult(context.Background(), userID, res)
}
