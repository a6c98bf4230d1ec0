package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/telegram"
)

func (h *Handler) handleDaily(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	userID := cq.From.ID

	res, err := h.accounts.ClaimDaily(ctx, userID)
	if err != nil {
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
		h.replyServiceError(ctx, userID, err)
		return
	}
	if res.TooSoon {
		telegram.AnswerCallback(ctx, b, cq.ID,
			"⏳ Already claimed. Next bonus in "+formatDuration(res.Remaining), true)
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	telegram.SendWithKeyboard(ctx, b, userID,
		fmt.Sprintf("🎁 Daily bonus! +%d points. Your balance: %d", res.Credited, res.Balance),
		h.mainMenu(userID))
}

func (h *Handler) handleMine(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	userID := cq.From.ID

	balance, err := h.accounts.Mine(ctx, userID)
	if err != nil {
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
		h.replyServiceError(ctx, userID, err)
		return
	}
	// The tap loop stays on the same message; an alert per tap would be
	// unbearable, a toast is enough.
	telegram.AnswerCallback(ctx, b, cq.ID,
		fmt.Sprintf("⛏ +%d! Balance: %d", config.MiningReward, balance), false)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	hrs := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if hrs > 0 {
		return fmt.Sprintf("%dh %dm", hrs, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
