package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/telegram"
)

func (h *Handler) handleAdsList(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	adminID := cq.From.ID

	ads, err := h.ads.List(ctx, adminID)
	if err != nil {
		h.replyServiceError(ctx, adminID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📺 Ad inventory\n\n")
	if len(ads) == 0 {
		sb.WriteString("Empty. Add the first ad below.")
	}
	var rows [][]models.InlineKeyboardButton
	for _, ad := range ads {
		state := "🟢"
		if !ad.Active {
			state = "🔴"
		}
		fmt.Fprintf(&sb, "%s #%d %s — %d pts\n%s\n\n", state, ad.ID, ad.Name, ad.Reward, ad.URL)
		rows = append(rows, telegram.ButtonRow(telegram.InlineButton(
			fmt.Sprintf("%s Toggle #%d", state, ad.ID),
			"ads_toggle_"+strconv.FormatInt(ad.ID, 10),
		)))
	}
	rows = append(rows,
		telegram.ButtonRow(
			telegram.InlineButton("➕ Add", "ads_add"),
			telegram.InlineButton("🗑 Remove", "ads_remove"),
		),
		telegram.ButtonRow(telegram.InlineButton("⬅️ Back", "admin_panel")),
	)
	telegram.SendWithKeyboard(ctx, b, adminID, sb.String(), telegram.InlineKeyboard(rows...))
}

func (h *Handler) handleAdsAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	if !h.cfg.IsAdmin(cq.From.ID) {
		return
	}
	h.states.set(cq.From.ID, convState{Tag: awaitingAdAdd})
	telegram.Send(ctx, b, cq.From.ID, "✍️ Send the new ad as: <url>|<reward>\nExample: https://example.com|15")
}

func (h *Handler) handleAdsRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "", false)
	if !h.cfg.IsAdmin(cq.From.ID) {
		return
	}
	h.states.set(cq.From.ID, convState{Tag: awaitingAdRemove})
	telegram.Send(ctx, b, cq.From.ID, "✍️ Send the id of the ad to remove.")
}

func (h *Handler) handleAdsToggle(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	adminID := cq.From.ID

	id, err := strconv.ParseInt(strings.TrimPrefix(cq.Data, "ads_toggle_"), 10, 64)
	if err != nil {
		telegram.AnswerCallback(ctx, b, cq.ID, "", false)
		return
	}
	ads, err := h.ads.List(ctx, adminID)
	if err != nil {
		telegram.AnswerCallback(ctx, b, cq.ID, "Failed", true)
		h.replyServiceError(ctx, adminID, err)
		return
	}
	for _, ad := range ads {
		if ad.ID != id {
			continue
		}
		if err := h.ads.SetActive(ctx, adminID, id, !ad.Active); err != nil {
			telegram.AnswerCallback(ctx, b, cq.ID, "Failed", true)
			h.replyServiceError(ctx, adminID, err)
			return
		}
		telegram.AnswerCallback(ctx, b, cq.ID, "Toggled", false)
		h.handleAdsList(ctx, b, update)
		return
	}
	telegram.AnswerCallback(ctx, b, cq.ID, "Ad not found", true)
}
