package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/telegram"
)

// HandleTextPrivate is the default handler for private text messages. It only
// acts when the user is mid-flow; stray text outside a flow gets the menu.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != "private" {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	state, ok := h.states.get(userID)
	if !ok {
		telegram.SendWithKeyboard(ctx, b, userID, "🏠 Main menu", h.mainMenu(userID))
		return
	}
	h.states.clear(userID)

	switch state.Tag {
	case awaitingPayoutDetails:
		h.savePayoutDetails(ctx, userID, state.Method, text)
	case awaitingWithdrawAmount:
		amount, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			telegram.Send(ctx, b, userID, "❌ Send a whole number of points.")
			return
		}
		h.submitWithdrawal(ctx, userID, amount, state.Method)
	case awaitingFeedback:
		h.relayFeedback(ctx, msg.From, text)
	case awaitingBroadcast:
		h.runBroadcast(ctx, userID, text)
	case awaitingUserFind:
		targetID, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			telegram.Send(ctx, b, userID, "❌ Send a numeric Telegram id.")
			return
		}
		h.sendUserCard(ctx, userID, targetID)
	case awaitingSetPoints:
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			telegram.Send(ctx, b, userID, "❌ Send a whole number.")
			return
		}
		balance, err := h.accounts.SetPoints(ctx, userID, state.TargetID, value)
		if err != nil {
			h.replyServiceError(ctx, userID, err)
			return
		}
		telegram.Send(ctx, b, userID, fmt.Sprintf("✅ Balance set to %d.", balance))
		h.sendUserCard(ctx, userID, state.TargetID)
	case awaitingAdjustPoints:
		delta, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			telegram.Send(ctx, b, userID, "❌ Send a whole number, e.g. 50 or -50.")
			return
		}
		balance, err := h.accounts.AdjustPoints(ctx, userID, state.TargetID, delta)
		if err != nil {
			h.replyServiceError(ctx, userID, err)
			return
		}
		telegram.Send(ctx, b, userID, fmt.Sprintf("✅ New balance: %d.", balance))
		h.sendUserCard(ctx, userID, state.TargetID)
	case awaitingAdAdd:
		h.addAdFromText(ctx, userID, text)
	case awaitingAdRemove:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			telegram.Send(ctx, b, userID, "❌ Send a numeric ad id.")
			return
		}
		if err := h.ads.Remove(ctx, userID, id); err != nil {
			if errors.Is(err, domain.ErrAdNotFound) {
				telegram.Send(ctx, b, userID, "❌ No ad with that id.")
				return
			}
			h.replyServiceError(ctx, userID, err)
			return
		}
		telegram.Send(ctx, b, userID, fmt.Sprintf("🗑 Ad #%d removed.", id))
	}
}

func (h *Handler) savePayoutDetails(ctx context.Context, userID int64, method, details string) {
	if details == "" {
		telegram.Send(ctx, h.bot, userID, "❌ Details cannot be empty.")
		return
	}
	if err := h.accounts.SetPayoutDetails(ctx, userID, method, details); err != nil {
		h.replyServiceError(ctx, userID, err)
		return
	}
	telegram.Send(ctx, h.bot, userID,
		fmt.Sprintf("✅ %s details saved.", payoutMethodLabel(method)))
	h.sendWallet(ctx, h.bot, userID)
}

func (h *Handler) relayFeedback(ctx context.Context, from *models.User, text string) {
	if text == "" {
		telegram.Send(ctx, h.bot, from.ID, "❌ The message cannot be empty.")
		return
	}
	telegram.NotifyAdmins(ctx, h.bot, h.cfg.AdminIDs,
		fmt.Sprintf("✉️ Feedback from %s (@%s, %d):\n\n%s", from.FirstName, from.Username, from.ID, text),
		nil)
	telegram.Send(ctx, h.bot, from.ID, "✅ Thanks! Your message was passed on.")
}

// runBroadcast fans the text out to every account. Per-recipient failures are
// already swallowed by the sender; users who blocked the bot just miss out.
func (h *Handler) runBroadcast(ctx context.Context, adminID int64, text string) {
	ids, err := h.accounts.AllIDs(ctx, adminID)
	if err != nil {
		h.replyServiceError(ctx, adminID, err)
		return
	}
	for _, id := range ids {
		telegram.Send(ctx, h.bot, id, text)
	}
	telegram.Send(ctx, h.bot, adminID, fmt.Sprintf("📣 Broadcast sent to %d users.", len(ids)))
}

// addAdFromText parses the "<url>|<reward>" admin input.
func (h *Handler) addAdFromText(ctx context.Context, adminID int64, text string) {
	rawURL, rewardStr, ok := strings.Cut(text, "|")
	if !ok {
		telegram.Send(ctx, h.bot, adminID, "❌ Format: <url>|<reward>")
		return
	}
	reward, err := strconv.ParseInt(strings.TrimSpace(rewardStr), 10, 64)
	if err != nil || reward <= 0 {
		telegram.Send(ctx, h.bot, adminID, "❌ The reward must be a positive number.")
		return
	}

	ad, err := h.ads.Add(ctx, adminID, strings.TrimSpace(rawURL), reward)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			h.replyServiceError(ctx, adminID, err)
			return
		}
		telegram.Send(ctx, h.bot, adminID, "❌ Could not add the ad: "+err.Error())
		return
	}
	telegram.Send(ctx, h.bot, adminID,
		fmt.Sprintf("✅ Ad #%d «%s» added, pays %d points.", ad.ID, ad.Name, ad.Reward))
}
