package handler

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/service"
	"github.com/gigahub/adsrewards/internal/telegram"
)

// Handler binds the reward ledger services to the chat transport. It is the
// only layer that talks to Telegram.
type Handler struct {
	bot         *bot.Bot
	cfg         *config.Config
	accounts    *service.AccountService
	watch       *service.WatchService
	referrals   *service.ReferralService
	withdrawals *service.WithdrawalService
	ads         *service.AdsService
	states      *stateManager
	botUsername string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	Accounts    *service.AccountService
	Watch       *service.WatchService
	Referrals   *service.ReferralService
	Withdrawals *service.WithdrawalService
	Ads         *service.AdsService
	BotUsername string
}

// New creates a Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		cfg:         deps.Cfg,
		accounts:    deps.Accounts,
		watch:       deps.Watch,
		referrals:   deps.Referrals,
		withdrawals: deps.Withdrawals,
		ads:         deps.Ads,
		states:      newStateManager(),
		botUsername: deps.BotUsername,
	}
}

// replyServiceError maps the domain error taxonomy to user-facing text. User
// input errors get guidance; everything unexpected gets a generic retry.
func (h *Handler) replyServiceError(ctx context.Context, chatID int64, err error) {
	var banErr *domain.BannedError

	switch {
	case errors.Is(err, domain.ErrBlocked):
		telegram.Send(ctx, h.bot, chatID, "🚫 Your account has been blocked.")
	case errors.As(err, &banErr):
		telegram.Send(ctx, h.bot, chatID, "⛔️ You are temporarily banned until "+banErr.Until.Format("15:04 Jan 2")+".")
	case errors.Is(err, domain.ErrRateLimited):
		telegram.Send(ctx, h.bot, chatID, "⏳ Not so fast. Try again in a moment.")
	case errors.Is(err, domain.ErrNoActiveAds):
		telegram.Send(ctx, h.bot, chatID, "ℹ️ No active ads right now. Check back later.")
	case errors.Is(err, domain.ErrNotAuthorized):
		telegram.Send(ctx, h.bot, chatID, "❌ You are not an admin.")
	case errors.Is(err, domain.ErrAccountNotFound):
		telegram.Send(ctx, h.bot, chatID, "❌ User not found.")
	default:
		telegram.Send(ctx, h.bot, chatID, "❌ Something went wrong. Please try again.")
	}
}
