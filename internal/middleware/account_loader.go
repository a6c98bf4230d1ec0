package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/service"
)

type ctxKey string

const accountKey ctxKey = "account"

// GetAccount extracts the loaded account from context.
func GetAccount(ctx context.Context) *domain.Account {
	a, ok := ctx.Value(accountKey).(*domain.Account)
	if !ok {
		return nil
	}
	return a
}

// AccountLoader creates the account lazily on first contact, links a referral
// payload carried by /start, lazily clears expired bans, and short-circuits
// blocked users before any handler runs.
func AccountLoader(accounts *service.AccountService, referrals *service.ReferralService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			var startPayload string

			if update.Message != nil {
				from = update.Message.From
				if text := update.Message.Text; strings.HasPrefix(text, "/start ") {
					startPayload = strings.TrimSpace(strings.TrimPrefix(text, "/start "))
				}
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil || from.IsBot {
				next(ctx, b, update)
				return
			}

			account, created, err := accounts.FindOrCreate(ctx, from.ID, from.FirstName, from.Username)
			if err != nil {
				slog.Error("load account", "error", err, "user_id", from.ID)
				return
			}
			if created && startPayload != "" {
				referrals.Link(ctx, from.ID, startPayload)
			}

			// Lazy ban expiry: an expired ban is reset on any action.
			if account.BannedUntil != nil && !account.BanActive(time.Now()) {
				if cleared, err := accounts.ClearBanIfExpired(ctx, from.ID); err == nil {
					account = cleared
				}
			}

			// The permanent block gates everything, before any other check.
			if account.Blocked {
				answerBlocked(ctx, b, update, from.ID)
				return
			}

			ctx = context.WithValue(ctx, accountKey, account)
			next(ctx, b, update)
		}
	}
}

func answerBlocked(ctx context.Context, b *bot.Bot, update *models.Update, userID int64) {
	const text = "🚫 Your account has been blocked."
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
			Text:            text,
			ShowAlert:       true,
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: userID, Text: text})
}
