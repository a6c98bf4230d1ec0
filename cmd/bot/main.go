package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	adsrewards "github.com/gigahub/adsrewards"
	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/handler"
	"github.com/gigahub/adsrewards/internal/health"
	"github.com/gigahub/adsrewards/internal/middleware"
	"github.com/gigahub/adsrewards/internal/repository"
	"github.com/gigahub/adsrewards/internal/repository/postgres"
	"github.com/gigahub/adsrewards/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrationsFS, err := fs.Sub(adsrewards.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := postgres.New(pool)

	accountService := service.NewAccountService(store, cfg)
	referralService := service.NewReferralService(store, cfg)
	adsService := service.NewAdsService(store, cfg)
	watchService := service.NewWatchService(store, adsService, referralService, cfg)
	withdrawalService := service.NewWithdrawalService(store, cfg)

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.AccountLoader(accountService, referralService),
		),
	}
	if cfg.DropPendingUpdates {
		opts = append(opts, bot.WithInitialOffset(-1))
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	h := handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Accounts:    accountService,
		Watch:       watchService,
		Referrals:   referralService,
		Withdrawals: withdrawalService,
		Ads:         adsService,
		BotUsername: me.Username,
	})
	h.Register()

	// The unlock timers report back through the handler once it exists.
	watchService.SetNotifier(h)

	// Default text handler picks up the mid-flow replies.
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if update.Message.Chat.Type == "private" {
			h.HandleTextPrivate(ctx, b, update)
		}
	})

	srv := health.New(cfg.Port)
	srv.Start()

	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	watchService.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("health server shutdown", "error", err)
	}
	slog.Info("bot stopped gracefully")
}
