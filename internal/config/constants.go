package config

import "time"

const (
	// Reward amounts (points)
	DailyBonus    = 10
	MiningReward  = 5
	ReferralBonus = 100

	// Withdrawal floor (points)
	MinWithdraw = 200

	// Ad watch timing
	WatchRequiredSeconds = 30
	WatchStartCooldown   = 10 * time.Second

	// Abuse escalation
	ViolationThreshold = 3
	BanDuration        = 12 * time.Hour

	// Cooldowns
	DailyCooldown = 24 * time.Hour
	MineCooldown  = 2 * time.Second

	// Ad page scrape timeout when an admin adds an ad
	AdFetchTimeout = 10 * time.Second

	// Rough conversion shown on withdrawal requests
	PointsToUSDRate = 0.001

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Admin withdraw list page size
	WithdrawListLimit = 30
)
