package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PointsCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adsrewards_points_credited_total",
		Help: "Points credited to user balances, by source.",
	}, []string{"source"})

	Violations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adsrewards_claim_violations_total",
		Help: "Premature claim attempts.",
	})

	Bans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adsrewards_bans_total",
		Help: "Temporary bans issued by the abuse escalation policy.",
	})

	Withdrawals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adsrewards_withdrawals_total",
		Help: "Withdrawal lifecycle transitions, by status.",
	}, []string{"status"})
)

// Credit sources.
const (
	SourceAd       = "ad"
	SourceDaily    = "daily"
	SourceMining   = "mining"
	SourceReferral = "referral"
	SourceAdmin    = "admin"
)
