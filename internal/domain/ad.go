package domain

import "time"

// Ad is an opaque reward source: a URL to show and the points it pays, capped
// at one reward per user per calendar day.
type Ad struct {
	ID        int64
	Name      string
	URL       string
	Reward    int64
	Active    bool
	CreatedAt time.Time
}
