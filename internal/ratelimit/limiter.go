package ratelimit

import (
	"context"
	"time"
)

// Tier is a route class with a fixed-window request budget. The three tiers
// mirror how routes are grouped: authentication and other sensitive
// operations get the strict budget, general mutations the moderate one,
// public reads the relaxed one.
type Tier struct {
	// Name keys the counter per route class so tiers do not share windows.
	Name   string
	Limit  int64
	Window time.Duration
}

var (
	Strict   = Tier{Name: "strict", Limit: 3, Window: time.Second}
	Moderate = Tier{Name: "moderate", Limit: 5, Window: time.Second}
	Relaxed  = Tier{Name: "relaxed", Limit: 20, Window: time.Second}
)

// Store counts requests in fixed windows.
type Store interface {
	// Incr atomically increments the counter for key and returns the new
	// count. A fresh counter expires window after its first increment.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
