package models

import "time"

// Market statuses.
const (
	MarketOpen     = "open"
	MarketClosed   = "closed"
	MarketResolved = "resolved"
)

// Outcome is one side of a market that can be bet on.
type Outcome struct {
	ID    ID      `json:"id"`
	Label string  `json:"label"`
	Odds  float64 `json:"odds"`
}

// Market is a prediction question users bet tokens on.
type Market struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Status   string    `json:"status"`
	ClosesAt time.Time `json:"closes_at"`
	Outcomes []Outcome `json:"outcomes"`
}

// IsOpen reports whether the market still accepts bets at now.
func (m Market) IsOpen(now time.Time) bool {
	if m.Status != MarketOpen {
		return false
	}
	return m.ClosesAt.IsZero() || now.Before(m.ClosesAt)
}

// BetRequest places Amount tokens on an outcome.
type BetRequest struct {
	MarketID  ID      `json:"market_id"`
	OutcomeID ID      `json:"outcome_id"`
	Amount    float64 `json:"amount"`
}

// Bet is the backend's record of a placed bet.
type Bet struct {
	ID              ID        `json:"id"`
	MarketID        ID        `json:"market_id"`
	OutcomeID       ID        `json:"outcome_id"`
	Amount          float64   `json:"amount"`
	PotentialPayout float64   `json:"potential_payout"`
	PlacedAt        time.Time `json:"placed_at"`
}
