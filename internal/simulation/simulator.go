// Package simulation owns the paper-trading state: balance, the single open
// bet and the settled history. All mutation goes through Open and Tick; the
// rest of the program only ever sees read-only snapshots.
package simulation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/strategy"
)

// Settlement policies.
const (
	SettlementTimed     = "timed"     // hold exactly BetDuration, never settle early
	SettlementImmediate = "immediate" // settle on the next observed price
)

// Confidence at which bet sizing saturates at MaxBetPercent.
const saturationConfidence = 80

// Config holds the externally injected simulation constants.
type Config struct {
	StartingBalance     float64
	ConfidenceThreshold float64
	MinBetPercent       float64
	MaxBetPercent       float64
	WinMultiplier       float64 // payout fraction of stake on a win, <= 1
	BetDuration         time.Duration
	Settlement          string
}

// Bet is the single open position. Exactly zero or one bet is open at a time.
type Bet struct {
	ID         string             `json:"id"`
	Direction  strategy.Direction `json:"direction"`
	EntryPrice float64            `json:"entry_price"`
	Amount     float64            `json:"amount"`
	Confidence float64            `json:"confidence"`
	OpenTime   time.Time          `json:"open_time"`
	CloseTime  time.Time          `json:"close_time"`
}

// SettledBet is the immutable record appended to history at settlement.
type SettledBet struct {
	ID          string             `json:"id"`
	Direction   strategy.Direction `json:"direction"`
	EntryPrice  float64            `json:"entry_price"`
	ExitPrice   float64            `json:"exit_price"`
	PriceChange float64            `json:"price_change"`
	Amount      float64            `json:"amount"`
	PnL         float64            `json:"pnl"`
	Confidence  float64            `json:"confidence"`
	Won         bool               `json:"won"`
	OpenTime    time.Time          `json:"open_time"`
	SettleTime  time.Time          `json:"settle_time"`
}

// TickState classifies the outcome of a Tick call.
type TickState int

const (
	TickNoOp TickState = iota
	TickActive
	TickSettled
)

// TickResult reports what a Tick did: nothing (idle), an open bet still
// running (with remaining hold time), or a settlement.
type TickResult struct {
	State     TickState
	Remaining time.Duration
	Result    *SettledBet
}

// Snapshot is a read-only view of the simulation state.
type Snapshot struct {
	Balance         float64 `json:"balance"`
	StartingBalance float64 `json:"starting_balance"`
	TotalBets       int     `json:"total_bets"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"`
	NetPnL          float64 `json:"net_pnl"`
	ActiveBet       *Bet    `json:"active_bet,omitempty"`
}

// Simulator is the bet lifecycle state machine: Idle <-> Open -> settle ->
// Idle. Operations are serialized by a mutex so the API server can read
// snapshots while the poll loop mutates.
type Simulator struct {
	mu      sync.Mutex
	cfg     Config
	balance float64
	total   int
	wins    int
	losses  int
	active  *Bet
	history []SettledBet
	now     func() time.Time
}

// New creates a simulator initialized to the starting balance with no open
// bet and empty history. State lives for the process lifetime only.
func New(cfg Config) *Simulator {
	if cfg.Settlement == "" {
		cfg.Settlement = SettlementTimed
	}
	return &Simulator{
		cfg:     cfg,
		balance: cfg.StartingBalance,
		now:     time.Now,
	}
}

// BetSize returns the stake for a given confidence: 0 below the threshold,
// then a linear ramp from MinBetPercent to MaxBetPercent of the current
// balance as confidence rises from the threshold to the saturation point.
func (s *Simulator) BetSize(confidence float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.betSizeLocked(confidence)
}

func (s *Simulator) betSizeLocked(confidence float64) float64 {
	if confidence < s.cfg.ConfidenceThreshold {
		return 0
	}

	normalized := 1.0
	if span := saturationConfidence - s.cfg.ConfidenceThreshold; span > 0 {
		normalized = (confidence - s.cfg.ConfidenceThreshold) / span
		if normalized < 0 {
			normalized = 0
		} else if normalized > 1 {
			normalized = 1
		}
	}

	percent := s.cfg.MinBetPercent + normalized*(s.cfg.MaxBetPercent-s.cfg.MinBetPercent)
	return s.balance * percent / 100
}

// Open opens a bet when the simulator is idle and confidence clears the
// threshold; otherwise it is a no-op returning nil.
func (s *Simulator) Open(direction strategy.Direction, confidence, entryPrice float64) *Bet {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil
	}
	amount := s.betSizeLocked(confidence)
	if amount <= 0 {
		return nil
	}

	now := s.now().UTC()
	bet := &Bet{
		ID:         uuid.NewString(),
		Direction:  direction,
		EntryPrice: entryPrice,
		Amount:     amount,
		Confidence: confidence,
		OpenTime:   now,
		CloseTime:  now.Add(s.cfg.BetDuration),
	}
	s.active = bet
	s.total++

	out := *bet
	return &out
}

// Tick advances the state machine against the current price. Idle is a no-op.
// An open bet before its deadline reports Active with the remaining hold time
// and mutates nothing. At or past the deadline (or always, under the
// immediate policy) the bet settles: balance moves by pnl, counters update,
// the record is appended to history and the simulator returns to Idle.
func (s *Simulator) Tick(currentPrice float64) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return TickResult{State: TickNoOp}
	}

	now := s.now().UTC()
	if s.cfg.Settlement != SettlementImmediate && now.Before(s.active.CloseTime) {
		return TickResult{State: TickActive, Remaining: s.active.CloseTime.Sub(now)}
	}

	bet := s.active
	won := currentPrice > bet.EntryPrice
	if bet.Direction == strategy.DirectionDown {
		won = currentPrice < bet.EntryPrice
	}

	pnl := -bet.Amount
	if won {
		pnl = bet.Amount * s.cfg.WinMultiplier
		s.wins++
	} else {
		s.losses++
	}
	s.balance += pnl

	settled := SettledBet{
		ID:          bet.ID,
		Direction:   bet.Direction,
		EntryPrice:  bet.EntryPrice,
		ExitPrice:   currentPrice,
		PriceChange: currentPrice - bet.EntryPrice,
		Amount:      bet.Amount,
		PnL:         pnl,
		Confidence:  bet.Confidence,
		Won:         won,
		OpenTime:    bet.OpenTime,
		SettleTime:  now,
	}
	s.history = append(s.history, settled)
	s.active = nil

	out := settled
	return TickResult{State: TickSettled, Result: &out}
}

// Snapshot returns the current state, derived metrics included.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Balance:         s.balance,
		StartingBalance: s.cfg.StartingBalance,
		TotalBets:       s.total,
		Wins:            s.wins,
		Losses:          s.losses,
		NetPnL:          s.balance - s.cfg.StartingBalance,
	}
	if s.total > 0 {
		snap.WinRate = float64(s.wins) / float64(s.total) * 100
	}
	if s.active != nil {
		bet := *s.active
		snap.ActiveBet = &bet
	}
	return snap
}

// History returns a copy of the settled bets, oldest first.
func (s *Simulator) History() []SettledBet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SettledBet, len(s.history))
	copy(out, s.history)
	return out
}
