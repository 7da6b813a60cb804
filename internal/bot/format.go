package bot

import (
	"fmt"
	"strings"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/simulation"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/strategy"
)

// formatSignalMessage renders one poll cycle as a Telegram HTML payload:
// price, direction with strength marker, the scorer's reasons, the settled
// and freshly opened bets if any, and the running simulation totals.
func formatSignalMessage(symbol string, sig strategy.Signal, settled *simulation.SettledBet, newBet *simulation.Bet, snap simulation.Snapshot) string {
	strength := "😐"
	if sig.Confidence >= 70 {
		strength = "🔥"
	} else if sig.Confidence >= 55 {
		strength = "💪"
	}

	arrow := "📉"
	marker := "🔴"
	if sig.Direction == strategy.DirectionUp {
		arrow = "📈"
		marker = "🟢"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>━━━ %s SIGNAL ━━━</b>\n", symbol)
	fmt.Fprintf(&b, "🕐 %s\n\n", sig.Time.Format("15:04 UTC"))
	fmt.Fprintf(&b, "<b>💰 %s: $%.2f</b>\n\n", symbol, sig.Price)
	fmt.Fprintf(&b, "<b>%s %s %s</b>\n", marker, sig.Direction, arrow)
	fmt.Fprintf(&b, "📊 %.0f%% %s\n\n", sig.Confidence, strength)

	b.WriteString("<b>Indicators:</b>\n")
	for _, r := range sig.Reasons {
		b.WriteString(r)
		b.WriteByte('\n')
	}

	if settled != nil {
		result := "❌ LOSS"
		if settled.Won {
			result = "✅ WIN"
		}
		fmt.Fprintf(&b, "\n<b>Last bet:</b> %s (%s)\n", result, signedMoney(settled.PnL))
	}

	if newBet != nil {
		fmt.Fprintf(&b, "\n<b>🎯 Bet:</b> %s $%.0f\n", newBet.Direction, newBet.Amount)
	}

	fmt.Fprintf(&b, "\n<b>💼</b> $%.0f (%s) | WR: %.0f%%",
		snap.Balance, signedMoney(snap.NetPnL), snap.WinRate)
	return b.String()
}

// formatSummary renders the final performance summary printed at shutdown.
func formatSummary(snap simulation.Snapshot) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 40) + "\n")
	b.WriteString("PERFORMANCE SUMMARY\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Bets: %d | Wins: %d | Losses: %d | WR: %.1f%%\n",
		snap.TotalBets, snap.Wins, snap.Losses, snap.WinRate)
	fmt.Fprintf(&b, "Balance: $%.2f (%s)\n", snap.Balance, signedMoney(snap.NetPnL))
	b.WriteString(strings.Repeat("=", 40))
	return b.String()
}

func signedMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.0f", -v)
	}
	return fmt.Sprintf("+$%.0f", v)
}
