// Package strategy
package strategy

import (
	"time"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/indicator"
)

// Direction is the predicted price direction for the next bet window.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Signal is one evaluation of the scoring table. It is created fresh each
// poll cycle and never mutated after construction.
type Signal struct {
	ID          string          `json:"id"`
	Time        time.Time       `json:"time"`
	Price       float64         `json:"price"`
	Direction   Direction       `json:"direction"`
	Score       float64         `json:"score"`
	Confidence  float64         `json:"confidence"`
	Reasons     []string        `json:"reasons"`
	RSI         float64         `json:"rsi"`
	MACD        float64         `json:"macd"`
	VWAP        float64         `json:"vwap"`
	Momentum    float64         `json:"momentum"`
	Trend       indicator.Trend `json:"trend"`
	BuyPressure float64         `json:"buy_pressure"`
}
