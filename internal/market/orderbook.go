package market

// Level is a single depth level: a resting price and its quantity.
type Level struct {
	Price    float64
	Quantity float64
}

// OrderBook is a depth snapshot. It is derived once per poll and not retained.
type OrderBook struct {
	Bids []Level
	Asks []Level
}

// BuyPressure returns the bid share of total resting volume as a percentage
// in [0,100]. An empty or zero-volume book reads as 50 (balanced).
func (b OrderBook) BuyPressure() float64 {
	var bidVol, askVol float64
	for _, l := range b.Bids {
		bidVol += l.Quantity
	}
	for _, l := range b.Asks {
		askVol += l.Quantity
	}

	total := bidVol + askVol
	if total == 0 {
		return 50
	}
	return bidVol / total * 100
}
