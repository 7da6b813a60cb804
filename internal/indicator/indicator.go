// Package indicator holds pure, stateless indicator functions over close-price
// series or candle windows. Every function tolerates short input by returning
// its documented neutral value instead of an error.
package indicator

import "math"

// EMA calculates an exponential moving average over the whole series, seeded
// with the first data point. The result has the same length as the input.
func EMA(data []float64, period int) []float64 {
	if len(data) == 0 || period <= 0 {
		return nil
	}
	mult := 2.0 / float64(period+1)
	result := make([]float64, len(data))
	result[0] = data[0]
	for i := 1; i < len(data); i++ {
		result[i] = data[i]*mult + result[i-1]*(1-mult)
	}
	return result
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
