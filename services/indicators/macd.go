package indicators

import (
	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// MACDResult bundles the MACD line, its signal line and the histogram.
type MACDResult struct {
	Line      decimal.Decimal
	Signal    decimal.Decimal
	Histogram decimal.Decimal
}

// MACD returns fast EMA minus slow EMA of closes, the signal EMA of the MACD
// line over signalPeriod, and their difference. The MACD line series starts
// at the slow EMA seed point; before the signal line has a full window it is
// the simple average of the available line values, so the histogram is 0 on
// the first defined line bar.
func MACD(bars []marketdata.PriceBar, endIndex, fastPeriod, slowPeriod, signalPeriod int) (MACDResult, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return MACDResult{}, err
	}
	closes := make([]decimal.Decimal, endIndex+1)
	for i := 0; i <= endIndex; i++ {
		closes[i] = bars[i].Close
	}

	lineAt := func(end int) decimal.Decimal {
		fast := emaSeries(closes[:end+1], fastPeriod)
		slow := emaSeries(closes[:end+1], slowPeriod)
		return fast.Sub(slow)
	}

	line := lineAt(endIndex)

	// Build the line series from the first index where the slow EMA is
	// seeded, then run the seeded signal EMA over it.
	firstLine := slowPeriod - 1
	if firstLine < 0 {
		firstLine = 0
	}
	if firstLine > endIndex {
		firstLine = endIndex
	}
	lineSeries := make([]decimal.Decimal, 0, endIndex-firstLine+1)
	for i := firstLine; i <= endIndex; i++ {
		lineSeries = append(lineSeries, lineAt(i))
	}
	signal := emaSeries(lineSeries, signalPeriod)

	return MACDResult{
		Line:      line,
		Signal:    signal,
		Histogram: line.Sub(signal),
	}, nil
}
