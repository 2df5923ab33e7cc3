package indicators

import (
	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// OBV returns on-balance volume accumulated from the start of the series:
// volume added on up closes, subtracted on down closes, unchanged on flat
// closes.
func OBV(bars []marketdata.PriceBar, endIndex int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	obv := decimal.Zero
	for i := 1; i <= endIndex; i++ {
		switch bars[i].Close.Cmp(bars[i-1].Close) {
		case 1:
			obv = obv.Add(decimal.NewFromInt(bars[i].Volume))
		case -1:
			obv = obv.Sub(decimal.NewFromInt(bars[i].Volume))
		}
	}
	return obv, nil
}
