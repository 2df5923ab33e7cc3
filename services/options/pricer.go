// Package options prices option contracts with the closed-form
// Black-Scholes formulas and runs multi-leg option strategies through a
// bar-by-bar engine mirroring the equity engine.
//
// Transcendentals (log, exp, sqrt, the cumulative-normal polynomial) run in
// float64; amounts re-enter decimal arithmetic where they hit cash and
// trade P/L.
package options

import (
	"math"
)

// OptionType distinguishes calls from puts.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	if t == Put {
		return "PUT"
	}
	return "CALL"
}

// PricingInput carries the Black-Scholes parameters. TimeToExpiry is in
// years, RiskFreeRate and Volatility are annualized.
type PricingInput struct {
	Spot         float64
	Strike       float64
	TimeToExpiry float64
	RiskFreeRate float64
	Volatility   float64
}

// Greeks are the price sensitivities, per year for theta and per unit of
// volatility for vega.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// IntrinsicValue is the exercise value: max(spot-strike, 0) for calls,
// max(strike-spot, 0) for puts.
func IntrinsicValue(typ OptionType, spot, strike float64) float64 {
	if typ == Call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}

// Price returns the theoretical premium. At or past expiry, or with
// non-positive volatility, the price collapses to intrinsic value regardless
// of the other inputs.
func Price(typ OptionType, in PricingInput) float64 {
	if in.TimeToExpiry <= 0 || in.Volatility <= 0 || in.Spot <= 0 || in.Strike <= 0 {
		return IntrinsicValue(typ, in.Spot, in.Strike)
	}
	d1, d2 := dValues(in)
	discount := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)
	if typ == Call {
		return in.Spot*normCDF(d1) - in.Strike*discount*normCDF(d2)
	}
	return in.Strike*discount*normCDF(-d2) - in.Spot*normCDF(-d1)
}

// ComputeGreeks returns the sensitivities. In the degenerate cases covered
// by Price, delta becomes a step function and the rest collapse to zero.
func ComputeGreeks(typ OptionType, in PricingInput) Greeks {
	if in.TimeToExpiry <= 0 || in.Volatility <= 0 || in.Spot <= 0 || in.Strike <= 0 {
		return Greeks{Delta: stepDelta(typ, in.Spot, in.Strike)}
	}
	d1, d2 := dValues(in)
	sqrtT := math.Sqrt(in.TimeToExpiry)
	discount := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)
	pdf := normPDF(d1)

	g := Greeks{
		Gamma: pdf / (in.Spot * in.Volatility * sqrtT),
		Vega:  in.Spot * pdf * sqrtT,
	}
	if typ == Call {
		g.Delta = normCDF(d1)
		g.Theta = -in.Spot*pdf*in.Volatility/(2*sqrtT) - in.RiskFreeRate*in.Strike*discount*normCDF(d2)
		g.Rho = in.Strike * in.TimeToExpiry * discount * normCDF(d2)
	} else {
		g.Delta = normCDF(d1) - 1
		g.Theta = -in.Spot*pdf*in.Volatility/(2*sqrtT) + in.RiskFreeRate*in.Strike*discount*normCDF(-d2)
		g.Rho = -in.Strike * in.TimeToExpiry * discount * normCDF(-d2)
	}
	return g
}

func stepDelta(typ OptionType, spot, strike float64) float64 {
	if typ == Call {
		if spot > strike {
			return 1
		}
		return 0
	}
	if spot < strike {
		return -1
	}
	return 0
}

func dValues(in PricingInput) (d1, d2 float64) {
	sqrtT := math.Sqrt(in.TimeToExpiry)
	d1 = (math.Log(in.Spot/in.Strike) + (in.RiskFreeRate+in.Volatility*in.Volatility/2)*in.TimeToExpiry) /
		(in.Volatility * sqrtT)
	d2 = d1 - in.Volatility*sqrtT
	return d1, d2
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

// normCDF approximates the standard normal CDF with the Abramowitz-Stegun
// 26.2.17 polynomial; absolute error below 7.5e-8.
func normCDF(x float64) float64 {
	if x < 0 {
		return 1 - normCDF(-x)
	}
	k := 1 / (1 + 0.2316419*x)
	poly := k * (0.319381530 + k*(-0.356563782+k*(1.781477937+k*(-1.821255978+k*1.330274429))))
	return 1 - normPDF(x)*poly
}
