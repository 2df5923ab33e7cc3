package options

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"strategy-lab/services/engine"
	"strategy-lab/services/indicators"
	"strategy-lab/services/marketdata"
)

// LegSpec describes one leg an options strategy wants opened.
type LegSpec struct {
	Type       OptionType
	Direction  engine.Direction
	Strike     decimal.Decimal
	Expiration time.Time
	Contracts  int64
}

// OptionsStrategy drives the multi-leg engine. OpenLegs is consulted only
// while no legs are open and may propose 1 to 4 legs; ShouldExit is the
// early-exit rule checked on every bar while legs are open.
type OptionsStrategy interface {
	Name() string
	WarmupPeriod() int
	OpenLegs(bars []marketdata.PriceBar, index int) []LegSpec
	ShouldExit(bars []marketdata.PriceBar, index int) bool
}

// CoveredCall writes one out-of-the-money call per expiry cycle: strike a
// fixed percentage above the close, expiring expiryDays ahead. The early
// exit fires when the close drops below the baseline SMA by more than the
// exit threshold.
type CoveredCall struct {
	otmPct         decimal.Decimal
	expiryDays     int
	baselinePeriod int
	exitThreshold  decimal.Decimal
}

func NewCoveredCall(otmPct decimal.Decimal, expiryDays, baselinePeriod int, exitThreshold decimal.Decimal) (*CoveredCall, error) {
	if otmPct.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("options: OTM percentage must be positive, got %s", otmPct)
	}
	if expiryDays <= 0 || baselinePeriod <= 0 {
		return nil, fmt.Errorf("options: expiry days and baseline period must be positive, got %d/%d", expiryDays, baselinePeriod)
	}
	if exitThreshold.IsNegative() {
		return nil, fmt.Errorf("options: exit threshold must not be negative, got %s", exitThreshold)
	}
	return &CoveredCall{
		otmPct:         otmPct,
		expiryDays:     expiryDays,
		baselinePeriod: baselinePeriod,
		exitThreshold:  exitThreshold,
	}, nil
}

func (s *CoveredCall) Name() string {
	return fmt.Sprintf("Covered Call (%s%% OTM, %dd)", s.otmPct.Mul(decimal.NewFromInt(100)), s.expiryDays)
}

func (s *CoveredCall) WarmupPeriod() int { return s.baselinePeriod }

func (s *CoveredCall) OpenLegs(bars []marketdata.PriceBar, index int) []LegSpec {
	spot := bars[index].Close
	strike := spot.Mul(decimal.NewFromInt(1).Add(s.otmPct)).Round(2)
	return []LegSpec{{
		Type:       Call,
		Direction:  engine.Short,
		Strike:     strike,
		Expiration: bars[index].Date.AddDate(0, 0, s.expiryDays),
		Contracts:  1,
	}}
}

func (s *CoveredCall) ShouldExit(bars []marketdata.PriceBar, index int) bool {
	return closedBelowBaseline(bars, index, s.baselinePeriod, s.exitThreshold)
}

// IronCondor opens four legs around the spot: a short put spread below and a
// short call spread above, wings wingPct further out. Early exit mirrors
// CoveredCall's baseline rule.
type IronCondor struct {
	bodyPct        decimal.Decimal
	wingPct        decimal.Decimal
	expiryDays     int
	baselinePeriod int
	exitThreshold  decimal.Decimal
}

func NewIronCondor(bodyPct, wingPct decimal.Decimal, expiryDays, baselinePeriod int, exitThreshold decimal.Decimal) (*IronCondor, error) {
	if bodyPct.LessThanOrEqual(decimal.Zero) || wingPct.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("options: body and wing percentages must be positive, got %s/%s", bodyPct, wingPct)
	}
	if expiryDays <= 0 || baselinePeriod <= 0 {
		return nil, fmt.Errorf("options: expiry days and baseline period must be positive, got %d/%d", expiryDays, baselinePeriod)
	}
	if exitThreshold.IsNegative() {
		return nil, fmt.Errorf("options: exit threshold must not be negative, got %s", exitThreshold)
	}
	return &IronCondor{
		bodyPct:        bodyPct,
		wingPct:        wingPct,
		expiryDays:     expiryDays,
		baselinePeriod: baselinePeriod,
		exitThreshold:  exitThreshold,
	}, nil
}

func (s *IronCondor) Name() string {
	return fmt.Sprintf("Iron Condor (%s%%/%s%%, %dd)",
		s.bodyPct.Mul(decimal.NewFromInt(100)), s.wingPct.Mul(decimal.NewFromInt(100)), s.expiryDays)
}

func (s *IronCondor) WarmupPeriod() int { return s.baselinePeriod }

func (s *IronCondor) OpenLegs(bars []marketdata.PriceBar, index int) []LegSpec {
	spot := bars[index].Close
	one := decimal.NewFromInt(1)
	expiration := bars[index].Date.AddDate(0, 0, s.expiryDays)
	strike := func(offset decimal.Decimal) decimal.Decimal {
		return spot.Mul(one.Add(offset)).Round(2)
	}
	return []LegSpec{
		{Type: Put, Direction: engine.Short, Strike: strike(s.bodyPct.Neg()), Expiration: expiration, Contracts: 1},
		{Type: Put, Direction: engine.Long, Strike: strike(s.bodyPct.Add(s.wingPct).Neg()), Expiration: expiration, Contracts: 1},
		{Type: Call, Direction: engine.Short, Strike: strike(s.bodyPct), Expiration: expiration, Contracts: 1},
		{Type: Call, Direction: engine.Long, Strike: strike(s.bodyPct.Add(s.wingPct)), Expiration: expiration, Contracts: 1},
	}
}

func (s *IronCondor) ShouldExit(bars []marketdata.PriceBar, index int) bool {
	return closedBelowBaseline(bars, index, s.baselinePeriod, s.exitThreshold)
}

// closedBelowBaseline reports whether the close crossed back under the
// baseline SMA by more than threshold percent between the prior bar and this
// one.
func closedBelowBaseline(bars []marketdata.PriceBar, index, period int, threshold decimal.Decimal) bool {
	if index < 1 {
		return false
	}
	sma, err := indicators.SMA(bars, index, period)
	if err != nil || sma.IsZero() {
		return false
	}
	floor := sma.Mul(decimal.NewFromInt(1).Sub(threshold))
	prevSMA, err := indicators.SMA(bars, index-1, period)
	if err != nil || prevSMA.IsZero() {
		return false
	}
	prevFloor := prevSMA.Mul(decimal.NewFromInt(1).Sub(threshold))
	return bars[index].Close.LessThan(floor) && bars[index-1].Close.GreaterThanOrEqual(prevFloor)
}
