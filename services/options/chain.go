package options

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionContract is one quoted contract in a chain snapshot: identifiers,
// quote data, open interest, greeks and a moneyness flag. The engine reads
// chains, it never mutates them.
type OptionContract struct {
	Type           OptionType      `json:"type"`
	Strike         decimal.Decimal `json:"strike"`
	Expiration     time.Time       `json:"expiration"`
	Bid            decimal.Decimal `json:"bid"`
	Ask            decimal.Decimal `json:"ask"`
	Last           decimal.Decimal `json:"last"`
	Volume         int64           `json:"volume"`
	OpenInterest   int64           `json:"open_interest"`
	ImpliedVol     float64         `json:"implied_vol"`
	Greeks         Greeks          `json:"greeks"`
	InTheMoney     bool            `json:"in_the_money"`
}

// MidPrice is the bid/ask midpoint, falling back to the last trade when
// either side of the book is empty.
func (c OptionContract) MidPrice() decimal.Decimal {
	if c.Bid.IsPositive() && c.Ask.IsPositive() {
		return c.Bid.Add(c.Ask).DivRound(decimal.NewFromInt(2), 4)
	}
	return c.Last
}

// OptionsChain is a read-only snapshot of the quoted contracts for one
// underlying at one point in time.
type OptionsChain struct {
	Underlying  string           `json:"underlying"`
	Spot        decimal.Decimal  `json:"spot"`
	AsOf        time.Time        `json:"as_of"`
	Expirations []time.Time      `json:"expirations"`
	Contracts   []OptionContract `json:"contracts"`
}

// Find returns the contract matching type, strike and expiration day, if
// quoted.
func (ch *OptionsChain) Find(typ OptionType, strike decimal.Decimal, expiration time.Time) (OptionContract, bool) {
	for _, c := range ch.Contracts {
		if c.Type == typ && c.Strike.Equal(strike) && sameDay(c.Expiration, expiration) {
			return c, true
		}
	}
	return OptionContract{}, false
}

// NearestOTM returns the out-of-the-money contract of the given type and
// expiration whose strike is closest to spot.
func (ch *OptionsChain) NearestOTM(typ OptionType, spot decimal.Decimal, expiration time.Time) (OptionContract, bool) {
	var best OptionContract
	found := false
	for _, c := range ch.Contracts {
		if c.Type != typ || !sameDay(c.Expiration, expiration) {
			continue
		}
		otm := (typ == Call && c.Strike.GreaterThan(spot)) || (typ == Put && c.Strike.LessThan(spot))
		if !otm {
			continue
		}
		if !found || c.Strike.Sub(spot).Abs().LessThan(best.Strike.Sub(spot).Abs()) {
			best = c
			found = true
		}
	}
	return best, found
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
