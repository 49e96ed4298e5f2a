package scanner

import "sort"

type Kind string

const (
	KindSameCurrency  Kind = "same_currency"
	KindCrossCurrency Kind = "cross_currency"
	KindFixedRate     Kind = "fixed_rate"
)

// Leg is one buy or sell step of a trade chain, carrying everything a
// consumer needs to render it without recomputation.
type Leg struct {
	Action       string  `json:"action"` // buy or sell, from the trader's perspective
	Item         string  `json:"item"`
	Store        string  `json:"store"`
	Owner        string  `json:"owner"`
	Currency     string  `json:"currency"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"` // executable quantity at this leg
	Stock        int     `json:"stock"`    // stock offered (buy leg) or demanded (sell leg)
	StoreBalance float64 `json:"storeBalance"`
}

// TradeOpportunity is one executable trade discovered by a scan. Records are
// created fresh per scan invocation, never mutated afterwards, and owned by
// the returned slice.
type TradeOpportunity struct {
	Kind          Kind     `json:"kind"`
	Direction     string   `json:"direction,omitempty"` // fixed-rate scans only
	Legs          []Leg    `json:"legs"`
	Currency      string   `json:"currency"` // currency the profit is expressed in
	ProfitPerUnit float64  `json:"profitPerUnit"`
	TotalProfit   float64  `json:"totalProfit"`
	AltEarned     float64  `json:"altEarned,omitempty"`      // cycle scans: alt currency obtained at leg 2
	AltNeeded     float64  `json:"altNeeded,omitempty"`      // cycle scans: alt currency spent at leg 3
	AltSurplusRef float64  `json:"altSurplusRef,omitempty"`  // leftover alt expressed in the reference currency, when a rate is known
	Warnings      []string `json:"warnings,omitempty"`
}

func sortByProfit(opps []TradeOpportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].TotalProfit > opps[j].TotalProfit
	})
}
