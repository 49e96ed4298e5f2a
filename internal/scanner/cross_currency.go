package scanner

import (
	"fmt"
	"math"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/rates"
)

const (
	// default hard cap on leg combinations examined per cycle scan
	defaultMaxCombos = 100000
	// minimum per-unit profit for a cycle candidate to survive
	cycleEpsilon = 0.01
	// candidates whose per-unit profit times the tightest stock bound cannot
	// reach this are pruned before quantity optimization
	cycleMinTotal = 1.0
)

// CycleResult is a cross-currency scan outcome. Truncated reports that the
// combination cap ended the search early; the trades found so far are still
// valid, the set is just possibly incomplete.
type CycleResult struct {
	Trades    []TradeOpportunity
	Combos    int
	Truncated bool
}

// CrossCurrency enumerates four-leg cycles anchored on the base currency:
// buy item A in base, sell it into an alt currency, buy a second item in that
// alt currency (optionally from the same store), sell that item back into
// base. The rate table is only used to express leftover alt currency in base
// terms on the record; profit itself is realized directly in base.
func CrossCurrency(stores []market.Store, tbl *rates.Table, opts Options) CycleResult {
	limit := opts.MaxCombos
	if limit <= 0 {
		limit = defaultMaxCombos
	}
	res := CycleResult{}
	for i := range stores {
		store1 := stores[i]
		if !store1.Valid() {
			continue
		}
		for _, offer1 := range store1.SellingOffers() {
			cycleTradesForItem(stores, store1, offer1, tbl, opts, &res)
			if res.Combos > limit {
				res.Truncated = true
				break
			}
		}
		if res.Truncated {
			break
		}
	}
	sortByProfit(res.Trades)
	return res
}

// legs 2..4 for one candidate first leg
func cycleTradesForItem(stores []market.Store, store1 market.Store, offer1 market.Offer, tbl *rates.Table, opts Options, res *CycleResult) {
	for j := range stores {
		store2 := stores[j]
		if !store2.Valid() {
			continue
		}
		if store2.Name == store1.Name || store2.Currency == store1.Currency {
			continue
		}
		for _, offer2 := range store2.BuyingOffers() {
			if offer2.ItemName != offer1.ItemName {
				continue
			}
			res.Combos++
			appendLeg34Trades(stores, store1, offer1, store2, offer2, tbl, opts, res)
		}
	}
}

func appendLeg34Trades(stores []market.Store, store1 market.Store, offer1 market.Offer, store2 market.Store, offer2 market.Offer, tbl *rates.Table, opts Options, res *CycleResult) {
	for k := range stores {
		store3 := stores[k]
		if !store3.Valid() {
			continue
		}
		if opts.SameIntermediateStore && store3.Name != store2.Name {
			continue
		}
		if store3.Currency != store2.Currency {
			continue
		}
		for _, offer3 := range store3.SellingOffers() {
			for l := range stores {
				store4 := stores[l]
				if !store4.Valid() {
					continue
				}
				if store4.Name == store3.Name {
					continue
				}
				if store4.Currency != opts.BaseCurrency {
					continue
				}
				for _, offer4 := range store4.BuyingOffers() {
					if offer4.ItemName != offer3.ItemName {
						continue
					}
					if opp, ok := evaluateCycle(store1, offer1, store2, offer2, store3, offer3, store4, offer4, tbl, opts); ok {
						res.Trades = append(res.Trades, opp)
					}
				}
			}
		}
	}
}

func evaluateCycle(store1 market.Store, offer1 market.Offer, store2 market.Store, offer2 market.Offer, store3 market.Store, offer3 market.Offer, store4 market.Store, offer4 market.Offer, tbl *rates.Table, opts Options) (TradeOpportunity, bool) {
	// the fixed pattern: base -> alt -> same alt -> base
	if store1.Currency != opts.BaseCurrency ||
		store2.Currency == opts.BaseCurrency ||
		store3.Currency != store2.Currency ||
		store4.Currency != opts.BaseCurrency {
		return TradeOpportunity{}, false
	}
	if offer1.Price <= 0 || offer2.Price <= 0 || offer3.Price <= 0 || offer4.Price <= 0 {
		return TradeOpportunity{}, false
	}

	// one unit of A earns offer2.Price alt, which buys offer2.Price/offer3.Price
	// of B, worth that much times offer4.Price back in base
	perUnit := offer2.Price/offer3.Price*offer4.Price - offer1.Price
	if perUnit <= cycleEpsilon {
		return TradeOpportunity{}, false
	}
	maxUnits := minInt(offer1.Quantity, offer2.Quantity, offer3.Quantity, offer4.Quantity)
	if perUnit*float64(maxUnits) < cycleMinTotal {
		return TradeOpportunity{}, false
	}

	q, ok := optimizeChain(offer1, offer2, offer3, offer4, store2.Balance, store4.Balance)
	if !ok {
		return TradeOpportunity{}, false
	}

	// profit always recomputed from finalized quantities and realized prices
	totalCost := float64(q.FirstQty) * offer1.Price
	totalRevenue := float64(q.SecondQty) * offer4.Price
	total := totalRevenue - totalCost
	if math.IsInf(total, 0) || math.IsNaN(total) || total <= 0 {
		return TradeOpportunity{}, false
	}
	actualPerUnit := total / float64(q.FirstQty)
	if total < opts.MinProfit {
		return TradeOpportunity{}, false
	}

	var warnings []string
	if q.AffordA < q.FirstQty {
		warnings = append(warnings, fmt.Sprintf("Leg 2 store can only afford %d units", q.AffordA))
	}
	if q.AffordB < q.SecondQty {
		warnings = append(warnings, fmt.Sprintf("Leg 4 store can only afford %d units", q.AffordB))
	}
	if q.AltEarned < q.AltNeeded {
		warnings = append(warnings, fmt.Sprintf("Insufficient alt currency: need %.1f, have %.1f", q.AltNeeded, q.AltEarned))
	}
	if opts.HideWarnings && len(warnings) > 0 {
		return TradeOpportunity{}, false
	}

	opp := TradeOpportunity{
		Kind: KindCrossCurrency,
		Legs: []Leg{
			{Action: "buy", Item: offer1.ItemName, Store: store1.Name, Owner: store1.Owner, Currency: store1.Currency, Price: offer1.Price, Quantity: q.FirstQty, Stock: offer1.Quantity, StoreBalance: store1.Balance},
			{Action: "sell", Item: offer2.ItemName, Store: store2.Name, Owner: store2.Owner, Currency: store2.Currency, Price: offer2.Price, Quantity: q.FirstQty, Stock: offer2.Quantity, StoreBalance: store2.Balance},
			{Action: "buy", Item: offer3.ItemName, Store: store3.Name, Owner: store3.Owner, Currency: store3.Currency, Price: offer3.Price, Quantity: q.SecondQty, Stock: offer3.Quantity, StoreBalance: store3.Balance},
			{Action: "sell", Item: offer4.ItemName, Store: store4.Name, Owner: store4.Owner, Currency: store4.Currency, Price: offer4.Price, Quantity: q.SecondQty, Stock: offer4.Quantity, StoreBalance: store4.Balance},
		},
		Currency:      opts.BaseCurrency,
		ProfitPerUnit: actualPerUnit,
		TotalProfit:   total,
		AltEarned:     q.AltEarned,
		AltNeeded:     q.AltNeeded,
		Warnings:      warnings,
	}
	if surplus := q.AltEarned - q.AltNeeded; surplus > 0 && tbl != nil {
		// best effort: soft-skip when the alt currency has no path back to base
		if v, ok := tbl.Convert(surplus, store2.Currency, opts.BaseCurrency); ok {
			opp.AltSurplusRef = v
		}
	}
	return opp, true
}
