package scanner

import (
	"math"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
)

// FixedRate finds two-leg arbitrage between two currencies at a
// caller-supplied rate, independent of the inferred rate table. Both
// directions are scanned; profit is always expressed in CurrencyA. Returns
// nil when the parameters are incomplete or non-positive.
func FixedRate(stores []market.Store, fx FXParams, opts Options) []TradeOpportunity {
	if fx.CurrencyA == "" || fx.CurrencyB == "" || fx.RateA <= 0 || fx.RateB <= 0 {
		return nil
	}
	fxBA := fx.RateA / fx.RateB // 1 B = fxBA A

	var out []TradeOpportunity
	// A -> B: buy in an A-currency store, sell into a B-currency store;
	// the B sell price is converted to A for comparison.
	out = append(out, fxDirection(stores, fx.CurrencyA, fx.CurrencyB, fx.CurrencyA, opts,
		func(buyPrice, sellPrice float64) float64 { return sellPrice*fxBA - buyPrice })...)
	// B -> A: buy price in B converted to A, sold at the A price.
	out = append(out, fxDirection(stores, fx.CurrencyB, fx.CurrencyA, fx.CurrencyA, opts,
		func(buyPrice, sellPrice float64) float64 { return sellPrice - buyPrice*fxBA })...)

	sortByProfit(out)
	return out
}

// fxDirection matches sell offers in the source currency against buy offers
// for the same item in the destination currency. perUnit computes the profit
// in profitCur terms from the raw buy (source) and sell (destination) prices.
func fxDirection(stores []market.Store, src, dst, profitCur string, opts Options, perUnit func(buyPrice, sellPrice float64) float64) []TradeOpportunity {
	var out []TradeOpportunity
	for i := range stores {
		from := stores[i]
		if !from.Valid() || from.Currency != src {
			continue
		}
		for _, so := range from.SellingOffers() {
			if so.Price <= 0 {
				continue
			}
			for j := range stores {
				to := stores[j]
				if !to.Valid() || to.Currency != dst {
					continue
				}
				for _, bo := range to.BuyingOffers() {
					if bo.ItemName != so.ItemName || bo.Price <= 0 {
						continue
					}
					profit := perUnit(so.Price, bo.Price)
					if profit <= 0 {
						continue
					}
					qty := so.Quantity
					if bo.Quantity < qty {
						qty = bo.Quantity
					}
					if qty <= 0 {
						continue
					}
					afford := affordable(to.Balance, bo.Price)
					feasible := qty
					if afford < feasible {
						feasible = afford
					}
					if feasible <= 0 {
						continue
					}
					total := profit * float64(feasible)
					if math.IsInf(total, 0) || math.IsNaN(total) || total <= 0 {
						continue
					}
					if total < opts.MinProfit {
						continue
					}
					var warnings []string
					if afford < qty {
						warnings = append(warnings, "Buyer limited by balance")
					}
					if feasible < qty {
						warnings = append(warnings, "Liquidity constrained")
					}
					if opts.HideWarnings && len(warnings) > 0 {
						continue
					}
					out = append(out, TradeOpportunity{
						Kind:      KindFixedRate,
						Direction: src + " -> " + dst,
						Legs: []Leg{
							{Action: "buy", Item: so.ItemName, Store: from.Name, Owner: from.Owner, Currency: from.Currency, Price: so.Price, Quantity: feasible, Stock: so.Quantity, StoreBalance: from.Balance},
							{Action: "sell", Item: bo.ItemName, Store: to.Name, Owner: to.Owner, Currency: to.Currency, Price: bo.Price, Quantity: feasible, Stock: bo.Quantity, StoreBalance: to.Balance},
						},
						Currency:      profitCur,
						ProfitPerUnit: profit,
						TotalProfit:   total,
						Warnings:      warnings,
					})
				}
			}
		}
	}
	return out
}
