package scanner

import (
	"fmt"
	"math"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
)

// quantity below which a same-currency match gets a low-liquidity warning
const lowLiquidityQty = 10

// SameCurrency finds direct buy-low-sell-high pairs within one currency:
// every ordered pair of distinct stores sharing a currency, every item one
// sells that the other buys at a higher price. A->B and B->A are scanned as
// independent directed pairs. Results are sorted by total profit descending.
func SameCurrency(stores []market.Store, opts Options) []TradeOpportunity {
	var out []TradeOpportunity
	for i := range stores {
		for j := range stores {
			if i == j {
				continue
			}
			seller, buyer := stores[i], stores[j]
			if !seller.Valid() || !buyer.Valid() {
				continue
			}
			if seller.Currency != buyer.Currency {
				continue
			}
			if seller.Balance == 0 || buyer.Balance == 0 {
				continue
			}
			for _, so := range seller.SellingOffers() {
				for _, bo := range buyer.BuyingOffers() {
					if so.ItemName != bo.ItemName {
						continue
					}
					if opp, ok := pairTrade(seller, buyer, so, bo, opts); ok {
						out = append(out, opp)
					}
				}
			}
		}
	}
	sortByProfit(out)
	return out
}

func pairTrade(seller, buyer market.Store, so, bo market.Offer, opts Options) (TradeOpportunity, bool) {
	if so.Price <= 0 || bo.Price <= 0 {
		return TradeOpportunity{}, false
	}
	profit := bo.Price - so.Price
	if profit <= 0 {
		return TradeOpportunity{}, false
	}
	qty := so.Quantity
	if bo.Quantity < qty {
		qty = bo.Quantity
	}
	if qty <= 0 {
		return TradeOpportunity{}, false
	}

	var warnings []string
	if qty < lowLiquidityQty {
		warnings = append(warnings, "Low liquidity")
	}
	afford := affordable(buyer.Balance, bo.Price)
	if buyer.Balance < bo.Price*float64(qty) {
		warnings = append(warnings, fmt.Sprintf("Buyer may not have enough funds (Balance: %.2f, Can afford: %d)", buyer.Balance, afford))
	}
	if opts.CorrectProfit && qty > afford {
		qty = afford
		warnings = append(warnings, fmt.Sprintf("Quantity adjusted to %d due to funds", qty))
	}
	if qty <= 0 {
		return TradeOpportunity{}, false
	}

	total := profit * float64(qty)
	if math.IsInf(total, 0) || math.IsNaN(total) || total <= 0 {
		return TradeOpportunity{}, false
	}
	if total < opts.MinProfit {
		return TradeOpportunity{}, false
	}
	if opts.HideWarnings && len(warnings) > 0 {
		return TradeOpportunity{}, false
	}

	return TradeOpportunity{
		Kind: KindSameCurrency,
		Legs: []Leg{
			{Action: "buy", Item: so.ItemName, Store: seller.Name, Owner: seller.Owner, Currency: seller.Currency, Price: so.Price, Quantity: qty, Stock: so.Quantity, StoreBalance: seller.Balance},
			{Action: "sell", Item: bo.ItemName, Store: buyer.Name, Owner: buyer.Owner, Currency: buyer.Currency, Price: bo.Price, Quantity: qty, Stock: bo.Quantity, StoreBalance: buyer.Balance},
		},
		Currency:      seller.Currency,
		ProfitPerUnit: profit,
		TotalProfit:   total,
		Warnings:      warnings,
	}, true
}
