package scanner

import (
	"strings"
	"testing"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
)

func storeWith(name, currency string, balance float64, offers ...market.Offer) market.Store {
	if offers == nil {
		offers = []market.Offer{}
	}
	return market.Store{Name: name, Owner: name + "-owner", Currency: currency, Balance: balance, AllOffers: offers}
}

func sell(item string, price float64, qty int) market.Offer {
	return market.Offer{ItemName: item, Price: price, Quantity: qty}
}

func buy(item string, price float64, qty int) market.Offer {
	return market.Offer{ItemName: item, Price: price, Quantity: qty, Buying: true}
}

func hasWarning(opp TradeOpportunity, substr string) bool {
	for _, w := range opp.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestSameCurrencyBasicPair(t *testing.T) {
	// store1 sells Wood 5/unit qty 10, store2 buys Wood 8/unit qty 5,
	// store2 balance 100: one opportunity, qty 5, profit/unit 3, total 15.
	stores := []market.Store{
		storeWith("store1", "Crabbies", 50, sell("Wood", 5, 10)),
		storeWith("store2", "Crabbies", 100, buy("Wood", 8, 5)),
	}
	opps := SameCurrency(stores, Options{})
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	o := opps[0]
	if o.Legs[0].Quantity != 5 || o.Legs[1].Quantity != 5 {
		t.Fatalf("expected qty 5, got %d/%d", o.Legs[0].Quantity, o.Legs[1].Quantity)
	}
	if o.ProfitPerUnit != 3 || o.TotalProfit != 15 {
		t.Fatalf("expected profit 3/unit total 15, got %v/%v", o.ProfitPerUnit, o.TotalProfit)
	}
	if len(o.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", o.Warnings)
	}
	if o.Legs[0].Store != "store1" || o.Legs[1].Store != "store2" {
		t.Fatalf("wrong stores: %s -> %s", o.Legs[0].Store, o.Legs[1].Store)
	}
}

func TestSameCurrencyFundingWarning(t *testing.T) {
	// buyer balance 20 at price 8: can afford floor(20/8)=2 of the 5 wanted
	stores := []market.Store{
		storeWith("store1", "Crabbies", 50, sell("Wood", 5, 10)),
		storeWith("store2", "Crabbies", 20, buy("Wood", 8, 5)),
	}
	opps := SameCurrency(stores, Options{})
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	o := opps[0]
	if o.Legs[0].Quantity != 5 {
		t.Fatalf("quantity should stay 5 without correct-profit, got %d", o.Legs[0].Quantity)
	}
	if !hasWarning(o, "Can afford: 2") {
		t.Fatalf("expected funding warning naming affordable qty, got %v", o.Warnings)
	}
}

func TestSameCurrencyCorrectProfitClampsQuantity(t *testing.T) {
	stores := []market.Store{
		storeWith("store1", "Crabbies", 50, sell("Wood", 5, 10)),
		storeWith("store2", "Crabbies", 20, buy("Wood", 8, 5)),
	}
	opps := SameCurrency(stores, Options{CorrectProfit: true})
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	o := opps[0]
	if o.Legs[0].Quantity != 2 || o.TotalProfit != 6 {
		t.Fatalf("expected clamped qty 2 total 6, got qty %d total %v", o.Legs[0].Quantity, o.TotalProfit)
	}
	if !hasWarning(o, "Quantity adjusted to 2") {
		t.Fatalf("expected adjustment warning, got %v", o.Warnings)
	}
}

func TestSameCurrencyDirectedPairsIndependent(t *testing.T) {
	// both stores sell something the other buys: two directed opportunities
	stores := []market.Store{
		storeWith("store1", "Crabbies", 100, sell("Wood", 5, 20), buy("Stone", 9, 20)),
		storeWith("store2", "Crabbies", 100, buy("Wood", 8, 20), sell("Stone", 4, 20)),
	}
	opps := SameCurrency(stores, Options{})
	if len(opps) != 2 {
		t.Fatalf("expected 2 directed opportunities, got %d", len(opps))
	}
	// sorted by total profit descending
	if opps[0].TotalProfit < opps[1].TotalProfit {
		t.Fatalf("not sorted by profit: %v then %v", opps[0].TotalProfit, opps[1].TotalProfit)
	}
}

func TestSameCurrencySkipsUnprofitableAndMismatched(t *testing.T) {
	stores := []market.Store{
		storeWith("store1", "Crabbies", 100, sell("Wood", 8, 10)),
		storeWith("store2", "Crabbies", 100, buy("Wood", 8, 10)),    // zero margin
		storeWith("store3", "Gold", 100, buy("Wood", 20, 10)),       // other currency
		storeWith("store4", "Crabbies", 0, buy("Wood", 20, 10)),     // zero balance
		{Name: "broken", Currency: "Crabbies", Balance: 100},        // nil offers
	}
	if opps := SameCurrency(stores, Options{}); len(opps) != 0 {
		t.Fatalf("expected no opportunities, got %d", len(opps))
	}
}

func TestSameCurrencyLowLiquidityWarningAndHide(t *testing.T) {
	stores := []market.Store{
		storeWith("store1", "Crabbies", 100, sell("Wood", 5, 3)),
		storeWith("store2", "Crabbies", 100, buy("Wood", 8, 3)),
	}
	opps := SameCurrency(stores, Options{})
	if len(opps) != 1 || !hasWarning(opps[0], "Low liquidity") {
		t.Fatalf("expected low liquidity warning, got %+v", opps)
	}
	if opps := SameCurrency(stores, Options{HideWarnings: true}); len(opps) != 0 {
		t.Fatalf("hide-warnings should drop the flagged opportunity, got %d", len(opps))
	}
}

func TestSameCurrencyMinProfitThreshold(t *testing.T) {
	stores := []market.Store{
		storeWith("store1", "Crabbies", 100, sell("Wood", 5, 10)),
		storeWith("store2", "Crabbies", 100, buy("Wood", 6, 10)),
	}
	if opps := SameCurrency(stores, Options{MinProfit: 20}); len(opps) != 0 {
		t.Fatalf("expected min-profit filter to drop total profit 10, got %d", len(opps))
	}
}

func TestSameCurrencyIdempotentOverSnapshot(t *testing.T) {
	stores := []market.Store{
		storeWith("store1", "Crabbies", 100, sell("Wood", 5, 10), sell("Stone", 2, 30)),
		storeWith("store2", "Crabbies", 100, buy("Wood", 8, 5), buy("Stone", 3, 30)),
	}
	a := SameCurrency(stores, Options{})
	b := SameCurrency(stores, Options{})
	if len(a) != len(b) {
		t.Fatalf("scan not idempotent: %d vs %d results", len(a), len(b))
	}
	for i := range a {
		if a[i].TotalProfit != b[i].TotalProfit || a[i].Legs[0].Store != b[i].Legs[0].Store {
			t.Fatalf("scan not idempotent at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
