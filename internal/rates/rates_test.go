package rates

import (
	"math"
	"testing"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
)

func storeWith(name, currency string, balance float64, offers ...market.Offer) market.Store {
	return market.Store{Name: name, Owner: "owner", Currency: currency, Balance: balance, AllOffers: offers}
}

func sell(item string, price float64, qty int) market.Offer {
	return market.Offer{ItemName: item, Price: price, Quantity: qty}
}

func buy(item string, price float64, qty int) market.Offer {
	return market.Offer{ItemName: item, Price: price, Quantity: qty, Buying: true}
}

func TestIdentityRates(t *testing.T) {
	stores := []market.Store{
		storeWith("s1", "Gold", 100, sell("Wood", 5, 10)),
		storeWith("s2", "Silver", 100, buy("Wood", 8, 10)),
		storeWith("s3", "Copper", 100),
	}
	tbl := Estimate(stores)
	for _, c := range tbl.Currencies() {
		r, ok := tbl.Rate(c, c)
		if !ok || r != 1 {
			t.Fatalf("rate(%s,%s) = %v ok=%v, want 1", c, c, r, ok)
		}
	}
}

func TestDirectRateFromSharedItem(t *testing.T) {
	// Wood sells for 5 Gold, is bought for 8 Silver: 1 Gold -> 8/5 Silver.
	stores := []market.Store{
		storeWith("s1", "Gold", 100, sell("Wood", 5, 10)),
		storeWith("s2", "Silver", 100, buy("Wood", 8, 10)),
	}
	tbl := Estimate(stores)
	r, ok := tbl.Rate("Gold", "Silver")
	if !ok {
		t.Fatalf("expected rate Gold->Silver")
	}
	if math.Abs(r-1.6) > 1e-9 {
		t.Fatalf("rate Gold->Silver = %v, want 1.6", r)
	}
	// reciprocal candidate for the reverse direction
	inv, ok := tbl.Rate("Silver", "Gold")
	if !ok || math.Abs(inv-1/1.6) > 1e-9 {
		t.Fatalf("rate Silver->Gold = %v ok=%v, want %v", inv, ok, 1/1.6)
	}
}

func TestMeanPricesAndBestCandidateWins(t *testing.T) {
	// Two sell quotes in Gold (4 and 6, mean 5), one buy quote in Silver (10):
	// Wood candidate 10/5 = 2. Stone offers a better candidate 3.
	stores := []market.Store{
		storeWith("s1", "Gold", 100, sell("Wood", 4, 10), sell("Stone", 2, 10)),
		storeWith("s2", "Gold", 100, sell("Wood", 6, 10)),
		storeWith("s3", "Silver", 100, buy("Wood", 10, 10), buy("Stone", 6, 10)),
	}
	tbl := Estimate(stores)
	r, ok := tbl.Rate("Gold", "Silver")
	if !ok || math.Abs(r-3) > 1e-9 {
		t.Fatalf("rate Gold->Silver = %v ok=%v, want 3 (best item candidate)", r, ok)
	}
}

func TestTransitiveClosureBridgesUnquotedPair(t *testing.T) {
	// A<->B via Wood, B<->C via Stone, no item shared by A and C.
	stores := []market.Store{
		storeWith("s1", "A", 100, sell("Wood", 5, 10)),
		storeWith("s2", "B", 100, buy("Wood", 10, 10), sell("Stone", 4, 10)),
		storeWith("s3", "C", 100, buy("Stone", 12, 10)),
	}
	tbl := Estimate(stores)
	ab, okAB := tbl.Rate("A", "B")
	bc, okBC := tbl.Rate("B", "C")
	if !okAB || !okBC {
		t.Fatalf("direct rates missing: ok(A,B)=%v ok(B,C)=%v", okAB, okBC)
	}
	ac, ok := tbl.Rate("A", "C")
	if !ok {
		t.Fatalf("expected transitive rate A->C")
	}
	if math.Abs(ac-ab*bc) > 1e-9 {
		t.Fatalf("rate A->C = %v, want %v", ac, ab*bc)
	}
}

func TestNoPathStaysUnconvertible(t *testing.T) {
	stores := []market.Store{
		storeWith("s1", "A", 100, sell("Wood", 5, 10)),
		storeWith("s2", "B", 100, sell("Stone", 4, 10)),
	}
	tbl := Estimate(stores)
	if _, ok := tbl.Rate("A", "B"); ok {
		t.Fatalf("expected no rate A->B without any buy quotes")
	}
	if _, ok := tbl.Convert(10, "A", "B"); ok {
		t.Fatalf("expected Convert to fail for unconvertible pair")
	}
}

func TestClosureIdempotent(t *testing.T) {
	stores := []market.Store{
		storeWith("s1", "A", 100, sell("Wood", 5, 10)),
		storeWith("s2", "B", 100, buy("Wood", 10, 10), sell("Stone", 4, 10)),
		storeWith("s3", "C", 100, buy("Stone", 12, 10)),
	}
	tbl := Estimate(stores)
	before := map[[2]string]float64{}
	for _, from := range tbl.Currencies() {
		for _, to := range tbl.Currencies() {
			if r, ok := tbl.Rate(from, to); ok {
				before[[2]string{from, to}] = r
			}
		}
	}
	tbl.close()
	for pair, r := range before {
		after, ok := tbl.Rate(pair[0], pair[1])
		if !ok || after != r {
			t.Fatalf("closure not idempotent for %v: %v -> %v", pair, r, after)
		}
	}
}

func TestTriangularProperty(t *testing.T) {
	stores := []market.Store{
		storeWith("s1", "A", 100, sell("Wood", 5, 10)),
		storeWith("s2", "B", 100, buy("Wood", 7, 10), sell("Stone", 4, 10)),
		storeWith("s3", "C", 100, buy("Stone", 6, 10), sell("Coal", 3, 10)),
		storeWith("s4", "D", 100, buy("Coal", 4, 10)),
	}
	tbl := Estimate(stores)
	curs := tbl.Currencies()
	for _, c1 := range curs {
		for _, c2 := range curs {
			for _, c3 := range curs {
				r12, ok12 := tbl.Rate(c1, c2)
				r23, ok23 := tbl.Rate(c2, c3)
				if !ok12 || !ok23 {
					continue
				}
				r13, ok := tbl.Rate(c1, c3)
				if !ok {
					t.Fatalf("rate(%s,%s) missing despite path via %s", c1, c3, c2)
				}
				if r13 < r12*r23-1e-9 {
					t.Fatalf("rate(%s,%s)=%v worse than composed %v via %s", c1, c3, r13, r12*r23, c2)
				}
			}
		}
	}
}

func TestInconsistentReciprocalsStayDirectional(t *testing.T) {
	// Wood: sells for 5 Gold, bought for 10 Silver -> Gold->Silver = 2.
	// Stone: sells for 5 Silver, bought for 10 Gold -> Silver->Gold = 2.
	// The directions contradict each other (round trip product 4), which the
	// table tolerates: each keeps its own best candidate, the identity stays
	// pinned at 1 and the single closure pass does not keep compounding.
	stores := []market.Store{
		storeWith("s1", "Gold", 100, sell("Wood", 5, 10), buy("Stone", 10, 10)),
		storeWith("s2", "Silver", 100, buy("Wood", 10, 10), sell("Stone", 5, 10)),
	}
	tbl := Estimate(stores)
	gs, ok := tbl.Rate("Gold", "Silver")
	if !ok || math.Abs(gs-2) > 1e-9 {
		t.Fatalf("rate Gold->Silver = %v ok=%v, want 2", gs, ok)
	}
	sg, ok := tbl.Rate("Silver", "Gold")
	if !ok || math.Abs(sg-2) > 1e-9 {
		t.Fatalf("rate Silver->Gold = %v ok=%v, want 2", sg, ok)
	}
	for _, c := range tbl.Currencies() {
		if r, ok := tbl.Rate(c, c); !ok || r != 1 {
			t.Fatalf("rate(%s,%s) = %v ok=%v, want pinned 1", c, c, r, ok)
		}
	}
	tbl.close()
	if r, _ := tbl.Rate("Gold", "Silver"); math.Abs(r-2) > 1e-9 {
		t.Fatalf("re-running closure changed Gold->Silver to %v", r)
	}
	if r, _ := tbl.Rate("Silver", "Gold"); math.Abs(r-2) > 1e-9 {
		t.Fatalf("re-running closure changed Silver->Gold to %v", r)
	}
}

func TestInvalidStoreIgnored(t *testing.T) {
	stores := []market.Store{
		storeWith("s1", "Gold", 100, sell("Wood", 5, 10)),
		{Name: "broken", Currency: "Silver", Balance: 10}, // nil offers
		storeWith("s2", "Silver", 100, buy("Wood", 8, 10)),
	}
	tbl := Estimate(stores)
	if _, ok := tbl.Rate("Gold", "Silver"); !ok {
		t.Fatalf("valid stores should still produce the rate")
	}
}
