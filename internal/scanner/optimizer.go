package scanner

import (
	"math"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
)

// chainQuantities is the optimizer result for a four-leg chain: the finalized
// quantity of each item plus the affordability caps that produced them.
type chainQuantities struct {
	FirstQty  int
	SecondQty int
	AffordA   int // units of item A the leg-2 store can pay for
	AffordB   int // units of item B the leg-4 store can pay for
	AltEarned float64
	AltNeeded float64
}

// optimizeChain resolves the executable trade size for a four-leg cycle.
// Quantities are linked: buying N of item A yields N*p2 alt currency, which
// finances floor(N*p2/p3) of item B. Stage one caps N by the seller's stock,
// the buyer's demand and the buyer's balance; stage two caps item B the same
// way. When stage two binds, the required item-A quantity is recomputed
// backward with ceiling division and re-clamped; any alt currency beyond what
// stage two can absorb is deliberately left unused rather than re-optimized
// downward.
func optimizeChain(offer1, offer2, offer3, offer4 market.Offer, balance2, balance4 float64) (chainQuantities, bool) {
	var q chainQuantities

	q.AffordA = affordable(balance2, offer2.Price)
	capA := minInt(offer1.Quantity, offer2.Quantity, q.AffordA)
	if capA <= 0 {
		return q, false
	}

	altFromCapA := float64(capA) * offer2.Price
	financedB := floorUnits(altFromCapA / offer3.Price)

	q.AffordB = affordable(balance4, offer4.Price)
	capB := minInt(offer3.Quantity, offer4.Quantity, q.AffordB)
	if capB <= 0 {
		return q, false
	}

	if financedB <= capB {
		q.FirstQty = capA
		q.SecondQty = financedB
	} else {
		q.SecondQty = capB
		needed := 0
		if offer2.Price > 0 {
			needed = ceilUnits(float64(capB) * offer3.Price / offer2.Price)
		}
		if needed > capA {
			needed = capA
		}
		q.FirstQty = needed
	}

	if q.FirstQty <= 0 || q.SecondQty <= 0 {
		return q, false
	}
	q.AltEarned = float64(q.FirstQty) * offer2.Price
	q.AltNeeded = float64(q.SecondQty) * offer3.Price
	return q, true
}

// maxUnits bounds any float-derived quantity before the int conversion;
// converting a ratio beyond the int range is implementation-defined and can
// come out negative.
const maxUnits = math.MaxInt32

// affordable is how many units a store balance covers at the given unit
// price, floored; zero when the price is not positive.
func affordable(balance, price float64) int {
	if price <= 0 {
		return 0
	}
	return floorUnits(balance / price)
}

func floorUnits(r float64) int {
	return clampUnits(math.Floor(r))
}

func ceilUnits(r float64) int {
	return clampUnits(math.Ceil(r))
}

func clampUnits(r float64) int {
	if math.IsNaN(r) || r <= 0 {
		return 0
	}
	if r >= maxUnits {
		return maxUnits
	}
	return int(r)
}

func minInt(xs ...int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
