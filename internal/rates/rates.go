package rates

import (
	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
)

// Table holds empirically inferred exchange rates as a dense matrix indexed
// by a currency->id map. rate[i][j] is how many units of currency j one unit
// of currency i converts into. The table is directional: rate[i][j] is not
// necessarily 1/rate[j][i], because each direction keeps its own best
// observed candidate.
type Table struct {
	index      map[string]int
	currencies []string
	rate       [][]float64
	known      [][]bool
}

func newTable(currencies []string) *Table {
	n := len(currencies)
	t := &Table{
		index:      make(map[string]int, n),
		currencies: currencies,
		rate:       make([][]float64, n),
		known:      make([][]bool, n),
	}
	for i, c := range currencies {
		t.index[c] = i
		t.rate[i] = make([]float64, n)
		t.known[i] = make([]bool, n)
		t.rate[i][i] = 1
		t.known[i][i] = true
	}
	return t
}

// Currencies returns the observed currency set in first-seen order.
func (t *Table) Currencies() []string { return t.currencies }

// Rate returns the best known conversion rate from one currency to another.
// ok is false when no evidential or transitive path exists.
func (t *Table) Rate(from, to string) (float64, bool) {
	i, okI := t.index[from]
	j, okJ := t.index[to]
	if !okI || !okJ || !t.known[i][j] {
		return 0, false
	}
	return t.rate[i][j], true
}

// Convert expresses amount of one currency in another using the best known
// rate. ok is false when the pair is unconvertible.
func (t *Table) Convert(amount float64, from, to string) (float64, bool) {
	if from == to {
		return amount, true
	}
	r, ok := t.Rate(from, to)
	if !ok || r == 0 {
		return 0, false
	}
	return amount * r, true
}

// offer price lists for one item in one currency
type priceLists struct {
	sell []float64
	buy  []float64
}

// Estimate infers pairwise rates from items priced in multiple currencies and
// closes the table transitively. For each item quoted in two currencies the
// directional candidate is mean(buy prices in dst) / mean(sell prices in src):
// the rate realized by selling the item for src and re-buying value in dst.
// The best candidate per directed pair wins, with the reciprocal competing
// for the opposite direction. The estimate is optimistic on purpose: it is the
// most favorable conversion actually achievable by composing observed trades.
func Estimate(stores []market.Store) *Table {
	t := newTable(market.Currencies(stores))

	itemPrices := map[string]map[string]*priceLists{}
	for _, s := range stores {
		if !s.Valid() {
			continue
		}
		for _, o := range s.AllOffers {
			byCur := itemPrices[o.ItemName]
			if byCur == nil {
				byCur = map[string]*priceLists{}
				itemPrices[o.ItemName] = byCur
			}
			pl := byCur[s.Currency]
			if pl == nil {
				pl = &priceLists{}
				byCur[s.Currency] = pl
			}
			if o.Buying {
				pl.buy = append(pl.buy, o.Price)
			} else {
				pl.sell = append(pl.sell, o.Price)
			}
		}
	}

	for _, byCur := range itemPrices {
		curs := make([]string, 0, len(byCur))
		for c := range byCur {
			curs = append(curs, c)
		}
		for i := 0; i < len(curs); i++ {
			for j := i + 1; j < len(curs); j++ {
				c1, c2 := curs[i], curs[j]
				// sell for c1, re-buy value in c2
				if r, ok := candidate(byCur[c1].sell, byCur[c2].buy); ok {
					t.propose(c1, c2, r)
				}
				// and the mirror image
				if r, ok := candidate(byCur[c2].sell, byCur[c1].buy); ok {
					t.propose(c2, c1, r)
				}
			}
		}
	}

	t.close()
	return t
}

// candidate computes mean(buy)/mean(sell); no candidate on empty lists or a
// zero sell mean.
func candidate(sell, buy []float64) (float64, bool) {
	if len(sell) == 0 || len(buy) == 0 {
		return 0, false
	}
	avgSell := mean(sell)
	if avgSell <= 0 {
		return 0, false
	}
	return mean(buy) / avgSell, true
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// propose keeps the max candidate for from->to and lets its reciprocal
// compete for to->from.
func (t *Table) propose(from, to string, r float64) {
	i, j := t.index[from], t.index[to]
	if !t.known[i][j] || r > t.rate[i][j] {
		t.rate[i][j] = r
		t.known[i][j] = true
	}
	if r > 0 {
		inv := 1 / r
		if !t.known[j][i] || inv > t.rate[j][i] {
			t.rate[j][i] = inv
			t.known[j][i] = true
		}
	}
}

// close runs one k-outer pass of the max-product Floyd-Warshall relaxation.
// With rate-consistent candidates this reaches a fixpoint; when conflicting
// observations form a loop with product above 1 there is no finite fixpoint
// to chase, so the closure deliberately stops after one composition round.
func (t *Table) close() {
	n := len(t.currencies)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if !t.known[i][k] {
				continue
			}
			for j := 0; j < n; j++ {
				// the identity rate is pinned: a profitable loop must not
				// inflate rate(c,c) past 1
				if i == j || !t.known[k][j] {
					continue
				}
				composed := t.rate[i][k] * t.rate[k][j]
				if !t.known[i][j] || composed > t.rate[i][j] {
					t.rate[i][j] = composed
					t.known[i][j] = true
				}
			}
		}
	}
}
