// Package report dumps scan results to CSV for offline inspection.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/arbitrage"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/scanner"
)

var header = []string{"kind", "direction", "currency", "profit_per_unit", "total_profit", "legs", "warnings"}

// WriteCSV writes every opportunity from a completed scan to path. The file
// is replaced wholesale on each call.
func WriteCSV(path string, res *arbitrage.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, group := range [][]scanner.TradeOpportunity{res.Trades, res.Cycles, res.FX} {
		for _, o := range group {
			if err := w.Write(row(o)); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func row(o scanner.TradeOpportunity) []string {
	legs := make([]string, 0, len(o.Legs))
	for _, l := range o.Legs {
		legs = append(legs, fmt.Sprintf("%s %dx %s @ %.2f %s from %s", l.Action, l.Quantity, l.Item, l.Price, l.Currency, l.Store))
	}
	return []string{
		string(o.Kind),
		o.Direction,
		o.Currency,
		strconv.FormatFloat(o.ProfitPerUnit, 'f', -1, 64),
		strconv.FormatFloat(o.TotalProfit, 'f', -1, 64),
		strings.Join(legs, "; "),
		strings.Join(o.Warnings, "; "),
	}
}
