package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Rejdukien/Eco-Trade-Helper/internal/arbitrage"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/market"
	"github.com/Rejdukien/Eco-Trade-Helper/internal/scanner"
)

type Server struct {
	mux    *http.ServeMux
	engine *arbitrage.Engine
}

func New(engine *arbitrage.Engine) *Server {
	s := &Server{mux: http.NewServeMux(), engine: engine}
	s.mux.HandleFunc("/status", s.status)
	s.mux.HandleFunc("/api/v1/trades", s.trades)
	s.mux.HandleFunc("/api/v1/cycles", s.cycles)
	s.mux.HandleFunc("/api/v1/fx", s.fx)
	s.mux.HandleFunc("/api/v1/rates", s.rates)
	s.mux.HandleFunc("/api/v1/items", s.items)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

type statusBody struct {
	Server         string    `json:"server"`
	FetchedAt      time.Time `json:"fetchedAt"`
	Currencies     []string  `json:"currencies"`
	OnlinePlayers  []string  `json:"onlinePlayers"`
	Trades         int       `json:"trades"`
	Cycles         int       `json:"cycles"`
	FX             int       `json:"fx"`
	CombosExamined int       `json:"combosExamined"`
	Truncated      bool      `json:"truncated"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	res := s.engine.Results()
	if res == nil {
		http.Error(w, "no scan yet", http.StatusServiceUnavailable)
		return
	}
	online := res.OnlinePlayers
	if online == nil {
		online = []string{}
	}
	writeJSON(w, statusBody{
		Server:         res.ServerName,
		FetchedAt:      res.FetchedAt,
		Currencies:     res.Currencies,
		OnlinePlayers:  online,
		Trades:         len(res.Trades),
		Cycles:         len(res.Cycles),
		FX:             len(res.FX),
		CombosExamined: res.CombosExamined,
		Truncated:      res.Truncated,
	})
}

func (s *Server) trades(w http.ResponseWriter, r *http.Request) {
	s.opportunities(w, func(res *arbitrage.Results) []scanner.TradeOpportunity { return res.Trades })
}

func (s *Server) cycles(w http.ResponseWriter, r *http.Request) {
	s.opportunities(w, func(res *arbitrage.Results) []scanner.TradeOpportunity { return res.Cycles })
}

func (s *Server) fx(w http.ResponseWriter, r *http.Request) {
	s.opportunities(w, func(res *arbitrage.Results) []scanner.TradeOpportunity { return res.FX })
}

func (s *Server) opportunities(w http.ResponseWriter, pick func(*arbitrage.Results) []scanner.TradeOpportunity) {
	res := s.engine.Results()
	if res == nil {
		http.Error(w, "no scan yet", http.StatusServiceUnavailable)
		return
	}
	opps := pick(res)
	if opps == nil {
		opps = []scanner.TradeOpportunity{}
	}
	writeJSON(w, opps)
}

// items serves the display metadata for every known item: stack size, weight
// and whether it can be hand-carried.
func (s *Server) items(w http.ResponseWriter, r *http.Request) {
	res := s.engine.Results()
	if res == nil {
		http.Error(w, "no scan yet", http.StatusServiceUnavailable)
		return
	}
	items := res.Items
	if items == nil {
		items = map[string]market.ItemInfo{}
	}
	writeJSON(w, items)
}

type ratePair struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

func (s *Server) rates(w http.ResponseWriter, r *http.Request) {
	res := s.engine.Results()
	if res == nil {
		http.Error(w, "no scan yet", http.StatusServiceUnavailable)
		return
	}
	out := []ratePair{}
	curs := res.Rates.Currencies()
	for _, from := range curs {
		for _, to := range curs {
			if rate, ok := res.Rates.Rate(from, to); ok {
				out = append(out, ratePair{From: from, To: to, Rate: rate})
			}
		}
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
