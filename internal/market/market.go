package market

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Store is one shop on the server: a single currency, a spendable balance and
// its posted offers. Balance caps what the store can pay when buying.
type Store struct {
	Name      string  `json:"Name"`
	Owner     string  `json:"Owner"`
	Currency  string  `json:"CurrencyName"`
	Balance   float64 `json:"Balance"`
	AllOffers []Offer `json:"AllOffers"`
}

// Offer is a single item quote. Buying=true means the store pays Price per
// unit for up to Quantity items; Buying=false means it sells at Price.
type Offer struct {
	ItemName string  `json:"ItemName"`
	Price    float64 `json:"Price"`
	Quantity int     `json:"Quantity"`
	Buying   bool    `json:"Buying"`
}

// ItemInfo is display-only metadata; it never affects scan outcomes.
type ItemInfo struct {
	StackSize   int  `json:"stackSize"`
	WeightGrams int  `json:"weightGrams"`
	IsCarried   bool `json:"isCarried"`
}

// Snapshot is one immutable view of the marketplace. Scans never mutate it.
type Snapshot struct {
	Stores        []Store
	Items         map[string]ItemInfo
	ServerName    string
	OnlinePlayers []string
}

// Valid reports whether the store has a parsable offer collection. Stores
// without one are excluded from every scan, never treated as an error.
func (s Store) Valid() bool { return s.AllOffers != nil }

// SellingOffers returns offers the store gives items for, with stock left.
func (s Store) SellingOffers() []Offer {
	out := make([]Offer, 0, len(s.AllOffers))
	for _, o := range s.AllOffers {
		if !o.Buying && o.Quantity > 0 {
			out = append(out, o)
		}
	}
	return out
}

// BuyingOffers returns offers the store pays for, with demand left.
func (s Store) BuyingOffers() []Offer {
	out := make([]Offer, 0, len(s.AllOffers))
	for _, o := range s.AllOffers {
		if o.Buying && o.Quantity > 0 {
			out = append(out, o)
		}
	}
	return out
}

// Currencies returns the distinct currencies observed across stores, in
// first-seen order.
func Currencies(stores []Store) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, s := range stores {
		if _, ok := seen[s.Currency]; ok {
			continue
		}
		seen[s.Currency] = struct{}{}
		out = append(out, s.Currency)
	}
	return out
}

// ParseStores decodes the stores payload ({"Stores":[...]}). A decode failure
// here is the one fatal input error: the snapshot itself is unreadable.
func ParseStores(data []byte) ([]Store, error) {
	var payload struct {
		Stores []Store `json:"Stores"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode stores payload: %w", err)
	}
	return payload.Stores, nil
}

// ParseItems decodes the allItems payload into display metadata. The server
// nests each property under typed wrappers (Int32/Boolean strings).
func ParseItems(data []byte) (map[string]ItemInfo, error) {
	var payload struct {
		AllItems map[string]struct {
			PropertyInfos struct {
				MaxStackSize struct {
					Int32 int `json:"Int32"`
				} `json:"MaxStackSize"`
				Weight struct {
					Int32 int `json:"Int32"`
				} `json:"Weight"`
				IsCarried struct {
					Boolean string `json:"Boolean"`
				} `json:"IsCarried"`
			} `json:"PropertyInfos"`
		} `json:"AllItems"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode items payload: %w", err)
	}
	out := make(map[string]ItemInfo, len(payload.AllItems))
	for name, it := range payload.AllItems {
		out[name] = ItemInfo{
			StackSize:   it.PropertyInfos.MaxStackSize.Int32,
			WeightGrams: it.PropertyInfos.Weight.Int32,
			IsCarried:   it.PropertyInfos.IsCarried.Boolean == "True",
		}
	}
	return out, nil
}

var colorTag = regexp.MustCompile(`<#[0-9a-fA-F]{6}>`)

// ParseInfo decodes the server /info payload: server name (color tags
// stripped) and the online player roster used for ownership annotation.
func ParseInfo(data []byte) (name string, online []string, err error) {
	var payload struct {
		Description        string   `json:"Description"`
		OnlinePlayersNames []string `json:"OnlinePlayersNames"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", nil, fmt.Errorf("decode info payload: %w", err)
	}
	name = strings.TrimSpace(colorTag.ReplaceAllString(payload.Description, ""))
	if name == "" {
		name = "Unknown Server"
	}
	return name, payload.OnlinePlayersNames, nil
}
