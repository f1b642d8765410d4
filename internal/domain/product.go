package domain

import (
	"encoding/json"
	"strconv"
)

// LooseString is a string that tolerates JSON numbers and null. The search
// backend does not guarantee field types, so prices and scores arrive as
// either "1299.99", 1299.99, or nothing at all.
type LooseString string

// UnmarshalJSON accepts a JSON string, number, or null.
func (l *LooseString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = LooseString(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*l = LooseString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}

	// Unrecognized shape counts as absent rather than failing the record
	*l = ""
	return nil
}

// Candidate represents a single raw product record returned by the search
// backend. No field is guaranteed present; every consumer must default
// independently.
type Candidate struct {
	Title string      `json:"title"`
	Price LooseString `json:"price"`
	Score LooseString `json:"score"`
	Image string      `json:"image"`
	Link  string      `json:"link"`
}

// Specs holds the comparison attributes shown on a product card.
// Quality and durability are on a 0-100 scale; battery is optional.
type Specs struct {
	Quality    int `json:"quality"`
	Durability int `json:"durability"`
	Battery    int `json:"battery,omitempty"`
}

// Product is the canonical product shape owned by this system. Identifiers
// are synthesized per result set and are not stable across requests.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	URL         string   `json:"url"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Specs       Specs    `json:"specs"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Savings     float64  `json:"savings"`
}

// TradeOffPair is a matched premium/smart comparison unit. Invariants:
// Smart.Price <= Premium.Price, and Savings equals the rounded difference.
type TradeOffPair struct {
	Premium     Product `json:"premium"`
	Smart       Product `json:"smart"`
	MatchReason string  `json:"matchReason"`
	Savings     float64 `json:"savings"`
}

// RecommendationItem is a normalized recommendation entry. Items are
// reconstructed fresh on every normalization call; no identity persists
// across calls. Extra carries backend fields that have no canonical slot.
type RecommendationItem struct {
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	Description string         `json:"description,omitempty"`
	Score       float64        `json:"score,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}
