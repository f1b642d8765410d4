package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Package-level compiled regex pattern for performance
var priceNoiseRegex = regexp.MustCompile(`[^0-9.\-]`)

// UnknownBrand is the label used when no brand can be derived from a title.
const UnknownBrand = "Unknown"

// ParsePrice converts a heterogeneous price representation into a canonical
// amount. Accepts currency-formatted strings ("$1,299.99"), bare numbers, or
// garbage. Any parse failure yields 0 so that a single malformed record never
// aborts processing of an entire result set.
func ParsePrice(input string) float64 {
	cleaned := priceNoiseRegex.ReplaceAllString(strings.TrimSpace(input), "")
	if cleaned == "" {
		return 0
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ParseScore converts a backend relevance score (string or stringified
// number, expected 0-1) into a float. Malformed input defaults to 0.
func ParseScore(input string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0
	}
	return score
}

// ExtractBrand derives a short brand label from a free-text title by taking
// the first two whitespace-separated tokens. This is a heuristic, not a
// guarantee: titles that do not lead with a brand name will misclassify.
func ExtractBrand(title string) string {
	words := strings.Fields(title)
	switch len(words) {
	case 0:
		return UnknownBrand
	case 1:
		return words[0]
	default:
		return words[0] + " " + words[1]
	}
}

// BudgetLeft computes the remaining headroom under a budget ceiling, rounded
// to the nearest whole currency unit and floored at zero. The second return
// is false when no ceiling was supplied; zero is a valid remaining amount
// and must stay distinguishable from "no budget was set". Callers that need
// to detect over-budget must compare price to budget directly.
func BudgetLeft(price float64, budget *float64) (float64, bool) {
	if budget == nil {
		return 0, false
	}
	return math.Max(0, math.Round(*budget-price)), true
}
