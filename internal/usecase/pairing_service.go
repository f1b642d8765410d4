package usecase

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vondralink/backend/internal/domain"
)

// Display defaults applied when a candidate omits a field.
const (
	placeholderImage   = "https://picsum.photos/400/300"
	placeholderLink    = "#"
	defaultPremiumName = "Premium Product"
	defaultSmartName   = "Smart Choice"
	defaultCategory    = "Electronics"
)

// Placeholder spec values per role. The smart role advertises higher
// durability/battery than premium: a presentation convention inherited from
// the product catalog, not a measured fact.
const (
	premiumDurability = 85
	premiumBattery    = 25
	smartDurability   = 90
	smartBattery      = 40
)

const pairMatchReason = "Both products match your request. The smart option maximizes remaining budget while keeping similar relevance."

type pairRole string

const (
	rolePremium pairRole = "premium"
	roleSmart   pairRole = "smart"
)

// PairingService converts an ordered sequence of raw candidate records into
// ordered premium/smart trade-off pairs.
type PairingService struct {
	logger *log.Logger
}

// NewPairingService creates a new pairing service
func NewPairingService(logger *log.Logger) *PairingService {
	return &PairingService{logger: logger}
}

// BuildPairs walks the candidates two at a time in order; a trailing
// unpaired candidate is dropped. A window is skipped when either price
// parses to zero, since a pair requires two priced candidates. When a
// budget ceiling is supplied, pairs whose smart member exceeds it are
// discarded entirely. Fewer than two candidates yields an empty slice,
// never an error.
func (s *PairingService) BuildPairs(candidates []domain.Candidate, budget *float64) []domain.TradeOffPair {
	pairs := []domain.TradeOffPair{}

	if len(candidates) < 2 {
		s.logger.Debug("Not enough candidates to build pairs", "candidates", len(candidates))
		return pairs
	}

	for i := 0; i+1 < len(candidates); i += 2 {
		a := candidates[i]
		b := candidates[i+1]

		priceA := ParsePrice(string(a.Price))
		priceB := ParsePrice(string(b.Price))

		if priceA == 0 || priceB == 0 {
			s.logger.Debug("Skipping window with unpriced candidate", "index", i)
			continue
		}

		// Premium = higher price, smart = lower. Ties resolve positionally:
		// the first-indexed candidate stays premium.
		premium, smart := a, b
		premiumPrice, smartPrice := priceA, priceB
		if priceA < priceB {
			premium, smart = b, a
			premiumPrice, smartPrice = priceB, priceA
		}

		if budget != nil && smartPrice > *budget {
			s.logger.Debug("Discarding pair over budget", "index", i, "smart_price", smartPrice)
			continue
		}

		savings := math.Round(premiumPrice - smartPrice)
		pairIndex := i / 2

		pairs = append(pairs, domain.TradeOffPair{
			Premium:     s.buildProduct(premium, premiumPrice, pairIndex, rolePremium, budget, savings),
			Smart:       s.buildProduct(smart, smartPrice, pairIndex, roleSmart, budget, savings),
			MatchReason: pairMatchReason,
			Savings:     savings,
		})
	}

	s.logger.Info("Built trade-off pairs", "candidates", len(candidates), "pairs", len(pairs))
	return pairs
}

// buildProduct normalizes one candidate into a canonical Product under the
// given role. Every field has a typed default; nothing here can fail.
func (s *PairingService) buildProduct(c domain.Candidate, price float64, pairIndex int, role pairRole, budget *float64, savings float64) domain.Product {
	score := ParseScore(string(c.Score))

	p := domain.Product{
		ID:       fmt.Sprintf("%c-%d", role[0], pairIndex),
		Name:     c.Title,
		Brand:    ExtractBrand(c.Title),
		Price:    price,
		Image:    c.Image,
		URL:      c.Link,
		Rating:   score * 5,
		Category: defaultCategory,
		Savings:  savings,
		Specs: domain.Specs{
			Quality: int(math.Round(score * 100)),
		},
	}

	if p.Image == "" {
		p.Image = placeholderImage
	}
	if p.URL == "" {
		p.URL = placeholderLink
	}

	left, hasBudget := BudgetLeft(price, budget)

	switch role {
	case rolePremium:
		if p.Name == "" {
			p.Name = defaultPremiumName
		}
		p.Features = []string{"Premium Quality", "Advanced Features"}
		p.Tags = []string{"Premium"}
		p.Specs.Durability = premiumDurability
		p.Specs.Battery = premiumBattery
		if hasBudget {
			p.Description = fmt.Sprintf("Premium option. Leaves $%.0f of your budget.", left)
		} else {
			p.Description = "Premium option with high-end features."
		}
	case roleSmart:
		if p.Name == "" {
			p.Name = defaultSmartName
		}
		p.Features = []string{"Great Value", "Reliable Performance"}
		p.Tags = []string{"Best Value"}
		p.Specs.Durability = smartDurability
		p.Specs.Battery = smartBattery
		if hasBudget {
			p.Description = fmt.Sprintf("Best value. Leaves $%.0f of your budget.", left)
		} else {
			p.Description = "Best value option."
		}
	}

	return p
}
