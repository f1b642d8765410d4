package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vondralink/backend/internal/domain"
)

const (
	defaultRecommendationTitle = "Recommended Product"
	untitledRecommendation     = "Untitled"

	// Title extraction bounds when the content blob has no early sentence break
	maxTitleLength      = 150
	truncatedTitleChars = 100
)

// keys consumed by the per-element normalization rule; everything else
// passes through in Extra.
var consumedRecommendationKeys = map[string]bool{
	"title": true, "name": true,
	"url": true, "link": true, "metadata": true,
	"description": true, "pageContent": true,
	"score": true, "document": true,
}

// RecommendationService fetches recommendation payloads from the backend and
// flattens their structurally variable shapes into uniform items.
type RecommendationService struct {
	backend  domain.SearchBackend
	activity domain.ActivityRepository
	logger   *log.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(backend domain.SearchBackend, activity domain.ActivityRepository, logger *log.Logger) *RecommendationService {
	return &RecommendationService{
		backend:  backend,
		activity: activity,
		logger:   logger,
	}
}

// Recommendations requests free-text recommendations and normalizes the
// response. Transport failures degrade to an empty slice, never an error.
func (s *RecommendationService) Recommendations(ctx context.Context, description string) []domain.RecommendationItem {
	raw, err := s.backend.Recommendations(ctx, description)
	if err != nil {
		s.logger.Error("Recommendations request failed", "error", err)
		return []domain.RecommendationItem{}
	}
	return NormalizeRecommendations(raw)
}

// Personalized requests profile-driven recommendations for a user. The raw
// questionnaire answers are transformed into the canonical profile, recorded
// activity is attached when requested, and the variable-shape response is
// normalized. Failures degrade to an empty slice.
func (s *RecommendationService) Personalized(ctx context.Context, userID string, answers domain.QuestionnaireAnswers, includeActivity bool) []domain.RecommendationItem {
	req := domain.PersonalizedRequest{
		UserID:          userID,
		Profile:         TransformProfile(answers),
		IncludeActivity: includeActivity,
	}

	if includeActivity && s.activity != nil {
		activityCtx, err := s.activity.Context(ctx, userID)
		if err == nil {
			req.Activity = &activityCtx
		} else {
			s.logger.Debug("No activity context for user", "user_id", userID, "error", err)
		}
	}

	raw, err := s.backend.PersonalizedRecommendations(ctx, req)
	if err != nil {
		s.logger.Error("Personalized recommendations request failed", "user_id", userID, "error", err)
		return []domain.RecommendationItem{}
	}
	return NormalizeRecommendations(raw)
}

// NormalizeRecommendations flattens a structurally variable backend payload
// into a uniform ordered item list. Recognized shapes: a JSON array, a record
// with a nested "items" array, or a single record. Null, primitives, and
// malformed JSON yield an empty slice. This function never errors.
func NormalizeRecommendations(raw json.RawMessage) []domain.RecommendationItem {
	if len(raw) == 0 {
		return []domain.RecommendationItem{}
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return []domain.RecommendationItem{}
	}

	return normalizePayload(payload)
}

func normalizePayload(payload any) []domain.RecommendationItem {
	switch v := payload.(type) {
	case []any:
		items := make([]domain.RecommendationItem, 0, len(v))
		for _, element := range v {
			items = append(items, normalizeElement(element))
		}
		return items
	case map[string]any:
		if nested, ok := v["items"].([]any); ok {
			return normalizePayload(nested)
		}
		return []domain.RecommendationItem{normalizeElement(v)}
	default:
		return []domain.RecommendationItem{}
	}
}

// normalizeElement applies the per-element rule: document-wrapped results
// derive their title from the content blob, everything else falls back to
// reading title/url/description-like fields directly.
func normalizeElement(element any) domain.RecommendationItem {
	m, ok := element.(map[string]any)
	if !ok {
		return domain.RecommendationItem{Title: untitledRecommendation}
	}

	if doc, ok := m["document"].(map[string]any); ok {
		content, _ := doc["pageContent"].(string)
		metadata, _ := doc["metadata"].(string)
		return domain.RecommendationItem{
			Title:       extractTitleFromContent(content),
			URL:         metadata,
			Description: content,
			Score:       numberField(m, "score"),
		}
	}

	item := domain.RecommendationItem{
		Title:       stringField(m, "title", "name"),
		URL:         stringField(m, "url", "link", "metadata"),
		Description: stringField(m, "description", "pageContent"),
		Score:       numberField(m, "score"),
	}
	if item.Title == "" {
		item.Title = untitledRecommendation
	}

	for key, value := range m {
		if consumedRecommendationKeys[key] {
			continue
		}
		if item.Extra == nil {
			item.Extra = make(map[string]any)
		}
		item.Extra[key] = value
	}

	return item
}

// extractTitleFromContent takes the text before the first sentence
// terminator in the content blob, falling back to a truncated prefix with an
// ellipsis when no terminator appears early enough.
func extractTitleFromContent(content string) string {
	if content == "" {
		return defaultRecommendationTitle
	}

	first, _, _ := strings.Cut(content, ".")
	if first != "" && len(first) < maxTitleLength {
		return strings.TrimSpace(first)
	}

	if len(content) > truncatedTitleChars {
		content = content[:truncatedTitleChars]
	}
	return strings.TrimSpace(content) + "..."
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numberField(m map[string]any, key string) float64 {
	if n, ok := m[key].(float64); ok {
		return n
	}
	return 0
}

// RecommendationToProduct converts a normalized recommendation item into the
// canonical Product shape, defaulting every missing field.
func RecommendationToProduct(item domain.RecommendationItem, index int) domain.Product {
	p := domain.Product{
		ID:          item.URL,
		Name:        item.Title,
		Brand:       UnknownBrand,
		Image:       placeholderImage,
		URL:         item.URL,
		Rating:      item.Score * 5,
		Description: item.Description,
		Features:    []string{"Recommended"},
		Tags:        []string{"Recommended"},
		Category:    "General",
		Specs: domain.Specs{
			Quality:    80,
			Durability: 80,
		},
	}

	if p.ID == "" {
		p.ID = fmt.Sprintf("rec-%d", index)
	}
	if p.Name == "" {
		p.Name = defaultRecommendationTitle
	}
	if p.URL == "" {
		p.URL = placeholderLink
	}
	if p.Description == "" {
		p.Description = "Recommended for you."
	}

	if brand, ok := item.Extra["brand"].(string); ok && brand != "" {
		p.Brand = brand
	}
	switch price := item.Extra["price"].(type) {
	case float64:
		p.Price = price
	case string:
		p.Price = ParsePrice(price)
	}
	if image, ok := item.Extra["image"].(string); ok && image != "" {
		p.Image = image
	}
	if category, ok := item.Extra["category"].(string); ok && category != "" {
		p.Category = category
	}

	return p
}
