package domain

import (
	"context"
	"encoding/json"
)

// SearchBackend defines the interface for the external search/recommendation API
type SearchBackend interface {
	Search(ctx context.Context, query SearchQuery) ([]Candidate, error)
	Recommendations(ctx context.Context, description string) (json.RawMessage, error)
	PersonalizedRecommendations(ctx context.Context, req PersonalizedRequest) (json.RawMessage, error)
}

// IntentAnalyzer defines the interface for the generative-AI alternate backend,
// which returns structured comparison pairs directly.
type IntentAnalyzer interface {
	AnalyzeIntent(ctx context.Context, query string, budget *float64, imageData string) ([]TradeOffPair, error)
}

// ActivityRepository defines the interface for per-user activity tracking
type ActivityRepository interface {
	AddSearch(ctx context.Context, userID string, entry SearchEntry) error
	AddViews(ctx context.Context, userID string, views []ProductView) error
	Context(ctx context.Context, userID string) (ActivityContext, error)
	Clear(ctx context.Context, userID string) error
}
