package usecase

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vondralink/backend/internal/domain"
)

// SearchPhase is the lifecycle phase of the shared search state.
type SearchPhase int

const (
	PhaseIdle SearchPhase = iota
	PhaseInFlight
	PhaseResolved
)

// String returns a readable phase name for logging.
func (p SearchPhase) String() string {
	switch p {
	case PhaseInFlight:
		return "in_flight"
	case PhaseResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// SearchServiceConfig holds the fixed request parameters sent to the search
// backend. The diversity settings are constants of this system, passed in at
// construction so tests can observe them rather than read from globals.
type SearchServiceConfig struct {
	Limit  int
	UseMMR bool
	Lambda float64
}

// SearchService is the orchestration boundary: it serializes user intent
// into a backend request, invokes the backend, and feeds the raw response
// through the pairing engine. It owns the single mutable search-state
// record; a response belonging to a superseded request never overwrites the
// state written by a newer one.
type SearchService struct {
	backend  domain.SearchBackend
	analyzer domain.IntentAnalyzer
	pairing  *PairingService
	activity domain.ActivityRepository
	logger   *log.Logger
	config   SearchServiceConfig

	mu         sync.Mutex
	phase      SearchPhase
	generation uint64
	results    []domain.TradeOffPair
}

// NewSearchService creates a new search orchestrator with dependencies
func NewSearchService(
	backend domain.SearchBackend,
	analyzer domain.IntentAnalyzer,
	pairing *PairingService,
	activity domain.ActivityRepository,
	config SearchServiceConfig,
	logger *log.Logger,
) *SearchService {
	if config.Limit <= 0 {
		config.Limit = 12
	}
	if config.Lambda <= 0 {
		config.Lambda = 0.6
	}

	return &SearchService{
		backend:  backend,
		analyzer: analyzer,
		pairing:  pairing,
		activity: activity,
		logger:   logger,
		config:   config,
	}
}

// Search runs one search request end to end. Transport failures and
// non-success responses degrade to an empty result slice; this method never
// returns an error for documented inputs.
func (s *SearchService) Search(ctx context.Context, intent domain.SearchIntent) []domain.TradeOffPair {
	generation := s.begin()

	query := s.buildQuery(intent)
	s.recordSearch(ctx, intent, query.Mode)

	candidates, err := s.backend.Search(ctx, query)
	if err != nil {
		s.logger.Error("Search backend failed", "query", intent.Query, "error", err)
		s.complete(generation, []domain.TradeOffPair{})
		return []domain.TradeOffPair{}
	}

	pairs := s.pairing.BuildPairs(candidates, intent.Budget)
	s.complete(generation, pairs)
	return pairs
}

// Analyze runs the generative-AI alternate path, which returns structured
// pairs directly. Same degradation policy as Search.
func (s *SearchService) Analyze(ctx context.Context, intent domain.SearchIntent) []domain.TradeOffPair {
	if s.analyzer == nil {
		s.logger.Warn("Intent analyzer not configured")
		return []domain.TradeOffPair{}
	}

	generation := s.begin()

	var imageData string
	if len(intent.Image) > 0 {
		imageData = encodeImage(intent.Image)
	}
	s.recordSearch(ctx, intent, domain.ModeText)

	pairs, err := s.analyzer.AnalyzeIntent(ctx, intent.Query, intent.Budget, imageData)
	if err != nil {
		s.logger.Error("Intent analysis failed", "query", intent.Query, "error", err)
		s.complete(generation, []domain.TradeOffPair{})
		return []domain.TradeOffPair{}
	}

	s.complete(generation, pairs)
	return pairs
}

// State returns the current phase and the last committed result set.
func (s *SearchService) State() (SearchPhase, []domain.TradeOffPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase, s.results
}

// buildQuery serializes intent into the fixed backend request shape. An
// image takes priority over query text and flips the mode flag.
func (s *SearchService) buildQuery(intent domain.SearchIntent) domain.SearchQuery {
	query := domain.SearchQuery{
		Query:       intent.Query,
		Mode:        domain.ModeText,
		Limit:       s.config.Limit,
		UseMMR:      s.config.UseMMR,
		Lambda:      s.config.Lambda,
		BudgetLimit: intent.Budget,
	}

	if len(intent.Image) > 0 {
		query.Query = encodeImage(intent.Image)
		query.Mode = domain.ModeImage
	}

	return query
}

// recordSearch appends the search to the user's activity history. Recording
// is best-effort and never blocks the search itself.
func (s *SearchService) recordSearch(ctx context.Context, intent domain.SearchIntent, mode string) {
	if s.activity == nil || intent.UserID == "" {
		return
	}

	entry := domain.SearchEntry{
		Query:     intent.Query,
		Mode:      mode,
		Budget:    intent.Budget,
		Timestamp: time.Now(),
	}
	if err := s.activity.AddSearch(ctx, intent.UserID, entry); err != nil {
		s.logger.Debug("Failed to record search activity", "user_id", intent.UserID, "error", err)
	}
}

// begin transitions Idle|Resolved -> InFlight and hands out a generation
// token. A later begin supersedes every earlier token.
func (s *SearchService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.phase = PhaseInFlight
	return s.generation
}

// complete transitions InFlight -> Resolved for the current generation. A
// late-arriving response from a superseded request is discarded so the
// newest request always wins.
func (s *SearchService) complete(generation uint64, results []domain.TradeOffPair) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debug("Discarding superseded search result", "generation", generation, "current", s.generation)
		return false
	}

	s.phase = PhaseResolved
	s.results = results
	return true
}

// encodeImage produces the transportable data-URI form of an image payload.
func encodeImage(image []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
}
