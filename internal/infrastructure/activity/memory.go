package activity

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vondralink/backend/internal/domain"
)

const (
	defaultMaxUsers   = 1000
	defaultMaxHistory = 100

	recentSearchLimit  = 10
	recentProductLimit = 20
	topProductLimit    = 10
)

// userActivity holds the bounded history for a single user.
type userActivity struct {
	searches      []domain.SearchEntry
	views         []domain.ProductView
	interactions  map[string]int
	totalSearches int
	totalViews    int
}

// MemoryStore is an in-memory ActivityRepository. Users are tracked in an
// LRU so the store stays bounded under anonymous traffic; per-user histories
// are capped at maxHistory entries, oldest first out.
type MemoryStore struct {
	mu         sync.Mutex
	users      *lru.Cache[string, *userActivity]
	maxHistory int
	logger     *log.Logger
}

// NewMemoryStore creates a new in-memory activity store. Non-positive limits
// fall back to defaults.
func NewMemoryStore(maxUsers, maxHistory int, logger *log.Logger) (*MemoryStore, error) {
	if maxUsers <= 0 {
		maxUsers = defaultMaxUsers
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}

	users, err := lru.New[string, *userActivity](maxUsers)
	if err != nil {
		return nil, err
	}

	return &MemoryStore{
		users:      users,
		maxHistory: maxHistory,
		logger:     logger,
	}, nil
}

// AddSearch records one search for the user.
func (s *MemoryStore) AddSearch(_ context.Context, userID string, entry domain.SearchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getOrCreate(userID)
	u.searches = append(u.searches, entry)
	if len(u.searches) > s.maxHistory {
		u.searches = u.searches[len(u.searches)-s.maxHistory:]
	}
	u.totalSearches++

	return nil
}

// AddViews records a batch of product views for the user. Each view also
// bumps the product's interaction count.
func (s *MemoryStore) AddViews(_ context.Context, userID string, views []domain.ProductView) error {
	if len(views) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getOrCreate(userID)
	for _, v := range views {
		u.views = append(u.views, v)
		if v.Name != "" {
			u.interactions[v.Name]++
		}
	}
	if len(u.views) > s.maxHistory {
		u.views = u.views[len(u.views)-s.maxHistory:]
	}
	u.totalViews += len(views)

	return nil
}

// Context builds the activity summary for the user. Unknown users get
// ErrNoActivity so callers can omit the context rather than send an empty one.
func (s *MemoryStore) Context(_ context.Context, userID string) (domain.ActivityContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.Get(userID)
	if !ok {
		return domain.ActivityContext{}, domain.ErrNoActivity
	}

	ctx := domain.ActivityContext{
		RecentSearches: recentQueries(u.searches, recentSearchLimit),
		RecentProducts: lastViews(u.views, recentProductLimit),
		TopProducts:    topProducts(u.interactions, topProductLimit),
		TotalSearches:  u.totalSearches,
		TotalViews:     u.totalViews,
	}

	return ctx, nil
}

// Clear drops all recorded activity for the user.
func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users.Remove(userID)
	return nil
}

// getOrCreate must be called with s.mu held.
func (s *MemoryStore) getOrCreate(userID string) *userActivity {
	if u, ok := s.users.Get(userID); ok {
		return u
	}

	u := &userActivity{interactions: make(map[string]int)}
	if evicted := s.users.Add(userID, u); evicted {
		s.logger.Debug("Evicted least recently active user")
	}
	return u
}

// recentQueries returns the newest-first queries of the last n searches.
func recentQueries(searches []domain.SearchEntry, n int) []string {
	queries := make([]string, 0, n)
	for i := len(searches) - 1; i >= 0 && len(queries) < n; i-- {
		queries = append(queries, searches[i].Query)
	}
	return queries
}

// lastViews returns the newest-first slice of the last n views.
func lastViews(views []domain.ProductView, n int) []domain.ProductView {
	recent := make([]domain.ProductView, 0, n)
	for i := len(views) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, views[i])
	}
	return recent
}

// topProducts ranks products by interaction count, ties broken by name so
// the ordering is stable.
func topProducts(interactions map[string]int, n int) []domain.TopProduct {
	ranked := make([]domain.TopProduct, 0, len(interactions))
	for name, count := range interactions {
		ranked = append(ranked, domain.TopProduct{Name: name, InteractionCount: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].InteractionCount != ranked[j].InteractionCount {
			return ranked[i].InteractionCount > ranked[j].InteractionCount
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
