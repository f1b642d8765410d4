package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vondralink/backend/internal/domain"
	"github.com/vondralink/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search          *usecase.SearchService
	recommendations *usecase.RecommendationService
	activity        domain.ActivityRepository
	logger          *log.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	recommendations *usecase.RecommendationService,
	activity domain.ActivityRepository,
	logger *log.Logger,
) *Handler {
	return &Handler{
		search:          search,
		recommendations: recommendations,
		activity:        activity,
		logger:          logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "vondralink-backend",
		"version": "1.0.0",
	})
}

type searchRequest struct {
	Query       string   `json:"query"`
	BudgetLimit *float64 `json:"budget_limit"`
	Image       string   `json:"image"`
	UserID      string   `json:"user_id"`
}

// Search handles product search requests and returns comparison pairs
func (h *Handler) Search(c *gin.Context) {
	intent, ok := h.bindIntent(c)
	if !ok {
		return
	}

	pairs := h.search.Search(c.Request.Context(), intent)

	mode := domain.ModeText
	if len(intent.Image) > 0 {
		mode = domain.ModeImage
	}
	searchesTotal.WithLabelValues(mode, "search").Inc()
	pairsEmitted.Add(float64(len(pairs)))

	c.JSON(http.StatusOK, gin.H{
		"pairs":   pairs,
		"count":   len(pairs),
		"user_id": intent.UserID,
	})
}

// Analyze handles the generative-AI search variant
func (h *Handler) Analyze(c *gin.Context) {
	intent, ok := h.bindIntent(c)
	if !ok {
		return
	}

	pairs := h.search.Analyze(c.Request.Context(), intent)

	searchesTotal.WithLabelValues(domain.ModeText, "analyze").Inc()
	pairsEmitted.Add(float64(len(pairs)))

	c.JSON(http.StatusOK, gin.H{
		"pairs":   pairs,
		"count":   len(pairs),
		"user_id": intent.UserID,
	})
}

// bindIntent decodes the shared search request body. It writes the error
// response itself and reports success through the second return value.
func (h *Handler) bindIntent(c *gin.Context) (domain.SearchIntent, bool) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return domain.SearchIntent{}, false
	}

	if req.Query == "" && req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either query or image is required"})
		return domain.SearchIntent{}, false
	}

	image, err := decodeImagePayload(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image encoding"})
		return domain.SearchIntent{}, false
	}

	return domain.SearchIntent{
		Query:  req.Query,
		Budget: req.BudgetLimit,
		Image:  image,
		UserID: ensureUserID(req.UserID),
	}, true
}

// decodeImagePayload accepts either a raw base64 string or a full data URI.
func decodeImagePayload(payload string) ([]byte, error) {
	if payload == "" {
		return nil, nil
	}
	if _, encoded, found := strings.Cut(payload, ","); found && strings.HasPrefix(payload, "data:") {
		payload = encoded
	}
	return base64.StdEncoding.DecodeString(payload)
}

// ensureUserID mints an anonymous id when the client did not supply one, so
// activity tracking works for first-time visitors.
func ensureUserID(userID string) string {
	if userID != "" {
		return userID
	}
	return uuid.NewString()
}

type recommendationsRequest struct {
	Description string `json:"description"`
}

// Recommendations returns generic recommendations for a product description
func (h *Handler) Recommendations(c *gin.Context) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required"})
		return
	}

	items := h.recommendations.Recommendations(c.Request.Context(), req.Description)
	recommendationsServed.WithLabelValues("general").Add(float64(len(items)))

	c.JSON(http.StatusOK, gin.H{
		"recommendations": items,
		"count":           len(items),
	})
}

type personalizedRequest struct {
	UserID          string                      `json:"user_id"`
	Answers         domain.QuestionnaireAnswers `json:"answers"`
	IncludeActivity bool                        `json:"include_activity"`
}

// PersonalizedRecommendations returns recommendations tailored to a user's
// questionnaire profile and, optionally, their recorded activity
func (h *Handler) PersonalizedRecommendations(c *gin.Context) {
	var req personalizedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := ensureUserID(req.UserID)
	items := h.recommendations.Personalized(c.Request.Context(), userID, req.Answers, req.IncludeActivity)
	recommendationsServed.WithLabelValues("personalized").Add(float64(len(items)))

	c.JSON(http.StatusOK, gin.H{
		"recommendations": items,
		"count":           len(items),
		"user_id":         userID,
	})
}

type recordSearchRequest struct {
	UserID string   `json:"user_id"`
	Query  string   `json:"query"`
	Mode   string   `json:"mode"`
	Budget *float64 `json:"budget"`
}

// RecordSearch stores one search in the user's activity history
func (h *Handler) RecordSearch(c *gin.Context) {
	var req recordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	if req.Mode == "" {
		req.Mode = domain.ModeText
	}

	userID := ensureUserID(req.UserID)
	entry := domain.SearchEntry{
		Query:     req.Query,
		Mode:      req.Mode,
		Budget:    req.Budget,
		Timestamp: time.Now().UTC(),
	}

	if err := h.activity.AddSearch(c.Request.Context(), userID, entry); err != nil {
		h.logger.Error("Failed to record search", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded", "user_id": userID})
}

type recordViewsRequest struct {
	UserID string               `json:"user_id"`
	Views  []domain.ProductView `json:"views"`
}

// RecordViews stores a batch of product views in the user's activity history
func (h *Handler) RecordViews(c *gin.Context) {
	var req recordViewsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Views) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one view is required"})
		return
	}

	now := time.Now().UTC()
	for i := range req.Views {
		if req.Views[i].Timestamp.IsZero() {
			req.Views[i].Timestamp = now
		}
	}

	userID := ensureUserID(req.UserID)
	if err := h.activity.AddViews(c.Request.Context(), userID, req.Views); err != nil {
		h.logger.Error("Failed to record views", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record views"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded", "user_id": userID, "count": len(req.Views)})
}

// GetActivity returns the recorded activity summary for a user
func (h *Handler) GetActivity(c *gin.Context) {
	userID := c.Param("userId")

	activity, err := h.activity.Context(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActivity) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No activity recorded for user"})
			return
		}
		h.logger.Error("Failed to load activity", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "activity": activity})
}

// ClearActivity drops all recorded activity for a user
func (h *Handler) ClearActivity(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.activity.Clear(c.Request.Context(), userID); err != nil {
		h.logger.Error("Failed to clear activity", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared", "user_id": userID})
}
