package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/vondralink/backend/internal/domain"
)

const systemPrompt = `You are an expert shopping consultant. The user is looking
for high-value alternatives to premium lifestyle products.

Return a JSON object with a "pairs" array. Each pair must include:
1. A "premium" product that represents the high-end version.
2. A "smart" product that is a significantly cheaper but high-quality substitute.
3. The smart product should match key specs like battery life or screen quality if applicable.
4. A realistic URL for each, from major retailers or official sites.
5. A "matchReason" explaining exactly why the smart version is a good
   substitute (e.g. "Same panel source", "Same sensor as last year's pro model").

Each product object has: name, brand, price (number), rating (0-5), url, description,
features (string array), specs (object with quality, durability, and optional
battery, all numbers). Each pair also has matchReason (string) and savings (number).`

// aiProduct is the wire shape the model is asked to produce per product.
type aiProduct struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Specs       struct {
		Quality    int `json:"quality"`
		Durability int `json:"durability"`
		Battery    int `json:"battery,omitempty"`
	} `json:"specs"`
}

type aiPair struct {
	Premium     aiProduct `json:"premium"`
	Smart       aiProduct `json:"smart"`
	MatchReason string    `json:"matchReason"`
	Savings     float64   `json:"savings"`
}

type aiResponse struct {
	Pairs []aiPair `json:"pairs"`
}

// Analyzer asks an LLM for structured comparison pairs directly, as an
// alternate backend honoring the same contract as the pairing engine.
type Analyzer struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// NewAnalyzer creates a new intent analyzer. An empty baseURL uses the
// default OpenAI endpoint; setting it allows OpenAI-compatible providers.
func NewAnalyzer(apiKey, baseURL, model string, logger *log.Logger) *Analyzer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Analyzer{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger,
	}
}

// AnalyzeIntent sends the user's intent to the model and reshapes its output
// into canonical trade-off pairs with synthesized ids and placeholder
// imagery. Malformed model output is repaired before decoding; anything
// beyond repair is reported as ErrAnalyzerFailure.
func (a *Analyzer) AnalyzeIntent(ctx context.Context, query string, budget *float64, imageData string) ([]domain.TradeOffPair, error) {
	userPrompt := fmt.Sprintf("User request: %q", query)
	if budget != nil {
		userPrompt += fmt.Sprintf("\nMaximum budget: $%.0f", *budget)
	}
	if imageData != "" {
		userPrompt += "\nImage provided: use image features to identify the premium item."
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}

	if imageData != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: userPrompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageData}},
			},
		})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: userPrompt,
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalyzerFailure, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrAnalyzerFailure)
	}

	pairs, err := a.decodePairs(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Intent analysis produced pairs", "query", query, "pairs", len(pairs))
	return pairs, nil
}

// decodePairs parses the model output, repairing common JSON defects
// (markdown fences, trailing commas) first.
func (a *Analyzer) decodePairs(content string) ([]domain.TradeOffPair, error) {
	content = strings.TrimSpace(content)

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		a.logger.Debug("JSON repair failed, trying raw content", "error", err)
		repaired = content
	}

	var decoded aiResponse
	if err := json.Unmarshal([]byte(repaired), &decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding completion: %v", domain.ErrAnalyzerFailure, err)
	}

	pairs := make([]domain.TradeOffPair, 0, len(decoded.Pairs))
	for i, p := range decoded.Pairs {
		premium := toProduct(p.Premium)
		smart := toProduct(p.Smart)

		// The model occasionally inverts roles; enforce the price invariant
		if smart.Price > premium.Price {
			premium, smart = smart, premium
		}

		premium.ID = fmt.Sprintf("p-%d", i)
		premium.Image = fmt.Sprintf("https://picsum.photos/seed/prem-%d/400/300", i)
		smart.ID = fmt.Sprintf("s-%d", i)
		smart.Image = fmt.Sprintf("https://picsum.photos/seed/smart-%d/400/300", i)

		savings := math.Round(premium.Price - smart.Price)
		premium.Savings = savings
		smart.Savings = savings

		pairs = append(pairs, domain.TradeOffPair{
			Premium:     premium,
			Smart:       smart,
			MatchReason: p.MatchReason,
			Savings:     savings,
		})
	}

	return pairs, nil
}

func toProduct(p aiProduct) domain.Product {
	return domain.Product{
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Rating:      p.Rating,
		URL:         p.URL,
		Description: p.Description,
		Features:    p.Features,
		Specs: domain.Specs{
			Quality:    p.Specs.Quality,
			Durability: p.Specs.Durability,
			Battery:    p.Specs.Battery,
		},
	}
}
