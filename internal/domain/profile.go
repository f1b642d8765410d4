package domain

import "time"

// QuestionnaireAnswers holds the raw answer tags collected by the onboarding
// questionnaire. Values are free strings; unrecognized tags map to "Unknown".
type QuestionnaireAnswers struct {
	StyleFocus string `json:"styleFocus"`
	Era        string `json:"era"`
	Philosophy string `json:"philosophy"`
	Treat      string `json:"treat"`
	Mode       string `json:"mode"`
	Aesthetic  string `json:"aesthetic"`
	Sunday     string `json:"sunday"`
}

// Demographics is the demographic slice of a user profile.
type Demographics struct {
	Gender     string `json:"gender"`
	Generation string `json:"generation"`
}

// WealthSignals describes spending behavior derived from the questionnaire.
type WealthSignals struct {
	ShoppingPhilosophy string `json:"shopping_philosophy"`
	TreatPreference    string `json:"treat_preference"`
}

// Lifestyle describes the user's archetype, aesthetic vibe, and hobbies.
type Lifestyle struct {
	Archetype string   `json:"archetype"`
	Vibe      string   `json:"vibe"`
	Hobbies   []string `json:"hobbies"`
}

// UserProfile is the transformed profile sent with personalized
// recommendation requests.
type UserProfile struct {
	Demographics  Demographics  `json:"demographics"`
	WealthSignals WealthSignals `json:"wealth_signals"`
	RichnessTier  string        `json:"derived_richness_tier"`
	Lifestyle     Lifestyle     `json:"lifestyle"`
}

// SearchEntry records one search a user performed.
type SearchEntry struct {
	Query     string    `json:"query"`
	Mode      string    `json:"mode"`
	Budget    *float64  `json:"budget,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductView records one product a user looked at.
type ProductView struct {
	Name      string    `json:"name"`
	Brand     string    `json:"brand,omitempty"`
	Price     string    `json:"price,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TopProduct is a product ranked by how often the user interacted with it.
type TopProduct struct {
	Name             string `json:"name"`
	InteractionCount int    `json:"interaction_count"`
}

// ActivityContext is the complete recorded history for one user, attached
// to personalized recommendation requests.
type ActivityContext struct {
	RecentSearches []string      `json:"recent_searches"`
	RecentProducts []ProductView `json:"recent_products"`
	TopProducts    []TopProduct  `json:"top_products"`
	TotalSearches  int           `json:"total_searches"`
	TotalViews     int           `json:"total_views"`
}
