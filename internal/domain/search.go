package domain

// Search modes sent to the backend. Image intents carry the encoded image
// in the query field.
const (
	ModeText  = "text"
	ModeImage = "image"
)

// SearchIntent captures what the user asked for. Budget and Image are
// optional; a nil Budget means no ceiling was specified.
type SearchIntent struct {
	Query  string
	Budget *float64
	Image  []byte
	UserID string
}

// SearchQuery is the wire request sent to the search backend. UseMMR and
// Lambda are fixed diversity constants in this system, not user-tunable.
type SearchQuery struct {
	Query       string   `json:"query"`
	Mode        string   `json:"mode"`
	Limit       int      `json:"limit"`
	UseMMR      bool     `json:"use_mmr"`
	Lambda      float64  `json:"lambda"`
	BudgetLimit *float64 `json:"budget_limit,omitempty"`
}

// PersonalizedRequest is the wire request for profile-driven
// recommendations. Activity is attached only when IncludeActivity is set
// and the user has recorded history.
type PersonalizedRequest struct {
	UserID          string           `json:"user_id"`
	Profile         UserProfile      `json:"profile"`
	IncludeActivity bool             `json:"include_activity"`
	Activity        *ActivityContext `json:"activity,omitempty"`
}
