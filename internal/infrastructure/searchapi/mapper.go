package searchapi

import (
	"encoding/json"

	"github.com/vondralink/backend/internal/domain"
)

// decodeCandidates converts a raw search response body into candidate
// records. The backend usually returns a bare array, but some deployments
// wrap it in a results envelope; both shapes are accepted. Individual field
// type mismatches are absorbed by LooseString decoding.
func decodeCandidates(body json.RawMessage) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	if err := json.Unmarshal(body, &candidates); err == nil {
		return candidates, nil
	}

	var wrapped struct {
		Results []domain.Candidate `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Results, nil
}
