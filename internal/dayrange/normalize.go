package dayrange

import (
	"bytes"
	"encoding/json"
	"fmt"

	"recruitdesk/cv-intake/internal/models"
)

// envelope covers the two wrapped response shapes. When both keys are
// present the first non-empty list wins, items before candidates.
type envelope struct {
	Items      []models.CandidateRow `json:"items"`
	Candidates []models.CandidateRow `json:"candidates"`
}

// Normalize decodes any of the accepted response shapes into a plain list:
// a bare array, {"items": [...]} or {"candidates": [...]}. An empty body,
// null, or an object with neither key is an empty list.
func Normalize(body []byte) ([]models.CandidateRow, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []models.CandidateRow{}, nil
	}

	switch body[0] {
	case '[':
		var rows []models.CandidateRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode candidate list: %w", err)
		}
		if rows == nil {
			rows = []models.CandidateRow{}
		}
		return rows, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("failed to decode candidate envelope: %w", err)
		}
		switch {
		case len(env.Items) > 0:
			return env.Items, nil
		case len(env.Candidates) > 0:
			return env.Candidates, nil
		default:
			return []models.CandidateRow{}, nil
		}
	default:
		return nil, fmt.Errorf("unexpected response shape starting with %q", body[0])
	}
}
