package boxscore

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatLine is one player's line from a box-score response.
type StatLine struct {
	PlayerID   string `json:"id"`
	FullName   string `json:"full_name"`
	Points     int    `json:"points"`
	Rebounds   int    `json:"rebounds"`
	Assists    int    `json:"assists"`
	ThreesMade int    `json:"three_points_made"`
}

// ParseStatLines decodes a fetch-box-score response body. The endpoint
// returns a JSON array with one object per player; entries without a player
// id are dropped. A payload of any other shape is an error.
func ParseStatLines(body []byte) ([]StatLine, error) {
	var lines []StatLine
	if err := json.Unmarshal(body, &lines); err != nil {
		return nil, fmt.Errorf("unable to parse stat lines: %w", err)
	}

	kept := lines[:0]
	for _, l := range lines {
		l.PlayerID = strings.TrimSpace(l.PlayerID)
		if l.PlayerID == "" {
			continue
		}
		l.FullName = strings.TrimSpace(l.FullName)
		kept = append(kept, l)
	}
	return kept, nil
}
