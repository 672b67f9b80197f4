package store

import (
	"time"

	"boxscore-fetcher/internal/boxscore"
)

// BoxScoreRecord is a successfully fetched box score ready to be archived.
type BoxScoreRecord struct {
	RunID     int64
	GameID    string
	Payload   []byte
	StatLines []boxscore.StatLine
	FetchedAt time.Time
}
