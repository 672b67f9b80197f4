package model

import "time"

// BoxScore is the latest payload fetched for a game.
type BoxScore struct {
	GameID    string    `gorm:"primaryKey;size:128"`
	RunID     int64     `gorm:"index;not null"`
	FetchedAt time.Time `gorm:"not null"`
	Payload   string    `gorm:"type:text;not null"`
}

// PlayerStatLine is one player's statistics for one game. A game fetched
// twice keeps a single line per player.
type PlayerStatLine struct {
	GameID     string `gorm:"primaryKey;size:128"`
	PlayerID   string `gorm:"primaryKey;size:128;index"`
	FullName   string `gorm:"size:256;not null"`
	Points     int    `gorm:"not null"`
	Rebounds   int    `gorm:"not null"`
	Assists    int    `gorm:"not null"`
	ThreesMade int    `gorm:"not null"`
	UpdatedAt  time.Time
}
