package model

import "time"

// FetchRun records one execution of the fetch loop.
type FetchRun struct {
	ID         int64     `gorm:"primaryKey"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt *time.Time
	Endpoint   string `gorm:"size:512;not null"`
	Total      int    `gorm:"not null"`
	Succeeded  int    `gorm:"not null"`
	Failed     int    `gorm:"not null"`
	Remaining  int    `gorm:"not null"`
	Halted     bool   `gorm:"not null"`
	HaltReason string `gorm:"size:512"`
}
