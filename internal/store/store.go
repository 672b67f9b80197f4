package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boxscore-fetcher/internal/model"
)

// Store defines the archive operations used by the fetch loop and the CLI.
type Store interface {
	StartRun(ctx context.Context, run *model.FetchRun) error
	SaveBoxScore(ctx context.Context, rec BoxScoreRecord) error
	FinishRun(ctx context.Context, run *model.FetchRun) error
	RecentRuns(ctx context.Context, limit int) ([]model.FetchRun, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// StartRun inserts run and fills in its generated ID.
func (s *gormStore) StartRun(ctx context.Context, run *model.FetchRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create fetch run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters of a run created by StartRun.
func (s *gormStore) FinishRun(ctx context.Context, run *model.FetchRun) error {
	if run.ID == 0 {
		return errors.New("fetch run has not been started")
	}
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to update fetch run %d: %w", run.ID, err)
	}
	return nil
}

// SaveBoxScore upserts the payload for a game and its player stat lines in
// one transaction. Refetching a game replaces its payload and lines.
func (s *gormStore) SaveBoxScore(ctx context.Context, rec BoxScoreRecord) error {
	score := model.BoxScore{
		GameID:    rec.GameID,
		RunID:     rec.RunID,
		FetchedAt: rec.FetchedAt,
		Payload:   string(rec.Payload),
	}

	lines := make([]model.PlayerStatLine, 0, len(rec.StatLines))
	for _, l := range rec.StatLines {
		lines = append(lines, model.PlayerStatLine{
			GameID:     rec.GameID,
			PlayerID:   l.PlayerID,
			FullName:   l.FullName,
			Points:     l.Points,
			Rebounds:   l.Rebounds,
			Assists:    l.Assists,
			ThreesMade: l.ThreesMade,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"run_id", "fetched_at", "payload"}),
		}).Create(&score).Error; err != nil {
			return fmt.Errorf("failed to upsert box score for game %s: %w", rec.GameID, err)
		}

		if len(lines) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "points", "rebounds", "assists", "threes_made", "updated_at"}),
		}).Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to upsert stat lines for game %s: %w", rec.GameID, err)
		}
		return nil
	})
}

// RecentRuns returns up to limit runs, newest first.
func (s *gormStore) RecentRuns(ctx context.Context, limit int) ([]model.FetchRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []model.FetchRun
	if err := s.db.WithContext(ctx).Order("started_at DESC").Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list fetch runs: %w", err)
	}
	return runs, nil
}
