package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"boxscore-fetcher/config"
	"boxscore-fetcher/internal/boxscore"
	"boxscore-fetcher/internal/gameids"
	"boxscore-fetcher/internal/model"
	"boxscore-fetcher/internal/output"
	"boxscore-fetcher/internal/store"
)

// Summary describes a finished fetch run.
type Summary struct {
	RunID        int64
	Total        int
	Succeeded    int
	Failed       int
	Remaining    []string
	Halted       bool
	HaltedAt     string
	HaltReason   string
	Checkpointed bool
}

// Service runs the fetch-and-checkpoint loop over the identifier file.
type Service struct {
	cfg     *config.Config
	store   store.Store
	fetcher BoxScoreFetcher
	pacer   Pacer
	memo    *memo
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithFetcher replaces the HTTP client.
func WithFetcher(f BoxScoreFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithPacer replaces the rate limiter between requests.
func WithPacer(p Pacer) Option {
	return func(s *Service) { s.pacer = p }
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a fetch service. st may be nil, in which case nothing
// is archived.
func NewService(cfg *config.Config, st store.Store, opts ...Option) *Service {
	s := &Service{
		cfg:   cfg,
		store: st,
		memo:  newMemo(cfg.Client.DedupeTTL),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = NewClient(cfg)
	}
	if s.pacer == nil {
		s.pacer = NewPacer(cfg.Fetcher.Delay)
	}
	return s
}

// Run fetches every pending game once, in file order, and then rewrites the
// identifier file with the games that were not fetched. Per-game failures
// are reported in the Summary; the returned error covers setup and
// checkpoint failures only.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	snapshot, err := gameids.Load(s.cfg.Files.IDs)
	if err != nil {
		return nil, err
	}

	w, err := output.NewWriter(s.cfg.Files.Output, s.cfg.Fetcher.OutputFormat, s.cfg.Fetcher.AppendOutput)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("games", len(snapshot)).
		Str("ids", s.cfg.Files.IDs).
		Str("output", s.cfg.Files.Output).
		Str("on_failure", s.cfg.Fetcher.OnFailure).
		Msg("starting fetch run")

	summary := &Summary{Total: len(snapshot)}
	run := s.startRun(ctx, len(snapshot))
	if run != nil {
		summary.RunID = run.ID
	}

	// Successes are tracked by position in the snapshot, never by removing
	// from the slice being ranged over.
	processed := make(map[int]struct{}, len(snapshot))
	for i, gameID := range snapshot {
		res := s.fetchOne(ctx, gameID)

		if res.OK() {
			if err := w.Write(res.Body); err != nil {
				outcome := OutcomeFatal
				if errors.Is(err, output.ErrInvalidJSON) {
					outcome = OutcomeRetryable
				}
				res = Result{GameID: gameID, Outcome: outcome, StatusCode: res.StatusCode, Err: err}
			}
		}

		if res.OK() {
			processed[i] = struct{}{}
			summary.Succeeded++
			s.memo.put(gameID, res.Body)
			s.archive(ctx, run, res)
			log.Info().Str("game_id", gameID).Int("status", res.StatusCode).Msg("box score recorded")
			continue
		}

		summary.Failed++
		log.Warn().
			Err(res.Err).
			Str("game_id", gameID).
			Int("status", res.StatusCode).
			Stringer("outcome", res.Outcome).
			Msg("box score fetch failed")

		if s.shouldHalt(res) {
			summary.Halted = true
			summary.HaltedAt = gameID
			summary.HaltReason = fmt.Sprintf("game %s: %v", gameID, res.Err)
			break
		}
	}

	closeErr := w.Close()
	if closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close output file")
	}

	for i, gameID := range snapshot {
		if _, ok := processed[i]; !ok {
			summary.Remaining = append(summary.Remaining, gameID)
		}
	}

	var checkpointErr error
	if !s.cfg.Fetcher.DisableCheckpoint {
		if err := gameids.Save(s.cfg.Files.IDs, summary.Remaining); err != nil {
			checkpointErr = fmt.Errorf("checkpoint failed: %w", err)
			log.Error().Err(err).Msg("failed to write remaining game ids")
		} else {
			summary.Checkpointed = true
		}
	}

	s.finishRun(ctx, run, summary)

	log.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("remaining", len(summary.Remaining)).
		Bool("halted", summary.Halted).
		Msg("fetch run finished")

	return summary, errors.Join(closeErr, checkpointErr)
}

// fetchOne returns a memoised body for a repeated game, otherwise waits for
// the pacer and asks the fetcher.
func (s *Service) fetchOne(ctx context.Context, gameID string) Result {
	if body, ok := s.memo.get(gameID); ok {
		log.Debug().Str("game_id", gameID).Msg("reusing box score fetched earlier in this run")
		return success(gameID, http.StatusOK, body)
	}
	if err := s.pacer.Wait(ctx); err != nil {
		return fatal(gameID, 0, fmt.Errorf("waiting for next request slot: %w", err))
	}
	log.Debug().Str("game_id", gameID).Msg("fetching box score")
	return s.fetcher.Fetch(ctx, gameID)
}

// shouldHalt applies the configured failure policy. Fatal results always
// stop the run.
func (s *Service) shouldHalt(res Result) bool {
	if res.Outcome == OutcomeFatal {
		return true
	}
	return s.cfg.Fetcher.OnFailure != config.OnFailureSkip
}

func (s *Service) endpoint() string {
	if c, ok := s.fetcher.(interface{ URL() string }); ok {
		return c.URL()
	}
	return s.cfg.Client.URL()
}

// startRun records the run in the archive. Archive errors never stop a run.
func (s *Service) startRun(ctx context.Context, total int) *model.FetchRun {
	if s.store == nil {
		return nil
	}
	run := &model.FetchRun{
		StartedAt: s.now(),
		Endpoint:  s.endpoint(),
		Total:     total,
	}
	if err := s.store.StartRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("could not record fetch run; box scores will not be archived")
		return nil
	}
	return run
}

func (s *Service) archive(ctx context.Context, run *model.FetchRun, res Result) {
	if run == nil {
		return
	}
	lines, err := boxscore.ParseStatLines(res.Body)
	if err != nil {
		log.Debug().Err(err).Str("game_id", res.GameID).Msg("archiving raw payload without stat lines")
	}
	rec := store.BoxScoreRecord{
		RunID:     run.ID,
		GameID:    res.GameID,
		Payload:   res.Body,
		StatLines: lines,
		FetchedAt: s.now(),
	}
	if err := s.store.SaveBoxScore(ctx, rec); err != nil {
		log.Warn().Err(err).Str("game_id", res.GameID).Msg("failed to archive box score")
	}
}

func (s *Service) finishRun(ctx context.Context, run *model.FetchRun, summary *Summary) {
	if run == nil {
		return
	}
	finished := s.now()
	run.FinishedAt = &finished
	run.Succeeded = summary.Succeeded
	run.Failed = summary.Failed
	run.Remaining = len(summary.Remaining)
	run.Halted = summary.Halted
	run.HaltReason = summary.HaltReason
	// The run outcome is still worth recording after a cancellation.
	if err := s.store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn().Err(err).Int64("run_id", run.ID).Msg("failed to record fetch run result")
	}
}
