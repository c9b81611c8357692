package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitexport/internal/auth"
	"fitexport/internal/config"
	"fitexport/internal/database"
	"fitexport/internal/fitbit"
)

var (
	ErrRunInProgress = errors.New("batch export already running")
	ErrWriteFailed   = errors.New("write export file")
)

// Fetcher performs an authenticated GET against the vendor API. *fitbit.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, accessToken, path string) (map[string]any, error)
}

type Report struct {
	RunID     string   `json:"run_id"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	RunDate   string   `json:"run_date"`
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

// Runner refreshes every stored user and exports their metrics to
// <outDir>/<metric>/<userID>/<run date>.csv. Users are processed one at a time and
// only one run may be active, since a refresh token is invalid once used.
type Runner struct {
	tokens    database.TokenStore
	refresher auth.TokenRefresher
	api       Fetcher
	metrics   []Metric
	outDir    string
	log       *zap.SugaredLogger

	mu sync.Mutex
}

func NewRunner(tokens database.TokenStore, refresher auth.TokenRefresher, api Fetcher, metrics []Metric, outDir string, log *zap.SugaredLogger) *Runner {
	return &Runner{
		tokens:    tokens,
		refresher: refresher,
		api:       api,
		metrics:   metrics,
		outDir:    outDir,
		log:       log,
	}
}

// Run exports every user for the windows anchored at startDate. Per-user failures are
// reported in the result; an error is returned only for a bad start date, an active
// run or an unlistable token store. Once ctx is done no further user is refreshed and
// the remaining users are reported as failed.
func (r *Runner) Run(ctx context.Context, startDate string, today time.Time) (*Report, error) {
	if startDate == "" {
		return nil, fmt.Errorf("%w: START_DATE is not set", config.ErrConfiguration)
	}
	start, err := time.Parse(config.DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: START_DATE %q is not YYYY-MM-DD", config.ErrConfiguration, startDate)
	}

	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	users, err := r.tokens.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:     uuid.NewString(),
		StartDate: startDate,
		EndDate:   r.endDate(start).Format(config.DateLayout),
		RunDate:   today.Format(config.DateLayout),
		Succeeded: []string{},
		Failed:    []string{},
	}
	log := r.log.With("run_id", rep.RunID)
	log.Infow("batch export started", "users", len(users), "start_date", rep.StartDate, "end_date", rep.EndDate)

	for i, id := range users {
		if err := ctx.Err(); err != nil {
			log.Warnw("batch export cancelled", "remaining", len(users)-i, "error", err)
			rep.Failed = append(rep.Failed, users[i:]...)
			break
		}
		if err := r.exportUser(ctx, log.With("user_id", id), id, start, rep.RunDate); err != nil {
			log.Warnw("user export failed", "user_id", id, "error", err)
			rep.Failed = append(rep.Failed, id)
			continue
		}
		rep.Succeeded = append(rep.Succeeded, id)
	}

	log.Infow("batch export finished", "succeeded", len(rep.Succeeded), "failed", len(rep.Failed))
	return rep, nil
}

func (r *Runner) exportUser(ctx context.Context, log *zap.SugaredLogger, userID string, start time.Time, runDate string) error {
	refreshToken, err := r.tokens.Get(ctx, userID)
	if err != nil {
		return err
	}

	grant, err := auth.RefreshToken(ctx, userID, refreshToken, r.refresher, r.tokens)
	if err != nil {
		return err
	}

	for _, m := range r.metrics {
		rows, err := r.fetch(ctx, grant.AccessToken, m, start)
		if err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		path, err := r.write(m, userID, runDate, rows)
		if err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		log.Debugw("metric exported", "metric", m.Name, "rows", len(rows), "path", path)
	}
	return nil
}

// fetch pulls every window of m and returns the flattened rows in window order.
func (r *Runner) fetch(ctx context.Context, accessToken string, m Metric, start time.Time) ([][]string, error) {
	var rows [][]string
	for _, rg := range m.Window.Ranges(start) {
		path := fitbit.SeriesPath(m.Version, m.Endpoint, rg.Start.Format(config.DateLayout), rg.End.Format(config.DateLayout))
		body, err := r.api.Get(ctx, accessToken, path)
		if err != nil {
			return nil, err
		}

		records, err := series(body, m.Key)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		for _, rec := range records {
			if m.Prepare != nil {
				if err := m.Prepare(rec); err != nil {
					return nil, err
				}
			}
			rows = append(rows, Flatten(rec, m.Columns))
		}
	}
	return rows, nil
}

func series(body map[string]any, key string) ([]map[string]any, error) {
	raw, ok := body[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", fitbit.ErrMalformedResponse, key)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", fitbit.ErrMalformedResponse, key)
	}

	out := make([]map[string]any, 0, len(items))
	for i, it := range items {
		rec, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", fitbit.ErrMalformedResponse, key, i)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Runner) write(m Metric, userID, runDate string, rows [][]string) (string, error) {
	dir := filepath.Join(r.outDir, m.Name, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	path := filepath.Join(dir, runDate+".csv")
	if err := os.WriteFile(path, []byte(ToCSV(rows, m.Headers())), 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return path, nil
}

func (r *Runner) endDate(start time.Time) time.Time {
	end := start
	for _, m := range r.metrics {
		ranges := m.Window.Ranges(start)
		if last := ranges[len(ranges)-1].End; last.After(end) {
			end = last
		}
	}
	return end
}
