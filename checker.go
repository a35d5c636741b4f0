package tioanime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pevans/tioanime/library"
)

// Checker compares followed titles against the site and records chapter
// counts in the library.
type Checker struct {
	client *Client
	store  *library.Store
	config *CheckConfig
	logger *zap.Logger
}

// CheckConfig holds configuration for the checker.
type CheckConfig struct {
	// Timeout per title lookup
	FetchTimeout time.Duration
	// Lookups slower than this are logged as warnings
	SlowThreshold time.Duration
}

// DefaultCheckConfig returns the default checker configuration.
func DefaultCheckConfig() *CheckConfig {
	return &CheckConfig{
		FetchTimeout:  30 * time.Second,
		SlowThreshold: 10 * time.Second,
	}
}

// CheckResult is the outcome of checking one followed title.
type CheckResult struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// NewChapters returns how many chapters appeared since the last check.
func (r CheckResult) NewChapters() int {
	if r.Err != nil || r.Current <= r.Previous {
		return 0
	}
	return r.Current - r.Previous
}

// NewChecker creates a checker. A nil config uses DefaultCheckConfig.
func NewChecker(client *Client, store *library.Store, config *CheckConfig, logger *zap.Logger) *Checker {
	if config == nil {
		config = DefaultCheckConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Checker{
		client: client,
		store:  store,
		config: config,
		logger: logger,
	}
}

// Follow looks the title up and adds it to the library with its current
// chapter count.
func (c *Checker) Follow(ctx context.Context, slug string) (*library.Entry, error) {
	info, err := c.client.Info(ctx, slug)
	if err != nil {
		return nil, err
	}

	entry, err := c.store.Add(slug, info.Name, info.ChapterCount)
	if err != nil {
		return nil, fmt.Errorf("failed to follow %s: %w", slug, err)
	}

	c.logger.Info("following title",
		zap.String("slug", slug),
		zap.Int("chapters", info.ChapterCount))
	return entry, nil
}

// Check looks up every followed title one after another. A failed lookup
// is recorded on its entry and does not stop the run; only a cancelled
// context or an unreadable library does.
func (c *Checker) Check(ctx context.Context) ([]CheckResult, error) {
	entries, err := c.store.List(library.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list followed titles: %w", err)
	}

	c.logger.Info("checking followed titles", zap.Int("count", len(entries)))

	results := make([]CheckResult, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, c.checkEntry(ctx, entry))
	}

	return results, nil
}

func (c *Checker) checkEntry(ctx context.Context, entry library.Entry) CheckResult {
	startTime := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, c.config.FetchTimeout)
	defer cancel()

	result := CheckResult{
		Slug:     entry.Slug,
		Name:     entry.Name,
		Previous: entry.ChapterCount,
		Current:  entry.ChapterCount,
	}

	info, err := c.client.Info(fetchCtx, entry.Slug)
	duration := time.Since(startTime)

	if err != nil {
		result.Err = err
		result.Error = err.Error()
		c.handleCheckError(entry, err)
		return result
	}

	result.Name = info.Name
	result.Current = info.ChapterCount
	c.handleCheckSuccess(entry, info)

	fields := []zap.Field{
		zap.String("slug", entry.Slug),
		zap.Int("new_chapters", result.NewChapters()),
		zap.Duration("duration", duration),
	}
	if duration > c.config.SlowThreshold {
		c.logger.Warn("slow title lookup", fields...)
	} else {
		c.logger.Debug("checked title", fields...)
	}

	return result
}

func (c *Checker) handleCheckSuccess(entry library.Entry, info *AnimeInfo) {
	now := time.Now()
	update := library.EntryUpdate{
		CheckedAt:      &now,
		ClearLastError: true,
	}
	// The stored count only moves forward.
	if info.ChapterCount > entry.ChapterCount {
		update.ChapterCount = &info.ChapterCount
	}
	if info.Name != "" && info.Name != entry.Name {
		update.Name = &info.Name
	}

	if err := c.store.Update(entry.Slug, update); err != nil {
		c.logger.Error("failed to update followed title",
			zap.String("slug", entry.Slug), zap.Error(err))
	}
}

func (c *Checker) handleCheckError(entry library.Entry, checkErr error) {
	now := time.Now()
	errorMsg := checkErr.Error()

	if errors.Is(checkErr, ErrNotFound) {
		c.logger.Warn("followed title no longer exists",
			zap.String("slug", entry.Slug))
	} else {
		c.logger.Error("failed to check title",
			zap.String("slug", entry.Slug), zap.Error(checkErr))
	}

	update := library.EntryUpdate{
		CheckedAt: &now,
		LastError: &errorMsg,
	}
	if err := c.store.Update(entry.Slug, update); err != nil {
		c.logger.Error("failed to update followed title",
			zap.String("slug", entry.Slug), zap.Error(err))
	}
}

// Updated returns the results that gained chapters.
func Updated(results []CheckResult) []CheckResult {
	var updated []CheckResult
	for _, r := range results {
		if r.NewChapters() > 0 {
			updated = append(updated, r)
		}
	}
	return updated
}
