// Package app wires the theorem table, aggregator, archive and demo dataset
// into one explicitly constructed application context.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/iwvelando/bpo-report/internal/config"
	"github.com/iwvelando/bpo-report/internal/demo"
	"github.com/iwvelando/bpo-report/internal/report"
	"github.com/iwvelando/bpo-report/internal/store"
	"github.com/iwvelando/bpo-report/internal/theorem"
	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/format"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"github.com/iwvelando/bpo-report/pkg/output"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// Capabilities records which optional features were available at startup.
type Capabilities struct {
	Archive       bool   `json:"archive"`
	ArchiveDriver string `json:"archive_driver"`
	Rules         int    `json:"rules"`
	Jitter        bool   `json:"jitter"`
	Demo          bool   `json:"demo"`
	Auth          bool   `json:"auth"`
}

// Health is the liveness report served on /health.
type Health struct {
	Status       string       `json:"status"`
	Timestamp    time.Time    `json:"timestamp"`
	Uptime       string       `json:"uptime"`
	Version      string       `json:"version"`
	Archive      string       `json:"archive"`
	Capabilities Capabilities `json:"capabilities"`
}

// Option customizes an App during construction.
type Option func(*App)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithStore uses an already opened archive instead of opening one from config.
func WithStore(s store.Store) Option {
	return func(a *App) { a.store = s }
}

// App holds everything a request needs. It is safe for concurrent use.
type App struct {
	logger       *zap.Logger
	conf         *config.Configuration
	table        *theorem.Table
	formatter    *format.Formatter
	aggregator   *report.Aggregator
	store        store.Store
	cache        *lru.Cache[optimization.Input, optimization.Summary]
	dataset      *demo.Dataset
	businessCase optimization.Summary
	caps         Capabilities
	started      time.Time
	now          func() time.Time

	closeOnce sync.Once
	closeErr  error
}

// New builds the application context and precomputes the business case.
func New(ctx context.Context, logger *zap.Logger, conf *config.Configuration, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.Default()
	}

	a := &App{
		logger: logger,
		conf:   conf,
		table:  theorem.DefaultTable(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.started = a.now()

	formatter, err := conf.Formatter()
	if err != nil {
		return nil, fmt.Errorf("failed to build formatter: %w", err)
	}
	a.formatter = formatter

	a.aggregator, err = report.NewAggregator(logger, a.table, conf.ReportOptions(formatter))
	if err != nil {
		return nil, fmt.Errorf("failed to build aggregator: %w", err)
	}

	a.cache, err = lru.New[optimization.Input, optimization.Summary](conf.Store.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}

	if a.store == nil {
		a.store, err = store.Open(ctx, logger, conf.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to open report archive: %w", err)
		}
	}

	a.businessCase, err = a.aggregator.Summarize(conf.BusinessCase.Input())
	if err != nil {
		_ = a.store.Close()
		return nil, fmt.Errorf("failed to compute business case: %w", err)
	}

	a.dataset = demo.Generate(demo.Options{
		Seed:    conf.Demo.Seed,
		Agents:  conf.Demo.Agents,
		Tickets: conf.Demo.Tickets,
	})

	a.caps = Capabilities{
		Archive:       a.store.Ping(ctx) == nil,
		ArchiveDriver: a.store.Driver(),
		Rules:         len(a.aggregator.Options().Rules),
		Jitter:        conf.Output.Jitter.Amplitude > 0,
		Demo:          len(a.dataset.Tickets) > 0,
		Auth:          strings.TrimSpace(conf.Server.AuthToken) != "",
	}

	logger.Info("application initialized",
		zap.String("op", "app.New"),
		zap.String("version", Version),
		zap.String("archive", a.caps.ArchiveDriver),
		zap.Bool("archiveReady", a.caps.Archive),
		zap.Int("rules", a.caps.Rules),
		zap.Bool("jitter", a.caps.Jitter),
	)

	return a, nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Configuration { return a.conf }

// Formatter returns the configured currency formatter.
func (a *App) Formatter() *format.Formatter { return a.formatter }

// Capabilities returns the startup capability check.
func (a *App) Capabilities() Capabilities { return a.caps }

// Summarize returns the summary for in, memoized per input.
func (a *App) Summarize(in optimization.Input) (optimization.Summary, error) {
	if err := in.Validate(); err != nil {
		return optimization.Summary{}, err
	}
	if summary, ok := a.cache.Get(in); ok {
		return summary, nil
	}
	summary, err := a.aggregator.Summarize(in)
	if err != nil {
		return optimization.Summary{}, err
	}
	a.cache.Add(in, summary)
	return summary, nil
}

// Optimize computes a summary, assigns it a report id and archives it. Archive
// failures are logged and do not fail the request.
func (a *App) Optimize(ctx context.Context, in optimization.Input) (optimization.Report, error) {
	summary, err := a.Summarize(in)
	if err != nil {
		return optimization.Report{}, err
	}

	now := a.now().UTC()
	rep := optimization.Report{
		ID:          NewReportID(now),
		GeneratedAt: now,
		Summary:     summary,
	}

	if err := a.store.Save(ctx, rep); err != nil {
		a.logger.Warn("failed to archive report",
			zap.String("op", "app.Optimize"),
			zap.String("reportID", rep.ID),
			zap.Error(err),
		)
	}

	a.logger.Info("optimization report generated",
		zap.String("op", "app.Optimize"),
		zap.String("reportID", rep.ID),
		zap.Float64("totalSavings", summary.TotalSavings),
	)
	return rep, nil
}

// NewReportID returns BPO-OPT-YYYYMMDD-xxxxxxxx.
func NewReportID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", constants.ReportIDPrefix, at.Format(constants.ReportDateLayout), suffix)
}

// Present applies the configured presentation jitter, if any, and re-ranks
// the jittered rows so top results and roadmap stay ordered by savings.
func (a *App) Present(s optimization.Summary) optimization.Summary {
	j := a.conf.Output.Jitter
	if j.Amplitude <= 0 {
		return s
	}
	return a.aggregator.Rerank(output.Jitter(s, j.Seed, j.Amplitude))
}

// BusinessCase returns the summary precomputed for the configured business case.
func (a *App) BusinessCase() optimization.Summary { return a.businessCase }

// Theorems returns every theorem in id order.
func (a *App) Theorems() []theorem.Entry { return a.table.All() }

// Theorem returns one theorem or theorem.ErrNotFound.
func (a *App) Theorem(id int) (theorem.Entry, error) { return a.table.Lookup(id) }

// Reports lists archived reports, newest first.
func (a *App) Reports(ctx context.Context, limit int) ([]optimization.Report, error) {
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	return a.store.List(ctx, limit)
}

// Report returns one archived report or store.ErrNotFound.
func (a *App) Report(ctx context.Context, id string) (optimization.Report, error) {
	return a.store.Get(ctx, id)
}

// Health reports liveness and the archive status.
func (a *App) Health(ctx context.Context) Health {
	now := a.now()
	archive := "ok"
	if err := a.store.Ping(ctx); err != nil {
		archive = err.Error()
	}
	return Health{
		Status:       "healthy",
		Timestamp:    now.UTC(),
		Uptime:       now.Sub(a.started).Round(time.Second).String(),
		Version:      Version,
		Archive:      archive,
		Capabilities: a.caps,
	}
}

// DemoTickets returns up to limit synthetic tickets.
func (a *App) DemoTickets(limit int) []demo.Ticket {
	tickets := a.dataset.Tickets
	if limit <= 0 || limit > len(tickets) {
		limit = len(tickets)
	}
	return append([]demo.Ticket(nil), tickets[:limit]...)
}

// DemoAgents returns every synthetic agent.
func (a *App) DemoAgents() []demo.Agent {
	return append([]demo.Agent(nil), a.dataset.Agents...)
}

// DemoTicketsByStatus counts synthetic tickets per status.
func (a *App) DemoTicketsByStatus() map[string]int {
	return a.dataset.TicketsByStatus()
}

// DemoTrend fits the daily ticket volume of the synthetic dataset.
func (a *App) DemoTrend() (demo.Trend, []demo.DailyVolume, error) {
	trend, err := a.dataset.Trend()
	if err != nil {
		return demo.Trend{}, nil, err
	}
	return trend, a.dataset.DailyVolume(), nil
}

// Close releases the archive. It is safe to call more than once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.store.Close()
		a.logger.Info("application closed", zap.String("op", "app.Close"))
	})
	return a.closeErr
}
