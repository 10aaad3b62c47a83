// Package pipeline implements the Pipeline Driver (C5): owning the capture
// iterator, fidelity-mode selection, progress/telemetry, and cancellation
// (§4.5, §5).
package pipeline

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/arqlabs/graphcap/internal/core/domain"
	"github.com/arqlabs/graphcap/internal/core/ports"
	"github.com/arqlabs/graphcap/internal/core/services/cache"
	"github.com/arqlabs/graphcap/internal/core/services/extract"
	"github.com/arqlabs/graphcap/internal/core/services/project"
	"github.com/arqlabs/graphcap/internal/telemetry"
)

// Source is the capture iterator contract the driver consumes (matches
// capture.Source; declared here so this package doesn't have to import the
// capture adapter just to name the type its callers already hold).
type Source interface {
	Next() (ports.Frame, bool, error)
	Live() bool
	Close()
}

// Config carries the operator-facing knobs from §4.5/§6.
type Config struct {
	Reduced    bool
	NoCount    bool
	DebugAt    int
	DebugTime  bool
	DebugCache bool

	// Total, when > 0, is the pre-pass packet count used for progress
	// reporting (§4.5 "optionally perform a full pre-pass"). Left at 0
	// when NoCount is set or the source is live.
	Total int
}

// Result summarizes one Run for telemetry/debug reporting (§4.5,
// SPEC_FULL §4 "supplemented features").
type Result struct {
	RunID            string
	PacketsProcessed int
	PacketsSkipped   int
	WallTime         time.Duration
	ExecutorTime     time.Duration
	CacheReport      map[cache.Kind]cache.Stats
}

// Driver owns exactly one pipeline instance: one source, one cache, one
// executor connection (§5 "no state is shared between pipelines").
type Driver struct {
	Source    Source
	Extractor *extract.Extractor
	Projector *project.Projector
	Executor  ports.GraphClient
	Cache     *cache.Cache
	Config    Config

	runID  uuid.UUID
	logger *slog.Logger
}

// New constructs a Driver. Each Driver must own its own Source, Cache, and
// Executor connection — never share them across concurrent Drivers (§5).
func New(src Source, extractor *extract.Extractor, projector *project.Projector, executor ports.GraphClient, c *cache.Cache, cfg Config) *Driver {
	return &Driver{
		Source:    src,
		Extractor: extractor,
		Projector: projector,
		Executor:  executor,
		Cache:     c,
		Config:    cfg,
		runID:     uuid.New(),
		logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

// Run drives the source to exhaustion (file mode) or until ctx is
// cancelled (live mode), emitting one packet's intents fully before
// reading the next (§5 "strictly sequential per packet").
func (d *Driver) Run(ctx context.Context) (Result, error) {
	fidelity := domain.Full
	if d.Config.Reduced {
		fidelity = domain.Reduced
	}
	if d.Source.Live() {
		if fidelity != domain.Reduced {
			log.Printf("live capture on an interface forces reduced fidelity")
		}
		fidelity = domain.Reduced
	}

	start := time.Now()
	var executorTime time.Duration
	processed, skipped := 0, 0

	for idx := 0; ; idx++ {
		select {
		case <-ctx.Done():
			return d.result(processed, skipped, start, executorTime), domain.ErrCancelled
		default:
		}

		if d.Config.Total > 0 && idx%1000 == 0 {
			log.Printf("processing packet %d/%d", idx, d.Config.Total)
		}

		frame, ok, err := d.Source.Next()
		if err != nil {
			skipped++
			telemetry.PacketsSkipped.WithLabelValues("capture", "decode_error").Inc()
			continue
		}
		if !ok {
			break
		}

		d.setDebug(idx)

		rec := d.Extractor.Extract(frame)
		intents := d.Projector.Project(rec, fidelity)

		// A packet already read is always applied in full, even if ctx is
		// cancelled meanwhile; cancellation is honored between packets.
		execStart := time.Now()
		if err := d.applyIntents(context.WithoutCancel(ctx), intents); err != nil {
			executorTime += time.Since(execStart)
			return d.result(processed, skipped, start, executorTime),
				fmt.Errorf("pipeline: packet %d: %w", idx, err)
		}
		executorTime += time.Since(execStart)

		processed++
		telemetry.PacketsProcessed.WithLabelValues("capture").Inc()
	}

	return d.result(processed, skipped, start, executorTime), nil
}

func (d *Driver) applyIntents(ctx context.Context, intents []project.Intent) error {
	for _, intent := range intents {
		switch {
		case intent.Node != nil:
			d.logger.Debug("upsert node", "label", intent.Node.Label, "name", intent.Node.Name)
			if err := d.Executor.UpsertNode(ctx, *intent.Node); err != nil {
				return err
			}
		case intent.Edge != nil:
			d.logger.Debug("upsert edge", "type", intent.Edge.Type, "src", intent.Edge.Src, "dst", intent.Edge.Dst)
			if err := d.Executor.UpsertEdge(ctx, *intent.Edge); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) setDebug(idx int) {
	if d.Config.DebugAt < 0 {
		return
	}
	if idx == d.Config.DebugAt {
		d.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		d.logger.Debug("debug tracing enabled for packet", "index", idx)
	} else if idx == d.Config.DebugAt+1 {
		d.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func (d *Driver) result(processed, skipped int, start time.Time, executorTime time.Duration) Result {
	res := Result{
		RunID:            d.runID.String(),
		PacketsProcessed: processed,
		PacketsSkipped:   skipped,
		WallTime:         time.Since(start),
		ExecutorTime:     executorTime,
	}

	report := d.Cache.Report()
	for kind, stats := range report {
		telemetry.CacheLookups.WithLabelValues(string(kind), "hit").Add(float64(stats.Hits))
		telemetry.CacheLookups.WithLabelValues(string(kind), "miss").Add(float64(stats.Misses))
	}
	if d.Config.DebugCache {
		res.CacheReport = report
	}
	return res
}
