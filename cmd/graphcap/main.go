package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arqlabs/graphcap/internal/adapters/capture"
	"github.com/arqlabs/graphcap/internal/adapters/classify"
	"github.com/arqlabs/graphcap/internal/adapters/fingerprint"
	"github.com/arqlabs/graphcap/internal/adapters/graphstore"
	"github.com/arqlabs/graphcap/internal/config"
	"github.com/arqlabs/graphcap/internal/core/domain"
	"github.com/arqlabs/graphcap/internal/core/services/cache"
	"github.com/arqlabs/graphcap/internal/core/services/extract"
	"github.com/arqlabs/graphcap/internal/core/services/pipeline"
	"github.com/arqlabs/graphcap/internal/core/services/project"
	"github.com/arqlabs/graphcap/internal/telemetry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("graphcap starting")

	cfg := config.Load()

	if cfg.PcapPath == "" && cfg.Interface == "" {
		log.Fatal("one of --pcap or --i must be set")
	}
	if cfg.Interface != "" && !domain.IsValidInterface(cfg.Interface) {
		log.Fatalf("invalid interface name %q", cfg.Interface)
	}

	telemetry.InitMetrics()
	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		log.Fatalf("tracer init: %v", err)
	}
	defer shutdownTracer(context.Background())

	var vendorRepos []fingerprint.VendorRepository
	if cfg.OUIFilePath != "" {
		file := fingerprint.NewFileVendorRepository()
		if err := file.LoadFromFile(cfg.OUIFilePath); err != nil {
			log.Printf("warning: OUI override file unavailable: %v", err)
		} else {
			vendorRepos = append(vendorRepos, file)
		}
	}
	if cfg.OUIDBPath != "" {
		static := fingerprint.NewStaticVendorRepository(fingerprint.CommonOUIs)
		db, err := fingerprint.NewOUIDatabase(cfg.OUIDBPath, 10000, static)
		if err != nil {
			log.Printf("warning: OUI database unavailable, falling back to static map: %v", err)
			vendorRepos = append(vendorRepos, static)
		} else {
			vendorRepos = append(vendorRepos, db)
		}
	}
	var vendorRepo fingerprint.VendorRepository
	if len(vendorRepos) > 0 {
		vendorRepo = fingerprint.NewCompositeVendorRepository(vendorRepos...)
	}
	ouiLookup := fingerprint.NewVendorLookup(vendorRepo)

	store, err := graphstore.Open(graphstore.Driver(cfg.GraphDriver), cfg.GraphDSN)
	if err != nil {
		log.Fatalf("graph store: %v", err)
	}
	defer store.Close()

	recencyCache := cache.New(cfg.CacheCapacity)
	extractor := extract.New(ouiLookup, recencyCache)
	multicast := classify.Multicast{}
	projector := project.New(recencyCache, multicast)

	var src pipeline.Source
	total := 0
	if cfg.PcapPath != "" {
		fs, err := capture.OpenFile(cfg.PcapPath)
		if err != nil {
			log.Fatalf("open pcap: %v", err)
		}
		src = fs
		if !cfg.NoCount {
			if n, err := capture.CountFile(cfg.PcapPath); err == nil {
				total = n
			} else {
				slog.Warn("pre-pass packet count failed", "error", err)
			}
		}
	} else {
		ls, err := capture.OpenLive(cfg.Interface, 0, true, 0)
		if err != nil {
			log.Fatalf("open interface %s: %v", cfg.Interface, err)
		}
		src = ls
	}
	defer src.Close()

	driver := pipeline.New(src, extractor, projector, store, recencyCache, pipeline.Config{
		Reduced:    cfg.Reduced,
		NoCount:    cfg.NoCount,
		DebugAt:    cfg.DebugAt,
		DebugTime:  cfg.DebugTime,
		DebugCache: cfg.DebugCache,
		Total:      total,
	})

	res, err := driver.Run(ctx)
	if err != nil {
		slog.Error("pipeline run ended with an error", "error", err, "packets_processed", res.PacketsProcessed)
		os.Exit(1)
	}

	slog.Info("pipeline run complete",
		"run_id", res.RunID,
		"packets_processed", res.PacketsProcessed,
		"packets_skipped", res.PacketsSkipped,
	)
	if cfg.DebugTime {
		slog.Info("timing", "wall_time", res.WallTime, "executor_time", res.ExecutorTime)
	}
	if cfg.DebugCache {
		for kind, stats := range res.CacheReport {
			slog.Info("cache stats", "kind", kind, "hits", stats.Hits, "misses", stats.Misses, "size", stats.Size, "capacity", stats.Capacity)
		}
	}
}
