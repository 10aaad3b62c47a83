package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration for a graphcap run.
type Config struct {
	// Capture source: exactly one of PcapPath or Interface should be set.
	// Interface capture always runs at reduced fidelity: the pipeline driver
	// forces it on for a live source regardless of Reduced.
	PcapPath  string
	Interface string

	// Graph store.
	GraphDriver string // sqlite | postgres | mysql | clickhouse
	GraphDSN    string

	// OUI vendor database (separate sqlite file, looked up via mattn/go-sqlite3).
	OUIDBPath string
	// OUIFilePath is an optional flat-text OUI override file, consulted
	// ahead of OUIDBPath for any prefix it covers.
	OUIFilePath string

	CacheCapacity int
	Reduced       bool
	NoCount       bool
	DebugAt       int
	DebugTime     bool
	DebugCache    bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	cfg.PcapPath = getEnv("GRAPHCAP_PCAP", "")
	cfg.Interface = getEnv("GRAPHCAP_INTERFACE", "")
	cfg.GraphDriver = getEnv("GRAPHCAP_GRAPH_DRIVER", "sqlite")
	cfg.GraphDSN = getEnv("GRAPHCAP_GRAPH_DSN", getDefaultDBPath())
	cfg.OUIDBPath = getEnv("GRAPHCAP_OUI_DB", "")
	cfg.OUIFilePath = getEnv("GRAPHCAP_OUI_FILE", "")
	cfg.CacheCapacity = int(getEnvFloat("GRAPHCAP_CACHE_CAPACITY", 50))
	cfg.Reduced = getEnvBool("GRAPHCAP_REDUCE", false)
	cfg.NoCount = getEnvBool("GRAPHCAP_NO_COUNT", false)
	cfg.DebugAt = int(getEnvFloat("GRAPHCAP_DEBUG_AT", -2))
	cfg.DebugTime = getEnvBool("GRAPHCAP_DEBUG_TIME", false)
	cfg.DebugCache = getEnvBool("GRAPHCAP_DEBUG_CACHE", false)

	flag.StringVar(&cfg.PcapPath, "pcap", cfg.PcapPath, "Path to a pcap file to process (offline mode)")
	flag.StringVar(&cfg.Interface, "i", cfg.Interface, "Network interface to capture live (forces --reduce)")
	flag.StringVar(&cfg.GraphDriver, "graph-driver", cfg.GraphDriver, "Graph store driver: sqlite, postgres, mysql, clickhouse")
	flag.StringVar(&cfg.GraphDSN, "graph-dsn", cfg.GraphDSN, "Graph store DSN (sqlite path or driver-specific connection string)")
	flag.StringVar(&cfg.OUIDBPath, "oui-db", cfg.OUIDBPath, "Path to OUI vendor sqlite database (empty to disable)")
	flag.StringVar(&cfg.OUIFilePath, "oui-file", cfg.OUIFilePath, "Path to a flat-text OUI override file, consulted before --oui-db")
	flag.IntVar(&cfg.CacheCapacity, "cache-capacity", cfg.CacheCapacity, "Recency cache capacity per kind")
	flag.BoolVar(&cfg.Reduced, "reduce", cfg.Reduced, "Use reduced fidelity CONNECTED edges (no aggregates)")
	flag.BoolVar(&cfg.NoCount, "no-count", cfg.NoCount, "Skip the pre-pass packet count (disables progress totals)")
	flag.IntVar(&cfg.DebugAt, "debug-at", cfg.DebugAt, "Enable verbose executor tracing for one packet index")
	flag.BoolVar(&cfg.DebugTime, "debug-time", cfg.DebugTime, "Report wall-clock and executor time on exit")
	flag.BoolVar(&cfg.DebugCache, "debug-cache", cfg.DebugCache, "Report per-kind cache hit/miss/size stats on exit")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getDefaultDBPath returns the default graph store path in the user's home
// directory. Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("warning: could not get user home directory, using current dir: %v", err)
		return "graphcap.db"
	}

	dir := filepath.Join(home, ".graphcap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("warning: could not create .graphcap directory, using current dir: %v", err)
		return "graphcap.db"
	}

	return filepath.Join(dir, "graph.db")
}
