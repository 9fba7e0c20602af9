// Package config loads server and engine settings from flags, falling back
// to CHESS_* environment variables and then to defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr           string
	AllowedOrigins string
	// Depth is the engine's default search depth in plies.
	Depth int
	// BranchCap is how many ordered root moves the engine searches.
	BranchCap     int
	SearchTimeout time.Duration
	// Seed seeds move-ordering randomness; 0 seeds from the clock.
	Seed      int64
	Randomize bool
	// Strict drops moves that leave the mover's own king in check.
	Strict   bool
	Workers  int
	LogLevel log.Level
}

// Load parses args (without the program name) over the environment.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	addr := fs.String("addr", getenv("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("origins", getenv("CHESS_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	depth := fs.Int("depth", getenvInt("CHESS_DEPTH", 3), "engine search depth in plies")
	branchCap := fs.Int("branch-cap", getenvInt("CHESS_BRANCH_CAP", 50), "root moves searched after ordering")
	timeout := fs.Duration("search-timeout", getenvDuration("CHESS_SEARCH_TIMEOUT", 10*time.Second), "wall-clock limit per engine move")
	seed := fs.Int64("seed", int64(getenvInt("CHESS_SEED", 0)), "move ordering seed (0 = time based)")
	randomize := fs.Bool("randomize", getenvBool("CHESS_RANDOMIZE", true), "perturb move ordering randomly")
	strict := fs.Bool("strict", getenvBool("CHESS_STRICT", false), "reject moves that leave the own king in check")
	workers := fs.Int("workers", getenvInt("CHESS_WORKERS", runtime.GOMAXPROCS(0)), "root moves searched concurrently")
	level := fs.String("log-level", getenv("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	lvl, err := parseLevel(*level)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Addr:           *addr,
		AllowedOrigins: *origins,
		Depth:          *depth,
		BranchCap:      *branchCap,
		SearchTimeout:  *timeout,
		Seed:           *seed,
		Randomize:      *randomize,
		Strict:         *strict,
		Workers:        *workers,
		LogLevel:       lvl,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Depth < 1:
		return fmt.Errorf("%w: depth must be at least 1, got %d", ErrInvalidConfig, c.Depth)
	case c.BranchCap < 1:
		return fmt.Errorf("%w: branch cap must be at least 1, got %d", ErrInvalidConfig, c.BranchCap)
	case c.SearchTimeout <= 0:
		return fmt.Errorf("%w: search timeout must be positive, got %s", ErrInvalidConfig, c.SearchTimeout)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Origins splits AllowedOrigins into its entries.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, s)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warnf("ignoring %s=%q: not an integer", key, v)
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
		log.Warnf("ignoring %s=%q: not a duration", key, v)
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
