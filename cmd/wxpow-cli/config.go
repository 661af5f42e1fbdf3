package main

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds every tunable the CLI exposes, mirroring node.Config's
// flat-struct-plus-DefaultConfig/ValidateConfig shape.
type Config struct {
	Body          string `json:"body"`
	UserID        string `json:"user_id"`
	Context       string `json:"context"`
	InitCores     []int  `json:"init_cores"`
	HashCores     []int  `json:"hash_cores"`
	UseLargePages bool   `json:"use_large_pages"`
	DiffTarget    int    `json:"diff_target"` // -1 means "no target"
	TimeLimitSecs int    `json:"time_limit_seconds"`
	JournalPath   string `json:"journal_path"`
	Progress      bool   `json:"progress"`
}

// DefaultConfig returns the CLI's out-of-the-box defaults.
func DefaultConfig() Config {
	return Config{
		InitCores:     []int{0},
		HashCores:     []int{0, 1},
		UseLargePages: false,
		DiffTarget:    -1,
		TimeLimitSecs: 0,
		JournalPath:   "",
		Progress:      false,
	}
}

// ValidateConfig rejects configurations that cannot be run, the way
// node.ValidateConfig rejects malformed bind addresses and peer lists.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Body) == "" {
		return errors.New("body is required")
	}
	if len(cfg.InitCores) == 0 {
		return errors.New("init_cores must name at least one core")
	}
	if len(cfg.HashCores) == 0 {
		return errors.New("hash_cores must name at least one core")
	}
	if cfg.DiffTarget > 256 {
		return fmt.Errorf("diff_target %d exceeds 256", cfg.DiffTarget)
	}
	if cfg.TimeLimitSecs < 0 {
		return errors.New("time_limit_seconds must be >= 0")
	}
	return nil
}

func parseCoreList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(p, "%d", &n); err != nil {
			return nil, fmt.Errorf("invalid core %q: %w", p, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("core %q must be >= 0", p)
		}
		out = append(out, n)
	}
	return out, nil
}
