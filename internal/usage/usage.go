// Package usage tracks how many times each audit feature has been invoked,
// persisted as a small JSON file next to the tool.
package usage

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Feature keys in the counter file.
const (
	FeatureSeal     = "seal"
	FeatureContract = "contract"
)

// Counters holds per-feature invocation counts.
type Counters struct {
	Seal     int `json:"seal"`
	Contract int `json:"contract"`
}

// Total returns the combined invocation count.
func (c Counters) Total() int {
	return c.Seal + c.Contract
}

// Store reads and writes the counter file. Counting is best-effort
// bookkeeping: a missing or corrupt file loads as zeros, and a failed save is
// logged, never fatal.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Load reads the current counters, defaulting to zeros on any failure.
func (s *Store) Load() Counters {
	var c Counters
	data, err := os.ReadFile(s.path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("usage.load.corrupt", "path", s.path, "error", err)
		return Counters{}
	}
	return c
}

// Increment bumps the named feature's count and saves.
func (s *Store) Increment(feature string) {
	c := s.Load()
	switch feature {
	case FeatureSeal:
		c.Seal++
	case FeatureContract:
		c.Contract++
	default:
		s.logger.Warn("usage.increment.unknown_feature", "feature", feature)
		return
	}
	s.save(c)
}

func (s *Store) save(c Counters) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		s.logger.Warn("usage.save.encode_failed", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("usage.save.write_failed", "path", s.path, "error", err)
	}
}
