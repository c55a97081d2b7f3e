// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/company-dns/internal/explorer"
)

// File is the on-disk form of a browsing session: the query, the explorer
// state as a URL query string, and the loaded results. A saved session can
// be browsed again without re-querying the API.
type File[R any] struct {
	Query   string  `yaml:"query"`
	Host    string  `yaml:"host,omitempty"`
	State   string  `yaml:"state,omitempty"`
	Results []R     `yaml:"results"`
	Summary Summary `yaml:"summary"`
}

// Summary stores result statistics and a timestamp.
type Summary struct {
	Total     int            `yaml:"total"`
	Filtered  int            `yaml:"filtered"`
	Counts    map[string]int `yaml:"counts,omitempty"`
	Timestamp time.Time      `yaml:"timestamp"`
}

// NewFile captures the explorer's results and state.
func NewFile[R any, D explorer.Discriminant](e *explorer.Explorer[R, D], host string) *File[R] {
	counts := make(map[string]int)
	for d, n := range e.Counts() {
		if n > 0 {
			counts[string(d)] = n
		}
	}
	return &File[R]{
		Query:   e.Query(),
		Host:    host,
		State:   e.EncodeURLState(),
		Results: e.AllResults(),
		Summary: Summary{
			Total:     e.Total(),
			Filtered:  e.FilteredCount(),
			Counts:    counts,
			Timestamp: time.Now().UTC(),
		},
	}
}

// Restore loads the saved results into e and reapplies the saved state,
// including the page.
func Restore[R any, D explorer.Discriminant](f *File[R], e *explorer.Explorer[R, D]) {
	e.DecodeURLState(f.State)
	e.Load(f.Results, f.Query)
}

// WriteFile saves f as YAML.
func WriteFile[R any](path string, f *File[R]) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling session file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// ReadFile loads a previously saved session file.
func ReadFile[R any](path string) (*File[R], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	var f File[R]
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	return &f, nil
}
