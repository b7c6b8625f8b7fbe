// Package runlog extracts per-generation fitness values from the text a PonyGP
// run writes to the browser's local storage.
package runlog

import (
	"errors"
	"strings"

	"github.com/felixbrock/ponygp/internal/domain"
)

const (
	GenerationMarker = "Generation: "
	FitnessMarker    = "Fitness: "
	lineBreak        = "\n"

	// StorageKey is the local storage entry the run log is written to.
	StorageKey = "wasm_output"
)

var ErrNoRunLog = errors.New("no run log stored error")

// Store is a string-valued key/value store such as window.localStorage.
type Store interface {
	Get(key string) (string, bool)
}

// MapStore is a Store backed by a plain map.
type MapStore map[string]string

func (m MapStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Extract scans log for generation markers and returns, for each one, the text
// between the next fitness marker and the following line break.
//
// Markers are assumed to be paired and are not verified. A generation without a
// later fitness marker is read from offset len(FitnessMarker)-1, and a fitness
// value without a terminating line break is returned as "". The result always
// has one entry per generation marker.
//
// All offsets are byte offsets into log. On the missing-fitness path this
// differs from a browser, which counts UTF-16 code units: with multi-byte text
// before the marker the fallback offset lands earlier in the log.
func Extract(log string) domain.FitnessSeries {
	fitnesses := domain.FitnessSeries{}

	genIdx := -1
	for {
		genIdx = indexFrom(log, GenerationMarker, genIdx+1)
		if genIdx == -1 {
			break
		}

		start := indexFrom(log, FitnessMarker, genIdx) + len(FitnessMarker)
		end := indexFrom(log, lineBreak, start)

		fitnesses = append(fitnesses, substring(log, start, end))
	}

	return fitnesses
}

// Load reads the run log stored under StorageKey and extracts its fitnesses.
func Load(store Store) (domain.FitnessSeries, error) {
	log, ok := store.Get(StorageKey)
	if !ok {
		return nil, ErrNoRunLog
	}

	return Extract(log), nil
}

// indexFrom returns the index of the first substr in s at or after from, or -1.
func indexFrom(s string, substr string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}

	i := strings.Index(s[from:], substr)
	if i == -1 {
		return -1
	}

	return from + i
}

func substring(s string, start int, end int) string {
	if end < start {
		return ""
	}

	return s[start:end]
}
