package keystate

import (
	"sync/atomic"
	"time"
)

// Stats collects operation counters across a registry's instances.
// All counters are atomic; Stats is safe for concurrent use.
type Stats struct {
	instances      atomic.Int64
	writesApplied  atomic.Int64
	writesRejected atomic.Int64
	writesDropped  atomic.Int64
	updates        atomic.Int64
	emissions      atomic.Int64
	listeners      atomic.Int64
	warnings       atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	// Instances is the number of registered instances.
	Instances int64 `json:"instances"`

	// WritesApplied counts Store writes that committed.
	WritesApplied int64 `json:"writesApplied"`

	// WritesRejected counts Store writes a validator refused.
	WritesRejected int64 `json:"writesRejected"`

	// WritesDropped counts writes discarded by a computed setter.
	WritesDropped int64 `json:"writesDropped"`

	// Updates counts Update assignments.
	Updates int64 `json:"updates"`

	// Emissions counts listener invocations.
	Emissions int64 `json:"emissions"`

	// Listeners is the number of currently registered listeners.
	Listeners int64 `json:"listeners"`

	// Warnings counts recoverable misuse reports.
	Warnings int64 `json:"warnings"`

	// CollectedAt is when the snapshot was taken.
	CollectedAt time.Time `json:"collectedAt"`
}

// NewStats creates an empty stats collector.
func NewStats() *Stats {
	return &Stats{}
}

// Snapshot returns a point-in-time copy of all counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Instances:      s.instances.Load(),
		WritesApplied:  s.writesApplied.Load(),
		WritesRejected: s.writesRejected.Load(),
		WritesDropped:  s.writesDropped.Load(),
		Updates:        s.updates.Load(),
		Emissions:      s.emissions.Load(),
		Listeners:      s.listeners.Load(),
		Warnings:       s.warnings.Load(),
		CollectedAt:    time.Now(),
	}
}
