// Package health is C8: the sampling supervisor, bounded-history
// storage, and threshold classification for system and per-container
// resource usage.
package health

import (
	"sync"
	"time"

	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// sample is one timestamped scalar reading kept in a bounded history.
type sample struct {
	at    time.Time
	value float64
}

// deque is a fixed-capacity ring of timestamped samples, grounded on
// the original's collections.deque(maxlen=...) history buffers.
type deque struct {
	items []sample
	cap   int
}

func newDeque(capacity int) *deque {
	if capacity < 1 {
		capacity = 1
	}
	return &deque{cap: capacity}
}

func (d *deque) push(s sample) {
	d.items = append(d.items, s)
	if len(d.items) > d.cap {
		d.items = d.items[len(d.items)-d.cap:]
	}
}

func (d *deque) latest() (sample, bool) {
	if len(d.items) == 0 {
		return sample{}, false
	}
	return d.items[len(d.items)-1], true
}

func (d *deque) since(cutoff time.Time) []sample {
	var out []sample
	for _, s := range d.items {
		if !s.at.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// Store holds bounded CPU/memory history per container and for the
// system as a whole, guarded by a single mutex (spec.md §4.8:
// "a single mutex protects the deques").
type Store struct {
	mu sync.Mutex

	capacity int

	systemCPU *deque
	systemMem *deque

	containerCPU map[string]*deque
	containerMem map[string]*deque
}

// NewStore sizes each deque to hold retentionHours of samples taken
// every intervalSeconds, per spec.md §4.8 ("capacity = retention /
// interval").
func NewStore(retentionHours int, intervalSeconds int) *Store {
	capacity := 1
	if intervalSeconds > 0 {
		capacity = (retentionHours * 3600) / intervalSeconds
		if capacity < 1 {
			capacity = 1
		}
	}
	return &Store{
		capacity:     capacity,
		systemCPU:    newDeque(capacity),
		systemMem:    newDeque(capacity),
		containerCPU: make(map[string]*deque),
		containerMem: make(map[string]*deque),
	}
}

// RecordSystem appends one system-wide sample.
func (s *Store) RecordSystem(at time.Time, cpuPercent, memPercent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemCPU.push(sample{at: at, value: cpuPercent})
	s.systemMem.push(sample{at: at, value: memPercent})
}

// RecordContainer appends one per-container sample.
func (s *Store) RecordContainer(containerID string, at time.Time, cpuPercent, memPercent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cpuDeque, ok := s.containerCPU[containerID]
	if !ok {
		cpuDeque = newDeque(s.capacity)
		s.containerCPU[containerID] = cpuDeque
	}
	memDeque, ok := s.containerMem[containerID]
	if !ok {
		memDeque = newDeque(s.capacity)
		s.containerMem[containerID] = memDeque
	}
	cpuDeque.push(sample{at: at, value: cpuPercent})
	memDeque.push(sample{at: at, value: memPercent})
}

// DropContainer discards history for a container that no longer exists
// (removed, cleaned up).
func (s *Store) DropContainer(containerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.containerCPU, containerID)
	delete(s.containerMem, containerID)
}

// LatestSystem returns the most recent system CPU/mem sample pair.
func (s *Store) LatestSystem() (cpuPercent, memPercent float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, cok := s.systemCPU.latest()
	m, mok := s.systemMem.latest()
	if !cok || !mok {
		return 0, 0, false
	}
	return c.value, m.value, true
}

// AggregateSystemCPU computes avg/min/max system CPU over the last
// window.
func (s *Store) AggregateSystemCPU(window time.Duration, now time.Time) model.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregateOf(s.systemCPU.since(now.Add(-window)))
}

// AggregateSystemMemory computes avg/min/max system memory over the
// last window.
func (s *Store) AggregateSystemMemory(window time.Duration, now time.Time) model.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregateOf(s.systemMem.since(now.Add(-window)))
}

// AggregateContainerCPU computes avg/min/max CPU for one container over
// the last window.
func (s *Store) AggregateContainerCPU(containerID string, window time.Duration, now time.Time) model.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.containerCPU[containerID]
	if !ok {
		return model.Aggregate{}
	}
	return aggregateOf(d.since(now.Add(-window)))
}

// AggregateContainerMemory computes avg/min/max memory for one
// container over the last window.
func (s *Store) AggregateContainerMemory(containerID string, window time.Duration, now time.Time) model.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.containerMem[containerID]
	if !ok {
		return model.Aggregate{}
	}
	return aggregateOf(d.since(now.Add(-window)))
}

func aggregateOf(samples []sample) model.Aggregate {
	if len(samples) == 0 {
		return model.Aggregate{}
	}
	sum, min, max := 0.0, samples[0].value, samples[0].value
	for _, s := range samples {
		sum += s.value
		if s.value < min {
			min = s.value
		}
		if s.value > max {
			max = s.value
		}
	}
	return model.Aggregate{Avg: sum / float64(len(samples)), Min: min, Max: max}
}
