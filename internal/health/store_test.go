package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreLatestSystem(t *testing.T) {
	s := NewStore(1, 30)
	now := time.Now()
	s.RecordSystem(now, 10, 20)
	s.RecordSystem(now.Add(time.Second), 30, 40)

	cpuPercent, memPercent, ok := s.LatestSystem()
	assert.True(t, ok)
	assert.Equal(t, 30.0, cpuPercent)
	assert.Equal(t, 40.0, memPercent)
}

func TestStoreAggregateSystemCPU(t *testing.T) {
	s := NewStore(1, 30)
	now := time.Now()
	s.RecordSystem(now.Add(-2*time.Minute), 10, 0)
	s.RecordSystem(now.Add(-1*time.Minute), 20, 0)
	s.RecordSystem(now, 30, 0)

	agg := s.AggregateSystemCPU(5*time.Minute, now)
	assert.InDelta(t, 20.0, agg.Avg, 0.01)
	assert.Equal(t, 10.0, agg.Min)
	assert.Equal(t, 30.0, agg.Max)
}

func TestStoreAggregateExcludesSamplesOutsideWindow(t *testing.T) {
	s := NewStore(1, 30)
	now := time.Now()
	s.RecordSystem(now.Add(-1*time.Hour), 100, 0)
	s.RecordSystem(now, 10, 0)

	agg := s.AggregateSystemCPU(5*time.Minute, now)
	assert.Equal(t, 10.0, agg.Avg)
}

func TestStoreBoundedCapacityDropsOldestSamples(t *testing.T) {
	s := NewStore(0, 60) // capacity 1
	now := time.Now()
	s.RecordContainer("c1", now.Add(-time.Minute), 5, 0)
	s.RecordContainer("c1", now, 50, 0)

	agg := s.AggregateContainerCPU("c1", time.Hour, now)
	assert.Equal(t, 50.0, agg.Avg)
}

func TestStoreDropContainerRemovesHistory(t *testing.T) {
	s := NewStore(1, 30)
	now := time.Now()
	s.RecordContainer("c1", now, 50, 50)
	s.DropContainer("c1")

	agg := s.AggregateContainerCPU("c1", time.Hour, now)
	assert.Equal(t, 0.0, agg.Avg)
}
