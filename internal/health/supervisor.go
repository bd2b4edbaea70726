package health

import (
	"context"
	"sync"
	"time"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/gammazero/workerpool"

	"github.com/haroon0x/agent-orchestrator/internal/metrics"
	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/haroon0x/agent-orchestrator/internal/runtime"
)

// Supervisor runs the two cooperating sampling tasks spec.md §4.8
// describes at a fixed interval, grounded on the teacher's
// ResourceMonitor (ticker + stopCh + WaitGroup + mutex-guarded
// snapshot), generalized from one worker's own process metrics to a
// fleet of containers sampled through a ContainerRuntime.
type Supervisor struct {
	rt           runtime.ContainerRuntime
	interval     time.Duration
	store        *Store
	checks       []ServiceCheck
	probeTimeout time.Duration

	mu     sync.RWMutex
	latest model.HealthSample

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewSupervisor constructs a Supervisor. retentionHours sizes the
// store's bounded history.
func NewSupervisor(rt runtime.ContainerRuntime, intervalSeconds, retentionHours int, checks []ServiceCheck, probeTimeoutSeconds int) *Supervisor {
	return &Supervisor{
		rt:           rt,
		interval:     time.Duration(intervalSeconds) * time.Second,
		store:        NewStore(retentionHours, intervalSeconds),
		checks:       checks,
		probeTimeout: time.Duration(probeTimeoutSeconds) * time.Second,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the sampling loop. Idempotent: a second call is a no-op.
func (s *Supervisor) Start(ctx context.Context) {
	s.once.Do(func() {
		s.wg.Add(1)
		go s.loop(ctx)
	})
}

// Stop halts the sampling loop and waits for it to exit. Idempotent.
func (s *Supervisor) Stop() {
	select {
	case <-s.stopCh:
		// already stopped
	default:
		close(s.stopCh)
	}
	s.wg.Wait()
}

func (s *Supervisor) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sampleOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Log.Info("health supervisor stopping: context cancelled")
			return
		case <-s.stopCh:
			logging.Log.Info("health supervisor stopping")
			return
		case <-ticker.C:
			s.sampleOnce(ctx)
		}
	}
}

func (s *Supervisor) sampleOnce(ctx context.Context) {
	handles, err := s.rt.List(ctx)
	if err != nil {
		logging.Log.WithError(err).Warn("listing containers for health sampling failed")
		handles = nil
	}

	pool := workerpool.New(4)
	var mu sync.Mutex
	containers := make(map[string]model.ContainerHealth)

	for _, handle := range handles {
		handle := handle
		pool.Submit(func() {
			rs, err := s.rt.Stats(ctx, handle)
			if err != nil {
				return
			}
			if !IsAgentContainer(rs.Name) {
				return
			}

			now := time.Now()
			servicesStatus := ProbeServices(ctx, s.checks, s.probeTimeout)
			ch := SampleContainer(rs, servicesStatus, now)

			s.store.RecordContainer(ch.ContainerID, now, ch.CPUPercent, ch.MemoryPercent)
			metrics.UpdateContainerUsage(ch.ContainerID, ch.CPUPercent, ch.MemoryPercent)
			metrics.UpdateContainerHealth(ch.ContainerID, string(ch.HealthStatus))

			mu.Lock()
			containers[ch.ContainerID] = ch
			mu.Unlock()
		})
	}
	pool.StopWait()

	active, failed := s.tallyHostContainers(ctx, handles)

	sys := SampleSystem(active, failed)
	s.store.RecordSystem(time.Now(), sys.CPUPercent, sys.MemoryPercent)
	metrics.UpdateSystemUsage(sys.CPUPercent, sys.MemoryPercent)

	s.mu.Lock()
	s.latest = model.HealthSample{System: sys, Containers: containers}
	s.mu.Unlock()
}

// tallyHostContainers counts active vs. failed containers across every
// handle List returned, independent of the agent-name marker and of
// whether Stats succeeds for that container — grounded on the
// original's _check_system_health, which counts every container
// docker_client.containers.list(all=True) returns by its .status,
// with no such qualifiers.
func (s *Supervisor) tallyHostContainers(ctx context.Context, handles []string) (active, failed int) {
	pool := workerpool.New(4)
	var mu sync.Mutex

	for _, handle := range handles {
		handle := handle
		pool.Submit(func() {
			result, err := s.rt.Inspect(ctx, handle)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			if result.State == runtime.StateRunning {
				active++
			} else {
				failed++
			}
		})
	}
	pool.StopWait()
	return active, failed
}

// Latest returns the most recent sample and its derived overall status
// and alerts.
func (s *Supervisor) Latest() (model.HealthSample, model.HealthStatus, []model.Alert) {
	s.mu.RLock()
	sample := s.latest
	s.mu.RUnlock()

	status := OverallStatus(sample.System, sample.Containers)
	alerts := DeriveAlerts(sample.System, sample.Containers)
	return sample, status, alerts
}

// Store exposes the bounded-history store for aggregate queries.
func (s *Supervisor) Store() *Store {
	return s.store
}
