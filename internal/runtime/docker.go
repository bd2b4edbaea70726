package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/catalystcommunity/app-utils-go/logging"
)

// DockerRuntime implements ContainerRuntime over the Docker daemon.
// Grounded on the teacher's internal/worker/docker_runner.go, adapted
// from a spawn/stream/wait/cleanup shape to the poll-based
// Run/Inspect/Stats/Logs/Remove/List contract this system needs.
type DockerRuntime struct {
	client *client.Client
}

// NewDockerRuntime dials the daemon via the usual DOCKER_HOST/env
// conventions.
func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &DockerRuntime{client: cli}, nil
}

func (d *DockerRuntime) Run(ctx context.Context, spec RunSpec) (string, error) {
	logger := logging.Log.WithField("container_name", spec.Name)

	if err := d.ensureImage(ctx, spec.Image); err != nil {
		return "", fmt.Errorf("ensuring image %s: %w", spec.Image, err)
	}

	binds := make([]string, 0, len(spec.Mounts))
	for host, dest := range spec.Mounts {
		binds = append(binds, fmt.Sprintf("%s:%s", host, dest))
	}

	cfg := &container.Config{
		Image:        spec.Image,
		Env:          envMapToSlice(spec.Env),
		AttachStdout: true,
		AttachStderr: true,
		Labels: map[string]string{
			"agent_orchestrator.managed": "true",
		},
	}

	hostCfg := &container.HostConfig{
		Binds:      binds,
		Memory:     spec.MemoryLimitBytes,
		AutoRemove: false,
		LogConfig: container.LogConfig{
			Type: "json-file",
		},
	}
	if spec.CPUPeriod > 0 {
		hostCfg.CPUPeriod = spec.CPUPeriod
		hostCfg.CPUQuota = spec.CPUQuota
	}

	logger.WithField("image", spec.Image).Info("creating container")
	resp, err := d.client.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("creating container: %w", err)
	}
	if len(resp.Warnings) > 0 {
		logger.WithField("warnings", resp.Warnings).Warn("container creation warnings")
	}

	if err := d.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		d.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("starting container: %w", err)
	}

	logger.WithField("container_id", resp.ID).Info("container started")
	return resp.ID, nil
}

func (d *DockerRuntime) Inspect(ctx context.Context, handle string) (InspectResult, error) {
	info, err := d.client.ContainerInspect(ctx, handle)
	if err != nil {
		if client.IsErrNotFound(err) {
			return InspectResult{}, ErrNotFound
		}
		return InspectResult{}, fmt.Errorf("inspecting container: %w", err)
	}

	result := InspectResult{Raw: info.State.Status}
	switch info.State.Status {
	case "running":
		result.State = StateRunning
	case "exited":
		result.State = StateExited
		result.ExitCode = info.State.ExitCode
	}
	return result, nil
}

func (d *DockerRuntime) Stats(ctx context.Context, handle string) (ResourceSample, error) {
	statsResp, err := d.client.ContainerStats(ctx, handle, false)
	if err != nil {
		if client.IsErrNotFound(err) {
			return ResourceSample{}, ErrNotFound
		}
		return ResourceSample{}, fmt.Errorf("fetching container stats: %w", err)
	}
	defer statsResp.Body.Close()

	body, err := io.ReadAll(statsResp.Body)
	if err != nil {
		return ResourceSample{}, fmt.Errorf("reading container stats: %w", err)
	}

	var raw container.StatsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return ResourceSample{}, fmt.Errorf("decoding container stats: %w", err)
	}

	info, err := d.client.ContainerInspect(ctx, handle)
	if err != nil {
		if client.IsErrNotFound(err) {
			return ResourceSample{}, ErrNotFound
		}
		return ResourceSample{}, fmt.Errorf("inspecting container for stats: %w", err)
	}

	var rxBytes, txBytes int64
	for _, net := range raw.Networks {
		rxBytes += int64(net.RxBytes)
		txBytes += int64(net.TxBytes)
	}

	var blkio int64
	for _, entry := range raw.BlkioStats.IoServiceBytesRecursive {
		blkio += int64(entry.Value)
	}

	startedAt, _ := time.Parse(time.RFC3339Nano, info.State.StartedAt)

	return ResourceSample{
		ContainerID:      handle,
		Name:             info.Name,
		Status:           info.State.Status,
		CPUTotalUsage:    raw.CPUStats.CPUUsage.TotalUsage,
		CPUSystemUsage:   raw.CPUStats.SystemUsage,
		PreCPUTotalUsage: raw.PreCPUStats.CPUUsage.TotalUsage,
		PreSystemUsage:   raw.PreCPUStats.SystemUsage,
		OnlineCPUs:       int(raw.CPUStats.OnlineCPUs),
		MemoryUsage:      int64(raw.MemoryStats.Usage),
		MemoryLimit:      int64(raw.MemoryStats.Limit),
		NetworkRxBytes:   rxBytes,
		NetworkTxBytes:   txBytes,
		BlkioBytes:       blkio,
		StartedAt:        startedAt.Unix(),
		RestartCount:     info.RestartCount,
	}, nil
}

func (d *DockerRuntime) Logs(ctx context.Context, handle string, tail int) ([]byte, error) {
	opts := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	}
	if tail > 0 {
		opts.Tail = strconv.Itoa(tail)
	}

	logs, err := d.client.ContainerLogs(ctx, handle, opts)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching container logs: %w", err)
	}
	defer logs.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("demultiplexing container logs: %w", err)
	}

	out := stdout.Bytes()
	out = append(out, stderr.Bytes()...)
	return out, nil
}

func (d *DockerRuntime) Remove(ctx context.Context, handle string, force bool) error {
	err := d.client.ContainerRemove(ctx, handle, container.RemoveOptions{
		Force:         force,
		RemoveVolumes: true,
	})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("removing container: %w", err)
	}
	return nil
}

func (d *DockerRuntime) List(ctx context.Context) ([]string, error) {
	containers, err := d.client.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	ids := make([]string, 0, len(containers))
	for _, c := range containers {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (d *DockerRuntime) ensureImage(ctx context.Context, imageName string) error {
	_, _, err := d.client.ImageInspectWithRaw(ctx, imageName)
	if err == nil {
		return nil
	}

	logging.Log.WithField("image", imageName).Info("pulling image")
	pull, err := d.client.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pulling image: %w", err)
	}
	defer pull.Close()

	if _, err := io.Copy(io.Discard, pull); err != nil {
		return fmt.Errorf("reading pull response: %w", err)
	}
	return nil
}

func envMapToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}
