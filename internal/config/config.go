// Package config holds process-wide configuration, populated from the
// environment at import time, following the same pattern the rest of
// this service's teacher lineage uses.
package config

import (
	"os"

	"github.com/catalystcommunity/app-utils-go/env"
	"github.com/catalystcommunity/app-utils-go/logging"
	"gopkg.in/yaml.v3"
)

var (
	// AGENT_OUTPUT_DIR is the host root under which every job's
	// output_path/logs_path/workspace live, and where jobs.json is kept.
	OutputDir = env.GetEnvOrDefault("AGENT_OUTPUT_DIR", "/tmp/agent_jobs")

	// AGENT_IMAGE is the container image launched for each job.
	AgentImage = env.GetEnvOrDefault("AGENT_IMAGE", "containerized-agent:latest")

	// RETENTION_DAYS controls how long a completed job's output
	// directory is kept before Cleanup removes it.
	RetentionDays = env.GetEnvAsIntOrDefault("RETENTION_DAYS", "1")

	// Port is the HTTP control API's listen port.
	Port = env.GetEnvAsIntOrDefault("PORT", "8080")

	// HealthCheckIntervalSeconds is C8's sampling period.
	HealthCheckIntervalSeconds = env.GetEnvAsIntOrDefault("HEALTH_CHECK_INTERVAL", "30")

	// CleanupIntervalSeconds controls how often the retention GC runs
	// on a schedule in addition to at startup.
	CleanupIntervalSeconds = env.GetEnvAsIntOrDefault("CLEANUP_INTERVAL_SECONDS", "3600")

	// Health thresholds, percent.
	CPUWarningThreshold    = 80.0
	CPUCriticalThreshold   = 95.0
	MemoryWarningThreshold = 80.0
	MemoryCriticalThreshold = 95.0

	// Worker container resource limits (spec.md §4.2 / §5).
	ContainerMemoryLimitBytes int64 = 2 * 1024 * 1024 * 1024 // 2 GiB
	ContainerCPUPeriod        int64 = 100000
	ContainerCPUQuota         int64 = 50000

	// ScriptTimeoutSeconds bounds scripted-code execution (C6.3).
	ScriptTimeoutSeconds = 30

	// FileReferencePollAttempts/Interval bound the shell sub-executor's
	// wait for referenced files to become visible on disk (C6.2).
	FileReferencePollAttempts = 10
	FileReferencePollInterval = 100 // milliseconds

	// ServiceProbeTimeoutSeconds bounds each in-container service probe.
	ServiceProbeTimeoutSeconds = 5

	// HealthHistoryRetentionHours sizes C8's bounded sample history.
	HealthHistoryRetentionHours = env.GetEnvAsIntOrDefault("HEALTH_HISTORY_RETENTION_HOURS", "24")

	// ModelEndpoint/ModelAPIKey configure the worker's analyzer transport
	// (C5). The model backend itself stays opaque to this service.
	ModelEndpoint = env.GetEnvOrDefault("MODEL_ENDPOINT", "")
	ModelAPIKey   = env.GetEnvOrDefault("MODEL_API_KEY", "")

	// WorkerOSName is embedded in the analyzer's system instruction.
	WorkerOSName = env.GetEnvOrDefault("WORKER_OS_NAME", "bash on Ubuntu")
)

// ConfigFile is an optional YAML override path. When set and the file
// exists, its keys override the corresponding env-driven vars above at
// process startup. Every key is optional; an absent or missing file
// changes nothing.
var ConfigFile = env.GetEnvOrDefault("AGENT_CONFIG_FILE", "")

type fileOverrides struct {
	OutputDir     *string `yaml:"output_dir"`
	AgentImage    *string `yaml:"agent_image"`
	RetentionDays *int    `yaml:"retention_days"`
	Port          *int    `yaml:"port"`
	HealthCheckIntervalSeconds *int `yaml:"health_check_interval_seconds"`
}

// LoadOverrides applies the optional YAML config file on top of the
// env-driven defaults above, if ConfigFile is set and readable.
func LoadOverrides() error {
	if ConfigFile == "" {
		return nil
	}
	raw, err := os.ReadFile(ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var overrides fileOverrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return err
	}
	if overrides.OutputDir != nil {
		OutputDir = *overrides.OutputDir
	}
	if overrides.AgentImage != nil {
		AgentImage = *overrides.AgentImage
	}
	if overrides.RetentionDays != nil {
		RetentionDays = *overrides.RetentionDays
	}
	if overrides.Port != nil {
		Port = *overrides.Port
	}
	if overrides.HealthCheckIntervalSeconds != nil {
		HealthCheckIntervalSeconds = *overrides.HealthCheckIntervalSeconds
	}
	logging.Log.WithField("config_file", ConfigFile).Info("applied config file overrides")
	return nil
}
