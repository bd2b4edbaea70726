package health

import (
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifyContainerHealthy(t *testing.T) {
	assert.Equal(t, model.HealthHealthy, ClassifyContainer(10, 20, nil))
}

func TestClassifyContainerWarningOnCPU(t *testing.T) {
	assert.Equal(t, model.HealthWarning, ClassifyContainer(85, 20, nil))
}

func TestClassifyContainerCriticalOnMemory(t *testing.T) {
	assert.Equal(t, model.HealthCritical, ClassifyContainer(10, 96, nil))
}

func TestClassifyContainerWarningOnOneUnhealthyService(t *testing.T) {
	services := map[string]string{"vnc": "unreachable: timeout"}
	assert.Equal(t, model.HealthWarning, ClassifyContainer(10, 20, services))
}

func TestClassifyContainerCriticalOnTwoUnhealthyServices(t *testing.T) {
	services := map[string]string{
		"vnc":     "unreachable: timeout",
		"jupyter": "unreachable: refused",
	}
	assert.Equal(t, model.HealthCritical, ClassifyContainer(10, 20, services))
}

func TestOverallStatusReflectsWorstContainer(t *testing.T) {
	sys := model.SystemHealth{CPUPercent: 5, MemoryPercent: 5}
	containers := map[string]model.ContainerHealth{
		"c1": {HealthStatus: model.HealthWarning},
		"c2": {HealthStatus: model.HealthCritical},
	}
	assert.Equal(t, model.HealthCritical, OverallStatus(sys, containers))
}

func TestDeriveAlertsIncludesSystemAndContainerBreaches(t *testing.T) {
	sys := model.SystemHealth{CPUPercent: 96, MemoryPercent: 10}
	containers := map[string]model.ContainerHealth{
		"c1": {HealthStatus: model.HealthCritical, CPUPercent: 99},
	}
	alerts := DeriveAlerts(sys, containers)
	assert.Len(t, alerts, 2)
}
