package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() Config {
	return Config{
		Map:      MapConfig{MapFile: "city.json", SpeedReduction: 1.0},
		Agents:   AgentConfig{NumAgents: 10, AgentPlacementSeed: 1},
		Resource: ResourceConfig{TraceFile: "resources.csv", ResourceMaximumLifeTime: 600},
		Runtime:  RuntimeConfig{SimulationEndTime: 86400, LogLevel: "info"},
	}
}

func TestConfig_ValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := baseConfig()
	assert.NoError(t, cfg.validate())
}

func TestConfig_ValidateRejectsMissingMap(t *testing.T) {
	cfg := baseConfig()
	cfg.Map.MapFile = ""
	assert.Error(t, cfg.validate())
}

func TestConfig_ValidateRejectsMissingResources(t *testing.T) {
	cfg := baseConfig()
	cfg.Resource.TraceFile = ""
	assert.Error(t, cfg.validate())
}

func TestConfig_ValidateRejectsNonPositiveAgents(t *testing.T) {
	cfg := baseConfig()
	cfg.Agents.NumAgents = 0
	assert.Error(t, cfg.validate())
}

func TestConfig_ValidateRejectsSpeedReductionOutOfRange(t *testing.T) {
	cfg := baseConfig()
	cfg.Map.SpeedReduction = 0
	assert.Error(t, cfg.validate())

	cfg.Map.SpeedReduction = 1.5
	assert.Error(t, cfg.validate())
}

func TestConfig_ValidateRejectsNonPositiveResourceLifetime(t *testing.T) {
	cfg := baseConfig()
	cfg.Resource.ResourceMaximumLifeTime = 0
	assert.Error(t, cfg.validate())
}

func TestConfig_ValidateRejectsNonPositiveHorizon(t *testing.T) {
	cfg := baseConfig()
	cfg.Runtime.SimulationEndTime = 0
	assert.Error(t, cfg.validate())
}

func TestLoadConfigOverlay_OverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	yaml := "agents:\n  num_agents: 42\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg := baseConfig()
	require.NoError(t, loadConfigOverlay(path, &cfg))

	assert.Equal(t, 42, cfg.Agents.NumAgents)
	assert.Equal(t, "city.json", cfg.Map.MapFile) // untouched by overlay
}

func TestLoadConfigOverlay_EmptyPathIsNoOp(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, loadConfigOverlay("", &cfg))
	assert.Equal(t, baseConfig(), cfg)
}

func TestLoadConfigOverlay_MissingFile(t *testing.T) {
	cfg := baseConfig()
	err := loadConfigOverlay("/nonexistent/overlay.yaml", &cfg)
	assert.Error(t, err)
}
