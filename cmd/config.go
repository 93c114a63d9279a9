package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridesim/dispatch-sim/dispatch"
)

// MapConfig groups the road-network inputs (spec.md §6).
type MapConfig struct {
	MapFile             string  `yaml:"map_file"`
	BoundingPolygonFile string  `yaml:"bounding_polygon_file,omitempty"`
	SpeedReduction      float64 `yaml:"speed_reduction"`
}

// AgentConfig groups agent-fleet setup parameters (spec.md §6).
type AgentConfig struct {
	NumAgents          int   `yaml:"num_agents"`
	AgentPlacementSeed int64 `yaml:"agent_placement_seed"`
}

// ResourceConfig groups resource-trace parameters (spec.md §6).
type ResourceConfig struct {
	TraceFile               string `yaml:"trace_file"`
	ResourceMaximumLifeTime int64  `yaml:"resource_maximum_life_time"`
}

// RuntimeConfig groups simulation-horizon and observability parameters.
type RuntimeConfig struct {
	SimulationEndTime int64  `yaml:"simulation_end_time"`
	HubRedirectSecs   int64  `yaml:"hub_redirect_threshold_seconds,omitempty"`
	LogLevel          string `yaml:"log_level"`
	MetricsAddr       string `yaml:"metrics_addr,omitempty"`
}

// Config is the full run configuration, assembled from flags and
// optionally overlaid by a YAML file (SPEC_FULL §A).
type Config struct {
	Map      MapConfig      `yaml:"map"`
	Agents   AgentConfig    `yaml:"agents"`
	Resource ResourceConfig `yaml:"resources"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
}

// loadConfigOverlay reads a YAML file and overlays it onto cfg. Missing
// fields in the file leave cfg's flag-derived values untouched — yaml.v3
// only sets keys present in the document.
func loadConfigOverlay(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &dispatch.SetupError{Reason: fmt.Sprintf("reading config %s: %v", path, err)}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &dispatch.SetupError{Reason: fmt.Sprintf("parsing config %s: %v", path, err)}
	}
	return nil
}

// validate checks the assembled configuration before a run starts (spec.md
// §7, "invalid configuration ... SetupError").
func (c *Config) validate() error {
	if c.Map.MapFile == "" {
		return &dispatch.SetupError{Reason: "--map is required"}
	}
	if c.Resource.TraceFile == "" {
		return &dispatch.SetupError{Reason: "--resources is required"}
	}
	if c.Agents.NumAgents <= 0 {
		return &dispatch.SetupError{Reason: "--agents must be positive"}
	}
	if c.Map.SpeedReduction <= 0 || c.Map.SpeedReduction > 1 {
		return &dispatch.SetupError{Reason: "--speed-reduction must be in (0, 1]"}
	}
	if c.Resource.ResourceMaximumLifeTime <= 0 {
		return &dispatch.SetupError{Reason: "--resource-lifetime must be positive"}
	}
	if c.Runtime.SimulationEndTime <= 0 {
		return &dispatch.SetupError{Reason: "--horizon must be positive"}
	}
	return nil
}
