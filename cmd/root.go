// cmd/root.go
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ridesim/dispatch-sim/citymap"
	"github.com/ridesim/dispatch-sim/dispatch"
	"github.com/ridesim/dispatch-sim/mapio"
)

var (
	mapFile        string
	resourcesFile  string
	polygonFile    string
	configFile     string
	numAgents      int
	agentSeed      int64
	resourceLife   int64
	speedReduction float64
	logLevel       string
	horizon        int64
	metricsAddr    string
)

var rootCmd = &cobra.Command{
	Use:   "dispatch-sim",
	Short: "Discrete-event simulator for pool-batched vehicle dispatch",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dispatch simulation",
	RunE:  runSimulation,
}

// Execute runs the root command, mapping errors to exit codes (SPEC_FULL
// §D): SetupError exits 1, InvariantViolation (recovered panic) exits 2,
// success exits 0.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*dispatch.InvariantViolation); ok {
				logrus.Errorf("%v", r)
				os.Exit(2)
			}
			panic(r)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&mapFile, "map", "", "City map JSON file (required)")
	runCmd.Flags().StringVar(&resourcesFile, "resources", "", "Resource trace CSV file (required)")
	runCmd.Flags().StringVar(&polygonFile, "bounding-polygon", "", "KML bounding polygon clipping the resource trace (optional)")
	runCmd.Flags().StringVar(&configFile, "config", "", "YAML config file overlaying these flags (optional)")
	runCmd.Flags().IntVar(&numAgents, "agents", 10, "Number of agents to place on the map")
	runCmd.Flags().Int64Var(&agentSeed, "agent-seed", 1, "Master seed for agent placement and search policy")
	runCmd.Flags().Int64Var(&resourceLife, "resource-lifetime", 600, "Resource maximum life time in seconds before it expires unmatched")
	runCmd.Flags().Float64Var(&speedReduction, "speed-reduction", 1.0, "Road speed scaling factor in (0, 1]")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().Int64Var(&horizon, "horizon", 86400, "Simulation horizon in seconds")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus /metrics on (optional, e.g. :9090)")

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := Config{
		Map:      MapConfig{MapFile: mapFile, BoundingPolygonFile: polygonFile, SpeedReduction: speedReduction},
		Agents:   AgentConfig{NumAgents: numAgents, AgentPlacementSeed: agentSeed},
		Resource: ResourceConfig{TraceFile: resourcesFile, ResourceMaximumLifeTime: resourceLife},
		Runtime:  RuntimeConfig{SimulationEndTime: horizon, LogLevel: logLevel, MetricsAddr: metricsAddr},
	}
	if err := loadConfigOverlay(configFile, &cfg); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.Runtime.LogLevel)
	if err != nil {
		return &dispatch.SetupError{Reason: fmt.Sprintf("invalid log level %q", cfg.Runtime.LogLevel)}
	}
	logrus.SetLevel(level)

	m, hubs, err := mapio.LoadCityMap(cfg.Map.MapFile, cfg.Map.SpeedReduction)
	if err != nil {
		return err
	}
	logrus.Infof("loaded city map: %d intersections, %d roads, %d hubs", len(m.Intersections), len(m.Roads), len(hubs))

	var polygon *mapio.BoundingPolygon
	if cfg.Map.BoundingPolygonFile != "" {
		polygon, err = mapio.LoadBoundingPolygon(cfg.Map.BoundingPolygonFile)
		if err != nil {
			return err
		}
	}

	resources, err := mapio.LoadResourceTrace(cfg.Resource.TraceFile, m, polygon)
	if err != nil {
		return err
	}
	logrus.Infof("loaded %d resources from trace", len(resources))

	sim := dispatch.NewSimulator(m, hubs, cfg.Runtime.SimulationEndTime, cfg.Resource.ResourceMaximumLifeTime, cfg.Agents.AgentPlacementSeed)

	if cfg.Runtime.MetricsAddr != "" {
		sim.Stats.EnablePrometheus(prometheus.DefaultRegisterer)
		go serveMetrics(cfg.Runtime.MetricsAddr)
	}

	placeAgents(sim, m, cfg.Agents.NumAgents)
	for _, r := range resources {
		sim.AddResource(r)
	}

	logrus.Infof("starting simulation: %d agents, %d resources, horizon=%ds", cfg.Agents.NumAgents, len(resources), cfg.Runtime.SimulationEndTime)
	report := sim.Run()
	processed, seen := sim.Progress()
	logrus.Debugf("processed %d events, %d resources seen", processed, seen)

	printReport(report)
	return nil
}

// placeAgents scatters numAgents uniformly at random over the map's roads
// (spec.md §6 "agent_placement_seed"), using the Simulator's placement RNG
// subsystem so a fixed seed always produces the same initial fleet
// regardless of search-policy draws made later in the run.
func placeAgents(sim *dispatch.Simulator, m *citymap.Map, numAgents int) {
	roadIDs := make([]citymap.RoadID, 0, len(m.Roads))
	for id := range m.Roads {
		roadIDs = append(roadIDs, id)
	}
	sort.Slice(roadIDs, func(i, j int) bool { return roadIDs[i] < roadIDs[j] })

	rng := sim.RNG.ForSubsystem(dispatch.SubsystemPlacement)
	for i := 0; i < numAgents; i++ {
		road := m.Roads[roadIDs[rng.Intn(len(roadIDs))]]
		offset := int64(0)
		if road.TravelTime > 1 {
			offset = rng.Int63n(road.TravelTime)
		}
		a := &dispatch.Agent{
			ID:            dispatch.AgentID(i + 1),
			Location:      citymap.LocationOnRoad{Road: road, TravelTimeFromStart: offset},
			NextEventTime: road.TravelTime - offset,
		}
		sim.AddAgent(a)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Warnf("metrics server stopped: %v", err)
	}
}

func printReport(r dispatch.Report) {
	fmt.Printf("Total assignments:       %d\n", r.TotalAssignments)
	fmt.Printf("Expired resources:       %d (%.2f%%)\n", r.ExpiredResources, r.ExpirationPercentage)
	fmt.Printf("Total resources seen:    %d\n", r.TotalResourcesSeen)
	fmt.Printf("Still waiting at end:    %d\n", r.StillWaitingAtEnd)
	fmt.Printf("Average search time:     %.2fs\n", r.AverageSearchTime)
	fmt.Printf("Average cruise time:     %.2fs\n", r.AverageCruiseTime)
	fmt.Printf("Average approach time:   %.2fs\n", r.AverageApproachTime)
	fmt.Printf("Average wait time:       %.2fs\n", r.AverageWaitTime)
	fmt.Printf("Average pool time:       %.2fs\n", r.AveragePoolTime)
	fmt.Printf("Average benefit:         %.4f\n", r.AverageBenefit)
}
