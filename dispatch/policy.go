package dispatch

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/ridesim/dispatch-sim/citymap"
)

// RoadGraph is the read-only view of the road network handed to a
// SearchPolicy (spec §6). It exposes only these two accessors rather than
// the Map's internal fields; no copy is made, and the *Road and
// *Intersection values it returns are the map's own, so a policy that
// writes through them changes the simulator's map. *citymap.Map satisfies
// this interface.
type RoadGraph interface {
	RoadsFrom(id citymap.IntersectionID) []*citymap.Road
	Intersection(id citymap.IntersectionID) (*citymap.Intersection, bool)
}

// SearchPolicy chooses the next road for an empty, wandering agent (spec
// §6 "search-policy collaborator"). A small, single-method interface by
// design (spec §9) so alternative strategies plug in without touching the
// dispatch kernel.
type SearchPolicy interface {
	NextRoad(agent *Agent, graph RoadGraph) *citymap.Road
}

// RandomSearchPolicy picks uniformly at random among the roads leaving the
// agent's current intersection. The default, grounded on the teacher's
// PartitionedRNG subsystem isolation (rng.go): every agent draws from the
// same SubsystemPolicy stream, in the event queue's deterministic order,
// so the wander sequence is reproducible for a fixed seed (spec §5).
type RandomSearchPolicy struct {
	rng *rand.Rand
}

// NewRandomSearchPolicy creates a RandomSearchPolicy drawing from the
// search-policy subsystem of rng.
func NewRandomSearchPolicy(rng *PartitionedRNG) *RandomSearchPolicy {
	return &RandomSearchPolicy{rng: rng.ForSubsystem(SubsystemPolicy)}
}

// NextRoad implements SearchPolicy. Returns nil if the current
// intersection has no outgoing roads (a dead end in the road graph); the
// caller leaves the agent parked rather than crashing (spec §7 "Exceptions
// from the search-policy collaborator are logged and the offending agent
// is left in its current phase").
func (p *RandomSearchPolicy) NextRoad(agent *Agent, graph RoadGraph) *citymap.Road {
	from := agent.Location.Road.To
	options := graph.RoadsFrom(from)
	if len(options) == 0 {
		logrus.Warnf("search policy found no outgoing road from intersection %d (agent %d)", from, agent.ID)
		return nil
	}
	return options[p.rng.Intn(len(options))]
}
