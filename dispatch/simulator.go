package dispatch

import (
	"fmt"

	"github.com/ridesim/dispatch-sim/citymap"
)

// Simulator is the event-driven dispatch kernel (spec §2, §4.10). All
// mutable state — the event queue, agent/resource sets, and statistics —
// is owned by the Simulator and mutated only on its own call stack (spec
// §5 "Shared resources").
type Simulator struct {
	Map  *citymap.Map
	Hubs []citymap.LocationOnRoad

	ResourceMaxLifeTime int64
	SimulationEnd       int64

	EventQueue       *EventHeap
	EmptyAgents      *EmptyAgents
	WaitingResources *WaitingResources
	Pool             *PoolBatcher
	Stats            *Statistics
	Policy           SearchPolicy
	RNG              *PartitionedRNG

	Clock int64

	agents    map[AgentID]*Agent
	resources map[ResourceID]*Resource

	nextSeq   uint64
	processed int
	totalSeen int
}

// NewSimulator creates a Simulator. simulationEnd is the latest event time
// processed (spec §4.10); resourceMaxLifeTime is spec §6's
// "resource_maximum_life_time". Agents and the RNG subsystem used for the
// default search policy's wander choices are seeded by agentSeed (spec §6
// "agent_placement_seed").
func NewSimulator(m *citymap.Map, hubs []citymap.LocationOnRoad, simulationEnd, resourceMaxLifeTime int64, agentSeed int64) *Simulator {
	rng := NewPartitionedRNG(agentSeed)
	return &Simulator{
		Map:                 m,
		Hubs:                hubs,
		ResourceMaxLifeTime: resourceMaxLifeTime,
		SimulationEnd:       simulationEnd,
		EventQueue:          NewEventHeap(),
		EmptyAgents:         NewEmptyAgents(),
		WaitingResources:    NewWaitingResources(),
		Pool:                NewPoolBatcher(PoolWindow, 0),
		Stats:               NewStatistics(),
		Policy:              NewRandomSearchPolicy(rng),
		RNG:                 rng,
		agents:              make(map[AgentID]*Agent),
		resources:           make(map[ResourceID]*Resource),
	}
}

func (s *Simulator) newSeq() uint64 {
	s.nextSeq++
	return s.nextSeq
}

// AddAgent registers an initially-placed agent (spec §1 "agents are
// initially placed on the map"), sets its start-search time to the
// simulation start (spec §9 open question 3), inserts it into
// EmptyAgents, and schedules the event that fires when it finishes
// traversing its initial road.
func (s *Simulator) AddAgent(a *Agent) {
	a.Phase = IntersectionReached
	a.StartSearchTime = 0
	s.agents[a.ID] = a
	s.EmptyAgents.Insert(a)
	s.scheduleAgentEvent(a.NextEventTime, a.ID, IntersectionReached)
}

// AddResource registers a resource from the trace (spec §3 "Resources are
// created at setup"), computing its expiration time and scheduling its
// BECOMES_AVAILABLE event at AvailableTime.
func (s *Simulator) AddResource(r *Resource) {
	r.ExpirationTime = r.AvailableTime + s.ResourceMaxLifeTime
	r.EventCause = ResourceBecomesAvailable
	s.resources[r.ID] = r
	seq := s.newSeq()
	s.EventQueue.Schedule(&ResourceEvent{seq: seq, time: r.AvailableTime, ResourceID: r.ID, Cause: ResourceBecomesAvailable})
}

func (s *Simulator) scheduleAgentEvent(t int64, id AgentID, trigger AgentPhase) {
	seq := s.newSeq()
	s.agents[id].pendingSeq = seq
	s.EventQueue.Schedule(&AgentEvent{seq: seq, time: t, AgentID: id, Trigger: trigger})
}

func (s *Simulator) scheduleResourceEvent(t int64, id ResourceID, cause ResourceEventCause) {
	seq := s.newSeq()
	if cause == ResourceExpired {
		s.resources[id].pendingSeq = seq
	}
	s.EventQueue.Schedule(&ResourceEvent{seq: seq, time: t, ResourceID: id, Cause: cause})
}

// Progress returns the number of events processed so far and the number
// of resources that have entered the simulation, for periodic progress
// reporting (spec §6 "progress reporting", SPEC_FULL §D).
func (s *Simulator) Progress() (processedEvents, resourcesSeen int) {
	return s.processed, s.totalSeen
}

// Run drives the main event loop (spec §4.10) to completion or
// SimulationEnd, whichever comes first, and returns the final report.
func (s *Simulator) Run() Report {
	for {
		peek := s.EventQueue.Peek()
		if peek == nil || peek.Timestamp() > s.SimulationEnd {
			break
		}
		e := s.EventQueue.PopNext()

		if e.Timestamp() < s.Clock {
			panic((&InvariantViolation{Diagnostic: fmt.Sprintf("clock went backwards: %d < %d", e.Timestamp(), s.Clock)}).Error())
		}
		s.Clock = e.Timestamp()
		s.processed++

		// spec §4.5: "When the queue produces the first event with time
		// >= pool_end ... the pool closes". Reproduced for every event
		// type, using the triggering event's own time as the close time
		// (spec §9 open question 1) rather than pool_end itself.
		s.advancePool(e.Timestamp())

		if re, ok := e.(*ResourceEvent); ok && re.Cause == ResourceBecomesAvailable {
			s.totalSeen++
			s.Stats.RecordResourceSeen()
			s.Pool.Add(s.resources[re.ResourceID])
			continue
		}

		e.Execute(s)
	}

	if !s.Pool.IsEmpty() {
		s.runPoolClose(s.Clock)
	}

	return s.Stats.Report(s.WaitingResources.Len())
}

// advancePool slides the pool window forward past t, running the Matcher
// on every non-empty window it passes through (spec §4.5).
func (s *Simulator) advancePool(t int64) {
	for t >= s.Pool.poolEnd {
		if !s.Pool.IsEmpty() {
			s.runPoolClose(t)
			continue
		}
		s.Pool.poolStart = s.Pool.poolEnd
		s.Pool.poolEnd += s.Pool.window
	}
}

// runPoolClose drains the pool buffer, runs the Matcher (spec §4.6),
// dispatches every match (spec §4.7), and inserts surplus resources into
// WaitingResources with their expiration scheduled (spec §4.6 "Post-match
// policy"). closeTime is folded into the pool-duration statistic.
func (s *Simulator) runPoolClose(closeTime int64) {
	windowStart := s.Pool.poolStart
	batch := s.Pool.Close()
	if len(batch) == 0 {
		return
	}

	agents := s.EmptyAgents.Snapshot()
	matches := computeMatching(batch, agents, s.Map)

	matched := make(map[ResourceID]bool, len(matches))
	benefitSum := 0.0
	for _, match := range matches {
		matched[match.Resource.ID] = true
		benefitSum += match.Benefit
		s.dispatchMatch(match, closeTime)
	}
	s.Stats.RecordPoolClose(benefitSum, closeTime-windowStart)

	if len(agents) < len(batch) {
		for _, r := range batch {
			if matched[r.ID] {
				continue
			}
			s.WaitingResources.Insert(r)
			s.scheduleResourceEvent(r.ExpirationTime, r.ID, ResourceExpired)
		}
	}
}

// handleAgentEvent dispatches on the phase an AgentEvent signals reaching
// (spec §4.8).
func (s *Simulator) handleAgentEvent(e *AgentEvent) {
	a := s.agents[e.AgentID]
	switch e.Trigger {
	case IntersectionReached:
		s.onIntersectionReached(a)
	case PickingUp:
		s.onReachedPickup(a)
	case DroppingOff:
		s.onReachedDropoff(a)
	}
}

// onIntersectionReached implements spec §4.8 row 1: the search-policy
// collaborator chooses the next road and the agent keeps wandering.
func (s *Simulator) onIntersectionReached(a *Agent) {
	next := s.Policy.NextRoad(a, s.Map)
	if next == nil {
		// spec §7: exceptions from the search-policy collaborator are
		// logged and the offending agent is left in its current phase.
		return
	}
	a.Location = citymap.LocationOnRoad{Road: next, TravelTimeFromStart: 0}
	a.NextEventTime = s.Clock + next.TravelTime
	s.scheduleAgentEvent(a.NextEventTime, a.ID, IntersectionReached)
}

// onReachedDropoff implements spec §4.8 row 4: the agent becomes empty
// again and resumes wandering from its dropoff/hub location.
func (s *Simulator) onReachedDropoff(a *Agent) {
	a.Phase = IntersectionReached
	a.Assignment = nil
	a.StartSearchTime = s.Clock
	s.EmptyAgents.Insert(a)
	s.onIntersectionReached(a)
}

// handleResourceEvent dispatches on a ResourceEvent's cause (spec §3, §4.9).
func (s *Simulator) handleResourceEvent(e *ResourceEvent) {
	switch e.Cause {
	case ResourceExpired:
		s.onResourceExpired(e.ResourceID)
	case ResourceBecomesAvailable:
		// Run pools every BECOMES_AVAILABLE event before Execute, so
		// this is reached only when a caller executes the event
		// directly (spec §4.5); useful for isolated unit tests.
		s.WaitingResources.Insert(s.resources[e.ResourceID])
	}
}

// onResourceExpired implements spec §4.9: increments ExpiredResources,
// removes the resource from WaitingResources, and produces no follow-up
// event. If the resource was already assigned (absent from
// WaitingResources), the event is dropped silently.
func (s *Simulator) onResourceExpired(id ResourceID) {
	if !s.WaitingResources.Contains(id) {
		return
	}
	s.WaitingResources.Remove(id)
	s.Stats.RecordExpiration()
}
