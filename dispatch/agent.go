package dispatch

import (
	"sort"

	"github.com/ridesim/dispatch-sim/citymap"
)

// AgentPhase is the agent's current state-machine phase (spec §3, §4.8).
type AgentPhase int

const (
	IntersectionReached AgentPhase = iota
	PickingUp
	DroppingOff
)

func (p AgentPhase) String() string {
	switch p {
	case IntersectionReached:
		return "INTERSECTION_REACHED"
	case PickingUp:
		return "PICKING_UP"
	case DroppingOff:
		return "DROPPING_OFF"
	default:
		return "UNKNOWN"
	}
}

// Assignment is the resource an agent is currently committed to (spec §3).
type Assignment struct {
	ResourceID ResourceID
	Pickup     citymap.LocationOnRoad
	Dropoff    citymap.LocationOnRoad
}

// Agent is a simulated vehicle (spec §3). Invariant: an Agent appears in
// the simulator's EmptyAgents set iff Phase == IntersectionReached and
// Assignment == nil.
type Agent struct {
	ID              AgentID
	Location        citymap.LocationOnRoad
	NextEventTime   int64
	Phase           AgentPhase
	StartSearchTime int64
	Assignment      *Assignment

	// pendingSeq is the sequence number of this agent's currently
	// scheduled AgentEvent, used to cancel it by identity (spec §4.2,
	// §5 "Cancellation") when a match interrupts the agent's wander.
	pendingSeq uint64
}

// IsEmpty reports whether the agent currently satisfies the EmptyAgents
// membership invariant.
func (a *Agent) IsEmpty() bool {
	return a.Phase == IntersectionReached && a.Assignment == nil
}

// EmptyAgents is the ordered set of empty agents, keyed by id, with stable
// ascending iteration order (spec §4.3, §9 "natural-order sets").
type EmptyAgents struct {
	byID map[AgentID]*Agent
	ids  []AgentID // kept sorted ascending
}

// NewEmptyAgents creates an empty EmptyAgents set.
func NewEmptyAgents() *EmptyAgents {
	return &EmptyAgents{byID: make(map[AgentID]*Agent)}
}

// Insert adds an agent to the set. No-op if already present.
func (s *EmptyAgents) Insert(a *Agent) {
	if _, exists := s.byID[a.ID]; exists {
		return
	}
	s.byID[a.ID] = a
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= a.ID })
	s.ids = append(s.ids, 0)
	copy(s.ids[i+1:], s.ids[i:])
	s.ids[i] = a.ID
}

// Remove deletes an agent from the set by id. No-op if absent.
func (s *EmptyAgents) Remove(id AgentID) {
	if _, exists := s.byID[id]; !exists {
		return
	}
	delete(s.byID, id)
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i < len(s.ids) && s.ids[i] == id {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
	}
}

// Contains reports whether id is currently a member.
func (s *EmptyAgents) Contains(id AgentID) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of empty agents.
func (s *EmptyAgents) Len() int {
	return len(s.ids)
}

// Snapshot returns the agents currently in the set, in ascending id order.
// The returned slice is a copy; mutating it does not affect the set.
func (s *EmptyAgents) Snapshot() []*Agent {
	out := make([]*Agent, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.byID[id]
	}
	return out
}
