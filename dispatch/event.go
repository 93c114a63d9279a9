package dispatch

// AgentID uniquely identifies an Agent (spec §3).
type AgentID int64

// ResourceID uniquely identifies a Resource (spec §3).
type ResourceID int64

// ResourceEventCause tags why a ResourceEvent fired (spec §3).
type ResourceEventCause int

const (
	ResourceBecomesAvailable ResourceEventCause = iota
	ResourceExpired
	ResourcePickedUp
)

func (c ResourceEventCause) String() string {
	switch c {
	case ResourceBecomesAvailable:
		return "BECOMES_AVAILABLE"
	case ResourceExpired:
		return "EXPIRED"
	case ResourcePickedUp:
		return "PICKED_UP"
	default:
		return "UNKNOWN"
	}
}

// Event is a tagged variant over AgentEvent and ResourceEvent (spec §3,
// §9 "Heterogeneous event queue via class hierarchy"). The queue stores
// values, not polymorphic references; each event carries a monotonically
// assigned sequence number for deterministic tie-breaking (spec §4.2, §5).
type Event interface {
	Timestamp() int64
	Seq() uint64
	Execute(s *Simulator)
}

// AgentEvent fires when an agent reaches the location that ends its
// current phase (spec §4.8): the next intersection, the pickup, or the
// dropoff. Trigger names the phase the agent is in when the event fires;
// the handler dispatches on it. A trip therefore takes two events: a
// PickingUp event at the pickup, whose handler makes the hub-redirect
// decision and schedules the dropoff, and a DroppingOff event at the
// dropoff, which makes the agent empty again.
type AgentEvent struct {
	seq     uint64
	time    int64
	AgentID AgentID
	Trigger AgentPhase
}

func (e *AgentEvent) Timestamp() int64 { return e.time }
func (e *AgentEvent) Seq() uint64      { return e.seq }
func (e *AgentEvent) Execute(s *Simulator) {
	s.handleAgentEvent(e)
}

// ResourceEvent fires on resource lifecycle transitions (spec §3, §4.5,
// §4.9): arrival, expiration, or (informationally) pickup.
type ResourceEvent struct {
	seq        uint64
	time       int64
	ResourceID ResourceID
	Cause      ResourceEventCause
}

func (e *ResourceEvent) Timestamp() int64 { return e.time }
func (e *ResourceEvent) Seq() uint64      { return e.seq }
func (e *ResourceEvent) Execute(s *Simulator) {
	s.handleResourceEvent(e)
}
