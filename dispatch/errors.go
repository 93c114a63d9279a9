package dispatch

import "fmt"

// SetupError indicates a fatal failure before the simulation loop starts:
// malformed map/resource data or invalid parameters (spec §7).
type SetupError struct {
	Reason string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("dispatch: setup error: %s", e.Reason)
}

// InvariantViolation indicates a fatal internal-consistency failure, such as
// a match against an agent absent from EmptyAgents, or a dropoff scheduled
// with negative duration (spec §7). The diagnostic names the offending
// entity ids.
type InvariantViolation struct {
	Diagnostic string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("dispatch: invariant violation: %s", e.Diagnostic)
}
