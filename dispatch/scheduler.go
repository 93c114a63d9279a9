package dispatch

import (
	"fmt"

	"github.com/ridesim/dispatch-sim/citymap"
)

// HubRedirectThreshold is the travel time below which a dropoff is
// redirected to the nearest hub instead of ending at the resource's
// original dropoff location (spec §4.7 step 5, §6 "hub_redirect_threshold").
const HubRedirectThreshold int64 = 60

// dispatchMatch executes spec §4.7 steps 1-4 for one matched pair at pool
// close: reconstruct the agent's exact road position, compute arrival
// time, fold timings into Statistics, and move both entities out of their
// respective sets. The actual dropoff/hub decision (step 5) is deferred
// to onReachedPickup, fired when the agent's PickingUp event reaches
// arriveTime — see dispatch/event.go's AgentEvent doc comment for why the
// spec's "PICKING_UP -> DROPPING_OFF" transition is modeled as two
// distinct events rather than one.
func (s *Simulator) dispatchMatch(match Match, poolCloseTime int64) {
	a, r := match.Agent, match.Resource

	// Step 1: reconstruct the agent's exact location on its current road.
	travelToEnd := a.NextEventTime - poolCloseTime
	travelFromStart := a.Location.Road.TravelTime - travelToEnd
	agentLoc := citymap.LocationOnRoad{Road: a.Location.Road, TravelTimeFromStart: travelFromStart}

	// Step 2: arrival time at pickup.
	arriveTime := poolCloseTime + s.Map.TravelTime(agentLoc, r.Pickup)

	// Step 3: statistics.
	cruise := poolCloseTime - a.StartSearchTime
	approach := arriveTime - poolCloseTime
	search := cruise + approach
	wait := arriveTime - r.AvailableTime
	s.Stats.RecordAssignment(cruise, approach, search, wait)

	// Step 4: remove from sets, cancel outstanding events.
	s.EmptyAgents.Remove(a.ID)
	s.WaitingResources.Remove(r.ID)
	if a.pendingSeq != 0 {
		s.EventQueue.RemoveByID(a.pendingSeq)
		a.pendingSeq = 0
	}
	if r.pendingSeq != 0 {
		s.EventQueue.RemoveByID(r.pendingSeq)
		r.pendingSeq = 0
	}

	a.Location = agentLoc
	a.Phase = PickingUp
	a.Assignment = &Assignment{ResourceID: r.ID, Pickup: r.Pickup, Dropoff: r.Dropoff}
	a.NextEventTime = arriveTime
	s.scheduleAgentEvent(arriveTime, a.ID, PickingUp)
}

// onReachedPickup executes spec §4.7 step 5 when the agent's scheduled
// PickingUp event fires: pick a hub redirect or the resource's own
// dropoff, and schedule the real dropoff event.
func (s *Simulator) onReachedPickup(a *Agent) {
	assignment := a.Assignment
	if assignment == nil {
		panic((&InvariantViolation{Diagnostic: fmt.Sprintf("agent %d reached pickup with no assignment", a.ID)}).Error())
	}
	r, ok := s.resources[assignment.ResourceID]
	if !ok {
		panic((&InvariantViolation{Diagnostic: fmt.Sprintf("agent %d assignment references unknown resource %d", a.ID, assignment.ResourceID)}).Error())
	}

	arriveTime := a.NextEventTime

	dest := assignment.Dropoff
	dropoffTime := arriveTime + r.TripTime

	if hub, hubTime, ok := s.nearestHub(assignment.Dropoff); ok && hubTime < HubRedirectThreshold {
		dest = hub
		dropoffTime = arriveTime + r.TripTime + hubTime
	}

	if dropoffTime < arriveTime {
		panic((&InvariantViolation{Diagnostic: fmt.Sprintf("dropoff for agent %d, resource %d scheduled with negative duration", a.ID, r.ID)}).Error())
	}

	a.Phase = DroppingOff
	a.Assignment.Dropoff = dest
	a.NextEventTime = dropoffTime
	a.Location = dest
	s.scheduleAgentEvent(dropoffTime, a.ID, DroppingOff)
}

// nearestHub returns the hub with the least travel time from loc and that
// travel time, or false if the simulator has no hubs.
func (s *Simulator) nearestHub(loc citymap.LocationOnRoad) (citymap.LocationOnRoad, int64, bool) {
	if len(s.Hubs) == 0 {
		return citymap.LocationOnRoad{}, 0, false
	}
	best := s.Hubs[0]
	bestTime := s.Map.TravelTime(loc, best)
	for _, h := range s.Hubs[1:] {
		t := s.Map.TravelTime(loc, h)
		if t < bestTime {
			best, bestTime = h, t
		}
	}
	return best, bestTime, true
}
