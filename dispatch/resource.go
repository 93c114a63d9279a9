package dispatch

import (
	"sort"

	"github.com/ridesim/dispatch-sim/citymap"
)

// Resource is a trip request (spec §3).
type Resource struct {
	ID             ResourceID
	Pickup         citymap.LocationOnRoad
	Dropoff        citymap.LocationOnRoad
	AvailableTime  int64
	TripTime       int64
	ExpirationTime int64 // AvailableTime + ResourceMaximumLifeTime
	EventCause     ResourceEventCause

	// pendingSeq is the sequence number of this resource's currently
	// scheduled EXPIRED event (0 if none), used for cancellation (spec §5).
	pendingSeq uint64
}

// WaitingResources is the ordered set of pending resources, keyed by id,
// with stable ascending iteration order (spec §4.4, §9 "natural-order
// sets").
type WaitingResources struct {
	byID map[ResourceID]*Resource
	ids  []ResourceID // kept sorted ascending
}

// NewWaitingResources creates an empty WaitingResources set.
func NewWaitingResources() *WaitingResources {
	return &WaitingResources{byID: make(map[ResourceID]*Resource)}
}

// Insert adds a resource to the set. No-op if already present.
func (s *WaitingResources) Insert(r *Resource) {
	if _, exists := s.byID[r.ID]; exists {
		return
	}
	s.byID[r.ID] = r
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= r.ID })
	s.ids = append(s.ids, 0)
	copy(s.ids[i+1:], s.ids[i:])
	s.ids[i] = r.ID
}

// Remove deletes a resource from the set by id. No-op if absent.
func (s *WaitingResources) Remove(id ResourceID) {
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
func (s *WaitingResources) Contains(id ResourceID) bool {
	_, ok := s.byID[id]
	return ok
}

// Get returns the resource for id, if present.
func (s *WaitingResources) Get(id ResourceID) (*Resource, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Len returns the number of waiting resources.
func (s *WaitingResources) Len() int {
	return len(s.ids)
}

// Snapshot returns the resources currently in the set, in ascending id
// order. The returned slice is a copy.
func (s *WaitingResources) Snapshot() []*Resource {
	out := make([]*Resource, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.byID[id]
	}
	return out
}
