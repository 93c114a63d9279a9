package dispatch

import "container/heap"

// EventHeap is a min-priority queue over Events (spec §4.2), ordered by
// (scheduled time ascending, sequence number ascending). It keeps an
// auxiliary index map so that RemoveByID runs in O(log n) rather than
// scanning the whole heap (spec §9 "a pairing heap with an auxiliary
// index-map is acceptable").
type EventHeap struct {
	events []Event
	index  map[uint64]int // event Seq() -> position in events
}

// NewEventHeap creates an empty EventHeap.
func NewEventHeap() *EventHeap {
	h := &EventHeap{index: make(map[uint64]int)}
	heap.Init(h)
	return h
}

func (h *EventHeap) Len() int { return len(h.events) }

func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]
	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}
	return ei.Seq() < ej.Seq()
}

func (h *EventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
	h.index[h.events[i].Seq()] = i
	h.index[h.events[j].Seq()] = j
}

func (h *EventHeap) Push(x interface{}) {
	e := x.(Event)
	h.index[e.Seq()] = len(h.events)
	h.events = append(h.events, e)
}

func (h *EventHeap) Pop() interface{} {
	old := h.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.events = old[0 : n-1]
	delete(h.index, item.Seq())
	return item
}

// Schedule adds an event to the heap.
func (h *EventHeap) Schedule(e Event) {
	heap.Push(h, e)
}

// PopNext removes and returns the next event, or nil if the heap is empty.
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(Event)
}

// Peek returns the next event without removing it, or nil if empty.
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0]
}

// RemoveByID cancels a previously scheduled event by its sequence number
// (spec §5 "Cancellation"). No-op if the event already fired or was never
// scheduled — callers are expected to track pending sequence numbers
// themselves (Agent.pendingSeq, Resource.pendingSeq).
func (h *EventHeap) RemoveByID(seq uint64) {
	i, ok := h.index[seq]
	if !ok {
		return
	}
	heap.Remove(h, i)
}
