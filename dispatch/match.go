package dispatch

import (
	"sort"

	"github.com/ridesim/dispatch-sim/citymap"
)

// minTripDistanceMeters floors a degenerate (pickup == dropoff) trip
// distance so benefit stays in (0, 1] (spec §8 property 6).
const minTripDistanceMeters = 1.0

// Match pairs one Resource with one Agent, plus the benefit the pairing
// realized (spec §4.6 "pool_benefit").
type Match struct {
	Resource *Resource
	Agent    *Agent
	Benefit  float64
}

// computeMatching runs deferred-acceptance stable matching between a pool
// of resources and a snapshot of empty agents (spec §4.6), with the
// shorter-sided party proposing. |result| == min(len(resources), len(agents)).
//
// Preference construction builds dense |R|x|A| benefit and reach arrays
// plus |A|x|R| and |R|x|A| rank arrays (spec §9 "Nested list-of-lists benefit matrices... two dense 2-D
// arrays... allocated per pool and dropped after matching"), sized to the
// pool and discarded once computeMatching returns.
func computeMatching(resources []*Resource, agents []*Agent, m *citymap.Map) []Match {
	if len(resources) == 0 || len(agents) == 0 {
		return nil
	}

	benefit := make([][]float64, len(resources)) // benefit[r][a]
	reach := make([][]int64, len(resources))     // reach[r][a]
	for ri, r := range resources {
		benefit[ri] = make([]float64, len(agents))
		reach[ri] = make([]int64, len(agents))

		pickupLat, pickupLon := m.Coordinates(r.Pickup)
		dropoffLat, dropoffLon := m.Coordinates(r.Dropoff)
		tripDist := citymap.GreatCircleDistance(pickupLat, pickupLon, dropoffLat, dropoffLon)
		if tripDist == 0 {
			// A degenerate zero-length trip would otherwise force
			// benefit to 0, violating the (0, 1] bound (spec §8
			// property 6).
			tripDist = minTripDistanceMeters
		}

		for ai, a := range agents {
			agentLat, agentLon := m.Coordinates(a.Location)
			approachDist := citymap.GreatCircleDistance(agentLat, agentLon, pickupLat, pickupLon)
			benefit[ri][ai] = tripDist / (tripDist + approachDist)
			reach[ri][ai] = m.TravelTime(a.Location, r.Pickup)
		}
	}

	// resourcePrefs[r] = agent indices sorted by benefit desc, tie smaller AgentID.
	resourcePrefs := make([][]int, len(resources))
	for ri := range resources {
		prefs := make([]int, len(agents))
		for ai := range agents {
			prefs[ai] = ai
		}
		sort.SliceStable(prefs, func(i, j int) bool {
			bi, bj := benefit[ri][prefs[i]], benefit[ri][prefs[j]]
			if bi != bj {
				return bi > bj
			}
			return agents[prefs[i]].ID < agents[prefs[j]].ID
		})
		resourcePrefs[ri] = prefs
	}

	// agentPrefs[a] = resource indices sorted by reach time asc, tie smaller ResourceID.
	agentPrefs := make([][]int, len(agents))
	for ai := range agents {
		prefs := make([]int, len(resources))
		for ri := range resources {
			prefs[ri] = ri
		}
		sort.SliceStable(prefs, func(i, j int) bool {
			ti, tj := reach[prefs[i]][ai], reach[prefs[j]][ai]
			if ti != tj {
				return ti < tj
			}
			return resources[prefs[i]].ID < resources[prefs[j]].ID
		})
		agentPrefs[ai] = prefs
	}

	// agentRank[a][r] = position of resource r in agent a's preference list.
	agentRank := make([][]int, len(agents))
	for ai := range agents {
		agentRank[ai] = make([]int, len(resources))
		for rank, ri := range agentPrefs[ai] {
			agentRank[ai][ri] = rank
		}
	}
	// resourceRank[r][a] = position of agent a in resource r's preference list.
	resourceRank := make([][]int, len(resources))
	for ri := range resources {
		resourceRank[ri] = make([]int, len(agents))
		for rank, ai := range resourcePrefs[ri] {
			resourceRank[ri][ai] = rank
		}
	}

	var matches map[int]int // proposer idx -> accepter idx
	resourceToAgent := make(map[int]int)

	if len(resources) <= len(agents) {
		matches = deferredAcceptance(len(resources), len(agents), resourcePrefs, agentRank)
		resourceToAgent = matches
	} else {
		agentToResource := deferredAcceptance(len(agents), len(resources), agentPrefs, resourceRank)
		for a, r := range agentToResource {
			resourceToAgent[r] = a
		}
	}

	out := make([]Match, 0, len(resourceToAgent))
	for ri, ai := range resourceToAgent {
		out = append(out, Match{Resource: resources[ri], Agent: agents[ai], Benefit: benefit[ri][ai]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource.ID < out[j].Resource.ID })
	return out
}

// deferredAcceptance is the classic Gale-Shapley algorithm: each proposer
// proposes down its preference list; an accepter holds its best offer so
// far and rejects the rest. accepterRank[a][p] is the rank (lower is
// better) of proposer p in accepter a's preference list.
func deferredAcceptance(numProposers, numAccepters int, proposerPrefs [][]int, accepterRank [][]int) map[int]int {
	next := make([]int, numProposers)
	matchedAccepterOf := make([]int, numProposers)
	matchedProposerOf := make([]int, numAccepters)
	for i := range matchedAccepterOf {
		matchedAccepterOf[i] = -1
	}
	for i := range matchedProposerOf {
		matchedProposerOf[i] = -1
	}

	free := make([]int, numProposers)
	for i := range free {
		free[i] = i
	}

	for len(free) > 0 {
		p := free[0]
		free = free[1:]

		if next[p] >= len(proposerPrefs[p]) {
			continue // exhausted this proposer's list; it stays unmatched
		}
		a := proposerPrefs[p][next[p]]
		next[p]++

		if matchedProposerOf[a] == -1 {
			matchedProposerOf[a] = p
			matchedAccepterOf[p] = a
			continue
		}

		cur := matchedProposerOf[a]
		if accepterRank[a][p] < accepterRank[a][cur] {
			matchedProposerOf[a] = p
			matchedAccepterOf[p] = a
			matchedAccepterOf[cur] = -1
			free = append(free, cur)
		} else {
			free = append(free, p)
		}
	}

	result := make(map[int]int, numProposers)
	for p, a := range matchedAccepterOf {
		if a != -1 {
			result[p] = a
		}
	}
	return result
}

