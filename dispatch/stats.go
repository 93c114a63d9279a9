package dispatch

// Statistics accumulates simulation-wide counters for the final report
// (spec §2 item 7, §4.7 step 3). A single record owned by the Simulator
// and mutated only on its call stack (spec §9 "Global mutable statistics").
type Statistics struct {
	TotalAssignments   int
	ExpiredResources   int
	TotalResourcesSeen int

	CruiseTimeSum   int64
	ApproachTimeSum int64
	SearchTimeSum   int64
	WaitTimeSum     int64

	PoolBenefitSum float64
	PoolCount      int
	TotalPoolTime  int64

	prom *promGauges // nil unless EnablePrometheus is called
}

// NewStatistics creates a zeroed Statistics record.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// RecordAssignment folds one matched (agent, resource) pair's timings into
// the running totals (spec §4.7 step 3).
func (s *Statistics) RecordAssignment(cruise, approach, search, wait int64) {
	s.TotalAssignments++
	s.CruiseTimeSum += cruise
	s.ApproachTimeSum += approach
	s.SearchTimeSum += search
	s.WaitTimeSum += wait

	if s.prom != nil {
		s.prom.assignments.Inc()
		s.prom.approachSeconds.Observe(float64(approach))
		s.prom.waitSeconds.Observe(float64(wait))
	}
}

// RecordExpiration records one resource expiring unmatched (spec §4.9).
func (s *Statistics) RecordExpiration() {
	s.ExpiredResources++
	if s.prom != nil {
		s.prom.expired.Inc()
	}
}

// RecordResourceSeen records one resource entering the simulation, for the
// resource-accounting invariant (spec §8 property 4).
func (s *Statistics) RecordResourceSeen() {
	s.TotalResourcesSeen++
}

// RecordPoolClose folds a closed pool's benefit and duration into the
// running totals (spec §4.6 "pool_benefit").
func (s *Statistics) RecordPoolClose(benefitSum float64, duration int64) {
	s.PoolBenefitSum += benefitSum
	s.PoolCount++
	s.TotalPoolTime += duration

	if s.prom != nil {
		s.prom.poolBenefit.Observe(benefitSum)
		s.prom.poolsClosed.Inc()
	}
}

// Report is the final, read-only summary produced at the end of a run
// (spec §6 "CLI/report").
type Report struct {
	TotalAssignments     int
	ExpiredResources     int
	TotalResourcesSeen   int
	StillWaitingAtEnd    int
	AverageSearchTime    float64
	AverageCruiseTime    float64
	AverageApproachTime  float64
	AverageWaitTime      float64
	ExpirationPercentage float64
	TotalPoolTime        int64
	AveragePoolTime      float64
	AverageBenefit       float64
}

// Report computes the final report. stillWaiting is the size of
// WaitingResources at simulation end (spec §8 property 4).
func (s *Statistics) Report(stillWaiting int) Report {
	r := Report{
		TotalAssignments:   s.TotalAssignments,
		ExpiredResources:   s.ExpiredResources,
		TotalResourcesSeen: s.TotalResourcesSeen,
		StillWaitingAtEnd:  stillWaiting,
		TotalPoolTime:      s.TotalPoolTime,
	}

	if s.TotalAssignments > 0 {
		r.AverageSearchTime = float64(s.SearchTimeSum) / float64(s.TotalAssignments)
		r.AverageCruiseTime = float64(s.CruiseTimeSum) / float64(s.TotalAssignments)
		r.AverageApproachTime = float64(s.ApproachTimeSum) / float64(s.TotalAssignments)
		r.AverageWaitTime = float64(s.WaitTimeSum) / float64(s.TotalAssignments)
	}
	if s.TotalResourcesSeen > 0 {
		r.ExpirationPercentage = 100 * float64(s.ExpiredResources) / float64(s.TotalResourcesSeen)
	}
	if s.PoolCount > 0 {
		r.AveragePoolTime = float64(s.TotalPoolTime) / float64(s.PoolCount)
	}
	if s.TotalAssignments > 0 {
		r.AverageBenefit = s.PoolBenefitSum / float64(s.TotalAssignments)
	}

	return r
}
