package searcher

import "sync"

// NodeStatistics are the running statistics of a single tree node. Every
// accessor takes the node's lock, so an update is exclusive for its duration.
type NodeStatistics struct {
	sync.RWMutex
	selectCount    int
	sampleCount    float64
	expectedReward float64
}

// Stats is a point-in-time copy of NodeStatistics.
type Stats struct {
	SelectCount    int
	SampleCount    float64
	ExpectedReward float64
}

func (s *NodeStatistics) IncrementSelectCount() {
	s.Lock()
	defer s.Unlock()

	s.selectCount++
}

// AddSample folds sample with the given weight into the running mean:
// mean += weight*(sample-mean)/(weight+count), then count += weight.
func (s *NodeStatistics) AddSample(sample float64, weight float64) {
	s.Lock()
	defer s.Unlock()

	if weight <= 0 {
		violate("add sample", "non-positive weight %v", weight)
	}
	s.expectedReward += weight * (sample - s.expectedReward) / (weight + s.sampleCount)
	s.sampleCount += weight
}

// ExpectedSample is the weighted mean of all samples folded in so far.
func (s *NodeStatistics) ExpectedSample() float64 {
	s.RLock()
	defer s.RUnlock()

	return s.expectedReward
}

func (s *NodeStatistics) SelectCount() int {
	s.RLock()
	defer s.RUnlock()

	return s.selectCount
}

func (s *NodeStatistics) SampleCount() float64 {
	s.RLock()
	defer s.RUnlock()

	return s.sampleCount
}

func (s *NodeStatistics) Snapshot() Stats {
	s.RLock()
	defer s.RUnlock()

	return Stats{
		SelectCount:    s.selectCount,
		SampleCount:    s.sampleCount,
		ExpectedReward: s.expectedReward,
	}
}
