package ecs

import "time"

// RunnerStats provides statistics about runner state and behavior execution.
type RunnerStats struct {
	Frames          uint64
	ActiveEntities  int
	Tags            int
	BehaviorCount   int
	TotalExecutions int64
	Behaviors       []BehaviorStats
}

// BehaviorStats provides execution statistics for a single behavior, listed in run order.
type BehaviorStats struct {
	Name           string
	Priority       Priority
	Subscribers    int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type behaviorStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *behaviorStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d

	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

// Stats collects statistics about the runner.
func (r *Runner) Stats() *RunnerStats {
	stats := &RunnerStats{
		Frames:         r.frame.Frame,
		ActiveEntities: r.active.len(),
		Tags:           len(r.tags),
		BehaviorCount:  len(r.schedule.order),
		Behaviors:      make([]BehaviorStats, len(r.schedule.order)),
	}

	var totalExecs int64
	for i, list := range r.schedule.order {
		internal := list.stats

		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Behaviors[i] = BehaviorStats{
			Name:           list.name,
			Priority:       list.priority,
			Subscribers:    len(list.entries),
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
