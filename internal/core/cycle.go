package core

// ComputeCycleMetrics derives cycle timing from the human tasks of a process.
// With no human tasks the cycle falls back to one cycle per hour.
func ComputeCycleMetrics(tasks []Task, hoursPerWeek float64) CycleMetrics {
	cycleTime := float64(countHumanTasks(tasks)) * TaskDurationMins
	cyclesPerHour := 1.0
	if cycleTime > 0 {
		cyclesPerHour = 60 / cycleTime
	}
	return CycleMetrics{
		CycleTimeMins: cycleTime,
		CyclesPerHour: cyclesPerHour,
		CyclesPerYear: cyclesPerHour * hoursPerWeek * WeeksPerYear,
	}
}

func countHumanTasks(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.ActorType == ActorHuman {
			n++
		}
	}
	return n
}
