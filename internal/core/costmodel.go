package core

const (
	// WeeksPerYear is fixed; operating schedules are expressed in hours per week.
	WeeksPerYear = 52.0
	// TaskDurationMins is the assumed duration of every task.
	TaskDurationMins = 1.0
)

// EffectiveCostPerHumanMin returns the robot's amortized CAPEX plus OPEX per
// minute, scaled by its speed relative to a human (1+G).
//
// Missing OPEX, T <= 0, H <= 0 or 1+G <= 0 yield NotComputable. A missing
// purchase price or end-effector surcharge counts as zero.
func EffectiveCostPerHumanMin(robot RobotRecord, depreciationYears, hoursPerWeek, efficiencyGain float64) Cost {
	if robot.OpCostPerMin == nil {
		return NotComputable
	}
	opex, ok := ParseNumber(*robot.OpCostPerMin)
	if !ok {
		return NotComputable
	}
	capital := valueOr(robot.PurchasePrice, 0)
	surcharge := valueOr(robot.EndEffectorCostPercent, 0)

	if !(depreciationYears > 0) || !(hoursPerWeek > 0) {
		return NotComputable
	}
	speed := 1 + efficiencyGain
	if !(speed > 0) {
		return NotComputable
	}

	totalCapex := capital * (1 + surcharge)
	lifetimeMinutes := depreciationYears * WeeksPerYear * hoursPerWeek * 60
	capexPerMin := 0.0
	if lifetimeMinutes > 0 {
		capexPerMin = totalCapex / lifetimeMinutes
	}
	return Computable((capexPerMin + opex) / speed)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	if f, ok := ParseNumber(*v); ok {
		return f
	}
	return fallback
}
