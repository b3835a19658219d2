package analysis

import "robotadvisor/internal/core"

// RobotCostQuote is the effective cost of one robot under caller-supplied
// operating parameters. The human comparison is present only when a human
// cost was given.
type RobotCostQuote struct {
	RobotName                     string        `json:"robot_name"`
	RobotEffectiveCostPerHumanMin core.Cost     `json:"robot_effective_cost_per_human_min"`
	HumanCostPerMin               *float64      `json:"human_cost_per_min,omitempty"`
	IsCheaper                     *core.Cheaper `json:"is_cheaper,omitempty"`
	DepreciationYears             float64       `json:"depreciation_years"`
	HoursPerWeek                  float64       `json:"hours_per_week"`
	EfficiencyGain                float64       `json:"efficiency_gain"`
}

// QuoteRobotCost evaluates a robot from loosely typed fields.
// depreciation_years and hours_per_week are required; efficiency_gain is a
// percentage defaulting to 0; human_cost_min is optional.
func QuoteRobotCost(robot core.RobotRecord, fields map[string]any) (RobotCostQuote, error) {
	years, ok := core.ParseNumber(fields["depreciation_years"])
	if !ok || years <= 0 {
		return RobotCostQuote{}, invalidInput("Invalid numerical input: depreciation_years must be a positive number")
	}
	hours, ok := core.ParseNumber(fields["hours_per_week"])
	if !ok || hours <= 0 {
		return RobotCostQuote{}, invalidInput("Invalid numerical input: hours_per_week must be a positive number")
	}
	gainPercent := 0.0
	if raw := fields["efficiency_gain"]; raw != nil {
		if gainPercent, ok = core.ParseNumber(raw); !ok {
			return RobotCostQuote{}, invalidInput("Invalid numerical input: efficiency_gain must be a number")
		}
	}

	gain := gainPercent / 100
	quote := RobotCostQuote{
		RobotName:                     robot.Name,
		RobotEffectiveCostPerHumanMin: core.EffectiveCostPerHumanMin(robot, years, hours, gain),
		DepreciationYears:             years,
		HoursPerWeek:                  hours,
		EfficiencyGain:                gain,
	}
	if raw := fields["human_cost_min"]; raw != nil {
		human, ok := core.ParseNumber(raw)
		if !ok || human <= 0 {
			return RobotCostQuote{}, invalidInput("Invalid numerical input: human_cost_min must be a positive number")
		}
		cheaper := core.CompareToHuman(quote.RobotEffectiveCostPerHumanMin, human)
		quote.HumanCostPerMin = &human
		quote.IsCheaper = &cheaper
	}
	return quote, nil
}
