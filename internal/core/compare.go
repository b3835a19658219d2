package core

const stageCompare = "cost_comparison"

// CompareOption computes a cost comparison entry for each distinct robot the
// option assigns, in first-reference order. Robots missing from the catalog
// get a NotComputable entry instead of failing the option.
func CompareOption(option AutomationOption, robots map[string]RobotRecord, params FinancialParameters, diags *Diagnostics) OptionCostBenefit {
	names := distinctRobotNames(option.Assignments)
	entries := make([]CostComparisonEntry, 0, len(names))
	for _, name := range names {
		cost := NotComputable
		if robot, ok := robots[name]; ok {
			cost = EffectiveCostPerHumanMin(robot, params.DepreciationYears, params.HoursPerWeek, params.EfficiencyGain)
			if !cost.IsComputable() && diags != nil {
				diags.Warnf(stageCompare, name, "effective cost not computable for option %s (missing op_cost_per_min or invalid T/H/G)", option.OptionID)
			}
		} else if diags != nil {
			diags.Warnf(stageCompare, name, "robot referenced by option %s is not in the catalog", option.OptionID)
		}
		entries = append(entries, CostComparisonEntry{
			RobotName:                     name,
			RobotEffectiveCostPerHumanMin: cost,
			HumanCostPerMin:               params.HumanCostPerMin,
			IsCheaper:                     CompareToHuman(cost, params.HumanCostPerMin),
		})
	}
	return OptionCostBenefit{OptionID: option.OptionID, RobotCostComparison: entries}
}

func distinctRobotNames(assignments []Assignment) []string {
	seen := make(map[string]struct{}, len(assignments))
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.RobotName]; ok {
			continue
		}
		seen[a.RobotName] = struct{}{}
		names = append(names, a.RobotName)
	}
	return names
}
