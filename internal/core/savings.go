package core

import (
	"math"
	"strings"
)

const (
	stageSavings = "savings_projection"

	// defaultEndEffectorPercent is the tooling surcharge assumed when the catalog has none.
	defaultEndEffectorPercent = 0.25
	// maxProjectionYears bounds the cumulative series length.
	maxProjectionYears = 1000
)

// capexEstimates are substituted for robots without a purchase price, matched
// case-insensitively against the robot name in order.
var capexEstimates = []struct {
	needles []string
	price   float64
}{
	{needles: []string{"atlas"}, price: 250000},
	{needles: []string{"jvrc"}, price: 150000},
	{needles: []string{"digit"}, price: 200000},
	{needles: []string{"ggc", "testmodel"}, price: 180000},
}

const fallbackCapexEstimate = 100000

// EstimatePurchasePrice returns the heuristic purchase price used when a robot's
// catalog entry has none.
func EstimatePurchasePrice(robotName string) float64 {
	lower := strings.ToLower(robotName)
	for _, est := range capexEstimates {
		for _, needle := range est.needles {
			if strings.Contains(lower, needle) {
				return est.price
			}
		}
	}
	return fallbackCapexEstimate
}

// ProjectSavings computes per-cycle, annual and cumulative costs for one option
// together with its savings summary.
func ProjectSavings(
	option AutomationOption,
	comparison OptionCostBenefit,
	tasks []Task,
	robots map[string]RobotRecord,
	params FinancialParameters,
	cycles CycleMetrics,
	diags *Diagnostics,
) (SavingsProjection, OptionSavings) {
	taskToRobot := make(map[int]string, len(option.Assignments))
	for _, a := range option.Assignments {
		taskToRobot[int(a.TaskID)] = a.RobotName
	}
	robotCost := make(map[string]float64, len(comparison.RobotCostComparison))
	for _, entry := range comparison.RobotCostComparison {
		if amount, ok := entry.RobotEffectiveCostPerHumanMin.Amount(); ok {
			robotCost[entry.RobotName] = amount
		}
	}

	var humanPerCycle, automatedPerCycle float64
	for _, task := range tasks {
		if task.ActorType != ActorHuman {
			continue
		}
		humanCost := params.HumanCostPerMin * TaskDurationMins
		humanPerCycle += humanCost
		name, assigned := taskToRobot[task.ID]
		cost, priced := robotCost[name]
		if assigned && priced {
			automatedPerCycle += cost * TaskDurationMins
		} else {
			automatedPerCycle += humanCost
		}
	}

	savingsPerCycle := humanPerCycle - automatedPerCycle
	annualHuman := humanPerCycle * cycles.CyclesPerYear
	annualAutomated := automatedPerCycle * cycles.CyclesPerYear
	annualSavings := savingsPerCycle * cycles.CyclesPerYear

	capex, missing := optionCapex(option, robots, diags)

	projection := SavingsProjection{
		OptionID:                 option.OptionID,
		BaselineCostPerCycle:     humanPerCycle,
		RobotCostPerCycle:        automatedPerCycle,
		AnnualBaselineCost:       annualHuman,
		AnnualCostWithAutomation: annualAutomated,
		RobotCapex:               capex,
		MissingCapexData:         missing,
	}
	projection.CumulativeCostsByYear, projection.BaselineCumulativeCostsByYear =
		cumulativeSeries(option.OptionID, capex, annualAutomated, annualHuman, params.DepreciationYears, diags)

	withSavings := 0
	for _, name := range taskToRobot {
		if cost, ok := robotCost[name]; ok && cost < params.HumanCostPerMin {
			withSavings++
		}
	}
	percent := 0.0
	if humanPerCycle > 0 {
		percent = savingsPerCycle / humanPerCycle * 100
	}
	summary := OptionSavings{
		OptionID:            option.OptionID,
		NumAutomatedTasks:   len(option.Assignments),
		NumTasksWithSavings: withSavings,
		SavingsPerCycle:     savingsPerCycle,
		AnnualSavings:       annualSavings,
		PercentSavings:      percent,
	}
	return projection, summary
}

// optionCapex sums purchase_price*(1+E) over the distinct robots the option
// assigns. Unlike the per-minute cost model, a missing price is estimated from
// the robot name rather than zeroed.
func optionCapex(option AutomationOption, robots map[string]RobotRecord, diags *Diagnostics) (float64, bool) {
	total := 0.0
	missing := false
	for _, name := range distinctRobotNames(option.Assignments) {
		robot, known := robots[name]
		surcharge := defaultEndEffectorPercent
		var price float64
		priced := false
		if known {
			if robot.EndEffectorCostPercent != nil {
				if e, ok := ParseNumber(*robot.EndEffectorCostPercent); ok {
					surcharge = e
				}
			}
			if robot.PurchasePrice != nil {
				price, priced = ParseNumber(*robot.PurchasePrice)
			}
		}
		if !priced {
			price = EstimatePurchasePrice(name)
			missing = true
			if diags != nil {
				diags.Warnf(stageSavings, name, "purchase price missing for option %s, using estimate %.0f", option.OptionID, price)
			}
		}
		total += price * (1 + surcharge)
	}
	return total, missing
}

// cumulativeSeries builds year-indexed cumulative costs for years 0..floor(T).
func cumulativeSeries(optionID string, capex, annualAutomated, annualHuman, depreciationYears float64, diags *Diagnostics) ([]float64, []float64) {
	years := 0
	if depreciationYears >= 1 {
		years = int(math.Min(math.Floor(depreciationYears), maxProjectionYears))
		if depreciationYears > maxProjectionYears && diags != nil {
			diags.Warnf(stageSavings, optionID, "projection truncated to %d years", maxProjectionYears)
		}
	}
	automation := make([]float64, years+1)
	baseline := make([]float64, years+1)
	for y := 0; y <= years; y++ {
		automation[y] = automationAt(capex, annualAutomated, y)
		baseline[y] = baselineAt(annualHuman, y)
	}
	for y := range automation {
		if !finite(automation[y]) {
			automation[y] = finiteOrZero(automationAt(capex, annualAutomated, y))
			if diags != nil {
				diags.Warnf(stageSavings, optionID, "non-finite automation cost at year %d replaced", y)
			}
		}
		if !finite(baseline[y]) {
			baseline[y] = finiteOrZero(baselineAt(annualHuman, y))
			if diags != nil {
				diags.Warnf(stageSavings, optionID, "non-finite baseline cost at year %d replaced", y)
			}
		}
	}
	return automation, baseline
}

func automationAt(capex, annual float64, year int) float64 {
	if year == 0 {
		return capex
	}
	return capex + annual*float64(year)
}

func baselineAt(annual float64, year int) float64 {
	if year == 0 {
		return 0
	}
	return annual * float64(year)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if finite(v) {
		return v
	}
	return 0
}
