package core

import (
	"errors"
	"fmt"
)

const stageCatalog = "catalog"

// ErrNonFinite reports a financial figure that overflowed to NaN or infinity.
var ErrNonFinite = errors.New("non-finite financial result")

// Evaluation is the deterministic output of the cost/savings/recommendation
// pipeline for one run.
type Evaluation struct {
	CostBenefit    []OptionCostBenefit
	Cycle          CycleMetrics
	Recommendation Recommendation
	Diagnostics    Diagnostics
}

// Evaluate runs the comparator, cycle metrics, projector and selector over the
// given inputs. It holds no state between calls and allocates every result.
func Evaluate(tasks []Task, robots []RobotRecord, options []AutomationOption, params FinancialParameters) Evaluation {
	var diags Diagnostics
	catalog := IndexRobots(robots, &diags)

	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		if seen[opt.OptionID] {
			diags.Warnf(stageValidate, opt.OptionID, "duplicate option_id")
		}
		seen[opt.OptionID] = true
		diags = append(diags, ValidateOption(opt, tasks)...)
	}

	cycle := ComputeCycleMetrics(tasks, params.HoursPerWeek)

	costBenefit := make([]OptionCostBenefit, 0, len(options))
	outcomes := make([]OptionOutcome, 0, len(options))
	for _, opt := range options {
		comparison := CompareOption(opt, catalog, params, &diags)
		costBenefit = append(costBenefit, comparison)
		projection, savings := ProjectSavings(opt, comparison, tasks, catalog, params, cycle, &diags)
		outcomes = append(outcomes, OptionOutcome{Projection: projection, Savings: savings})
	}

	return Evaluation{
		CostBenefit:    costBenefit,
		Cycle:          cycle,
		Recommendation: SelectRecommendation(outcomes, params.HumanCostPerMin),
		Diagnostics:    diags,
	}
}

// CheckFinite returns an error wrapping ErrNonFinite for the first figure in
// the evaluation that is NaN or infinite. Such a result cannot be encoded.
func (ev Evaluation) CheckFinite() error {
	check := func(name, optionID string, v float64) error {
		if finite(v) {
			return nil
		}
		if optionID == "" {
			return fmt.Errorf("%w: %s", ErrNonFinite, name)
		}
		return fmt.Errorf("%w: %s for option %s", ErrNonFinite, name, optionID)
	}

	cycle := ev.Cycle
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"cycle_time_mins", cycle.CycleTimeMins},
		{"cycles_per_hour", cycle.CyclesPerHour},
		{"cycles_per_year", cycle.CyclesPerYear},
	} {
		if err := check(f.name, "", f.v); err != nil {
			return err
		}
	}

	for _, cb := range ev.CostBenefit {
		for _, entry := range cb.RobotCostComparison {
			if err := check("human_cost_per_min", cb.OptionID, entry.HumanCostPerMin); err != nil {
				return err
			}
			if amount, ok := entry.RobotEffectiveCostPerHumanMin.Amount(); ok {
				if err := check("robot_effective_cost_per_human_min", cb.OptionID, amount); err != nil {
					return err
				}
			}
		}
	}

	for _, s := range ev.Recommendation.OptionSavings {
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"savings_per_cycle", s.SavingsPerCycle},
			{"annual_savings", s.AnnualSavings},
			{"percent_savings", s.PercentSavings},
		} {
			if err := check(f.name, s.OptionID, f.v); err != nil {
				return err
			}
		}
	}

	for _, p := range ev.Recommendation.AnnualProjections {
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"baseline_cost_per_cycle", p.BaselineCostPerCycle},
			{"robot_cost_per_cycle", p.RobotCostPerCycle},
			{"annual_baseline_cost", p.AnnualBaselineCost},
			{"annual_cost_with_automation", p.AnnualCostWithAutomation},
			{"robot_capex", p.RobotCapex},
		} {
			if err := check(f.name, p.OptionID, f.v); err != nil {
				return err
			}
		}
	}
	return nil
}

// IndexRobots keys robots by name. Later duplicates are dropped.
func IndexRobots(robots []RobotRecord, diags *Diagnostics) map[string]RobotRecord {
	index := make(map[string]RobotRecord, len(robots))
	for _, r := range robots {
		if _, dup := index[r.Name]; dup {
			if diags != nil {
				diags.Warnf(stageCatalog, r.Name, "duplicate robot name ignored")
			}
			continue
		}
		index[r.Name] = r
	}
	return index
}
