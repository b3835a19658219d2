package core

import "fmt"

// OptionOutcome pairs an option's projection with its savings summary.
type OptionOutcome struct {
	Projection SavingsProjection
	Savings    OptionSavings
}

const (
	noDataJustification = "No valid cost comparison data available or human cost is non-positive."
	manualJustification = "No automation option is cost-effective. All analyzed options would increase costs compared to manual labor. " +
		"Recommendation: Keep process manual unless non-financial factors (quality, consistency, safety) justify automation."
)

// SelectRecommendation picks the option with the strictly highest positive
// annual savings. Ties keep the earlier option. When nothing saves money the
// result is NoAutomation; when there is nothing to evaluate the id is nil.
// Every evaluated option's data is returned either way.
func SelectRecommendation(outcomes []OptionOutcome, humanCostPerMin float64) Recommendation {
	rec := Recommendation{
		OptionSavings:     make([]OptionSavings, 0, len(outcomes)),
		AnnualProjections: make([]SavingsProjection, 0, len(outcomes)),
	}
	if len(outcomes) == 0 || !(humanCostPerMin > 0) {
		rec.Justification = noDataJustification
		return rec
	}

	best := -1
	for i, o := range outcomes {
		rec.OptionSavings = append(rec.OptionSavings, o.Savings)
		rec.AnnualProjections = append(rec.AnnualProjections, o.Projection)
		if o.Savings.AnnualSavings <= 0 {
			continue
		}
		if best < 0 || o.Savings.AnnualSavings > outcomes[best].Savings.AnnualSavings {
			best = i
		}
	}

	if best < 0 {
		id := NoAutomation
		rec.RecommendedOptionID = &id
		rec.Justification = manualJustification
		return rec
	}

	s := outcomes[best].Savings
	id := s.OptionID
	rec.RecommendedOptionID = &id
	rec.Justification = fmt.Sprintf(
		"Option %s recommended. It automates %d tasks, saving $%.2f per process cycle ($%.2f annually, %.1f%% reduction). "+
			"%d of these tasks use robots that are cheaper than human labor.",
		s.OptionID, s.NumAutomatedTasks, s.SavingsPerCycle, s.AnnualSavings, s.PercentSavings, s.NumTasksWithSavings,
	)
	return rec
}
