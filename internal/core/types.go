package core

// ActorType identifies who performs a task in the observed process.
type ActorType string

const (
	ActorHuman   ActorType = "human"
	ActorMachine ActorType = "machine"
)

// Valid reports whether the actor type is one of the known values.
func (a ActorType) Valid() bool {
	return a == ActorHuman || a == ActorMachine
}

// Task is one step of the observed process. Slice order is process order.
type Task struct {
	ID        int       `json:"id"`
	Action    string    `json:"action"`
	ActorType ActorType `json:"actor_type"`
}

// RobotRecord describes a robot type available for assignment.
// Nil financial fields mean the catalog had no usable value.
type RobotRecord struct {
	Name                   string   `json:"robot_name"`
	NumLinks               int      `json:"num_links,omitempty"`
	NumJoints              int      `json:"num_joints,omitempty"`
	EstimatedReachM        float64  `json:"estimated_reach_m"`
	EstimatedPayloadKg     float64  `json:"estimated_payload_kg"`
	PurchasePrice          *float64 `json:"purchase_price"`
	OpCostPerMin           *float64 `json:"op_cost_per_min"`
	EndEffectorCostPercent *float64 `json:"end_effector_cost_percent"`
	URDFFilename           string   `json:"urdf_filename,omitempty"`
}

// FinancialParameters are the per-run scalars. EfficiencyGain is a fraction (0.2 = 20%).
type FinancialParameters struct {
	HumanCostPerMin   float64 `json:"human_cost_per_min"`
	DepreciationYears float64 `json:"depreciation_years"`
	HoursPerWeek      float64 `json:"hours_per_week"`
	EfficiencyGain    float64 `json:"efficiency_gain"`
}

// Assignment maps a human task to the robot proposed to perform it.
type Assignment struct {
	TaskID          TaskID `json:"task_id"`
	RobotName       string `json:"robot_name"`
	ReasonAutomated string `json:"reason_automated,omitempty"`
}

// UnassignedTask is a human task an option keeps manual.
type UnassignedTask struct {
	TaskID             TaskID `json:"task_id"`
	ReasonNotAutomated string `json:"reason_not_automated,omitempty"`
}

// AutomationOption is one candidate automation scenario.
type AutomationOption struct {
	OptionID             string           `json:"option_id"`
	Summary              string           `json:"summary,omitempty"`
	Assignments          []Assignment     `json:"assignments"`
	UnassignedHumanTasks []UnassignedTask `json:"unassigned_human_tasks"`
}

// CostComparisonEntry compares one robot used by an option against human labor.
type CostComparisonEntry struct {
	RobotName                     string  `json:"robot_name"`
	RobotEffectiveCostPerHumanMin Cost    `json:"robot_effective_cost_per_human_min"`
	HumanCostPerMin               float64 `json:"human_cost_per_min"`
	IsCheaper                     Cheaper `json:"is_cheaper"`
}

// OptionCostBenefit groups the comparisons for a single option.
type OptionCostBenefit struct {
	OptionID            string                `json:"option_id"`
	RobotCostComparison []CostComparisonEntry `json:"robot_cost_comparison"`
}

// CycleMetrics describes process-cycle timing.
type CycleMetrics struct {
	CycleTimeMins float64 `json:"cycle_time_mins"`
	CyclesPerHour float64 `json:"cycles_per_hour"`
	CyclesPerYear float64 `json:"cycles_per_year"`
}

// SavingsProjection holds the per-option cost projection used for charting.
type SavingsProjection struct {
	OptionID                      string    `json:"option_id"`
	BaselineCostPerCycle          float64   `json:"baseline_cost_per_cycle"`
	RobotCostPerCycle             float64   `json:"robot_cost_per_cycle"`
	AnnualBaselineCost            float64   `json:"annual_baseline_cost"`
	AnnualCostWithAutomation      float64   `json:"annual_cost_with_automation"`
	RobotCapex                    float64   `json:"robot_capex"`
	MissingCapexData              bool      `json:"missing_capex_data"`
	CumulativeCostsByYear         []float64 `json:"cumulative_costs_by_year"`
	BaselineCumulativeCostsByYear []float64 `json:"baseline_cumulative_costs_by_year"`
}

// OptionSavings is the per-option savings summary.
type OptionSavings struct {
	OptionID            string  `json:"option_id"`
	NumAutomatedTasks   int     `json:"num_automated_tasks"`
	NumTasksWithSavings int     `json:"num_tasks_with_savings"`
	SavingsPerCycle     float64 `json:"savings_per_cycle"`
	AnnualSavings       float64 `json:"annual_savings"`
	PercentSavings      float64 `json:"percent_savings"`
}

// NoAutomation is the recommendation sentinel for "keep the process manual".
const NoAutomation = "No_Automation"

// Recommendation is the final decision for a run. A nil RecommendedOptionID means
// there was nothing to evaluate, which is distinct from NoAutomation.
type Recommendation struct {
	RecommendedOptionID *string             `json:"recommended_option_id"`
	Justification       string              `json:"justification"`
	OptionSavings       []OptionSavings     `json:"option_savings"`
	AnnualProjections   []SavingsProjection `json:"annual_projections"`
}
