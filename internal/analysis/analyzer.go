package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"robotadvisor/internal/core"
)

// TaskExtractor turns a process video into an ordered task list.
type TaskExtractor interface {
	ExtractTasks(ctx context.Context, videoURI string) ([]core.Task, error)
}

// OptionGenerator proposes automation options for a task list and catalog.
// It returns the generator's raw text, which is parsed with ParseOptions.
type OptionGenerator interface {
	GenerateOptions(ctx context.Context, tasks []core.Task, robots []core.RobotRecord) (string, error)
}

// RobotCatalog supplies the robot records for a run.
type RobotCatalog interface {
	Robots(ctx context.Context) ([]core.RobotRecord, error)
}

// Notifier is told about every finished run.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// Request carries the caller's inputs. EfficiencyGainPercent is a percentage
// (20 means 20%) and is converted to a fraction once, here.
type Request struct {
	VideoURI              string
	HumanCostMin          float64
	DepreciationYears     float64
	HoursPerWeek          float64
	EfficiencyGainPercent float64
}

// Result is the complete payload of a successful run.
type Result struct {
	AnalysisID          string                   `json:"analysis_id"`
	ProcessTasks        []core.Task              `json:"process_tasks"`
	AvailableRobots     []core.RobotRecord       `json:"available_robots"`
	AutomationOptions   []core.AutomationOption  `json:"automation_options"`
	CostBenefitAnalysis []core.OptionCostBenefit `json:"cost_benefit_analysis"`
	Recommendation      core.Recommendation      `json:"recommendation"`
	TaskSavingsAnalysis []core.OptionSavings     `json:"task_savings_analysis"`
	AnnualProjections   []core.SavingsProjection `json:"annual_projections"`
	Cycle               core.CycleMetrics        `json:"cycle_metrics"`
	Diagnostics         core.Diagnostics         `json:"diagnostics,omitempty"`
}

// Analyzer sequences a full analysis run. It keeps no per-run state, so one
// Analyzer serves concurrent runs.
type Analyzer struct {
	extractor TaskExtractor
	generator OptionGenerator
	catalog   RobotCatalog
	notifier  Notifier
	logger    *slog.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithNotifier sends a short summary after each run that got past input validation.
func WithNotifier(n Notifier) Option {
	return func(a *Analyzer) { a.notifier = n }
}

// NewAnalyzer constructs an Analyzer with its collaborators.
func NewAnalyzer(extractor TaskExtractor, generator OptionGenerator, catalog RobotCatalog, logger *slog.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analyzer{
		extractor: extractor,
		generator: generator,
		catalog:   catalog,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

const maxHoursPerWeek = 168

// FinancialParameters validates the numeric inputs and converts the
// efficiency gain percentage to a fraction.
func (r Request) FinancialParameters() (core.FinancialParameters, error) {
	values := []struct {
		name     string
		v        float64
		positive bool
	}{
		{"human cost per minute", r.HumanCostMin, true},
		{"depreciation years", r.DepreciationYears, true},
		{"hours per week", r.HoursPerWeek, true},
		{"efficiency gain", r.EfficiencyGainPercent, false},
	}
	for _, val := range values {
		if math.IsNaN(val.v) || math.IsInf(val.v, 0) {
			return core.FinancialParameters{}, invalidInput("Invalid numerical input: %s must be a finite number", val.name)
		}
		if val.positive && val.v <= 0 {
			return core.FinancialParameters{}, invalidInput("Invalid numerical input: %s must be positive", val.name)
		}
	}
	if r.HoursPerWeek > maxHoursPerWeek {
		return core.FinancialParameters{}, invalidInput("Invalid numerical input: hours per week must not exceed %d", maxHoursPerWeek)
	}
	return core.FinancialParameters{
		HumanCostPerMin:   r.HumanCostMin,
		DepreciationYears: r.DepreciationYears,
		HoursPerWeek:      r.HoursPerWeek,
		EfficiencyGain:    r.EfficiencyGainPercent / 100,
	}, nil
}

// Analyze runs validation, task extraction, catalog load, option generation
// and evaluation. It returns either a complete Result or an error wrapping
// one of ErrInvalidInput, ErrExtraction, ErrCatalog or ErrUnexpected.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (result *Result, err error) {
	id := core.NewID()
	logger := a.logger.With("analysis_id", id)
	started := time.Now()

	validated := false
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analysis panicked", "panic", r)
			result = nil
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
		if validated {
			a.notify(ctx, logger, result, err)
		}
	}()

	params, err := req.FinancialParameters()
	if err != nil {
		return nil, err
	}
	validated = true
	logger.Info("analysis started", "video_uri", req.VideoURI,
		"human_cost_min", params.HumanCostPerMin, "depreciation_years", params.DepreciationYears,
		"hours_per_week", params.HoursPerWeek, "efficiency_gain", params.EfficiencyGain)

	tasks, err := a.extractor.ExtractTasks(ctx, req.VideoURI)
	if err != nil {
		logger.Error("extract tasks", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks identified in video", ErrExtraction)
	}
	var diags core.Diagnostics
	checkTaskIDs(tasks, &diags)

	robots, err := a.catalog.Robots(ctx)
	if err != nil {
		logger.Error("load robot catalog", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}
	if len(robots) == 0 {
		return nil, fmt.Errorf("%w: no available robot definitions found", ErrCatalog)
	}

	options := []core.AutomationOption{}
	raw, err := a.generator.GenerateOptions(ctx, tasks, robots)
	if err != nil {
		diags.Warnf(stageOptions, "", "option generation failed, continuing without options: %v", err)
	} else {
		var parseDiags core.Diagnostics
		options, parseDiags = ParseOptions(raw)
		diags = append(diags, parseDiags...)
	}

	ev := core.Evaluate(tasks, robots, options, params)
	if err := ev.CheckFinite(); err != nil {
		logger.Warn("evaluation overflowed", "err", err)
		return nil, invalidInput("Invalid numerical input: values are too large to evaluate (%v)", err)
	}
	diags = append(diags, ev.Diagnostics...)
	logDiagnostics(ctx, logger, diags)

	result = &Result{
		AnalysisID:          id,
		ProcessTasks:        tasks,
		AvailableRobots:     robots,
		AutomationOptions:   options,
		CostBenefitAnalysis: ev.CostBenefit,
		Recommendation:      ev.Recommendation,
		TaskSavingsAnalysis: ev.Recommendation.OptionSavings,
		AnnualProjections:   ev.Recommendation.AnnualProjections,
		Cycle:               ev.Cycle,
		Diagnostics:         diags,
	}

	recommended := "<none>"
	if ev.Recommendation.RecommendedOptionID != nil {
		recommended = *ev.Recommendation.RecommendedOptionID
	}
	logger.Info("analysis finished", "tasks", len(tasks), "robots", len(robots), "options", len(options),
		"recommended", recommended, "duration", time.Since(started))
	return result, nil
}

func (a *Analyzer) notify(ctx context.Context, logger *slog.Logger, result *Result, err error) {
	if a.notifier == nil {
		return
	}
	title := "Robot analysis finished"
	var body string
	switch {
	case err != nil || result == nil:
		title = "Robot analysis failed"
		if err != nil {
			body = err.Error()
		}
	case result.Recommendation.RecommendedOptionID != nil:
		body = result.Recommendation.Justification
	default:
		body = "No automation option recommended."
	}
	if sendErr := a.notifier.Send(context.WithoutCancel(ctx), title, body); sendErr != nil {
		logger.Warn("send notification", "err", sendErr)
	}
}

func checkTaskIDs(tasks []core.Task, diags *core.Diagnostics) {
	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			diags.Warnf("task_extraction", fmt.Sprint(t.ID), "duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
	}
}

func logDiagnostics(ctx context.Context, logger *slog.Logger, diags core.Diagnostics) {
	for _, d := range diags {
		level := slog.LevelInfo
		if d.Level == core.LevelWarn {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, d.Message, "stage", d.Stage, "subject", d.Subject)
	}
}
