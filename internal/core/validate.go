package core

import "strings"

const stageValidate = "option_validation"

// ValidateOption checks that every human task appears in exactly one of the
// option's assignments or unassigned list. Problems are reported as
// diagnostics; the option itself is kept as-is.
func ValidateOption(option AutomationOption, tasks []Task) Diagnostics {
	var diags Diagnostics
	subject := option.OptionID
	if strings.TrimSpace(option.OptionID) == "" {
		diags.Warnf(stageValidate, "", "option has an empty option_id")
	}

	byID := make(map[int]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	assigned := make(map[int]int, len(option.Assignments))
	for _, a := range option.Assignments {
		id := int(a.TaskID)
		assigned[id]++
		task, ok := byID[id]
		switch {
		case !ok:
			diags.Warnf(stageValidate, subject, "assignment references unknown task %d", id)
		case task.ActorType != ActorHuman:
			diags.Warnf(stageValidate, subject, "assignment references %s task %d", task.ActorType, id)
		}
		if strings.TrimSpace(a.RobotName) == "" {
			diags.Warnf(stageValidate, subject, "assignment for task %d has no robot_name", id)
		}
	}
	reported := make(map[int]bool)
	for _, a := range option.Assignments {
		id := int(a.TaskID)
		if assigned[id] > 1 && !reported[id] {
			reported[id] = true
			diags.Warnf(stageValidate, subject, "task %d assigned %d times", id, assigned[id])
		}
	}

	unassigned := make(map[int]bool, len(option.UnassignedHumanTasks))
	for _, u := range option.UnassignedHumanTasks {
		id := int(u.TaskID)
		unassigned[id] = true
		if _, ok := byID[id]; !ok {
			diags.Warnf(stageValidate, subject, "unassigned list references unknown task %d", id)
		}
	}

	for _, t := range tasks {
		if t.ActorType != ActorHuman {
			continue
		}
		_, inAssigned := assigned[t.ID]
		inUnassigned := unassigned[t.ID]
		switch {
		case inAssigned && inUnassigned:
			diags.Warnf(stageValidate, subject, "human task %d is both assigned and unassigned", t.ID)
		case !inAssigned && !inUnassigned:
			diags.Warnf(stageValidate, subject, "human task %d is neither assigned nor listed as unassigned", t.ID)
		}
	}
	return diags
}
