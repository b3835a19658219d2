package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"robotadvisor/internal/core"
)

// Mock is an offline backend. It returns a fixed task breakdown and builds
// options by assigning every human task to the first catalog robot, then
// every other human task.
type Mock struct{}

// ExtractTasks returns a fixed pick-and-place process for any gs:// URI.
func (Mock) ExtractTasks(ctx context.Context, videoURI string) ([]core.Task, error) {
	if !strings.HasPrefix(videoURI, "gs://") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVideoURI, videoURI)
	}
	return []core.Task{
		{ID: 1, Action: "Pick up component from bin", ActorType: core.ActorHuman},
		{ID: 2, Action: "Place component in fixture", ActorType: core.ActorHuman},
		{ID: 3, Action: "Press assembly", ActorType: core.ActorMachine},
		{ID: 4, Action: "Inspect assembled part", ActorType: core.ActorHuman},
		{ID: 5, Action: "Move part to outbound conveyor", ActorType: core.ActorHuman},
	}, nil
}

// GenerateOptions returns up to two options as JSON text.
func (Mock) GenerateOptions(ctx context.Context, tasks []core.Task, robots []core.RobotRecord) (string, error) {
	if len(robots) == 0 {
		return `{"automation_options": []}`, nil
	}
	robot := robots[0].Name

	var human []core.Task
	for _, t := range tasks {
		if t.ActorType == core.ActorHuman {
			human = append(human, t)
		}
	}

	full := core.AutomationOption{
		OptionID:             "Option_1",
		Summary:              fmt.Sprintf("Automate all human tasks with %s.", robot),
		Assignments:          []core.Assignment{},
		UnassignedHumanTasks: []core.UnassignedTask{},
	}
	partial := core.AutomationOption{
		OptionID:             "Option_2",
		Summary:              fmt.Sprintf("Automate alternating human tasks with %s.", robot),
		Assignments:          []core.Assignment{},
		UnassignedHumanTasks: []core.UnassignedTask{},
	}
	for i, t := range human {
		a := core.Assignment{TaskID: core.TaskID(t.ID), RobotName: robot, ReasonAutomated: "Repetitive handling within estimated reach and payload."}
		full.Assignments = append(full.Assignments, a)
		if i%2 == 0 {
			partial.Assignments = append(partial.Assignments, a)
		} else {
			partial.UnassignedHumanTasks = append(partial.UnassignedHumanTasks, core.UnassignedTask{
				TaskID:             core.TaskID(t.ID),
				ReasonNotAutomated: "Kept manual to reduce tooling complexity.",
			})
		}
	}

	options := []core.AutomationOption{full}
	if len(human) > 1 {
		options = append(options, partial)
	}
	out, err := json.Marshal(map[string]any{"automation_options": options})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
