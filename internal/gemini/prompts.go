package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"robotadvisor/internal/core"
)

const taskPrompt = `Analyze the industrial process shown in this video.
Break it down into a sequence of distinct tasks performed by humans or machines.
Describe each task clearly, focusing on actions relevant for potential automation.
Output the tasks as a JSON list, where each object has "id" (sequential number), "action" (description) and "actor_type" ("human" or "machine").
Example: [{"id": 1, "action": "Pick up component X", "actor_type": "human"}, {"id": 2, "action": "Place component X in fixture", "actor_type": "human"}]`

const optionsPromptHeader = `You are a meticulous robotics automation engineer evaluating potential solutions.
Analyze the process tasks and available robots below, then generate 1 to 3 distinct and plausible automation options, focusing on replacing "human" tasks.
For each option:
1. For tasks ASSIGNED to a robot, include a "reason_automated" field (10-15 words max). THIS FIELD IS MANDATORY.
2. For human tasks NOT assigned, include a "reason_not_automated" field (10-15 words max). THIS FIELD IS MANDATORY.
Your final output MUST be ONLY the raw JSON with NO markdown formatting, NO explanations, NO comments and NO additional text.
`

const optionsPromptGuidelines = `
Analysis requirements:
1. Identify "human" tasks.
2. For each option, decide assignments from inferred task requirements against the estimated robot capabilities.
3. Populate "assignments" with "task_id", "robot_name" and "reason_automated".
4. Populate "unassigned_human_tasks" with "task_id" and "reason_not_automated".
5. Aim for diverse options and give each a brief "summary".
6. Do not assign "machine" tasks.

Required output format:
{
  "automation_options": [
    {
      "option_id": "String",
      "summary": "String",
      "assignments": [{"task_id": Number, "robot_name": "String", "reason_automated": "String"}],
      "unassigned_human_tasks": [{"task_id": Number, "reason_not_automated": "String"}]
    }
  ]
}

EXTREMELY IMPORTANT:
- Output ONLY the raw JSON object, starting with { and ending with }
- Do NOT use markdown code blocks
- Ensure all arrays and objects have closing brackets
- Generate 2-3 distinctly different automation options (not more)
`

// robotSummary is the catalog view shown to the model; financial fields are
// left out so assignments are driven by capability.
type robotSummary struct {
	Name      string  `json:"robot_name"`
	ReachM    float64 `json:"estimated_reach_m"`
	PayloadKg float64 `json:"estimated_payload_kg"`
}

// BuildOptionsPrompt renders the option generation prompt for a task list and catalog.
func BuildOptionsPrompt(tasks []core.Task, robots []core.RobotRecord) (string, error) {
	taskJSON, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	summaries := make([]robotSummary, 0, len(robots))
	for _, r := range robots {
		summaries = append(summaries, robotSummary{Name: r.Name, ReachM: r.EstimatedReachM, PayloadKg: r.EstimatedPayloadKg})
	}
	robotJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode robots: %w", err)
	}

	var b strings.Builder
	b.WriteString(optionsPromptHeader)
	b.WriteString("\nProcess tasks (id, action, actor_type):\n")
	b.Write(taskJSON)
	b.WriteString("\n\nAvailable robots (capabilities are estimates):\n")
	b.Write(robotJSON)
	b.WriteString("\n")
	b.WriteString(optionsPromptGuidelines)
	return b.String(), nil
}
