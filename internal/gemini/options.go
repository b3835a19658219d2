package gemini

import (
	"context"

	"google.golang.org/genai"

	"robotadvisor/internal/core"
)

// GenerateOptions asks the text model for automation options and returns the
// response text as produced. Cleanup and parsing happen in the caller so that
// their findings land in the run's diagnostics.
func (c *Client) GenerateOptions(ctx context.Context, tasks []core.Task, robots []core.RobotRecord) (string, error) {
	prompt, err := BuildOptionsPrompt(tasks, robots)
	if err != nil {
		return "", err
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		TopP:            genai.Ptr[float32](0.95),
		TopK:            genai.Ptr[float32](40),
		MaxOutputTokens: 8192,
	}

	c.logger.Debug("requesting automation options", "model", c.textModel, "tasks", len(tasks), "robots", len(robots))
	text, err := c.generate(ctx, c.textModel, []*genai.Part{genai.NewPartFromText(prompt)}, config)
	if err != nil {
		return "", err
	}
	c.logger.Debug("automation options received", "response_chars", len(text))
	return text, nil
}
