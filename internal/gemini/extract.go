package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"robotadvisor/internal/core"
)

const videoMimeType = "video/mp4"

// ExtractTasks asks the video model for the ordered task breakdown of the
// process recorded at videoURI.
func (c *Client) ExtractTasks(ctx context.Context, videoURI string) ([]core.Task, error) {
	if !strings.HasPrefix(videoURI, "gs://") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVideoURI, videoURI)
	}
	parts := []*genai.Part{
		genai.NewPartFromURI(videoURI, videoMimeType),
		genai.NewPartFromText(taskPrompt),
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.4),
		MaxOutputTokens: 8192,
	}

	c.logger.Debug("requesting task breakdown", "model", c.videoModel, "video_uri", videoURI)
	text, err := c.generate(ctx, c.videoModel, parts, config)
	if err != nil {
		return nil, err
	}
	tasks, err := ParseTasks(text)
	if err != nil {
		c.logger.Warn("unparseable task breakdown", "err", err, "response_chars", len(text))
		return nil, err
	}
	c.logger.Info("tasks extracted", "count", len(tasks))
	return tasks, nil
}

type rawTask struct {
	ID        core.TaskID    `json:"id"`
	Action    string         `json:"action"`
	ActorType core.ActorType `json:"actor_type"`
}

// ParseTasks decodes a model task list. It accepts a bare JSON array or an
// object with a "tasks" array, optionally wrapped in a code fence or preceded
// by prose. Unknown actor types are rejected.
func ParseTasks(raw string) ([]core.Task, error) {
	text := stripFence(raw)
	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return nil, fmt.Errorf("no JSON found in task response")
	}
	text = text[start:]

	var list []rawTask
	if text[0] == '{' {
		var doc struct {
			Tasks []rawTask `json:"tasks"`
		}
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("decode task object: %w", err)
		}
		list = doc.Tasks
	} else if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}

	tasks := make([]core.Task, 0, len(list))
	for i, rt := range list {
		actor := core.ActorType(strings.ToLower(strings.TrimSpace(string(rt.ActorType))))
		if !actor.Valid() {
			return nil, fmt.Errorf("task %d (index %d) has unknown actor_type %q", rt.ID, i, rt.ActorType)
		}
		tasks = append(tasks, core.Task{ID: int(rt.ID), Action: rt.Action, ActorType: actor})
	}
	return tasks, nil
}

func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if i := strings.Index(text, "```"); i >= 0 {
		body := text[i+3:]
		body = strings.TrimPrefix(body, "json")
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		text = body
	}
	return strings.TrimSpace(text)
}
