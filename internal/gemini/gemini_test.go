package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"google.golang.org/genai"

	"robotadvisor/internal/analysis"
	"robotadvisor/internal/core"
)

type fakeModels struct {
	text   string
	err    error
	model  string
	config *genai.GenerateContentConfig
	parts  []*genai.Part
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 {
		f.parts = contents[0].Parts
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func testClient(models *fakeModels) *Client {
	return newClient(models, Config{VideoModel: "video-model", TextModel: "text-model"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var (
	_ analysis.TaskExtractor   = (*Client)(nil)
	_ analysis.OptionGenerator = (*Client)(nil)
	_ analysis.TaskExtractor   = Mock{}
	_ analysis.OptionGenerator = Mock{}
)

func TestExtractTasksSendsVideoPart(t *testing.T) {
	models := &fakeModels{text: "```json\n[{\"id\": 1, \"action\": \"Pick\", \"actor_type\": \"human\"}, {\"id\": \"2\", \"action\": \"Weld\", \"actor_type\": \"Machine\"}]\n```"}
	c := testClient(models)

	tasks, err := c.ExtractTasks(context.Background(), "gs://bucket/line.mp4")
	if err != nil {
		t.Fatalf("ExtractTasks: %v", err)
	}
	want := []core.Task{
		{ID: 1, Action: "Pick", ActorType: core.ActorHuman},
		{ID: 2, Action: "Weld", ActorType: core.ActorMachine},
	}
	if len(tasks) != len(want) {
		t.Fatalf("tasks = %#v", tasks)
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d = %#v, want %#v", i, tasks[i], want[i])
		}
	}

	if models.model != "video-model" {
		t.Errorf("model = %q", models.model)
	}
	if len(models.parts) != 2 || models.parts[0].FileData == nil {
		t.Fatalf("expected a file part followed by the prompt, got %#v", models.parts)
	}
	if models.parts[0].FileData.FileURI != "gs://bucket/line.mp4" || models.parts[0].FileData.MIMEType != "video/mp4" {
		t.Errorf("file part = %#v", models.parts[0].FileData)
	}
	if models.config.Temperature == nil || *models.config.Temperature != 0.4 || models.config.MaxOutputTokens != 8192 {
		t.Errorf("unexpected config %#v", models.config)
	}
}

func TestExtractTasksRejectsNonGCSURI(t *testing.T) {
	models := &fakeModels{}
	_, err := testClient(models).ExtractTasks(context.Background(), "https://example.com/v.mp4")
	if !errors.Is(err, ErrInvalidVideoURI) {
		t.Fatalf("err = %v, want ErrInvalidVideoURI", err)
	}
	if models.model != "" {
		t.Fatal("model should not be called")
	}
}

func TestExtractTasksErrors(t *testing.T) {
	tests := []struct {
		name   string
		models *fakeModels
		want   error
	}{
		{name: "empty", models: &fakeModels{text: ""}, want: ErrEmptyResponse},
		{name: "transport", models: &fakeModels{err: errors.New("deadline exceeded")}},
		{name: "unknown actor", models: &fakeModels{text: `[{"id": 1, "action": "x", "actor_type": "cobot"}]`}},
		{name: "prose only", models: &fakeModels{text: "I could not see the video."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testClient(tt.models).ExtractTasks(context.Background(), "gs://b/v.mp4")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseTasksShapes(t *testing.T) {
	inputs := map[string]string{
		"bare array":    `[{"id": 1, "action": "a", "actor_type": "human"}]`,
		"tasks object":  `{"tasks": [{"id": 1, "action": "a", "actor_type": "human"}]}`,
		"leading prose": "Here are the tasks:\n[{\"id\": 1, \"action\": \"a\", \"actor_type\": \"human\"}]",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			tasks, err := ParseTasks(in)
			if err != nil {
				t.Fatalf("ParseTasks: %v", err)
			}
			if len(tasks) != 1 || tasks[0].ID != 1 || tasks[0].ActorType != core.ActorHuman {
				t.Fatalf("tasks = %#v", tasks)
			}
		})
	}
}

func TestGenerateOptionsReturnsRawResponse(t *testing.T) {
	models := &fakeModels{text: "Sure! Here you go:\n{\"automation_options\": []}\nLet me know if you need more."}
	c := testClient(models)

	out, err := c.GenerateOptions(context.Background(),
		[]core.Task{{ID: 1, Action: "Pick", ActorType: core.ActorHuman}},
		[]core.RobotRecord{{Name: "jvrc1", EstimatedReachM: 2, EstimatedPayloadKg: 8}})
	if err != nil {
		t.Fatalf("GenerateOptions: %v", err)
	}
	if out != models.text {
		t.Fatalf("response = %q, want it unchanged", out)
	}
	if models.model != "text-model" {
		t.Errorf("model = %q", models.model)
	}
	cfg := models.config
	if cfg.Temperature == nil || *cfg.Temperature != 0.2 || cfg.TopP == nil || *cfg.TopP != 0.95 || cfg.TopK == nil || *cfg.TopK != 40 {
		t.Errorf("unexpected config %#v", cfg)
	}
	prompt := models.parts[0].Text
	for _, want := range []string{`"robot_name": "jvrc1"`, `"action": "Pick"`, "reason_automated", "reason_not_automated"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "purchase_price") {
		t.Error("prompt should not expose financial fields")
	}
}

func TestMockProducesParseableOptions(t *testing.T) {
	var m Mock
	tasks, err := m.ExtractTasks(context.Background(), "gs://demo/video.mp4")
	if err != nil {
		t.Fatalf("ExtractTasks: %v", err)
	}
	raw, err := m.GenerateOptions(context.Background(), tasks, []core.RobotRecord{{Name: "jvrc1"}})
	if err != nil {
		t.Fatalf("GenerateOptions: %v", err)
	}
	options, diags := analysis.ParseOptions(raw)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if len(options) != 2 {
		t.Fatalf("options = %d, want 2", len(options))
	}
	for _, o := range options {
		if v := core.ValidateOption(o, tasks); len(v) != 0 {
			t.Errorf("option %s invalid: %v", o.OptionID, v)
		}
	}
}
