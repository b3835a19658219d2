package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"robotadvisor/internal/analysis"
	"robotadvisor/internal/core"
)

type fakeAnalyzer struct {
	result *analysis.Result
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeCatalog struct {
	robots []core.RobotRecord
	err    error
}

func (f *fakeCatalog) Robots(ctx context.Context) ([]core.RobotRecord, error) {
	return f.robots, f.err
}

func (f *fakeCatalog) Robot(ctx context.Context, name string) (core.RobotRecord, bool, error) {
	for _, r := range f.robots {
		if r.Name == name {
			return r, true, nil
		}
	}
	return core.RobotRecord{}, false, f.err
}

func f64(v float64) *float64 { return &v }

func newTestServer(a Analyzer, c RobotCatalog) *MCPServer {
	return NewMCPServer(a, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content = %#v", res.Content)
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is not text: %#v", res.Content[0])
	}
	return text.Text
}

func analyzeArgs() map[string]any {
	return map[string]any{
		"video_uri":          "gs://b/v.mp4",
		"human_cost_min":     1.0,
		"depreciation_years": 5.0,
		"hours_per_week":     40.0,
		"efficiency_gain":    0.0,
	}
}

func TestAnalyzeProcessTool(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &analysis.Result{AnalysisID: "run-1"}}
	s := newTestServer(analyzer, &fakeCatalog{})

	res, err := s.handleAnalyzeProcess(context.Background(), callRequest("analyze_process", analyzeArgs()))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["analysis_id"] != "run-1" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestAnalyzeProcessToolErrors(t *testing.T) {
	missing := analyzeArgs()
	delete(missing, "hours_per_week")

	tests := []struct {
		name      string
		args      map[string]any
		err       error
		want      string
		wantCalls int
	}{
		{name: "missing", args: missing, want: "Missing required fields: hours_per_week"},
		{name: "extraction", args: analyzeArgs(), err: fmt.Errorf("%w: no tasks", analysis.ErrExtraction), want: "task extraction failed", wantCalls: 1},
		{name: "unexpected", args: analyzeArgs(), err: errors.New("boom"), want: "analysis failed unexpectedly", wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{err: tt.err}
			s := newTestServer(analyzer, &fakeCatalog{})
			res, err := s.handleAnalyzeProcess(context.Background(), callRequest("analyze_process", tt.args))
			if err != nil {
				t.Fatalf("handler: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error")
			}
			if got := resultText(t, res); !strings.Contains(got, tt.want) {
				t.Fatalf("text = %q, want %q", got, tt.want)
			}
			if analyzer.calls != tt.wantCalls {
				t.Fatalf("analyzer calls = %d, want %d", analyzer.calls, tt.wantCalls)
			}
		})
	}
}

func TestListRobotsTool(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, &fakeCatalog{robots: []core.RobotRecord{{Name: "jvrc1"}, {Name: "digit"}}})
	res, err := s.handleListRobots(context.Background(), callRequest("list_robots", nil))
	if err != nil || res.IsError {
		t.Fatalf("handler: %v %v", err, res)
	}
	var robots []core.RobotRecord
	if err := json.Unmarshal([]byte(resultText(t, res)), &robots); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(robots) != 2 || robots[1].Name != "digit" {
		t.Fatalf("robots = %#v", robots)
	}

	failing := newTestServer(&fakeAnalyzer{}, &fakeCatalog{err: errors.New("no assets")})
	res, _ = failing.handleListRobots(context.Background(), callRequest("list_robots", nil))
	if !res.IsError {
		t.Fatal("expected tool error")
	}
}

func TestRobotEffectiveCostTool(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, &fakeCatalog{robots: []core.RobotRecord{
		{Name: "jvrc1", PurchasePrice: f64(0), OpCostPerMin: f64(0.5)},
	}})

	res, err := s.handleRobotCost(context.Background(), callRequest("robot_effective_cost", map[string]any{
		"robot_name": "jvrc1", "depreciation_years": 5.0, "hours_per_week": 40.0, "human_cost_min": 0.4,
	}))
	if err != nil || res.IsError {
		t.Fatalf("handler: %v %v", err, res)
	}
	var quote struct {
		Cost      float64 `json:"robot_effective_cost_per_human_min"`
		IsCheaper bool    `json:"is_cheaper"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.Cost != 0.5 || quote.IsCheaper {
		t.Fatalf("quote = %+v", quote)
	}

	for name, args := range map[string]map[string]any{
		"unknown robot": {"robot_name": "atlas", "depreciation_years": 5.0, "hours_per_week": 40.0},
		"no name":       {"depreciation_years": 5.0, "hours_per_week": 40.0},
		"bad hours":     {"robot_name": "jvrc1", "depreciation_years": 5.0, "hours_per_week": 0.0},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := s.handleRobotCost(context.Background(), callRequest("robot_effective_cost", args))
			if err != nil {
				t.Fatalf("handler: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error")
			}
		})
	}
}
