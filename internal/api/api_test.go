package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"robotadvisor/internal/analysis"
	"robotadvisor/internal/core"
)

type fakeAnalyzer struct {
	result *analysis.Result
	err    error
	got    *analysis.Request
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	f.got = &req
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
	if f.err != nil {
		return core.RobotRecord{}, false, f.err
	}
	for _, r := range f.robots {
		if r.Name == name {
			return r, true, nil
		}
	}
	return core.RobotRecord{}, false, nil
}

func f64(v float64) *float64 { return &v }

func newTestServer(analyzer Analyzer, catalog RobotCatalog, opts Options) http.Handler {
	if opts.CORSOrigins == nil {
		opts.CORSOrigins = []string{"http://localhost:3000"}
	}
	return NewServer(opts, analyzer, catalog, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return payload["error"]
}

func TestIndex(t *testing.T) {
	rec := do(t, newTestServer(&fakeAnalyzer{}, &fakeCatalog{}, Options{}), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Robotics Advisor Backend is running." {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	id := "Option_1"
	analyzer := &fakeAnalyzer{result: &analysis.Result{
		AnalysisID:     "abc",
		Recommendation: core.Recommendation{RecommendedOptionID: &id},
	}}
	h := newTestServer(analyzer, &fakeCatalog{}, Options{})

	body := `{"video_uri":"gs://b/v.mp4","human_cost_min":"1.00","depreciation_years":5,"hours_per_week":40,"efficiency_gain":20}`
	rec := do(t, h, http.MethodPost, "/api/analyze_robotics", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if analyzer.got == nil || analyzer.got.HumanCostMin != 1 || analyzer.got.EfficiencyGainPercent != 20 {
		t.Fatalf("request = %#v", analyzer.got)
	}
	var payload struct {
		AnalysisID     string `json:"analysis_id"`
		Recommendation struct {
			RecommendedOptionID string `json:"recommended_option_id"`
		} `json:"recommendation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.AnalysisID != "abc" || payload.Recommendation.RecommendedOptionID != "Option_1" {
		t.Fatalf("payload = %s", rec.Body.String())
	}
}

func TestAnalyzeBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"video_uri":`, "Invalid JSON payload"},
		{"not an object", `[]`, "Invalid JSON payload"},
		{"missing fields", `{"video_uri":"gs://b/v.mp4","human_cost_min":1}`, "Missing required fields: depreciation_years, hours_per_week, efficiency_gain"},
		{"bad scheme", `{"video_uri":"s3://b/v.mp4","human_cost_min":1,"depreciation_years":5,"hours_per_week":40,"efficiency_gain":0}`, "Invalid video_uri: Must be a string starting with gs://"},
		{"negative hours", `{"video_uri":"gs://b/v.mp4","human_cost_min":1,"depreciation_years":5,"hours_per_week":-1,"efficiency_gain":0}`, "Invalid numerical input: hours per week must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{}
			rec := do(t, newTestServer(analyzer, &fakeCatalog{}, Options{}), http.MethodPost, "/api/analyze_robotics", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := errorMessage(t, rec); got != tt.want {
				t.Fatalf("error = %q, want %q", got, tt.want)
			}
			if analyzer.got != nil {
				t.Fatal("analyzer should not run")
			}
		})
	}
}

func TestAnalyzeServerErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: boom", analysis.ErrExtraction), msgExtractionFailed},
		{fmt.Errorf("%w: none", analysis.ErrCatalog), msgCatalogEmpty},
		{errors.New("disk on fire"), msgUnexpected},
	}
	body := `{"video_uri":"gs://b/v.mp4","human_cost_min":1,"depreciation_years":5,"hours_per_week":40,"efficiency_gain":0}`
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rec := do(t, newTestServer(&fakeAnalyzer{err: tt.err}, &fakeCatalog{}, Options{}), http.MethodPost, "/api/analyze_robotics", body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := errorMessage(t, rec); got != tt.want {
				t.Fatalf("error = %q", got)
			}
		})
	}
}

func TestAnalyzeUnencodableResult(t *testing.T) {
	result := &analysis.Result{TaskSavingsAnalysis: []core.OptionSavings{{OptionID: "Option_1", AnnualSavings: math.NaN()}}}
	body := `{"video_uri":"gs://b/v.mp4","human_cost_min":1,"depreciation_years":5,"hours_per_week":40,"efficiency_gain":0}`
	rec := do(t, newTestServer(&fakeAnalyzer{result: result}, &fakeCatalog{}, Options{}), http.MethodPost, "/api/analyze_robotics", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := errorMessage(t, rec); got != msgUnexpected {
		t.Fatalf("error = %q", got)
	}
}

func TestRobotsEndpoints(t *testing.T) {
	catalog := &fakeCatalog{robots: []core.RobotRecord{
		{Name: "jvrc1", PurchasePrice: f64(150000), OpCostPerMin: f64(0.1), EndEffectorCostPercent: f64(0.2)},
	}}
	h := newTestServer(&fakeAnalyzer{}, catalog, Options{})

	rec := do(t, h, http.MethodGet, "/api/robots", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"robot_name":"jvrc1"`) {
		t.Fatalf("list = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/robot_cost", `{"robot_name":"jvrc1","depreciation_years":5,"hours_per_week":40,"human_cost_min":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("cost = %d %s", rec.Code, rec.Body.String())
	}
	var quote struct {
		Cost      float64 `json:"robot_effective_cost_per_human_min"`
		IsCheaper bool    `json:"is_cheaper"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !quote.IsCheaper || quote.Cost < 0.38 || quote.Cost > 0.39 {
		t.Fatalf("quote = %+v", quote)
	}

	rec = do(t, h, http.MethodPost, "/api/robot_cost", `{"robot_name":"atlas","depreciation_years":5,"hours_per_week":40}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown robot status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/robot_cost", `{"depreciation_years":5}`)
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "Missing required fields: robot_name" {
		t.Fatalf("missing name = %d %s", rec.Code, rec.Body.String())
	}
}

func TestRobotsCatalogFailure(t *testing.T) {
	h := newTestServer(&fakeAnalyzer{}, &fakeCatalog{err: errors.New("gone")}, Options{})
	rec := do(t, h, http.MethodGet, "/api/robots", "")
	if rec.Code != http.StatusInternalServerError || errorMessage(t, rec) != msgCatalogEmpty {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	mcpHit := false
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { mcpHit = true })
	h := newTestServer(&fakeAnalyzer{}, &fakeCatalog{robots: []core.RobotRecord{{Name: "r"}}}, Options{AuthToken: "s3cret", MCPHandler: mcpHandler})

	if rec := do(t, h, http.MethodGet, "/api/robots", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/robots", "", "Authorization", "Bearer s3cret"); rec.Code != http.StatusOK {
		t.Fatalf("bearer status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/robots?token=s3cret", ""); rec.Code != http.StatusOK {
		t.Fatalf("query token status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
		t.Fatalf("index must stay public, got %d", rec.Code)
	}

	do(t, h, http.MethodPost, "/mcp", `{}`)
	if mcpHit {
		t.Fatal("mcp reached without token")
	}
	do(t, h, http.MethodPost, "/mcp", `{}`, "Authorization", "Bearer s3cret")
	if !mcpHit {
		t.Fatal("mcp not reached with token")
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(&fakeAnalyzer{}, &fakeCatalog{}, Options{AuthToken: "s3cret"})
	rec := do(t, h, http.MethodOptions, "/api/analyze_robotics", "",
		"Origin", "http://localhost:3000",
		"Access-Control-Request-Method", http.MethodPost)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q (status %d)", got, rec.Code)
	}
}
