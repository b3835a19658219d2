package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"robotadvisor/internal/analysis"
	"robotadvisor/internal/core"
)

const (
	serverName    = "robotadvisor"
	serverVersion = "1.0.0"
)

// Analyzer runs one full analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// RobotCatalog exposes the current robot snapshot.
type RobotCatalog interface {
	Robots(ctx context.Context) ([]core.RobotRecord, error)
	Robot(ctx context.Context, name string) (core.RobotRecord, bool, error)
}

// MCPServer exposes the advisor as MCP tools over stdio or streamable HTTP.
type MCPServer struct {
	analyzer Analyzer
	catalog  RobotCatalog
	logger   *slog.Logger
	server   *server.MCPServer
}

// NewMCPServer creates a new MCP server instance with all tools registered.
func NewMCPServer(analyzer Analyzer, catalog RobotCatalog, logger *slog.Logger) *MCPServer {
	s := &MCPServer{
		analyzer: analyzer,
		catalog:  catalog,
		logger:   logger,
		server: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects.
func (s *MCPServer) Run() error {
	s.logger.Info("MCP server starting on stdio")
	return server.ServeStdio(s.server)
}

// Handler returns the streamable HTTP transport for mounting at /mcp.
func (s *MCPServer) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.server)
}

func (s *MCPServer) registerTools() {
	s.server.AddTool(mcp.NewTool("analyze_process",
		mcp.WithDescription("Analyze an industrial process video and recommend which human tasks to automate with robots, "+
			"with cost comparison, savings projection and a recommendation."),
		mcp.WithString("video_uri",
			mcp.Required(),
			mcp.Description("Google Cloud Storage URI of the process video, e.g. gs://bucket/line.mp4"),
		),
		mcp.WithNumber("human_cost_min",
			mcp.Required(),
			mcp.Description("Fully loaded human labor cost per minute"),
		),
		mcp.WithNumber("depreciation_years",
			mcp.Required(),
			mcp.Description("Years over which robot capital cost is amortized"),
		),
		mcp.WithNumber("hours_per_week",
			mcp.Required(),
			mcp.Description("Operating hours per week"),
		),
		mcp.WithNumber("efficiency_gain",
			mcp.Required(),
			mcp.Description("Robot speed advantage over a human, in percent (20 means 20% faster)"),
		),
	), s.handleAnalyzeProcess)

	s.server.AddTool(mcp.NewTool("list_robots",
		mcp.WithDescription("List the robots in the catalog with estimated capabilities and cost data"),
	), s.handleListRobots)

	s.server.AddTool(mcp.NewTool("robot_effective_cost",
		mcp.WithDescription("Compute a robot's effective cost per human-equivalent minute"),
		mcp.WithString("robot_name",
			mcp.Required(),
			mcp.Description("Robot name as listed by list_robots"),
		),
		mcp.WithNumber("depreciation_years",
			mcp.Required(),
			mcp.Description("Years over which robot capital cost is amortized"),
			mcp.Min(0),
		),
		mcp.WithNumber("hours_per_week",
			mcp.Required(),
			mcp.Description("Operating hours per week"),
			mcp.Min(0),
		),
		mcp.WithNumber("efficiency_gain",
			mcp.Description("Robot speed advantage in percent, default 0"),
		),
		mcp.WithNumber("human_cost_min",
			mcp.Description("Human labor cost per minute to compare against (optional)"),
		),
	), s.handleRobotCost)

	s.logger.Info("MCP tools registered", "count", 3)
}

func (s *MCPServer) handleAnalyzeProcess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := analysis.RequestFromFields(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		var inputErr *analysis.InputError
		switch {
		case errors.As(err, &inputErr):
			return mcp.NewToolResultError(inputErr.Error()), nil
		case errors.Is(err, analysis.ErrExtraction), errors.Is(err, analysis.ErrCatalog):
			return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
		default:
			s.logger.Error("analysis failed", "err", err)
			return mcp.NewToolResultError("analysis failed unexpectedly"), nil
		}
	}
	return jsonResult(result)
}

func (s *MCPServer) handleListRobots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	robots, err := s.catalog.Robots(ctx)
	if err != nil {
		s.logger.Error("list robots", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("robot catalog unavailable: %v", err)), nil
	}
	return jsonResult(robots)
}

func (s *MCPServer) handleRobotCost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(mcp.ParseString(request, "robot_name", ""))
	if name == "" {
		return mcp.NewToolResultError("robot_name is required"), nil
	}
	robot, found, err := s.catalog.Robot(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("robot catalog unavailable: %v", err)), nil
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("unknown robot: %s", name)), nil
	}

	quote, err := analysis.QuoteRobotCost(robot, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(quote)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
