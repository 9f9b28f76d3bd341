// Package mcp implements a Model Context Protocol server exposing ghpulse
// contribution reports and profile dashboards as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
	"github.com/Sumatoshi-tech/ghpulse/pkg/version"
)

const (
	serverName = "ghpulse"
	toolCount  = 2

	mcpSpanPrefix  = "mcp."
	traceIDMetaKey = "trace_id"
)

// Reporter builds the data the tools return. *dashboard.Service implements it.
type Reporter interface {
	ContributionReport(ctx context.Context, handle string) (contrib.Report, error)
	Dashboard(ctx context.Context, handle, repoName string) (*dashboard.Dashboard, error)
}

// ServerDeps holds injectable dependencies for the MCP server.
type ServerDeps struct {
	// Reporter answers the tool calls. Required.
	Reporter Reporter

	// Logger is an optional structured logger. Nil uses the SDK default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with the ghpulse tools registered.
type Server struct {
	inner    *mcpsdk.Server
	reporter Reporter
	mu       sync.RWMutex
	tools    []string
	metrics  *observability.REDMetrics
	tracer   trace.Tracer
}

// NewServer creates a new MCP server with all ghpulse tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:    inner,
		reporter: deps.Reporter,
		tools:    make([]string, 0, toolCount),
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
	}

	srv.registerContributionsTool()
	srv.registerProfileTool()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run serves on stdio until the context is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on the given transport until the context is canceled
// or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerContributionsTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameContributions,
		Description: contributionsToolDescription,
	}, withMetrics(s.metrics, ToolNameContributions,
		withTracing(s.tracer, ToolNameContributions, s.handleContributions)))

	s.trackTool(ToolNameContributions)
}

func (s *Server) registerProfileTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameProfile,
		Description: profileToolDescription,
	}, withMetrics(s.metrics, ToolNameProfile,
		withTracing(s.tracer, ToolNameProfile, s.handleProfile)))

	s.trackTool(ToolNameProfile)
}

// withTracing opens a span per invocation and appends the trace id to sampled results.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler mcpsdk.ToolHandlerFor[Input, ToolOutput],
) mcpsdk.ToolHandlerFor[Input, ToolOutput] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())})
		}

		return result, output, err
	}
}

// withMetrics records RED metrics per invocation.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler mcpsdk.ToolHandlerFor[Input, ToolOutput],
) mcpsdk.ToolHandlerFor[Input, ToolOutput] {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()
		op := mcpSpanPrefix + toolName

		done := metrics.TrackInflight(ctx, op)
		defer done()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, op, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

const (
	contributionsToolDescription = "Build the one-year contribution calendar of a public GitHub account: " +
		"weeks of seven days with per-day counts and intensity levels 0-4, plus totals and streaks."

	profileToolDescription = "Build the profile dashboard of a public GitHub account: profile, repositories, " +
		"language breakdown, the last 30 days of commits of a featured repository and the contribution calendar. " +
		"The featured repository defaults to the most starred one."
)
