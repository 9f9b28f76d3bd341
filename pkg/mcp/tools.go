package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
)

// Tool name constants.
const (
	ToolNameContributions = "ghpulse_contributions"
	ToolNameProfile       = "ghpulse_profile"
)

// ErrNoReporter indicates the server was built without a Reporter.
var ErrNoReporter = errors.New("no reporter configured")

// ContributionsInput is the input schema for the ghpulse_contributions tool.
type ContributionsInput struct {
	Handle string `json:"handle" jsonschema:"GitHub login, e.g. octocat"`
}

// ProfileInput is the input schema for the ghpulse_profile tool.
type ProfileInput struct {
	Handle string `json:"handle"         jsonschema:"GitHub login, e.g. octocat"`
	Repo   string `json:"repo,omitempty" jsonschema:"optional repository to feature instead of the most starred one"`
}

// ToolOutput is the structured output of every tool.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleContributions(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ContributionsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	handle, err := s.prepare(input.Handle)
	if err != nil {
		return errorResult(err)
	}

	report, err := s.reporter.ContributionReport(ctx, handle)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(report)
}

func (s *Server) handleProfile(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ProfileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	handle, err := s.prepare(input.Handle)
	if err != nil {
		return errorResult(err)
	}

	dash, err := s.reporter.Dashboard(ctx, handle, input.Repo)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(dash)
}

func (s *Server) prepare(raw string) (string, error) {
	if s.reporter == nil {
		return "", ErrNoReporter
	}

	return ghapi.NormalizeHandle(raw)
}

// errorResult reports a failed call to the client without failing the session.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
