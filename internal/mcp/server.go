// Package mcp exposes the policy engine as MCP tools over stdio, so
// MCP-speaking agents can consult the filter without the hook protocol.
package mcp

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/richardoros/unified-defense/internal/audit"
	"github.com/richardoros/unified-defense/internal/engine"
	"github.com/richardoros/unified-defense/internal/model"
	"github.com/richardoros/unified-defense/internal/policy"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
}

// Server wraps the MCP SDK server around the decision engine. Evaluations
// are dry-run: the server never executes anything, it only renders verdicts.
type Server struct {
	mcpServer *mcpsdk.Server
	pol       *policy.Policy
	auditLog  *audit.Logger
}

// New creates an MCP server with the policy loaded once at startup.
// A missing or unreadable config yields the empty (allow-everything) policy,
// consistent with the hook boundary's fail-open posture.
func New(cfg Config) (*Server, error) {
	pol, err := policy.Load(cfg.ConfigPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load policy: %w", err)
		}
		pol = policy.Empty()
	}

	s := &Server{pol: pol}
	if pol.LoggingEnabled() {
		s.auditLog = audit.NewLogger(pol.LogPath())
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "unified-defense",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds the dry-run check tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "defense_check_command",
		Description: "Check whether a shell command would be allowed by the unified-defense policy. Dry-run: nothing is executed.",
	}, s.handleCheckCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "defense_check_edit",
		Description: "Check whether editing a file path would be allowed by the unified-defense policy. Dry-run: nothing is written.",
	}, s.handleCheckEdit)
}

// CheckCommandInput defines parameters for the defense_check_command tool.
type CheckCommandInput struct {
	Command string `json:"command" jsonschema:"shell command to evaluate"`
}

// CheckEditInput defines parameters for the defense_check_edit tool.
type CheckEditInput struct {
	Path string `json:"path" jsonschema:"file path the edit would touch"`
}

// CheckOutput carries the verdict back to the caller.
type CheckOutput struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

func (s *Server) handleCheckCommand(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckCommandInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	verdict := engine.EvaluateCommand(input.Command, s.pol)
	s.record(audit.KindBash, verdict, input.Command)
	return toolResult(verdict), toOutput(verdict), nil
}

func (s *Server) handleCheckEdit(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckEditInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	verdict := engine.EvaluateEdit(input.Path, s.pol)
	s.record(audit.KindEdit, verdict, input.Path)
	return toolResult(verdict), toOutput(verdict), nil
}

func (s *Server) record(kind audit.Kind, verdict model.Verdict, subject string) {
	if s.auditLog != nil {
		s.auditLog.Record(kind, verdict, subject)
	}
}

func toolResult(v model.Verdict) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{IsError: !v.Allowed()}
}

func toOutput(v model.Verdict) CheckOutput {
	return CheckOutput{Decision: string(v.Decision), Reason: v.Reason}
}
