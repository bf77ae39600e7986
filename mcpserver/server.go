// Package mcpserver exposes the grading service as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/borzacchiello/goconcolic/grading"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps a grading.Service and exposes it as an MCP server.
type Server struct {
	grading   *grading.Service
	logger    *logging.Logger
	mcpServer *server.MCPServer
}

func NewServer(svc *grading.Service, version string) *Server {
	s := &Server{
		grading:   svc,
		logger:    logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.MCP_SERVICE),
		mcpServer: server.NewMCPServer("goconcolic", version),
	}
	s.registerTools()
	return s
}

// ServeStdio serves on stdin and stdout until stdin is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_programs",
		mcp.WithDescription("List the programs that can be explored and their candidate variants."),
	), s.handleListPrograms)

	s.mcpServer.AddTool(mcp.NewTool("explore",
		mcp.WithDescription("Run concolic exploration on the reference implementation of a program and return the generated inputs."),
		mcp.WithString("program", mcp.Required(), mcp.Description("Program name, as listed by list_programs")),
		mcp.WithNumber("maxIterations", mcp.Description("Execution limit, 0 for the configured default")),
		mcp.WithString("strategy", mcp.Description("bfs or dfs")),
		mcp.WithObject("seed", mcp.Description("Initial value of each parameter, by name")),
	), s.handleExplore)

	s.mcpServer.AddTool(mcp.NewTool("check",
		mcp.WithDescription("Check a candidate variant of a program against its reference and report whether they are equivalent."),
		mcp.WithString("program", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("variant", mcp.Required(), mcp.Description("Candidate variant name")),
		mcp.WithNumber("maxIterations", mcp.Description("Exploration limit for input generation")),
		mcp.WithBoolean("stopOnFirst", mcp.Description("Stop at the first finding")),
		mcp.WithArray("inputs", mcp.Description("Extra inputs, each a list of {name, value} assignments")),
	), s.handleCheck)
}

func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleListPrograms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(grading.Programs())
}

func (s *Server) handleExplore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req grading.ExploreRequest
	if err := grading.Decode(request.GetArguments(), &req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.grading.Explore(ctx, req)
	if err != nil {
		s.logger.Warn("explore ", req.Program, ": ", err)
		return mcp.NewToolResultError(fmt.Sprintf("explore failed: %v", err)), nil
	}
	return textResult(resp)
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req grading.CheckRequest
	if err := grading.Decode(request.GetArguments(), &req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.grading.Check(ctx, req)
	if err != nil {
		s.logger.Warn("check ", req.Program, "/", req.Variant, ": ", err)
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}
	return textResult(resp)
}
