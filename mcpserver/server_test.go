package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/config"
	"github.com/borzacchiello/goconcolic/grading"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unsatOracle struct{}

func (unsatOracle) FindCounterexample([]symbolic.Predicate, symbolic.Predicate) (smt.Model, bool, error) {
	return nil, false, nil
}

func (unsatOracle) Solve(*smt.BoolExprPtr) (smt.Model, bool, error) {
	return nil, false, nil
}

func newServer(t *testing.T) *Server {
	svc, err := grading.New(config.GetDefaultProjectConfig(),
		grading.WithOracleFactory(func(*smt.ExprBuilder) (concolic.Oracle, error) {
			return unsatOracle{}, nil
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return NewServer(svc, "test")
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListPrograms(t *testing.T) {
	s := newServer(t)
	res, err := s.handleListPrograms(context.Background(), call(nil))
	require.NoError(t, err)

	var progs []grading.ProgramInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &progs))
	assert.Len(t, progs, 6)
}

func TestExploreTool(t *testing.T) {
	s := newServer(t)
	res, err := s.handleExplore(context.Background(), call(map[string]any{
		"program":       "clamp",
		"maxIterations": float64(5),
		"seed":          map[string]any{"x": float64(3), "hi": float64(2)},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var resp grading.ExploreResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &resp))
	require.Len(t, resp.Result.Inputs, 1)
	assert.Equal(t, map[string]int64{"x": 3, "lo": 0, "hi": 2}, resp.Result.Inputs[0].Map())

	res, err = s.handleExplore(context.Background(), call(map[string]any{"program": "clamb"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "did you mean clamp?")
}

func TestCheckTool(t *testing.T) {
	s := newServer(t)
	res, err := s.handleCheck(context.Background(), call(map[string]any{
		"program": "max",
		"variant": "min",
		"inputs": []any{
			[]any{
				map[string]any{"name": "a", "value": float64(-1)},
				map[string]any{"name": "b", "value": float64(7)},
			},
		},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var resp grading.CheckResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &resp))
	assert.Equal(t, concolic.VerdictNotEquivalent, resp.Report.Verdict)
	assert.Equal(t, "7", resp.Report.Counterexample.Reference)

	res, err = s.handleCheck(context.Background(), call(map[string]any{"program": "max", "inputs": "a=1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
