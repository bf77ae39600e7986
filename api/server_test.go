package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/config"
	"github.com/borzacchiello/goconcolic/corpus"
	"github.com/borzacchiello/goconcolic/grading"
	"github.com/borzacchiello/goconcolic/metrics"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsatOracle finds nothing feasible, so exploration stops at the seed.
type unsatOracle struct{}

func (unsatOracle) FindCounterexample([]symbolic.Predicate, symbolic.Predicate) (smt.Model, bool, error) {
	return nil, false, nil
}

func (unsatOracle) Solve(*smt.BoolExprPtr) (smt.Model, bool, error) {
	return nil, false, nil
}

func setupServer(t *testing.T) *Server {
	gin.SetMode(gin.TestMode)
	c, err := corpus.Open("")
	require.NoError(t, err)
	m := metrics.New()
	svc, err := grading.New(config.GetDefaultProjectConfig(),
		grading.WithCorpus(c),
		grading.WithHooks(m.Hooks()),
		grading.WithOracleFactory(func(*smt.ExprBuilder) (concolic.Oracle, error) {
			return unsatOracle{}, nil
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return NewServer(svc, WithMetrics(m.Handler()))
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := do(setupServer(t), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrograms(t *testing.T) {
	w := do(setupServer(t), "GET", "/v1/programs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var progs []grading.ProgramInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progs))
	require.NotEmpty(t, progs)
	assert.Equal(t, "abs", progs[0].Name)
	assert.Equal(t, []string{"x"}, progs[0].Params)
}

func TestExplore(t *testing.T) {
	s := setupServer(t)

	w := do(s, "POST", "/v1/explore", `{"program": "sign", "seed": {"x": 4}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp grading.ExploreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Result.Inputs, 1)
	assert.Equal(t, "x=4", resp.Result.Inputs[0].String())

	w = do(s, "POST", "/v1/explore", `{"program": "sing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "did you mean sign?")

	w = do(s, "POST", "/v1/explore", `{"program": "sign", "strategy": "random"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, "POST", "/v1/explore", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheck(t *testing.T) {
	s := setupServer(t)

	body := `{"program": "max", "variant": "min", "inputs": [[{"name": "a", "value": 5}, {"name": "b", "value": 1}]]}`
	w := do(s, "POST", "/v1/check", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp grading.CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, concolic.VerdictNotEquivalent, resp.Report.Verdict)
	require.NotNil(t, resp.Report.Counterexample)
	assert.Equal(t, "5", resp.Report.Counterexample.Reference)
	assert.Equal(t, "1", resp.Report.Counterexample.Candidate)

	w = do(s, "GET", "/v1/programs/max/counterexamples", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cex []concolic.GeneratedInput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cex))
	require.Len(t, cex, 1)
	assert.Equal(t, "a=5, b=1", cex[0].String())

	w = do(s, "POST", "/v1/check", `{"program": "max", "variant": "fast"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(s, "POST", "/v1/check", `{"program": "max"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `verdicts_total{verdict="not_equivalent"} 1`)
}

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil))
	app := NewAppError(http.StatusTeapot, "tea", nil)
	assert.Same(t, app, MapError(app))
	assert.Equal(t, http.StatusInternalServerError, MapError(assert.AnError).Code)
}
