package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksRecordEvents(t *testing.T) {
	m := New()
	h := m.Hooks()
	ctx := context.Background()

	h.OnExecution(ctx, &concolic.ExecutionRecord{Function: "abs"})
	h.OnExecution(ctx, &concolic.ExecutionRecord{Function: "abs", Result: invocation.Result{Panic: "boom"}})
	h.OnQuery(ctx, &concolic.QueryEvent{Kind: concolic.QueryBranch, Outcome: concolic.OutcomeSat, Duration: time.Millisecond})
	h.OnConstraint(ctx, &concolic.Constraint{})
	h.OnConstraint(ctx, &concolic.Constraint{})
	h.OnVerdict(ctx, &concolic.CheckReport{Verdict: concolic.VerdictEquivalent})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("abs", "panicked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("abs", "returned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("branch", "sat")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.constraints))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdicts.WithLabelValues("equivalent")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Hooks().OnVerdict(context.Background(), &concolic.CheckReport{Verdict: concolic.VerdictNotEquivalent})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `goconcolic_verdicts_total{verdict="not_equivalent"} 1`))
}
