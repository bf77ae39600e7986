package invocation

import (
	"testing"

	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func absFunc(args Args) symbolic.Int {
	x := args.Int("x")
	if x.Lt(symbolic.Const(0)).Branch() {
		return x.Neg()
	}
	return x
}

func TestNewValidates(t *testing.T) {
	eb := smt.NewExprBuilder()

	_, err := New("f", nil, absFunc, eb)
	assert.ErrorIs(t, err, ErrNoParameters)

	_, err = New("f", []string{"x", "x"}, absFunc, eb)
	assert.ErrorIs(t, err, ErrDuplicateParam)

	_, err = New("f", []string{"x"}, nil, eb)
	assert.ErrorIs(t, err, ErrNilFunc)

	_, err = New("f", []string{"x"}, absFunc, nil)
	assert.ErrorIs(t, err, ErrNilBuilder)
}

func TestCallReturnsTrace(t *testing.T) {
	eb := smt.NewExprBuilder()
	inv, err := New("abs", []string{"x"}, absFunc, eb)
	require.NoError(t, err)

	res, trace, err := inv.Call(symbolic.NewInputMap(inv.PinnedValue("x", -5)))
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Value.Concrete())
	assert.True(t, res.Value.IsSymbolic())
	assert.Equal(t, "5", res.Outcome())
	require.Len(t, trace, 1)
	assert.True(t, trace[0].Taken)

	// a second call starts from an empty trace
	res, trace, err = inv.Call(symbolic.NewInputMap(inv.FreshValue("x")))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Value.Concrete())
	require.Len(t, trace, 1)
	assert.False(t, trace[0].Taken)
}

func TestFixedValueRecordsNothing(t *testing.T) {
	eb := smt.NewExprBuilder()
	inv, err := New("abs", []string{"x"}, absFunc, eb)
	require.NoError(t, err)

	res, trace, err := inv.Call(symbolic.NewInputMap(inv.FixedValue("x", -2)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value.Concrete())
	assert.Empty(t, trace)
}

func TestCallMissingInput(t *testing.T) {
	eb := smt.NewExprBuilder()
	inv, err := New("abs", []string{"x"}, absFunc, eb)
	require.NoError(t, err)

	_, _, err = inv.Call(symbolic.NewInputMap())
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestTargetPanicIsAnOutcome(t *testing.T) {
	eb := smt.NewExprBuilder()
	boom := func(args Args) symbolic.Int {
		if args.Int("x").Eq(symbolic.Const(3)).Branch() {
			panic("three is not allowed")
		}
		return args.Int("x")
	}
	inv, err := New("boom", []string{"x"}, boom, eb)
	require.NoError(t, err)

	res, trace, err := inv.Call(symbolic.NewInputMap(inv.PinnedValue("x", 3)))
	require.NoError(t, err)
	assert.True(t, res.Panicked())
	assert.Equal(t, "panic: three is not allowed", res.Outcome())
	assert.Len(t, trace, 1)

	// the path is usable again after a panic
	_, _, err = inv.Call(symbolic.NewInputMap(inv.PinnedValue("x", 1)))
	assert.NoError(t, err)
}

func TestUnknownParameterIsAnError(t *testing.T) {
	eb := smt.NewExprBuilder()
	bad := func(args Args) symbolic.Int {
		return args.Int("y")
	}
	inv, err := New("bad", []string{"x"}, bad, eb)
	require.NoError(t, err)

	_, _, err = inv.Call(symbolic.NewInputMap(inv.FreshValue("x")))
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestStaleValueIsAnError(t *testing.T) {
	eb := smt.NewExprBuilder()
	var leaked symbolic.Int
	keep, err := New("keep", []string{"x"}, func(args Args) symbolic.Int {
		leaked = args.Int("x")
		return leaked
	}, eb)
	require.NoError(t, err)
	_, _, err = keep.Call(symbolic.NewInputMap(keep.FreshValue("x")))
	require.NoError(t, err)

	use, err := New("use", []string{"x"}, func(args Args) symbolic.Int {
		leaked.Gt(symbolic.Const(0)).Branch()
		return args.Int("x")
	}, eb)
	require.NoError(t, err)

	_, _, err = use.Call(symbolic.NewInputMap(use.FreshValue("x")))
	assert.ErrorIs(t, err, symbolic.ErrInactivePath)
}
