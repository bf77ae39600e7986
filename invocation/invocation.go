// Package invocation runs target functions written against the symbolic
// value API and hands back their result together with the recorded trace.
package invocation

import (
	"errors"
	"fmt"

	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
)

var (
	ErrNoParameters     = errors.New("invocation: no parameters")
	ErrDuplicateParam   = errors.New("invocation: duplicate parameter")
	ErrMissingInput     = errors.New("invocation: missing input")
	ErrUnknownParameter = errors.New("invocation: unknown parameter")
	ErrNilFunc          = errors.New("invocation: nil function")
	ErrNilBuilder       = errors.New("invocation: nil expression builder")
)

// Func is a target. It reads its parameters from args and may branch on
// them with symbolic.Bool.Branch.
type Func func(args Args) symbolic.Int

// Args holds the values bound to the parameters of one call.
type Args struct {
	values map[string]symbolic.Int
}

// Int returns the value of the named parameter. Asking for a parameter the
// target did not declare is a programming error and aborts the call.
func (a Args) Int(name string) symbolic.Int {
	v, ok := a.values[name]
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrUnknownParameter, name))
	}
	return v
}

// Result is the outcome of one call. When the target panicked, Panic holds
// the message and Value is meaningless.
type Result struct {
	Name  string
	Value symbolic.Int
	Panic string
}

func (r Result) Panicked() bool {
	return r.Panic != ""
}

// Outcome is what gets compared between two implementations: the concrete
// return value, or the panic message.
func (r Result) Outcome() string {
	if r.Panicked() {
		return "panic: " + r.Panic
	}
	return fmt.Sprintf("%d", r.Value.Concrete())
}

// Invocation binds a target to its parameter list and to the path its
// symbolic values record into.
type Invocation struct {
	name   string
	params []string
	fn     Func
	path   *symbolic.Path
}

func New(name string, params []string, fn Func, eb *smt.ExprBuilder) (*Invocation, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	if eb == nil {
		return nil, ErrNilBuilder
	}
	if len(params) == 0 {
		return nil, ErrNoParameters
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParam, p)
		}
		seen[p] = true
	}
	return &Invocation{
		name:   name,
		params: append([]string(nil), params...),
		fn:     fn,
		path:   symbolic.NewPath(eb),
	}, nil
}

func (inv *Invocation) Name() string {
	return inv.name
}

func (inv *Invocation) ParameterNames() []string {
	return append([]string(nil), inv.params...)
}

func (inv *Invocation) Builder() *smt.ExprBuilder {
	return inv.path.Builder()
}

// FreshValue is a symbolic input for name with concrete value 0.
func (inv *Invocation) FreshValue(name string) symbolic.Input {
	return symbolic.Input{Name: name, Value: 0, Symbolic: true}
}

// PinnedValue is a symbolic input for name whose concrete value is v.
func (inv *Invocation) PinnedValue(name string, v int64) symbolic.Input {
	return symbolic.Input{Name: name, Value: v, Symbolic: true}
}

// FixedValue is a concrete input: branches on it are not recorded.
func (inv *Invocation) FixedValue(name string, v int64) symbolic.Input {
	return symbolic.Input{Name: name, Value: v, Symbolic: false}
}

// Call runs the target on inputs. The trace is drained before Call returns,
// whatever the outcome. A panic in the target is reported in the Result; an
// error means the call itself was malformed.
func (inv *Invocation) Call(inputs symbolic.InputMap) (Result, symbolic.Trace, error) {
	args := Args{values: make(map[string]symbolic.Int, len(inv.params))}
	for _, name := range inv.params {
		in, ok := inputs.Get(name)
		if !ok {
			return Result{}, nil, fmt.Errorf("%w: %s", ErrMissingInput, name)
		}
		args.values[name] = inv.path.Bind(in)
	}

	if err := inv.path.Begin(); err != nil {
		return Result{}, nil, err
	}
	res, err := inv.run(args)
	trace := inv.path.Drain()
	if err != nil {
		return Result{}, nil, err
	}
	return res, trace, nil
}

func (inv *Invocation) run(args Args) (res Result, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && (errors.Is(e, symbolic.ErrInactivePath) || errors.Is(e, ErrUnknownParameter)) {
			err = e
			return
		}
		res = Result{Name: inv.name, Panic: fmt.Sprint(r)}
	}()

	v := inv.fn(args)
	return Result{Name: inv.name, Value: v}, nil
}
