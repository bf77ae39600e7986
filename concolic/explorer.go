package concolic

import (
	"context"
	"fmt"
	"time"

	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
)

// GeneratedInput is one test case: a value for every parameter, in
// declaration order.
type GeneratedInput = symbolic.Assignments

// ReturnValue is the exported view of what one execution returned.
type ReturnValue struct {
	Concrete int64  `json:"concrete"`
	Symbolic string `json:"symbolic,omitempty"`
	Panic    string `json:"panic,omitempty"`
}

func returnValueOf(res invocation.Result) ReturnValue {
	if res.Panicked() {
		return ReturnValue{Panic: res.Panic}
	}
	rv := ReturnValue{Concrete: res.Value.Concrete()}
	if res.Value.IsSymbolic() {
		rv.Symbolic = res.Value.Expr(nil).String()
	}
	return rv
}

// ExecutionRecord is handed to hooks after every run and not retained.
type ExecutionRecord struct {
	Function      string
	Inputs        GeneratedInput
	Result        invocation.Result
	Trace         symbolic.Trace
	PathCondition *smt.BoolExprPtr
}

type ExplorationStats struct {
	// Iterations counts executions, the seed included.
	Iterations int `json:"iterations"`
	// Processed counts executions driven by a solved constraint.
	Processed int `json:"processed"`
	// Infeasible counts constraints whose negation was unsat.
	Infeasible int `json:"infeasible"`
	// Unknown counts constraints the oracle could not decide.
	Unknown int `json:"unknown"`
	// Divergences counts executions that did not take the expected path.
	Divergences int `json:"divergences"`
	// Pending counts unprocessed constraints left when exploration stopped.
	Pending int `json:"pending"`
	// Constraints is the size of the constraint tree.
	Constraints int `json:"constraints"`
}

type ExplorationResult struct {
	Function   string           `json:"function"`
	Parameters []string         `json:"parameters"`
	Inputs     []GeneratedInput `json:"inputs"`
	Returns    []ReturnValue    `json:"returns"`
	Stats      ExplorationStats `json:"stats"`
	// Complete is true when every discovered constraint was processed and
	// the oracle decided all of them.
	Complete bool `json:"complete"`
}

type ExplorerOption func(*Explorer)

// WithMaxIterations caps the number of executions. Zero means no cap.
func WithMaxIterations(n int) ExplorerOption {
	return func(e *Explorer) {
		e.maxIterations = n
	}
}

func WithStrategy(s Strategy) ExplorerOption {
	return func(e *Explorer) {
		e.strategy = s
	}
}

// WithSeed sets the concrete value of the seed execution for some parameters.
func WithSeed(seed map[string]int64) ExplorerOption {
	return func(e *Explorer) {
		for k, v := range seed {
			e.seed[k] = v
		}
	}
}

// WithFixed holds some parameters at a concrete value for the whole
// exploration. Branches on them are not explored.
func WithFixed(fixed map[string]int64) ExplorerOption {
	return func(e *Explorer) {
		for k, v := range fixed {
			e.fixed[k] = v
		}
	}
}

func WithLogger(l *logging.Logger) ExplorerOption {
	return func(e *Explorer) {
		e.logger = l
	}
}

func WithHooks(h Hooks) ExplorerOption {
	return func(e *Explorer) {
		e.hooks = h
	}
}

// Explorer generates inputs for one target by negating observed branches.
type Explorer struct {
	inv        *invocation.Invocation
	oracle     Oracle
	translator *Translator

	maxIterations int
	strategy      Strategy
	seed          map[string]int64
	fixed         map[string]int64
	logger        *logging.Logger
	hooks         Hooks
}

func NewExplorer(inv *invocation.Invocation, oracle Oracle, opts ...ExplorerOption) (*Explorer, error) {
	if inv == nil {
		return nil, ErrNilInvocation
	}
	if oracle == nil {
		return nil, ErrNilOracle
	}
	e := &Explorer{
		inv:        inv,
		oracle:     oracle,
		translator: NewTranslator(inv.Builder()),
		strategy:   StrategyBFS,
		seed:       make(map[string]int64),
		fixed:      make(map[string]int64),
		logger:     logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.EXPLORER_SERVICE),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxIterations < 0 {
		return nil, fmt.Errorf("invalid iteration cap %d", e.maxIterations)
	}

	params := make(map[string]bool)
	for _, p := range inv.ParameterNames() {
		params[p] = true
	}
	for _, m := range []map[string]int64{e.seed, e.fixed} {
		for name := range m {
			if !params[name] {
				return nil, fmt.Errorf("%w: %s", invocation.ErrUnknownParameter, name)
			}
		}
	}
	return e, nil
}

// InitialInputs is the input map of the seed execution.
func (e *Explorer) InitialInputs() symbolic.InputMap {
	inputs := make([]symbolic.Input, 0)
	for _, name := range e.inv.ParameterNames() {
		in := e.inv.FreshValue(name)
		if v, ok := e.seed[name]; ok {
			in = e.inv.PinnedValue(name, v)
		}
		if v, ok := e.fixed[name]; ok {
			in = e.inv.FixedValue(name, v)
		}
		inputs = append(inputs, in)
	}
	return symbolic.NewInputMap(inputs...)
}

// exploration is the state of one Explore call.
type exploration struct {
	*Explorer
	ctx      context.Context
	tree     *ConstraintTree
	worklist *worklist
	current  symbolic.InputMap
	result   *ExplorationResult
}

func (e *Explorer) newExploration(ctx context.Context) *exploration {
	return &exploration{
		Explorer: e,
		ctx:      ctx,
		tree:     NewConstraintTree(),
		worklist: newWorklist(e.strategy),
		current:  e.InitialInputs(),
		result: &ExplorationResult{
			Function:   e.inv.Name(),
			Parameters: e.inv.ParameterNames(),
			Inputs:     make([]GeneratedInput, 0),
			Returns:    make([]ReturnValue, 0),
		},
	}
}

// Explore runs the seed execution and then solves constraints until none is
// pending, the iteration cap is reached or ctx is cancelled. Cancellation is
// checked between iterations; the partial result is returned along with
// ctx's error.
func (e *Explorer) Explore(ctx context.Context) (*ExplorationResult, error) {
	s := e.newExploration(ctx)
	if err := s.execute(nil); err != nil {
		return nil, err
	}
	stopErr, err := s.run()
	if err != nil {
		return nil, err
	}
	return s.finish(), stopErr
}

// run is the select, solve, execute loop. The first error is the reason the
// loop was interrupted, the second one is fatal.
func (s *exploration) run() (interrupted error, err error) {
	for !s.capReached() {
		if err := s.ctx.Err(); err != nil {
			s.logger.Warn("exploration interrupted after ", s.result.Stats.Iterations, " iterations")
			return err, nil
		}

		node := s.selectNext()
		if node == nil {
			return nil, nil
		}
		s.logger.Debug("remaining constraints: ", s.worklist.pending()+1,
			" (total: ", s.tree.Size(), ", already solved: ", s.tree.Solved(), ")")

		if !s.solve(node) {
			continue
		}
		if err := s.execute(node); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (s *exploration) finish() *ExplorationResult {
	s.result.Stats.Pending = s.worklist.pending()
	s.result.Stats.Constraints = s.tree.Size()
	s.result.Complete = s.result.Stats.Pending == 0 && s.result.Stats.Unknown == 0
	s.logger.Info("explored ", s.inv.Name(), ": ", s.result.Stats.Iterations, " executions, ",
		len(s.result.Inputs), " inputs, complete: ", s.result.Complete,
		logging.StructuredLogInfo{"stats": s.result.Stats})
	return s.result
}

func (s *exploration) capReached() bool {
	return s.maxIterations > 0 && s.result.Stats.Iterations >= s.maxIterations
}

// selectNext pops the next constraint that is not processed yet.
func (s *exploration) selectNext() *Constraint {
	for {
		node, ok := s.worklist.pop()
		if !ok {
			return nil
		}
		if node.processed {
			continue
		}
		return node
	}
}

// solve marks node processed and asks for inputs taking the other branch.
// On success the current input map holds those inputs.
func (s *exploration) solve(node *Constraint) bool {
	s.tree.MarkProcessed(node)
	s.current = node.Inputs

	asserts, query := node.AssertsAndQuery()
	start := time.Now()
	model, sat, err := s.oracle.FindCounterexample(asserts, query)
	s.hooks.query(s.ctx, QueryBranch, sat, err, start)

	if err != nil {
		s.result.Stats.Unknown++
		s.logger.Warn("unable to solve constraint ", query.String(), err)
		return false
	}
	if !sat {
		s.result.Stats.Infeasible++
		s.logger.Trace("infeasible constraint ", query.Negated().String())
		return false
	}
	s.current = s.translator.ApplyModel(model, s.current)
	return true
}

// execute runs the target on the current inputs and merges the trace into
// the tree. node is the constraint that produced the inputs, nil for the seed.
func (s *exploration) execute(node *Constraint) error {
	inputs := s.current.Assignments()
	s.result.Inputs = append(s.result.Inputs, inputs)

	res, trace, err := s.inv.Call(s.current)
	if err != nil {
		return err
	}
	s.result.Returns = append(s.result.Returns, returnValueOf(res))
	s.logger.Debug("executed ", s.inv.Name(), "(", inputs.String(), ") = ", res.Outcome())

	for _, c := range s.tree.Insert(trace, s.current) {
		if !c.processed {
			s.worklist.push(c)
		}
		s.hooks.constraint(s.ctx, c)
	}

	if node != nil && !node.Follows(trace) {
		s.result.Stats.Divergences++
		s.logger.Warn("execution on ", inputs.String(), " did not follow the expected path")
	}

	s.result.Stats.Iterations++
	if node != nil {
		s.result.Stats.Processed++
	}

	if s.hooks.OnExecution != nil {
		pc, err := s.translator.TraceToFormula(trace)
		if err != nil {
			return err
		}
		s.hooks.execution(s.ctx, &ExecutionRecord{
			Function:      s.inv.Name(),
			Inputs:        inputs,
			Result:        res,
			Trace:         trace,
			PathCondition: pc,
		})
	}
	return nil
}
