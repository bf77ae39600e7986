// Package grading runs explore and check sessions for the built-in programs.
// It is shared by the CLI, the HTTP server and the MCP server.
package grading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/config"
	"github.com/borzacchiello/goconcolic/corpus"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/borzacchiello/goconcolic/programs"
	"github.com/borzacchiello/goconcolic/querycache"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/mitchellh/mapstructure"
)

var ErrInvalidRequest = errors.New("invalid request")

// OracleFactory builds the oracle of one session.
type OracleFactory func(eb *smt.ExprBuilder) (concolic.Oracle, error)

type Option func(*Service)

func WithHooks(h concolic.Hooks) Option {
	return func(s *Service) {
		s.hooks = h
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithCorpus persists every session into c.
func WithCorpus(c *corpus.Corpus) Option {
	return func(s *Service) {
		s.corpus = c
	}
}

// WithOracleFactory replaces the solver configured in the project file.
func WithOracleFactory(f OracleFactory) Option {
	return func(s *Service) {
		s.newOracle = f
	}
}

// Service is safe for concurrent use: every request builds its own session
// with a fresh expression builder.
type Service struct {
	cfg       *config.ProjectConfig
	logger    *logging.Logger
	hooks     concolic.Hooks
	corpus    *corpus.Corpus
	store     querycache.Store
	newOracle OracleFactory
}

func New(cfg *config.ProjectConfig, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		cfg:    cfg,
		logger: logging.GlobalLogger,
	}
	s.newOracle = func(eb *smt.ExprBuilder) (concolic.Oracle, error) {
		return concolic.NewOracle(cfg.Solver.Backend, eb)
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Cache.Enabled {
		store, err := querycache.OpenStore(cfg.Cache.Backend, cfg.Cache.Path,
			cfg.Cache.RedisAddress, cfg.Cache.RedisPassword, cfg.Cache.RedisDB,
			querycache.WithTTL(time.Duration(cfg.Cache.TTL)*time.Second))
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	return s, nil
}

// Close flushes the corpus and closes the cache store.
func (s *Service) Close() error {
	var err error
	if s.corpus != nil {
		err = s.corpus.Flush()
	}
	if s.store != nil {
		err = errors.Join(err, s.store.Close())
	}
	return err
}

func (s *Service) Corpus() *corpus.Corpus {
	return s.corpus
}

// oracle builds the session oracle, behind the query cache when enabled.
func (s *Service) oracle(eb *smt.ExprBuilder) (concolic.Oracle, func(), error) {
	base, err := s.newOracle(eb)
	if err != nil {
		return nil, nil, err
	}
	if !s.cfg.Cache.Enabled {
		return base, func() {}, nil
	}
	cached, err := querycache.New(base, eb, s.cfg.Cache.LRUSize, s.store)
	if err != nil {
		return nil, nil, err
	}
	done := func() {
		st := cached.Stats()
		s.logger.Debug("query cache: ", st.Hits, " hits, ", st.Misses, " misses")
	}
	return cached, done, nil
}

type ExploreRequest struct {
	Program       string           `json:"program" mapstructure:"program"`
	MaxIterations int              `json:"maxIterations" mapstructure:"maxIterations"`
	Strategy      string           `json:"strategy" mapstructure:"strategy"`
	Seed          map[string]int64 `json:"seed" mapstructure:"seed"`
}

type ExploreResponse struct {
	ID     string                      `json:"id,omitempty"`
	Result *concolic.ExplorationResult `json:"result"`
}

type CheckRequest struct {
	Program       string `json:"program" mapstructure:"program"`
	Variant       string `json:"variant" mapstructure:"variant"`
	MaxIterations int    `json:"maxIterations" mapstructure:"maxIterations"`
	StopOnFirst   bool   `json:"stopOnFirst" mapstructure:"stopOnFirst"`
	// Inputs are checked in addition to the generated ones.
	Inputs []concolic.GeneratedInput `json:"inputs,omitempty" mapstructure:"inputs"`
}

type CheckResponse struct {
	ID string `json:"id,omitempty"`
	// Generated is the number of inputs the exploration of the reference produced.
	Generated int                   `json:"generated"`
	Report    *concolic.CheckReport `json:"report"`
}

// Decode fills out from a loosely typed map, such as tool call arguments.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func (s *Service) explorerOptions(maxIterations int, strategy string, seed map[string]int64) ([]concolic.ExplorerOption, error) {
	if maxIterations < 0 {
		return nil, fmt.Errorf("%w: negative iteration limit", ErrInvalidRequest)
	}
	if strategy == "" {
		strategy = s.cfg.Exploration.Strategy
	}
	st, err := concolic.ParseStrategy(strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	merged := make(map[string]int64)
	for k, v := range s.cfg.Exploration.Seed {
		merged[k] = v
	}
	for k, v := range seed {
		merged[k] = v
	}
	return []concolic.ExplorerOption{
		concolic.WithMaxIterations(maxIterations),
		concolic.WithStrategy(st),
		concolic.WithSeed(merged),
		concolic.WithHooks(s.hooks),
		concolic.WithLogger(s.logger.NewSubLogger(logging.SERVICE_KEY, logging.EXPLORER_SERVICE)),
	}, nil
}

func (s *Service) Explore(ctx context.Context, req ExploreRequest) (*ExploreResponse, error) {
	p, err := programs.Lookup(req.Program)
	if err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.cfg.Exploration.MaxIterations
	}
	opts, err := s.explorerOptions(req.MaxIterations, req.Strategy, req.Seed)
	if err != nil {
		return nil, err
	}

	eb := smt.NewExprBuilder()
	inv, err := p.NewReference(eb)
	if err != nil {
		return nil, err
	}
	oracle, done, err := s.oracle(eb)
	if err != nil {
		return nil, err
	}
	defer done()

	ex, err := concolic.NewExplorer(inv, oracle, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	res, err := ex.Explore(ctx)
	if err != nil {
		return nil, err
	}

	resp := &ExploreResponse{Result: res}
	if s.corpus != nil {
		resp.ID = s.corpus.AddExploration(p.Name, res)
		if err := s.corpus.Flush(); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Check explores the reference of req.Program and checks the variant on the
// generated inputs, the request inputs and the counterexamples already in
// the corpus.
func (s *Service) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	p, err := programs.Lookup(req.Program)
	if err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.cfg.IterationsForChecking()
	}
	opts, err := s.explorerOptions(req.MaxIterations, "", nil)
	if err != nil {
		return nil, err
	}

	eb := smt.NewExprBuilder()
	ref, err := p.NewReference(eb)
	if err != nil {
		return nil, err
	}
	cand, err := p.NewCandidate(req.Variant, eb)
	if err != nil {
		return nil, err
	}
	oracle, done, err := s.oracle(eb)
	if err != nil {
		return nil, err
	}
	defer done()

	ex, err := concolic.NewExplorer(ref, oracle, opts...)
	if err != nil {
		return nil, err
	}
	res, err := ex.Explore(ctx)
	if err != nil {
		return nil, err
	}

	inputs := make([]concolic.GeneratedInput, 0, len(res.Inputs)+len(req.Inputs))
	if s.corpus != nil {
		inputs = append(inputs, s.corpus.Counterexamples(p.Name)...)
	}
	inputs = append(inputs, req.Inputs...)
	inputs = append(inputs, res.Inputs...)
	for _, in := range inputs {
		if err := matchParams(p.Params, in); err != nil {
			return nil, err
		}
	}

	checkerOpts := []concolic.CheckerOption{
		concolic.WithStopOnFirstFinding(req.StopOnFirst || s.cfg.Checking.StopOnFirst),
		concolic.WithCheckerHooks(s.hooks),
		concolic.WithCheckerLogger(s.logger.NewSubLogger(logging.SERVICE_KEY, logging.CHECKER_SERVICE)),
	}
	// paths behind undecided branches were never generated, so agreement on
	// the explored inputs says nothing about them
	if res.Stats.Unknown > 0 {
		checkerOpts = append(checkerOpts, concolic.WithPriorFindings(concolic.Finding{
			Kind:   concolic.FindingInconclusive,
			Stage:  concolic.StageExploration,
			Detail: fmt.Sprintf("%d constraints of the reference could not be decided", res.Stats.Unknown),
		}))
	}
	checker, err := concolic.NewChecker(ref, cand, oracle, checkerOpts...)
	if err != nil {
		return nil, err
	}
	report, err := checker.Check(ctx, inputs)
	if err != nil {
		return nil, err
	}

	resp := &CheckResponse{Generated: len(res.Inputs), Report: report}
	if s.corpus != nil {
		resp.ID = s.corpus.AddCheck(p.Name, req.Variant, report)
		if err := s.corpus.Flush(); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// matchParams requires in to assign exactly params.
func matchParams(params []string, in concolic.GeneratedInput) error {
	m := in.Map()
	ok := len(m) == len(params) && len(in) == len(params)
	for _, name := range params {
		if _, found := m[name]; !found {
			ok = false
		}
	}
	if !ok {
		return fmt.Errorf("%w: input (%s) does not match parameters %v", ErrInvalidRequest, in, params)
	}
	return nil
}
