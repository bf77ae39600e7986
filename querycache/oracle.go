package querycache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Stats counts lookups since the oracle was created.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Oracle wraps another concolic.Oracle and answers repeated queries from
// the cache. Errors from the wrapped oracle are passed through and not
// cached. Store failures are logged and otherwise ignored.
type Oracle struct {
	inner  concolic.Oracle
	eb     *smt.ExprBuilder
	front  *lru.Cache[string, Answer]
	store  Store
	logger *logging.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New wraps inner. store may be nil, in which case answers only live in the
// in-memory LRU of the given size.
func New(inner concolic.Oracle, eb *smt.ExprBuilder, size int, store Store) (*Oracle, error) {
	front, err := lru.New[string, Answer](size)
	if err != nil {
		return nil, fmt.Errorf("querycache: %w", err)
	}
	return &Oracle{
		inner:  inner,
		eb:     eb,
		front:  front,
		store:  store,
		logger: logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.CACHE_SERVICE),
	}, nil
}

// Key is the cache key of a formula. It hashes the formula text, so equal
// keys mean structurally equal formulas.
func Key(kind string, formula *smt.BoolExprPtr) string {
	return fmt.Sprintf("%s:%016x", kind, xxhash.Sum64String(formula.String()))
}

func (o *Oracle) FindCounterexample(asserts []symbolic.Predicate, query symbolic.Predicate) (smt.Model, bool, error) {
	parts := make([]*smt.BoolExprPtr, 0, len(asserts)+1)
	for _, a := range asserts {
		parts = append(parts, a.Expr())
	}
	parts = append(parts, query.Negated().Expr())

	return o.lookup(Key("cex", o.eb.Conjunction(parts...)), func() (smt.Model, bool, error) {
		return o.inner.FindCounterexample(asserts, query)
	})
}

func (o *Oracle) Solve(formula *smt.BoolExprPtr) (smt.Model, bool, error) {
	return o.lookup(Key("solve", formula), func() (smt.Model, bool, error) {
		return o.inner.Solve(formula)
	})
}

func (o *Oracle) lookup(key string, solve func() (smt.Model, bool, error)) (smt.Model, bool, error) {
	if a, ok := o.front.Get(key); ok {
		o.hits.Add(1)
		return a.model(), a.Sat, nil
	}

	ctx := context.Background()
	if o.store != nil {
		a, err := o.store.Get(ctx, key)
		switch {
		case err == nil:
			o.hits.Add(1)
			o.front.Add(key, a)
			return a.model(), a.Sat, nil
		case !errors.Is(err, ErrNotFound):
			o.logger.Warn("cache lookup failed for ", key, err)
		}
	}

	o.misses.Add(1)
	model, sat, err := solve()
	if err != nil {
		return nil, false, err
	}
	a := answerOf(model, sat)
	o.front.Add(key, a)
	if o.store != nil {
		if err := o.store.Put(ctx, key, a); err != nil {
			o.logger.Warn("cache write failed for ", key, err)
		}
	}
	return model, sat, nil
}

func (o *Oracle) Stats() Stats {
	return Stats{Hits: o.hits.Load(), Misses: o.misses.Load()}
}

// Close closes the store.
func (o *Oracle) Close() error {
	if o.store == nil {
		return nil
	}
	return o.store.Close()
}

// OpenStore builds the store named by backend. "memory" and "" mean no
// persistent store.
func OpenStore(backend, path, redisAddress, redisPassword string, redisDB int, opts ...RedisOption) (Store, error) {
	switch strings.ToLower(backend) {
	case "", "memory":
		return nil, nil
	case "bolt":
		s, err := OpenBoltStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		return NewRedisStore(redisAddress, redisPassword, redisDB, opts...), nil
	}
	return nil, fmt.Errorf("querycache: unknown store %q", backend)
}
