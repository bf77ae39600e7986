// Package querycache memoizes oracle answers. Answers live in an in-memory
// LRU in front of an optional persistent Store.
package querycache

import (
	"context"
	"errors"

	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
)

var ErrNotFound = errors.New("querycache: not found")

// Answer is a decided query. Undecided queries are never stored.
type Answer struct {
	Sat   bool             `json:"sat"`
	Model map[string]int64 `json:"model,omitempty"`
}

func answerOf(model smt.Model, sat bool) Answer {
	a := Answer{Sat: sat}
	if sat {
		a.Model = make(map[string]int64, len(model))
		for name, v := range model {
			a.Model[name] = v.AsLong()
		}
	}
	return a
}

func (a Answer) model() smt.Model {
	if !a.Sat {
		return nil
	}
	m := make(smt.Model, len(a.Model))
	for name, v := range a.Model {
		m[name] = smt.MakeBVConst(v, symbolic.Width)
	}
	return m
}

// Store persists answers by key. Get returns ErrNotFound on a miss.
type Store interface {
	Get(ctx context.Context, key string) (Answer, error)
	Put(ctx context.Context, key string, a Answer) error
	Close() error
}
