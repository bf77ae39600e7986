package concolic

import (
	"fmt"
	"strings"
)

// Strategy is the order in which pending constraints are tried.
type Strategy string

const (
	// StrategyBFS pops the earliest discovered constraint first.
	StrategyBFS Strategy = "bfs"
	// StrategyDFS pops the latest discovered constraint first.
	StrategyDFS Strategy = "dfs"
)

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "bfs", "fifo":
		return StrategyBFS, nil
	case "dfs", "lifo":
		return StrategyDFS, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
}

type worklist struct {
	items []*Constraint
	lifo  bool
}

func newWorklist(s Strategy) *worklist {
	return &worklist{lifo: s == StrategyDFS}
}

func (w *worklist) push(c *Constraint) {
	w.items = append(w.items, c)
}

func (w *worklist) pop() (*Constraint, bool) {
	if len(w.items) == 0 {
		return nil, false
	}
	var c *Constraint
	if w.lifo {
		c = w.items[len(w.items)-1]
		w.items = w.items[:len(w.items)-1]
	} else {
		c = w.items[0]
		w.items[0] = nil
		w.items = w.items[1:]
	}
	return c, true
}

func (w *worklist) len() int {
	return len(w.items)
}

// pending counts the entries that are not processed yet.
func (w *worklist) pending() int {
	n := 0
	for _, c := range w.items {
		if !c.processed {
			n++
		}
	}
	return n
}
