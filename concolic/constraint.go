package concolic

import (
	"github.com/borzacchiello/goconcolic/symbolic"
)

// Constraint is a node of the constraint tree: a predicate observed after the
// prefix of predicates on the path from the root. Inputs is the input map of
// the execution that discovered it.
type Constraint struct {
	Predicate symbolic.Predicate
	Inputs    symbolic.InputMap

	parent    *Constraint
	children  map[symbolic.PredicateKey]*Constraint
	processed bool
	depth     int
}

func newConstraint(parent *Constraint, p symbolic.Predicate, inputs symbolic.InputMap) *Constraint {
	c := &Constraint{
		Predicate: p,
		Inputs:    inputs,
		parent:    parent,
		children:  make(map[symbolic.PredicateKey]*Constraint),
	}
	if parent != nil {
		c.depth = parent.depth + 1
	}
	return c
}

func (c *Constraint) Processed() bool {
	return c.processed
}

// Depth is the number of predicates on the path to c, c included.
func (c *Constraint) Depth() int {
	return c.depth
}

func (c *Constraint) Parent() *Constraint {
	if c.parent == nil || c.parent.parent == nil {
		return nil
	}
	return c.parent
}

// Path lists the predicates from the root down to c.
func (c *Constraint) Path() []symbolic.Predicate {
	res := make([]symbolic.Predicate, c.depth)
	for n := c; n.parent != nil; n = n.parent {
		res[n.depth-1] = n.Predicate
	}
	return res
}

// AssertsAndQuery splits the path to c into the prefix and c's own predicate.
func (c *Constraint) AssertsAndQuery() ([]symbolic.Predicate, symbolic.Predicate) {
	path := c.Path()
	return path[:len(path)-1], path[len(path)-1]
}

// Sibling is the node for the opposite branch under the same prefix, if it
// has been observed.
func (c *Constraint) Sibling() *Constraint {
	if c.parent == nil {
		return nil
	}
	return c.parent.children[c.Predicate.Negated().Key()]
}

// Follows reports whether trace took the prefix of c and then the branch
// opposite to c's predicate, which is what solving c asked for.
func (c *Constraint) Follows(trace symbolic.Trace) bool {
	path := c.Path()
	if len(trace) < len(path) {
		return false
	}
	last := len(path) - 1
	for i := 0; i < last; i++ {
		if trace[i].Key() != path[i].Key() {
			return false
		}
	}
	return trace[last].Key() == path[last].Negated().Key()
}

// ConstraintTree merges the traces of every execution into a prefix tree.
type ConstraintTree struct {
	root   *Constraint
	size   int
	solved int
}

func NewConstraintTree() *ConstraintTree {
	return &ConstraintTree{root: newConstraint(nil, symbolic.Predicate{}, symbolic.InputMap{})}
}

// Insert walks trace from the root and creates the missing nodes, snapshotting
// inputs into each. It returns the nodes it created. When a new node's
// sibling already exists, both branches of that decision have been covered
// and the two nodes are marked processed.
func (t *ConstraintTree) Insert(trace symbolic.Trace, inputs symbolic.InputMap) []*Constraint {
	created := make([]*Constraint, 0)
	node := t.root
	for _, p := range trace {
		child, ok := node.children[p.Key()]
		if !ok {
			child = newConstraint(node, p, inputs)
			node.children[p.Key()] = child
			t.size++
			created = append(created, child)

			if sibling := child.Sibling(); sibling != nil {
				t.MarkProcessed(child)
				t.MarkProcessed(sibling)
			}
		}
		node = child
	}
	return created
}

func (t *ConstraintTree) MarkProcessed(c *Constraint) {
	if c.processed {
		return
	}
	c.processed = true
	t.solved++
}

// Size is the number of constraints in the tree.
func (t *ConstraintTree) Size() int {
	return t.size
}

// Solved is the number of processed constraints.
func (t *ConstraintTree) Solved() int {
	return t.solved
}
