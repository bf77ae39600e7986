package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputMapCopyOnWrite(t *testing.T) {
	m := NewInputMap(
		Input{Name: "a", Value: 0, Symbolic: true},
		Input{Name: "b", Value: 0, Symbolic: true},
	)
	updated := m.With(Input{Name: "b", Value: 42, Symbolic: true})

	b, _ := m.Get("b")
	assert.Equal(t, int64(0), b.Value)
	b, _ = updated.Get("b")
	assert.Equal(t, int64(42), b.Value)
	assert.Equal(t, []string{"a", "b"}, updated.Names())
	assert.False(t, m.Equal(updated))
	assert.True(t, m.Equal(m.With(Input{Name: "a", Value: 0, Symbolic: true})))
}

func TestInputMapAppendDoesNotAlias(t *testing.T) {
	base := NewInputMap(Input{Name: "a"}, Input{Name: "b"})
	x := base.With(Input{Name: "c", Value: 1})
	y := base.With(Input{Name: "d", Value: 2})

	assert.Equal(t, []string{"a", "b", "c"}, x.Names())
	assert.Equal(t, []string{"a", "b", "d"}, y.Names())
	assert.Equal(t, 2, base.Len())
}

func TestAssignments(t *testing.T) {
	m := NewInputMap(
		Input{Name: "x", Value: -1, Symbolic: true},
		Input{Name: "y", Value: 9, Symbolic: false},
	)
	as := m.Assignments()

	assert.Equal(t, Assignments{{Name: "x", Value: -1}, {Name: "y", Value: 9}}, as)
	assert.Equal(t, "x=-1, y=9", as.String())
	assert.Equal(t, map[string]int64{"x": -1, "y": 9}, as.Map())

	back := as.InputMap()
	in, ok := back.Get("y")
	assert.True(t, ok)
	assert.True(t, in.Symbolic)
	assert.Equal(t, int64(9), in.Value)
}
