package symbolic

import (
	"fmt"
	"strings"
)

// Input is the value bound to one parameter. A symbolic input is tracked as
// the free variable named Name, with Value as its current concrete value.
type Input struct {
	Name     string
	Value    int64
	Symbolic bool
}

// InputMap binds parameter names to inputs in declaration order. It is an
// immutable value: With returns an updated copy and never touches the
// receiver, so a map stored in a constraint or a result cannot change later.
type InputMap struct {
	names  []string
	values map[string]Input
}

func NewInputMap(inputs ...Input) InputMap {
	m := InputMap{
		names:  make([]string, 0, len(inputs)),
		values: make(map[string]Input, len(inputs)),
	}
	for _, in := range inputs {
		if _, ok := m.values[in.Name]; !ok {
			m.names = append(m.names, in.Name)
		}
		m.values[in.Name] = in
	}
	return m
}

// With returns a copy of m where in replaces the input of the same name.
// Unknown names are appended.
func (m InputMap) With(in Input) InputMap {
	res := InputMap{
		names:  m.names,
		values: make(map[string]Input, len(m.values)+1),
	}
	for k, v := range m.values {
		res.values[k] = v
	}
	if _, ok := m.values[in.Name]; !ok {
		res.names = append(append(make([]string, 0, len(m.names)+1), m.names...), in.Name)
	}
	res.values[in.Name] = in
	return res
}

func (m InputMap) Get(name string) (Input, bool) {
	in, ok := m.values[name]
	return in, ok
}

func (m InputMap) Names() []string {
	return append([]string(nil), m.names...)
}

func (m InputMap) Len() int {
	return len(m.names)
}

// Assignments lists the concrete value of every input in declaration order.
func (m InputMap) Assignments() Assignments {
	res := make(Assignments, 0, len(m.names))
	for _, name := range m.names {
		res = append(res, Assignment{Name: name, Value: m.values[name].Value})
	}
	return res
}

func (m InputMap) Equal(o InputMap) bool {
	if len(m.names) != len(o.names) {
		return false
	}
	for i, name := range m.names {
		if o.names[i] != name || m.values[name] != o.values[name] {
			return false
		}
	}
	return true
}

func (m InputMap) String() string {
	return m.Assignments().String()
}

// Assignment is one (name, value) pair of a test case.
type Assignment struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Assignments is a test case: one assignment per parameter.
type Assignments []Assignment

func (a Assignments) Map() map[string]int64 {
	res := make(map[string]int64, len(a))
	for _, as := range a {
		res[as.Name] = as.Value
	}
	return res
}

// InputMap binds every assignment as a symbolic input.
func (a Assignments) InputMap() InputMap {
	inputs := make([]Input, 0, len(a))
	for _, as := range a {
		inputs = append(inputs, Input{Name: as.Name, Value: as.Value, Symbolic: true})
	}
	return NewInputMap(inputs...)
}

func (a Assignments) String() string {
	parts := make([]string, 0, len(a))
	for _, as := range a {
		parts = append(parts, fmt.Sprintf("%s=%d", as.Name, as.Value))
	}
	return strings.Join(parts, ", ")
}
