// Package programs is the registry of built-in targets. Each program has a
// reference implementation and variants to check against it.
package programs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/borzacchiello/goconcolic/smt"
)

var (
	ErrUnknownProgram = errors.New("unknown program")
	ErrUnknownVariant = errors.New("unknown variant")
)

type Variant struct {
	Name        string
	Description string
	Func        invocation.Func
}

type Program struct {
	Name        string
	Description string
	Params      []string
	Reference   invocation.Func
	Variants    []Variant
}

// Variant looks up a variant by name.
func (p *Program) Variant(name string) (Variant, error) {
	for _, v := range p.Variants {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w %q for %s", ErrUnknownVariant, name, p.Name)
}

func (p *Program) VariantNames() []string {
	names := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		names = append(names, v.Name)
	}
	return names
}

// NewReference binds the reference implementation to eb.
func (p *Program) NewReference(eb *smt.ExprBuilder) (*invocation.Invocation, error) {
	return invocation.New(p.Name, p.Params, p.Reference, eb)
}

// NewCandidate binds the named variant to eb.
func (p *Program) NewCandidate(variant string, eb *smt.ExprBuilder) (*invocation.Invocation, error) {
	v, err := p.Variant(variant)
	if err != nil {
		return nil, err
	}
	return invocation.New(p.Name+"/"+v.Name, p.Params, v.Func, eb)
}

var registry = map[string]*Program{}

func register(p *Program) {
	if _, ok := registry[p.Name]; ok {
		panic("program registered twice: " + p.Name)
	}
	registry[p.Name] = p
}

// All lists the programs sorted by name.
func All() []*Program {
	res := make([]*Program, 0, len(registry))
	for _, p := range registry {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for _, p := range All() {
		names = append(names, p.Name)
	}
	return names
}

func Lookup(name string) (*Program, error) {
	if p, ok := registry[strings.ToLower(name)]; ok {
		return p, nil
	}
	msg := fmt.Sprintf("%q", name)
	if s := Suggest(name, Names()); len(s) > 0 {
		msg += fmt.Sprintf(", did you mean %s?", strings.Join(s, " or "))
	}
	return nil, fmt.Errorf("%w %s", ErrUnknownProgram, msg)
}

// Suggest returns the candidates within edit distance 2 of name, closest
// first.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	matches := make([]scored, 0)
	lower := strings.ToLower(name)
	for _, c := range candidates {
		if d := levenshtein.Distance(lower, strings.ToLower(c), nil); d <= 2 {
			matches = append(matches, scored{c, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	res := make([]string, 0, len(matches))
	for _, m := range matches {
		res = append(res, m.name)
	}
	return res
}
