// Package corpus persists exploration results and check reports as JSON
// files, one per run, so that counterexamples can be replayed later.
package corpus

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/google/uuid"
)

type ExplorationEntry struct {
	ID      string                      `json:"id"`
	Program string                      `json:"program"`
	Created time.Time                   `json:"created"`
	Result  *concolic.ExplorationResult `json:"result"`
}

type CheckEntry struct {
	ID        string                `json:"id"`
	Program   string                `json:"program"`
	Candidate string                `json:"candidate"`
	Created   time.Time             `json:"created"`
	Report    *concolic.CheckReport `json:"report"`
}

// Corpus is a directory with an explorations/ and a checks/ subdirectory.
// With an empty directory it only keeps entries in memory.
type Corpus struct {
	explorations *corpusDirectory[ExplorationEntry]
	checks       *corpusDirectory[CheckEntry]
}

func subdir(dir, name string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}

// Open loads the entries already stored in dir.
func Open(dir string) (*Corpus, error) {
	c := &Corpus{
		explorations: newCorpusDirectory[ExplorationEntry](subdir(dir, "explorations")),
		checks:       newCorpusDirectory[CheckEntry](subdir(dir, "checks")),
	}
	if err := c.explorations.readFiles("*.json"); err != nil {
		return nil, err
	}
	if err := c.checks.readFiles("*.json"); err != nil {
		return nil, err
	}
	return c, nil
}

func newID() string {
	return uuid.New().String()
}

func (c *Corpus) AddExploration(program string, res *concolic.ExplorationResult) string {
	e := ExplorationEntry{ID: newID(), Program: program, Created: time.Now().UTC(), Result: res}
	c.explorations.addFile(e.ID+".json", e)
	return e.ID
}

func (c *Corpus) AddCheck(program, candidate string, report *concolic.CheckReport) string {
	e := CheckEntry{ID: newID(), Program: program, Candidate: candidate, Created: time.Now().UTC(), Report: report}
	c.checks.addFile(e.ID+".json", e)
	return e.ID
}

// Flush writes the new entries to disk.
func (c *Corpus) Flush() error {
	if err := c.explorations.writeFiles(); err != nil {
		return err
	}
	return c.checks.writeFiles()
}

func byCreated[T any](items []T, created func(T) time.Time) []T {
	sort.SliceStable(items, func(i, j int) bool { return created(items[i]).Before(created(items[j])) })
	return items
}

// Explorations lists the entries for program, oldest first. An empty program
// lists everything.
func (c *Corpus) Explorations(program string) []ExplorationEntry {
	res := make([]ExplorationEntry, 0)
	for _, e := range c.explorations.items() {
		if program == "" || e.Program == program {
			res = append(res, e)
		}
	}
	return byCreated(res, func(e ExplorationEntry) time.Time { return e.Created })
}

func (c *Corpus) Checks(program string) []CheckEntry {
	res := make([]CheckEntry, 0)
	for _, e := range c.checks.items() {
		if program == "" || e.Program == program {
			res = append(res, e)
		}
	}
	return byCreated(res, func(e CheckEntry) time.Time { return e.Created })
}

// Counterexamples lists the distinct inputs that made some candidate of
// program differ from the reference.
func (c *Corpus) Counterexamples(program string) []concolic.GeneratedInput {
	res := make([]concolic.GeneratedInput, 0)
	seen := make(map[string]bool)
	for _, e := range c.Checks(program) {
		if e.Report == nil || e.Report.Counterexample == nil {
			continue
		}
		in := e.Report.Counterexample.Input
		if key := in.String(); !seen[key] {
			seen[key] = true
			res = append(res, in)
		}
	}
	return res
}
