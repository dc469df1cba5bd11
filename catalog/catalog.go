package catalog

import (
	"github.com/programme-lv/arena/scoring"
)

// TestAsset locates one test case: either inline content or a download
// URL plus checksum the judge fetches and caches by.
type TestAsset struct {
	InSha256  *string
	InURL     *string
	InContent *string

	AnsSha256  *string
	AnsURL     *string
	AnsContent *string
}

// Problem is an immutable problem description. Competitions reference
// problems by id; the catalog never changes while a contest runs.
type Problem struct {
	ID              string
	Title           string
	Tier            scoring.Tier
	StatementMd     string
	IllustrationKey string
	CpuMs           int
	MemKiB          int
	Tests           []TestAsset
	Hints           map[int]string // hint level -> content
}

// Accessor is the read-only problem lookup the engine depends on.
type Accessor interface {
	Get(id string) (Problem, error)
	List() []Problem
	Exists(id string) bool
}

// InMemCatalog serves a fixed problem set from memory. The set is
// immutable after construction, so reads need no locking.
type InMemCatalog struct {
	order    []string
	problems map[string]Problem
}

func NewInMemCatalog(problems []Problem) *InMemCatalog {
	c := &InMemCatalog{
		problems: make(map[string]Problem, len(problems)),
	}
	for _, p := range problems {
		if _, ok := c.problems[p.ID]; ok {
			continue
		}
		c.order = append(c.order, p.ID)
		c.problems[p.ID] = p
	}
	return c
}

func (c *InMemCatalog) Get(id string) (Problem, error) {
	p, ok := c.problems[id]
	if !ok {
		return Problem{}, ErrProblemNotFound(id)
	}
	return p, nil
}

func (c *InMemCatalog) List() []Problem {
	list := make([]Problem, 0, len(c.order))
	for _, id := range c.order {
		list = append(list, c.problems[id])
	}
	return list
}

func (c *InMemCatalog) Exists(id string) bool {
	_, ok := c.problems[id]
	return ok
}
