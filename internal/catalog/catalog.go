// Package catalog holds the category descriptors (room tabs) the client knows about.
package catalog

import (
	_ "embed"
	"os"
	"strings"

	"roomprog/internal/model"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultYAML []byte

type file struct {
	Categories []model.Category `yaml:"categories"`
}

// Catalog is an ordered, read-only set of category descriptors.
type Catalog struct {
	order []string
	byID  map[string]model.Category
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from path, or returns the default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read categories")
	}
	c, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return c, nil
}

func Parse(b []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return New(f.Categories...)
}

// New builds a catalog from descriptors in display order.
func New(cats ...model.Category) (*Catalog, error) {
	if len(cats) == 0 {
		return nil, errors.New("catalog: no categories")
	}
	c := &Catalog{byID: make(map[string]model.Category, len(cats))}
	for _, cat := range cats {
		cat.ID = strings.TrimSpace(cat.ID)
		if cat.ID == "" {
			return nil, errors.New("catalog: category without id")
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, errors.Errorf("catalog: duplicate category %q", cat.ID)
		}
		if len(cat.Columns) == 0 {
			return nil, errors.Errorf("catalog: category %q has no columns", cat.ID)
		}
		c.order = append(c.order, cat.ID)
		c.byID[cat.ID] = cat
	}
	return c, nil
}

// MustNew is New for fixed test fixtures.
func MustNew(cats ...model.Category) *Catalog {
	c, err := New(cats...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(id string) (model.Category, bool) {
	cat, ok := c.byID[strings.TrimSpace(id)]
	return cat, ok
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// First is the default active category.
func (c *Catalog) First() model.Category { return c.byID[c.order[0]] }

func (c *Catalog) All() []model.Category {
	out := make([]model.Category, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) IDs() []string { return append([]string(nil), c.order...) }

// Next returns the category after id, wrapping around; delta may be negative.
func (c *Catalog) Next(id string, delta int) string {
	idx := 0
	for i, x := range c.order {
		if x == id {
			idx = i
			break
		}
	}
	n := len(c.order)
	return c.order[((idx+delta)%n+n)%n]
}
