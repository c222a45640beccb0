// Package seed loads bubble graphs described in YAML and applies them through the gateway.
//
// A fixture lists bubbles and, for each, the titles it is related to:
//
//	bubbles:
//	  - title: Alpha
//	    related: [Beta]
//	  - title: Beta
package seed

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/soundprediction/bubbles"
	"github.com/soundprediction/bubbles/pkg/types"
	"github.com/soundprediction/bubbles/pkg/utils"
	"github.com/soundprediction/bubbles/pkg/validation"
)

// Graph is a parsed fixture.
type Graph struct {
	Bubbles []Entry `yaml:"bubbles"`
}

// Entry is one bubble and the titles it points at.
type Entry struct {
	Title   string   `yaml:"title"`
	Related []string `yaml:"related,omitempty"`
}

// Result summarizes what Apply changed.
type Result struct {
	Created  int
	Existing int
	Related  int
}

// Gateway is the subset of the bubble gateway that seeding needs.
type Gateway interface {
	bubbles.BubbleReader
	bubbles.BubbleWriter
	bubbles.Relater
}

// Load parses a fixture. Entries without a title and relations to titles
// not declared in the fixture are rejected, as are duplicate titles.
func Load(r io.Reader) (*Graph, error) {
	var g Graph
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		if err == io.EOF {
			return &g, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	declared := make(map[string]bool, len(g.Bubbles))
	for i, e := range g.Bubbles {
		if e.Title == "" {
			return nil, fmt.Errorf("bubble %d has no title", i)
		}
		if declared[e.Title] {
			return nil, fmt.Errorf("bubble %q is declared twice", e.Title)
		}
		declared[e.Title] = true
	}
	for _, e := range g.Bubbles {
		for _, rel := range e.Related {
			if !declared[rel] {
				return nil, fmt.Errorf("bubble %q is related to undeclared bubble %q", e.Title, rel)
			}
		}
	}
	return &g, nil
}

// DefaultConcurrency bounds how many gateway calls Apply keeps in flight.
const DefaultConcurrency = 4

// Apply creates every bubble in g that does not exist yet and then creates
// the declared relations. Titles are validated before anything is written.
// Within each phase calls run concurrently; the first error in fixture order
// is returned once the phase completes.
func Apply(ctx context.Context, gw Gateway, g *Graph) (*Result, error) {
	res := &Result{}
	for _, e := range g.Bubbles {
		if _, err := validation.Validate(types.Attributes{"title": e.Title}, true); err != nil {
			return res, fmt.Errorf("bubble %q: %w", e.Title, err)
		}
	}

	var created, existing atomic.Int32
	ensure := make([]func(context.Context) (*types.Bubble, error), len(g.Bubbles))
	for i, e := range g.Bubbles {
		e := e
		ensure[i] = func(ctx context.Context) (*types.Bubble, error) {
			b, err := gw.Get(ctx, e.Title)
			switch {
			case err == nil:
				existing.Add(1)
				return b, nil
			case types.IsNotFound(err):
				b, err = gw.Create(ctx, types.Attributes{"title": e.Title})
				if err != nil {
					return nil, fmt.Errorf("bubble %q: %w", e.Title, err)
				}
				created.Add(1)
				return b, nil
			default:
				return nil, fmt.Errorf("bubble %q: %w", e.Title, err)
			}
		}
	}
	ensured, errs := utils.GatherResults(ctx, DefaultConcurrency, ensure...)
	res.Created, res.Existing = int(created.Load()), int(existing.Load())
	if err := utils.FirstError(errs); err != nil {
		return res, err
	}

	byTitle := make(map[string]*types.Bubble, len(ensured))
	for i, e := range g.Bubbles {
		byTitle[e.Title] = ensured[i]
	}

	var relate []func(context.Context) error
	for _, e := range g.Bubbles {
		e := e
		for _, rel := range e.Related {
			rel := rel
			relate = append(relate, func(ctx context.Context) error {
				if err := gw.Relate(ctx, byTitle[e.Title], byTitle[rel]); err != nil {
					return fmt.Errorf("relate %q -> %q: %w", e.Title, rel, err)
				}
				return nil
			})
		}
	}
	errs = utils.Gather(ctx, DefaultConcurrency, relate...)
	for _, err := range errs {
		if err == nil {
			res.Related++
		}
	}
	return res, utils.FirstError(errs)
}
