package openapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vitalvas/routedoc/mux"
)

// ErrInvalidPathFilter is returned when an include or exclude pattern is
// not a valid doublestar pattern.
var ErrInvalidPathFilter = errors.New("openapi: invalid path filter")

// PathItems aggregates the operations of every route of the router into a
// path map. Routes are visited in registration order; when two routes
// resolve to the same path and verb the later one wins and a warning is
// logged. Hidden routes are skipped. The first failing route aborts generation.
func (g *Generator) PathItems(ctx context.Context, router *mux.Router) (*Paths, error) {
	if g.Encoder == nil {
		return nil, ErrMissingEncoder
	}
	if err := g.validateFilters(); err != nil {
		return nil, err
	}

	paths := NewPaths()

	for _, route := range router.Routes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if route.Metadata().Hidden || !g.selected(route) {
			continue
		}

		po, err := g.PathOperation(route)
		if err != nil {
			return nil, err
		}

		item := paths.Value(po.Path)
		if item == nil {
			item = &PathItem{}
			paths.Set(po.Path, item)
		}

		if item.SetOperation(po.Verb, po.Operation) {
			g.logger().Warn("duplicate operation, keeping the last registration",
				"path", po.Path,
				"verb", string(po.Verb),
			)
		}
	}

	return paths, nil
}

func (g *Generator) validateFilters() error {
	for _, patterns := range [][]string{g.Include, g.Exclude} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("%w: %q", ErrInvalidPathFilter, p)
			}
		}
	}
	return nil
}

// selected applies the include and exclude filters to a route. The OpenAPI
// path is matched when it can be built; otherwise the mux template is used
// so unsupported routes such as catch-all file servers can be excluded.
func (g *Generator) selected(route *mux.Route) bool {
	if len(g.Include) == 0 && len(g.Exclude) == 0 {
		return true
	}

	path, err := PathTemplate(route.GetSegments())
	if err != nil || route.GetError() != nil {
		path = route.GetPathTemplate()
	}

	if len(g.Include) > 0 && !matchAny(g.Include, path) {
		return false
	}
	return !matchAny(g.Exclude, path)
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
