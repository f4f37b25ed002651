// Package depgraph records modules and the imports between them, and answers
// transitive-closure queries over that graph.
//
// The graph is filled from a scan of source text, so edges routinely point at
// modules that were never registered and cycles are common. Neither is an
// error: missing targets are skipped and cycles are cut by a visited set.
package depgraph

import "sort"

// Module is one discovered source unit.
type Module struct {
	ID     string
	Origin string // opaque location token, e.g. the repo-relative source path

	// Dependencies lists the ids this module imports, in the order they were
	// declared. Entries are only ever appended and may repeat.
	Dependencies []string
}

// Graph maps module ids to modules. A Graph is not safe for concurrent use;
// give each generation run its own instance.
type Graph struct {
	modules map[string]*Module
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{modules: make(map[string]*Module)}
}

// AddModule registers a module. If id is already registered the existing
// record is returned unchanged and origin is ignored.
func (g *Graph) AddModule(id, origin string) *Module {
	if m, ok := g.modules[id]; ok {
		return m
	}
	m := &Module{ID: id, Origin: origin}
	g.modules[id] = m
	return m
}

// AddDependency appends targetID to m's dependencies. The target does not
// need to exist yet, or ever.
func (g *Graph) AddDependency(m *Module, targetID string) {
	m.Dependencies = append(m.Dependencies, targetID)
}

// Module returns the module registered under id.
func (g *Graph) Module(id string) (*Module, bool) {
	m, ok := g.modules[id]
	return m, ok
}

// AllDependencies returns every registered module reachable from rootID by
// following dependency edges. The root is only included when a cycle leads
// back to it. An unknown rootID yields an empty map.
//
// Each module is expanded at most once, so the cost is linear in the number of
// reachable modules plus the edges examined, however many paths reach a node.
func (g *Graph) AllDependencies(rootID string) map[string]*Module {
	result := make(map[string]*Module)
	root, ok := g.modules[rootID]
	if !ok {
		return result
	}

	// Seed with the root's edges rather than the root itself so that the root
	// only lands in result when something points back at it.
	stack := make([]string, 0, len(root.Dependencies))
	for i := len(root.Dependencies) - 1; i >= 0; i-- {
		stack = append(stack, root.Dependencies[i])
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := result[id]; seen {
			continue
		}
		m, ok := g.modules[id]
		if !ok {
			continue // dangling edge
		}
		result[id] = m

		for i := len(m.Dependencies) - 1; i >= 0; i-- {
			dep := m.Dependencies[i]
			if _, seen := result[dep]; !seen {
				stack = append(stack, dep)
			}
		}
	}

	return result
}

// IDs returns the registered module ids in sorted order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of registered modules.
func (g *Graph) Len() int {
	return len(g.modules)
}

// Modules returns the live backing map. Mutating it bypasses AddModule; it is
// exposed for tests and debugging.
func (g *Graph) Modules() map[string]*Module {
	return g.modules
}

// Reset removes every module from the graph.
func (g *Graph) Reset() {
	clear(g.modules)
}

// Sorted returns the modules of a closure ordered by id.
func Sorted(deps map[string]*Module) []*Module {
	out := make([]*Module, 0, len(deps))
	for _, m := range deps {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
