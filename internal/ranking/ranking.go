// Package ranking scores modules by how central they are in the dependency
// graph, so the index can list the most imported modules first.
package ranking

import (
	"math"

	"github.com/phobologic/litdoc/internal/depgraph"
)

const (
	alpha   = 0.85
	maxIter = 100
	tol     = 1e-6
)

// Rank applies PageRank to the registered modules of g. Edges to modules that
// are not registered are ignored, and repeated edges count once per
// declaration. Scores sum to ~1.
func Rank(g *depgraph.Graph) map[string]float64 {
	nodes := g.Modules()
	n := len(nodes)
	if n == 0 {
		return nil
	}

	outEdges := make(map[string][]string) // node → targets, with repeats
	for id, m := range nodes {
		for _, target := range m.Dependencies {
			if _, ok := nodes[target]; ok {
				outEdges[id] = append(outEdges[id], target)
			}
		}
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}
	if len(outEdges) == 0 {
		return rank
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Dangling node contribution (modules with no resolved imports)
		var danglingSum float64
		for node := range nodes {
			if len(outEdges[node]) == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			contrib := alpha * rank[src] / float64(len(targets))
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}
