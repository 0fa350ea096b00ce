// Copyright 2024 The varelim Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package depgraph implements the affects graph and its transitive closure.
// An edge x -> y means "y's initializer reads x"; the graph only ever grows
// a target's key once that target turns out to be a single-def local. The
// affects graph contains only edges whose target is a single-def local;
// sources may be any name.
//
// Edges are stored in github.com/tidwall/btree ordered maps/sets instead of
// plain Go maps, the way escalier-lang/escalier's internal/dep_graph
// package represents its own binding-dependency graph, so that iteration
// order (and therefore worklist processing order) is deterministic across
// runs.
package depgraph

import "github.com/tidwall/btree"

// Graph is the affects graph for one function body.
type Graph struct {
	edges btree.Map[string, btree.Set[string]]
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddEdge records that target's initializer reads source.
func (g *Graph) AddEdge(source, target string) {
	set, _ := g.edges.Get(source)
	set.Insert(target)
	g.edges.Set(source, set)
}

// HasEdge reports whether source -> target is already recorded.
func (g *Graph) HasEdge(source, target string) bool {
	set, ok := g.edges.Get(source)
	if !ok {
		return false
	}
	return set.Contains(target)
}

// Targets returns every name currently reachable in one hop from source,
// in ascending order.
func (g *Graph) Targets(source string) []string {
	set, ok := g.edges.Get(source)
	if !ok {
		return nil
	}
	out := make([]string, 0, set.Len())
	iter := set.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		out = append(out, iter.Key())
	}
	return out
}

// Sources returns every name that is the source of at least one edge, in
// ascending order.
func (g *Graph) Sources() []string {
	out := make([]string, 0, g.edges.Len())
	iter := g.edges.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		out = append(out, iter.Key())
	}
	return out
}

// Close saturates the graph to a fixed point: for each
// source s with targets T(s), and for each t in T(s), T(t) is unioned into
// T(s). isNonLocal reports whether a name is not a local binding; whenever
// closure adds a new edge s -> t2 where s is non-local, onGlobalReach(t2) is
// called so the caller can mark t2 as depending on a global, mirroring the
// direct marking Initializer Analysis already does for one-hop reads.
//
// The implementation is a classical worklist seeded with every existing
// source, re-queueing a source whenever it gains a new target. It
// terminates because edges are only ever added, never removed.
func (g *Graph) Close(isNonLocal func(name string) bool, onGlobalReach func(target string)) {
	queue := g.Sources()
	queued := make(map[string]bool, len(queue))
	for _, s := range queue {
		queued[s] = true
	}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		queued[s] = false

		grew := false
		for _, t := range g.Targets(s) {
			for _, t2 := range g.Targets(t) {
				if g.HasEdge(s, t2) {
					continue
				}
				g.AddEdge(s, t2)
				grew = true
				if isNonLocal(s) && onGlobalReach != nil {
					onGlobalReach(t2)
				}
			}
		}
		if grew && !queued[s] {
			queue = append(queue, s)
			queued[s] = true
		}
	}
}
