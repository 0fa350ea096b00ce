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

package liveness

// set is the liveness set L: the single-def bindings whose substitution,
// at the point reached, would still be faithful to the original program.
type set map[string]struct{}

func newSet() set { return make(set) }

func (s set) add(name string) { s[name] = struct{}{} }

func (s set) kill(name string) { delete(s, name) }

func (s set) contains(name string) bool {
	_, ok := s[name]
	return ok
}

// snapshot returns an independent copy, for branches that must explore from
// the same starting point without affecting each other.
func (s set) snapshot() set {
	c := make(set, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// intersect returns the set of names live in both s and other: a binding
// survives a branch point only if it survived every explored branch.
func intersect(a, b set) set {
	out := make(set)
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for k := range small {
		if _, ok := big[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
