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

// Package binding implements the per-function binding table and the Basic
// Variable Scan that populates it. The table is built once per function,
// mutated monotonically by later passes, and discarded before the next
// function is processed.
package binding

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/util/orderedmap"
)

// Info is one row of the binding table.
type Info struct {
	IsLocal                bool
	IsSingleDef            bool
	UseCount               int
	InitialValue           ast.Node
	UsesOnlySimpleNodes    bool
	DependsOnGlobal        bool
	DepsMutatedInLiveRange bool

	// declared records whether a `var` has already declared this name at
	// least once. It is scan-internal bookkeeping: it disambiguates "first
	// declaration of a name already present in the table because it was
	// referenced before being declared" from "re-declaration of an
	// already-declared name".
	declared bool
}

// Table is the binding table for one function body.
type Table struct {
	entries *orderedmap.OrderedMap[string, *Info]
}

// New returns an empty binding table.
func New() *Table {
	return &Table{entries: orderedmap.New[string, *Info]()}
}

// Lookup returns the entry for name, and whether it exists.
func (t *Table) Lookup(name string) (*Info, bool) {
	return t.entries.Load(name)
}

// Names returns every name in the table, in first-encounter order.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries.Pairs))
	for i, p := range t.entries.Pairs {
		names[i] = p.Key
	}
	return names
}

// getOrCreate returns the entry for name, creating an empty one if absent.
func (t *Table) getOrCreate(name string) *Info {
	if info, ok := t.entries.Load(name); ok {
		return info
	}
	info := &Info{InitialValue: &ast.Undefined{}}
	t.entries.Store(name, info)
	return info
}

// declare records a `var name = init;` entry. init is
// &ast.Undefined{} when the declaration has no initializer.
func (t *Table) declare(name string, init ast.Node) {
	_, existed := t.entries.Load(name)
	info := t.getOrCreate(name)
	info.IsLocal = true
	info.InitialValue = init
	switch {
	case info.declared:
		// Re-declaration: never single-def, regardless of what the first
		// declaration decided.
		info.IsSingleDef = false
	case existed:
		// The name was read before this, its first, declaration: already
		// disqualified as a forward reference, and declaring it now must
		// not undo that.
		info.declared = true
	default:
		info.IsSingleDef = true
		info.declared = true
	}
}

// use records a `name` occurrence: if the name is already in
// the table, bump its use count; otherwise the name is being read before
// (or without) a declaration, so it is created and marked not single-def.
func (t *Table) use(name string) {
	if info, ok := t.entries.Load(name); ok {
		info.UseCount++
		return
	}
	info := t.getOrCreate(name)
	info.IsSingleDef = false
}

// assign records that name was the target of an assignment or increment;
// a known binding so targeted can never be single-def.
func (t *Table) assign(name string) {
	if info, ok := t.entries.Load(name); ok {
		info.IsSingleDef = false
	}
}
