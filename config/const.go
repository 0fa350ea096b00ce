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

package config

// This file hosts non-user-configurable parameters --- these are for development and testing purposes only.

// MaxUses is the design constant ("MAX_USES"): the most a
// single-def binding with a depended-on-global-free live range may be read
// and still be eliminated. Raising it risks super-linear blowup when
// eliminated bindings reference each other, since each substitution can
// duplicate the initializer subtree at every use site.
const MaxUses = 1

// GeneratedFunctionsMarker is the comment line the CLI looks for to decide
// which top-level functions are eligible for optimization.
const GeneratedFunctionsMarker = "// EMSCRIPTEN_GENERATED_FUNCTIONS:"

// PureNodeKinds is the closed pure-node set; initializer.pureKinds is built
// from it, and the initializer package is its only reader.
var PureNodeKinds = []string{
	"name", "num", "string", "binary", "sub", "unary-prefix",
}
