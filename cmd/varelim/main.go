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

// Command varelim reads a single JavaScript-like source file, optimizes
// every top-level function named in its `// EMSCRIPTEN_GENERATED_FUNCTIONS:`
// marker comment, and prints the result.
package main

import (
	"fmt"
	"os"

	"github.com/varelim/varelim/cmd/varelim/internal/run"
)

func main() {
	if err := run.Command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
