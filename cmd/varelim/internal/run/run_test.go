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

package run

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleSource = `// EMSCRIPTEN_GENERATED_FUNCTIONS: _foo
function _foo(a) {
  var x = 1;
  var y = 2;
  return x + y + a;
}

function _bar(a) {
  var x = a;
  return x;
}
`

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.js")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunFileOptimizesOnlyGeneratedFunctions(t *testing.T) {
	path := writeTempFile(t, sampleSource)
	var stdout, stderr bytes.Buffer

	err := runFile(&stdout, &stderr, path, &options{maxUses: 1})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "EMSCRIPTEN_GENERATED_FUNCTIONS")
	assert.Contains(t, out, "function _foo")
	assert.Contains(t, out, "function _bar")
	// _foo is named on the marker: its bindings collapse into the fold.
	assert.NotContains(t, out, "var x = 1;")
	// _bar is not named: left untouched.
	assert.Contains(t, out, "var x = a;")
}

func TestRunFileMissingMarkerErrors(t *testing.T) {
	path := writeTempFile(t, "function _foo() { return 1; }")
	var stdout, stderr bytes.Buffer

	err := runFile(&stdout, &stderr, path, &options{maxUses: 1})
	assert.Error(t, err)
}

func TestRunFileMissingFileErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runFile(&stdout, &stderr, filepath.Join(t.TempDir(), "does-not-exist.js"), &options{maxUses: 1})
	assert.Error(t, err)
}

func TestParseMarkerNames(t *testing.T) {
	names := parseMarkerNames("// EMSCRIPTEN_GENERATED_FUNCTIONS: _a, _b ,_c")
	assert.Equal(t, map[string]bool{"_a": true, "_b": true, "_c": true}, names)
}

func TestFindMarkerNotFound(t *testing.T) {
	_, _, err := findMarker([]byte("function f() {}\n"))
	assert.Error(t, err)
}

func TestCommandRunsEndToEnd(t *testing.T) {
	path := writeTempFile(t, sampleSource)
	cmd := Command()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{path, "--stats"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "function _foo")
	assert.Contains(t, stderr.String(), "_foo:")
}
