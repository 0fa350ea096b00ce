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

package diagnostics_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/diagnostics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewNonVerboseDiscardsOutput(t *testing.T) {
	log := diagnostics.New(false)
	log.Error("should not appear")
	// No direct way to assert on io.Discard; constructing without panicking
	// and accepting log calls is the behavior under test.
	assert.NotNil(t, log)
}

func newTextLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRetainedIncludesReason(t *testing.T) {
	var buf bytes.Buffer
	log := newTextLogger(&buf)

	diagnostics.Retained(log, "f", "x", "used more than once")

	out := buf.String()
	assert.Contains(t, out, "binding retained")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "used more than once")
}

func TestEliminatedIncludesShortenedInitializer(t *testing.T) {
	var buf bytes.Buffer
	log := newTextLogger(&buf)

	init := &ast.Binary{Op: "+", Left: &ast.Name{Value: "x"}, Right: &ast.Num{Value: 1}}
	diagnostics.Eliminated(log, "f", "y", init)

	out := buf.String()
	assert.Contains(t, out, "binding eliminated")
	assert.Contains(t, out, "x + 1")
}

func TestFunctionSkippedLogsName(t *testing.T) {
	var buf bytes.Buffer
	log := newTextLogger(&buf)

	diagnostics.FunctionSkipped(log, "_helper")

	out := buf.String()
	assert.Contains(t, out, "function skipped")
	assert.Contains(t, out, "_helper")
}
