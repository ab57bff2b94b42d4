/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func Test_Commands(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		cmd := newRootCommand()
		assert.Equal(t, "windowgen", cmd.Use)
		assert.Equal(t, "string", cmd.Flag("interval").Value.Type())
		assert.Equal(t, "bool", cmd.Flag("preaggr").Value.Type())
		assert.Equal(t, "int", cmd.Flag("heap-max-size").Value.Type())
	})

	t.Run("raw windows", func(t *testing.T) {
		out, _, err := run(t, "--start", "0", "--end", "10", "--interval", "5", "--step", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "| 3    | 9     | 10   | 1     |")
		assert.Contains(t, out, "(4 rows)")
	})

	t.Run("pre-aggregated", func(t *testing.T) {
		out, _, err := run(t, "--start", "0", "--end", "10", "--interval", "5", "--step", "3", "--preaggr", "--descending")
		require.NoError(t, err)
		assert.Contains(t, out, "| 0    | 9     | 10   | 1     |")
		assert.Contains(t, out, "(6 rows)")
	})

	t.Run("months with filter and stats", func(t *testing.T) {
		out, _, err := run(t, "--start", "2024-01-31", "--end", "2024-06-01", "--interval", "1mo",
			"--filter", "month(start) == 2", "--stats")
		require.NoError(t, err)
		assert.Contains(t, out, "2024-02-29T00:00:00Z")
		assert.Contains(t, out, "2024-03-31T00:00:00Z")
		assert.Equal(t, 2, strings.Count(out, "(1 rows)"))
		assert.Contains(t, out, "filtered_count")
	})

	t.Run("debug log on stderr", func(t *testing.T) {
		out, errOut, err := run(t, "--start", "0", "--end", "100", "--interval", "50", "--step", "1",
			"--preaggr", "--heap-max-size", "4", "--log-level", "debug")
		require.NoError(t, err)
		assert.Contains(t, errOut, "[DEBUG]")
		assert.Contains(t, errOut, "preaggr iterator created")
		assert.NotContains(t, out, "[DEBUG]")
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "query.yaml")
		require.NoError(t, os.WriteFile(path, []byte("window:\n  startTime: 0\n  endTime: 10\n  interval: 5\n"), 0o644))
		out, _, err := run(t, "--config", path, "--step", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "(2 rows)")
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := run(t, "--start", "0", "--end", "10")
		assert.Error(t, err)

		_, _, err = run(t, "--start", "0", "--end", "10", "--interval", "5", "--log-level", "loud")
		assert.Error(t, err)

		_, _, err = run(t, "--start", "0", "--end", "10", "--interval", "5", "--filter", "width >")
		assert.Error(t, err)
	})
}
