// Copyright 2025 Zintix Labs
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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/featlab/errs"
)

func writeCSV(t *testing.T, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,a,b,noise,y\n")
	for i := 0; i < rows; i++ {
		a := float64(i % 7)
		bb := float64((i * 3) % 5)
		noise := float64((i * 13) % 11)
		fmt.Fprintf(&b, "%d,%g,%g,%g,%g\n", i, a, bb, noise, a+2*bb)
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "featlab.yaml")
	cfg := "ga:\n  population_size: 10\n  generations: 4\nserver:\n  log_mode: silence\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSelectJSON(t *testing.T) {
	data := writeCSV(t, 40)
	out, err := execute(t, "select", "-c", writeConfig(t), "-f", data, "-t", "y", "-m", "ga", "-o", "json")
	require.NoError(t, err)

	var rp struct {
		Dataset map[string]any `json:"dataset_info"`
		Results []struct {
			MethodKey string   `json:"method_key"`
			History   []any    `json:"fitness_history"`
			Features  []string `json:"selected_features"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rp), out)
	require.Len(t, rp.Results, 1)
	assert.Equal(t, "ga", rp.Results[0].MethodKey)
	assert.Len(t, rp.Results[0].History, 4)
	assert.NotContains(t, rp.Results[0].Features, "id")
	assert.NotEmpty(t, rp.Dataset)
}

func TestSelectTableWithChart(t *testing.T) {
	data := writeCSV(t, 40)
	chart := filepath.Join(t.TempDir(), "out.html")
	out, err := execute(t, "select", "-c", writeConfig(t), "-f", data, "-t", "y", "-m", "traditional", "--chart", chart)
	require.NoError(t, err)
	assert.Contains(t, out, "Traditional (RFE)")

	html, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")
}

func TestCompareYAML(t *testing.T) {
	data := writeCSV(t, 40)
	out, err := execute(t, "compare", "-c", writeConfig(t), "-f", data, "-t", "y", "--methods", "rfe,variance", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "recommendation:")
	assert.Contains(t, out, "method_key: rfe")
	assert.Contains(t, out, "method_key: variance")
}

func TestCommandErrors(t *testing.T) {
	data := writeCSV(t, 40)
	cfg := writeConfig(t)

	_, err := execute(t, "select", "-c", cfg, "-t", "y")
	assert.True(t, errs.IsConfig(err), "missing file: %v", err)

	_, err = execute(t, "select", "-c", cfg, "-f", data, "-t", "label")
	assert.True(t, errs.IsData(err), "missing target: %v", err)

	_, err = execute(t, "select", "-c", cfg, "-f", data, "-t", "y", "-o", "xml")
	assert.True(t, errs.IsConfig(err), "bad format: %v", err)

	_, err = execute(t, "compare", "-c", cfg, "-f", data, "-t", "y", "--methods", "ga")
	assert.True(t, errs.IsConfig(err), "one method: %v", err)

	_, err = execute(t, "select", "-c", cfg, "-f", data, "-t", "y", "--log-mode", "loud")
	assert.True(t, errs.IsConfig(err), "bad log mode: %v", err)

	_, err = execute(t, "select", "-c", cfg, "-f", data, "-t", "y", "--pprof", "block")
	assert.True(t, errs.IsConfig(err), "bad pprof: %v", err)
}

func TestSelectWithProfile(t *testing.T) {
	data := writeCSV(t, 40)
	dir := t.TempDir()
	_, err := execute(t, "select", "-c", writeConfig(t), "-f", data, "-t", "y", "-m", "kbest", "-o", "json",
		"--pprof", "heap", "--pprof-dir", dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "heap.pprof"))
	assert.NoError(t, err)
}
