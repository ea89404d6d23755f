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

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/featlab/compare"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/quality"
	"github.com/zintix-labs/featlab/selector"
	"gopkg.in/yaml.v3"
)

func sample() *Report {
	a := &selector.Result{
		RunID:                 "run-a",
		Key:                   selector.KeyGA,
		Method:                "Genetic Algorithm",
		SelectedFeatures:      []string{"f0", "f2"},
		SelectedIndices:       []int{0, 2},
		NumFeatures:           2,
		TotalOriginalFeatures: 5,
		FeatureReduction:      "60.0%",
		FitnessScore:          0.42,
		FitnessHistory:        []float64{0.1, 0.3, 0.42},
		FeatureQuality:        quality.Metrics{RedundancyRate: 0.1, RepresentationEntropy: 0.9, DiversityScore: 0.81},
		Elapsed:               20 * time.Millisecond,
		ExecutionTime:         0.02,
	}
	b := &selector.Result{
		RunID:                 "run-b",
		Key:                   selector.KeyRFE,
		Method:                "Traditional (RFE)",
		SelectedFeatures:      []string{"f2", "f3"},
		SelectedIndices:       []int{2, 3},
		NumFeatures:           2,
		TotalOriginalFeatures: 5,
		FeatureReduction:      "60.0%",
		FitnessScore:          0.3,
		FeatureQuality:        quality.Metrics{RedundancyRate: 0.3, RepresentationEntropy: 0.7, DiversityScore: 0.49},
		Notes:                 []string{"example note"},
		Elapsed:               5 * time.Millisecond,
	}
	return &Report{
		Dataset:    &dataset.Stats{Samples: 1200, Features: 5},
		Results:    []*selector.Result{a, b},
		Comparison: compare.Compare(a, b),
	}
}

func TestJSONRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONRender{}).Write(&buf, sample()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Contains(t, got, "dataset_info")
	assert.Contains(t, got, "comparison")
	results := got["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "Genetic Algorithm", first["method"])
	assert.Contains(t, first, "fitness_history")
	assert.NotContains(t, results[1].(map[string]any), "fitness_history")
}

func TestYAMLRenderFlowsInnerLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLRender{}).Write(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, "fitness_history: [0.1, 0.3, 0.42]")
	assert.Contains(t, out, "selected_features: [f0, f2]")

	var back Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back.Results, 2)
	assert.Equal(t, []string{"f2", "f3"}, back.Results[1].SelectedFeatures)
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableRender{}).Write(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "Traditional (RFE)")
	assert.Contains(t, out, "Recommendation")
	assert.Contains(t, out, "example note")

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		assert.True(t, strings.HasPrefix(line, "+") || strings.HasPrefix(line, "|"), "line %q", line)
	}
}

func TestTableWidths(t *testing.T) {
	s := fmtTable("一個很長的標題超過內容寬度", []string{"k"}, map[string]string{"k": "v"})
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	w := len([]rune(lines[0]))
	assert.Equal(t, w, len([]rune(lines[2])), "top and divider width")
}

func TestByFormat(t *testing.T) {
	for _, f := range []string{"", FormatTable, FormatJSON, FormatYAML} {
		_, err := ByFormat(f)
		assert.NoError(t, err, f)
	}
	_, err := ByFormat("xml")
	assert.True(t, errs.IsConfig(err))
}

func TestChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Chart(&buf, sample()))
	html := buf.String()
	assert.Contains(t, html, "Best fitness per generation")
	assert.Contains(t, html, "Feature quality")

	assert.Error(t, Chart(&buf, &Report{}))
}
