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

package featlab

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/selector"
	"github.com/zintix-labs/featlab/setting"
)

// csvData 產生 target = a + 2b 的小資料集，另含雜訊欄與識別欄。
func csvData(rows int) string {
	var b strings.Builder
	b.WriteString("patient_id,a,b,noise,target\n")
	for i := 0; i < rows; i++ {
		a := float64(i % 7)
		bb := float64((i * 3) % 5)
		noise := float64((i * 13) % 11)
		fmt.Fprintf(&b, "%d,%g,%g,%g,%g\n", i, a, bb, noise, a+2*bb)
	}
	return b.String()
}

func fastSetting() *setting.Setting {
	s := setting.Default()
	s.GA.Generations = 8
	s.GA.PopulationSize = 12
	return s
}

func TestLoadAndRun(t *testing.T) {
	lab, err := New(fastSetting())
	require.NoError(t, err)

	ds, rep, err := lab.Load(strings.NewReader(csvData(40)), dataset.FormatCSV, "target")
	require.NoError(t, err)
	assert.Equal(t, 40, rep.RowsOut)
	assert.Equal(t, 4, ds.NumFeatures())

	res, err := lab.Run("", ds)
	require.NoError(t, err)
	assert.Equal(t, selector.KeyGA, res.Key)
	assert.Len(t, res.FitnessHistory, 8)
	assert.NotContains(t, res.SelectedFeatures, "patient_id")
}

func TestLoadRejectsMissingTarget(t *testing.T) {
	lab, err := New(nil)
	require.NoError(t, err)
	_, _, err = lab.Load(strings.NewReader(csvData(40)), dataset.FormatCSV, "label")
	assert.True(t, errs.IsData(err), "got %v", err)

	_, _, err = lab.Load(strings.NewReader(csvData(5)), dataset.FormatCSV, "target")
	assert.True(t, errs.IsData(err), "too few rows should be rejected, got %v", err)
}

func TestCompare(t *testing.T) {
	lab, err := New(fastSetting())
	require.NoError(t, err)
	ds, _, err := lab.Load(strings.NewReader(csvData(60)), dataset.FormatCSV, "target")
	require.NoError(t, err)

	rep, err := lab.Compare(selector.KeyGA, selector.KeyCorrelation, ds)
	require.NoError(t, err)
	require.Len(t, rep.Results, 2)
	require.NotNil(t, rep.Comparison)
	assert.Equal(t, "Genetic Algorithm", rep.Comparison.MethodA)
	assert.NotEmpty(t, rep.Comparison.Recommendation)

	_, err = lab.Compare(selector.KeyGA, "lasso", ds)
	assert.True(t, errs.IsConfig(err))
}

type firstTwo struct{}

func (firstTwo) Key() string  { return "first2" }
func (firstTwo) Name() string { return "First Two" }
func (firstTwo) Select(ds *dataset.Dataset) (*selector.Result, error) {
	return &selector.Result{Key: "first2", Method: "First Two", SelectedFeatures: ds.Names[:2], NumFeatures: 2}, nil
}

func TestCustomRegistry(t *testing.T) {
	reg := selector.NewRegistry()
	require.NoError(t, reg.Register("first2", func(selector.Params, selector.Env) (selector.Selector, error) {
		return firstTwo{}, nil
	}))
	lab, err := New(nil, Registries(reg))
	require.NoError(t, err)
	assert.Contains(t, lab.Methods(), "first2")

	ds, err := dataset.New([]string{"x", "y", "z"}, [][]float64{{1, 2}, {2, 1}, {3, 3}}, []float64{0, 1})
	require.NoError(t, err)
	res, err := lab.Run("first2", ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, res.SelectedFeatures)

	dup := selector.NewRegistry()
	require.NoError(t, dup.Register(selector.KeyGA, func(selector.Params, selector.Env) (selector.Selector, error) {
		return firstTwo{}, nil
	}))
	_, err = New(nil, Registries(dup))
	assert.Error(t, err)
}

type failing struct{}

func (failing) Key() string  { return "failing" }
func (failing) Name() string { return "Failing" }
func (failing) Select(*dataset.Dataset) (*selector.Result, error) {
	return nil, errs.Dataf("target has a single class")
}

func TestRunKeepsCauseMessage(t *testing.T) {
	reg := selector.NewRegistry()
	require.NoError(t, reg.Register("failing", func(selector.Params, selector.Env) (selector.Selector, error) {
		return failing{}, nil
	}))
	lab, err := New(nil, Registries(reg))
	require.NoError(t, err)
	ds, err := dataset.New([]string{"x", "y"}, [][]float64{{1, 2}, {2, 1}}, []float64{0, 1})
	require.NoError(t, err)

	_, err = lab.Run("failing", ds)
	require.Error(t, err)
	assert.True(t, errs.IsData(err))
	e, ok := errs.AsErr(err)
	require.True(t, ok)
	assert.Equal(t, "method failing failed: target has a single class", e.Message)
	assert.Equal(t, "method=failing", e.Extra)
}

func TestInvalidSetting(t *testing.T) {
	s := setting.Default()
	s.GA.PopulationSize = 0
	_, err := New(s)
	assert.True(t, errs.IsConfig(err))
}
