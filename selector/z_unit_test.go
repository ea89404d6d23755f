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

package selector

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
)

func synth(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Synthetic(dataset.SynthSpec{
		Rows: 200, Features: 10, Informative: []int{0, 1, 2}, Noise: 0.5, Seed: 7,
	})
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func build(t *testing.T, key string, mod func(*Params)) Selector {
	t.Helper()
	p := DefaultParams()
	p.GA.Generations = 10
	p.GA.PopulationSize = 16
	if mod != nil {
		mod(&p)
	}
	s, err := Default().Build(key, p, Env{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRegistry(t *testing.T) {
	r := Default()
	want := []string{KeyGA, KeyRFE, KeyCorrelation, KeyVariance, KeyKBest}
	if diff := cmp.Diff(want, r.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if err := r.Register(KeyGA, newGenetic); err == nil {
		t.Fatal("duplicate key should fail")
	}
	if _, err := r.Build("lasso", DefaultParams(), Env{}); !errs.IsConfig(err) {
		t.Fatalf("unknown method should be config error, got %v", err)
	}
	if !r.Has(KeyKBest) || r.Has("lasso") {
		t.Fatal("Has mismatch")
	}
}

func TestParamsValidate(t *testing.T) {
	bad := []func(*Params){
		func(p *Params) { p.Traditional.NFeatures = -1 },
		func(p *Params) { p.Traditional.Method = "lasso" },
		func(p *Params) { p.Traditional.VarianceThreshold = -1 },
		func(p *Params) { p.Traditional.MaxCorrelation = 0 },
		func(p *Params) { p.Traditional.MinFitness = 2 },
		func(p *Params) { p.GA.PopulationSize = 0 },
	}
	for i, mod := range bad {
		p := DefaultParams()
		mod(&p)
		if err := p.Validate(); !errs.IsConfig(err) {
			t.Fatalf("case %d: expected config error, got %v", i, err)
		}
	}
}

func TestTargetCount(t *testing.T) {
	tr := Traditional{}
	cases := map[int]int{1: 1, 2: 1, 9: 3, 30: 10, 100: 10}
	for total, want := range cases {
		if got := tr.Target(total); got != want {
			t.Fatalf("total %d: got %d want %d", total, got, want)
		}
	}
	tr.NFeatures = 50
	if got := tr.Target(8); got != 8 {
		t.Fatalf("n should clamp to total, got %d", got)
	}
}

func TestReductionAndSeconds(t *testing.T) {
	if got := Reduction(5, 10); got != "50.0%" {
		t.Fatalf("got %q", got)
	}
	if got := Reduction(1, 3); got != "66.7%" {
		t.Fatalf("got %q", got)
	}
	if got := Reduction(0, 0); got != "0.0%" {
		t.Fatalf("got %q", got)
	}
	if got := Seconds(1234 * time.Millisecond); got != 1.23 {
		t.Fatalf("got %v", got)
	}
}

func TestGeneticResult(t *testing.T) {
	ds := synth(t)
	res, err := build(t, KeyGA, nil).Select(ds)
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != "Genetic Algorithm" || res.Key != KeyGA {
		t.Fatalf("unexpected method %q/%q", res.Method, res.Key)
	}
	if len(res.FitnessHistory) != 10 {
		t.Fatalf("history length %d", len(res.FitnessHistory))
	}
	if res.NumFeatures != len(res.SelectedFeatures) || res.NumFeatures == 0 {
		t.Fatalf("selected count mismatch: %+v", res)
	}
	if res.TotalOriginalFeatures != 10 || res.RunID == "" {
		t.Fatalf("bad result header: %+v", res)
	}
	if res.ParametersUsed["generations"] != 10 {
		t.Fatalf("parameters not recorded: %v", res.ParametersUsed)
	}
}

func TestKBestPrefersInformative(t *testing.T) {
	res, err := build(t, KeyKBest, nil).Select(synth(t))
	if err != nil {
		t.Fatal(err)
	}
	set := res.FeatureSet()
	for _, f := range []string{"f1", "f2"} {
		if _, ok := set[f]; !ok {
			t.Fatalf("expected %s in %v", f, res.SelectedFeatures)
		}
	}
	if res.NumFeatures != 3 {
		t.Fatalf("auto n should be 3, got %d", res.NumFeatures)
	}
}

func TestRFERecoversLinearModel(t *testing.T) {
	res, err := build(t, KeyRFE, nil).Select(synth(t))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"f0", "f1", "f2"}, res.SelectedFeatures); diff != "" {
		t.Fatalf("rfe selection mismatch (-want +got):\n%s\nnotes=%v", diff, res.Notes)
	}
	if res.Method != "Traditional (RFE)" {
		t.Fatalf("method %q", res.Method)
	}
}

func TestRFELowFitnessFallsBack(t *testing.T) {
	s := build(t, KeyRFE, func(p *Params) { p.Traditional.MinFitness = 1 })
	res, err := s.Select(synth(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notes) == 0 || !strings.Contains(res.Notes[len(res.Notes)-1], "correlation") {
		t.Fatalf("expected correlation fallback note, got %v", res.Notes)
	}
}

func TestCorrelationDropsRedundant(t *testing.T) {
	// a 與 b 幾乎相同；c 與目標較弱但獨立。
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	b := []float64{1.1, 2, 3.1, 4, 5.1, 6, 7.1, 8}
	c := []float64{2, 1, 2, 1, 3, 2, 3, 2}
	y := []float64{1, 2, 3, 4, 5, 6, 7, 9}
	ds, err := dataset.New([]string{"a", "b", "c"}, [][]float64{a, b, c}, y)
	if err != nil {
		t.Fatal(err)
	}
	s := build(t, KeyCorrelation, func(p *Params) { p.Traditional.NFeatures = 3 })
	res, err := s.Select(ds)
	if err != nil {
		t.Fatal(err)
	}
	if res.NumFeatures != 2 {
		t.Fatalf("one of a/b should be dropped, got %v", res.SelectedFeatures)
	}
	if _, ok := res.FeatureSet()["c"]; !ok {
		t.Fatalf("c should survive, got %v", res.SelectedFeatures)
	}
}

func TestVarianceFallsBackWhenNothingPasses(t *testing.T) {
	s := build(t, KeyVariance, func(p *Params) { p.Traditional.VarianceThreshold = 1e9 })
	res, err := s.Select(synth(t))
	if err != nil {
		t.Fatal(err)
	}
	if res.NumFeatures == 0 || len(res.Notes) != 1 {
		t.Fatalf("expected correlation fallback, got %v notes=%v", res.SelectedFeatures, res.Notes)
	}
}

func TestVarianceRanksByVariance(t *testing.T) {
	lo := []float64{0, 0.1, 0, 0.1, 0, 0.1}
	mid := []float64{0, 1, 0, 1, 0, 1}
	hi := []float64{0, 10, 0, 10, 0, 10}
	y := []float64{1, 2, 1, 2, 1, 2}
	ds, err := dataset.New([]string{"lo", "mid", "hi"}, [][]float64{lo, mid, hi}, y)
	if err != nil {
		t.Fatal(err)
	}
	s := build(t, KeyVariance, func(p *Params) { p.Traditional.NFeatures = 2 })
	res, err := s.Select(ds)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"mid", "hi"}, res.SelectedFeatures); diff != "" {
		t.Fatalf("variance selection mismatch (-want +got):\n%s", diff)
	}
}

func TestFScore(t *testing.T) {
	if FScore(0, 10) != 0 {
		t.Fatal("zero correlation should score zero")
	}
	if FScore(1, 10) != maxF {
		t.Fatal("perfect correlation should saturate")
	}
	if FScore(0.5, 10) <= FScore(0.4, 10) {
		t.Fatal("F score should grow with |r|")
	}
}
