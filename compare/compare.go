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

// Package compare 彙整兩份獨立的選擇結果，給出逐項勝負、差值、重疊度與推薦。
package compare

import (
	"fmt"
	"strings"
	"time"

	"github.com/zintix-labs/featlab/selector"
)

// 加權分數權重
const (
	WeightDiversity  = 0.4
	WeightRedundancy = 0.3
	WeightEntropy    = 0.2
	WeightSpeed      = 0.1
)

// SlowFactor 勝方耗時超過對手此倍數時，推薦附帶時間提醒。
const SlowFactor = 3.0

// MinTime 為時間比值的下限，避免除以零。
const MinTime = time.Millisecond

// Side 標示勝方。
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
	Tie   Side = "tie"
)

// Metric 為單項指標比較；Improvement 以「正值有利於 A」表示。
type Metric struct {
	A           float64 `json:"a" yaml:"a"`
	B           float64 `json:"b" yaml:"b"`
	Winner      Side    `json:"winner" yaml:"winner"`
	Improvement float64 `json:"improvement" yaml:"improvement"`
}

type Quality struct {
	RedundancyRate        Metric `json:"redundancy_rate" yaml:"redundancy_rate"`
	RepresentationEntropy Metric `json:"representation_entropy" yaml:"representation_entropy"`
	DiversityScore        Metric `json:"diversity_score" yaml:"diversity_score"`
}

type FeatureCount struct {
	A          int    `json:"a" yaml:"a"`
	B          int    `json:"b" yaml:"b"`
	Difference int    `json:"difference" yaml:"difference"`
	ReductionA string `json:"reduction_a" yaml:"reduction_a"`
	ReductionB string `json:"reduction_b" yaml:"reduction_b"`
}

type Performance struct {
	TimeA float64 `json:"execution_time_a" yaml:"execution_time_a"`
	TimeB float64 `json:"execution_time_b" yaml:"execution_time_b"`
	// TimeRatio = max(tA,1ms) / max(tB,1ms)
	TimeRatio float64 `json:"time_ratio" yaml:"time_ratio"`
}

type Overlap struct {
	Common     []string `json:"common_features" yaml:"common_features"`
	OnlyA      []string `json:"unique_to_a" yaml:"unique_to_a"`
	OnlyB      []string `json:"unique_to_b" yaml:"unique_to_b"`
	Percentage float64  `json:"overlap_percentage" yaml:"overlap_percentage"`
}

// Scores 只在沒有一方全面勝出時才計算。
type Scores struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
}

// Result 為比較結果。
type Result struct {
	MethodA        string       `json:"method_a" yaml:"method_a"`
	MethodB        string       `json:"method_b" yaml:"method_b"`
	Quality        Quality      `json:"feature_quality_comparison" yaml:"feature_quality_comparison"`
	FeatureCount   FeatureCount `json:"feature_count_comparison" yaml:"feature_count_comparison"`
	Performance    Performance  `json:"performance_comparison" yaml:"performance_comparison"`
	Features       Overlap      `json:"feature_analysis" yaml:"feature_analysis"`
	Scores         *Scores      `json:"weighted_scores,omitempty" yaml:"weighted_scores,omitempty"`
	Winner         Side         `json:"winner" yaml:"winner"`
	Recommendation string       `json:"recommendation" yaml:"recommendation"`
}

// Compare 比較兩份結果；不會失敗，也不修改輸入。
func Compare(a, b *selector.Result) *Result {
	qa, qb := a.FeatureQuality, b.FeatureQuality
	ta, tb := floorTime(a.Elapsed), floorTime(b.Elapsed)

	r := &Result{
		MethodA: a.Method,
		MethodB: b.Method,
		Quality: Quality{
			RedundancyRate:        lowerWins(qa.RedundancyRate, qb.RedundancyRate),
			RepresentationEntropy: higherWins(qa.RepresentationEntropy, qb.RepresentationEntropy),
			DiversityScore:        higherWins(qa.DiversityScore, qb.DiversityScore),
		},
		FeatureCount: FeatureCount{
			A:          a.NumFeatures,
			B:          b.NumFeatures,
			Difference: a.NumFeatures - b.NumFeatures,
			ReductionA: a.FeatureReduction,
			ReductionB: b.FeatureReduction,
		},
		Performance: Performance{
			TimeA:     a.ExecutionTime,
			TimeB:     b.ExecutionTime,
			TimeRatio: float64(ta) / float64(tb),
		},
		Features: overlap(a.SelectedFeatures, b.SelectedFeatures),
	}
	r.recommend(a, b, ta, tb)
	return r
}

func floorTime(d time.Duration) time.Duration {
	return max(d, MinTime)
}

func lowerWins(a, b float64) Metric {
	m := Metric{A: a, B: b, Improvement: b - a, Winner: Tie}
	switch {
	case a < b:
		m.Winner = SideA
	case b < a:
		m.Winner = SideB
	}
	return m
}

func higherWins(a, b float64) Metric {
	m := Metric{A: a, B: b, Improvement: a - b, Winner: Tie}
	switch {
	case a > b:
		m.Winner = SideA
	case b > a:
		m.Winner = SideB
	}
	return m
}

// overlap 計算交集、差集與 |∩|/|∪|×100；輸出保持各自結果的順序。
func overlap(a, b []string) Overlap {
	inA := make(map[string]bool, len(a))
	for _, f := range a {
		inA[f] = true
	}
	inB := make(map[string]bool, len(b))
	for _, f := range b {
		inB[f] = true
	}
	o := Overlap{Common: []string{}, OnlyA: []string{}, OnlyB: []string{}}
	for _, f := range a {
		if inB[f] {
			o.Common = append(o.Common, f)
		} else {
			o.OnlyA = append(o.OnlyA, f)
		}
	}
	for _, f := range b {
		if !inA[f] {
			o.OnlyB = append(o.OnlyB, f)
		}
	}
	union := len(o.Common) + len(o.OnlyA) + len(o.OnlyB)
	if union > 0 {
		o.Percentage = float64(len(o.Common)) / float64(union) * 100
	}
	return o
}

// dominant 回傳在三項品質指標上都嚴格勝出的一方；沒有則回傳 Tie。
func (q Quality) dominant() Side {
	w := q.RedundancyRate.Winner
	if w != Tie && q.RepresentationEntropy.Winner == w && q.DiversityScore.Winner == w {
		return w
	}
	return Tie
}

// Score 回傳單一結果的加權分數；speed = 最快耗時 / 自身耗時。
func Score(r *selector.Result, fastest time.Duration) float64 {
	q := r.FeatureQuality
	speed := float64(fastest) / float64(floorTime(r.Elapsed))
	return q.DiversityScore*WeightDiversity +
		(1-q.RedundancyRate)*WeightRedundancy +
		q.RepresentationEntropy*WeightEntropy +
		speed*WeightSpeed
}

func (r *Result) recommend(a, b *selector.Result, ta, tb time.Duration) {
	names := map[Side]string{SideA: a.Method, SideB: b.Method}
	if a.Method == b.Method {
		names[SideA], names[SideB] = a.Method+" (A)", b.Method+" (B)"
	}

	if w := r.Quality.dominant(); w != Tie {
		r.Winner = w
		own, other := ta, tb
		if w == SideB {
			own, other = tb, ta
		}
		slow := float64(own) / float64(other)
		if slow > SlowFactor {
			r.Recommendation = fmt.Sprintf("%s has better feature quality on every metric but is %.1fx slower, consider %s for time-critical use",
				names[w], slow, names[opposite(w)])
			return
		}
		r.Recommendation = fmt.Sprintf("%s recommended: %s", names[w], r.reasons(w))
		return
	}

	fastest := min(ta, tb)
	s := &Scores{A: Score(a, fastest), B: Score(b, fastest)}
	r.Scores = s
	switch {
	case s.A > s.B:
		r.Winner = SideA
	case s.B > s.A:
		r.Winner = SideB
	default:
		r.Winner = Tie
		r.Recommendation = fmt.Sprintf("no clear winner (score: %.2f vs %.2f)", s.A, s.B)
		return
	}
	own, other := s.A, s.B
	if r.Winner == SideB {
		own, other = s.B, s.A
	}
	r.Recommendation = fmt.Sprintf("%s recommended: %s (score: %.2f vs %.2f)",
		names[r.Winner], r.reasons(r.Winner), own, other)
}

// reasons 列出勝方勝出的指標與幅度。
func (r *Result) reasons(w Side) string {
	sign := 1.0
	if w == SideB {
		sign = -1
	}
	var parts []string
	q := r.Quality
	if q.DiversityScore.Winner == w {
		parts = append(parts, fmt.Sprintf("%.2f better diversity", sign*q.DiversityScore.Improvement))
	}
	if q.RedundancyRate.Winner == w {
		parts = append(parts, fmt.Sprintf("%.2f lower redundancy", sign*q.RedundancyRate.Improvement))
	}
	if q.RepresentationEntropy.Winner == w {
		parts = append(parts, fmt.Sprintf("%.2f higher entropy", sign*q.RepresentationEntropy.Improvement))
	}
	if len(parts) == 0 {
		return "better overall score"
	}
	return strings.Join(parts, " and ")
}

func opposite(s Side) Side {
	if s == SideA {
		return SideB
	}
	return SideA
}
