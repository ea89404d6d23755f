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
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/featlab/compare"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/selector"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// TableRender 輸出終端機表格。
type TableRender struct{}

func (tr *TableRender) Write(w io.Writer, r *Report) error {
	var b strings.Builder
	if r.Dataset != nil {
		k, m := fmtDataset(r.Dataset)
		b.WriteString(fmtTable("Dataset", k, m))
		b.WriteString("\n")
	}
	for _, res := range r.Results {
		k, m := fmtResult(res)
		b.WriteString(fmtTable(res.Method, k, m))
		b.WriteString("\n")
	}
	if r.Comparison != nil {
		k, m := fmtComparison(r.Comparison)
		b.WriteString(fmtTable("Comparison", k, m))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func fmtDataset(st *dataset.Stats) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Samples":         p.Sprintf("%d", st.Samples),
		"Features":        p.Sprintf("%d", st.Features),
		"Missing Values":  p.Sprintf("%d", st.MissingValues),
		"Avg |corr|":      p.Sprintf("%.4f", st.AvgFeatureCorrelation),
		"Max |corr|":      p.Sprintf("%.4f", st.MaxFeatureCorrelation),
		"Memory (MB)":     p.Sprintf("%.2f", st.MemoryUsageMB),
		"Dropped Columns": p.Sprintf("%d", st.FeatureTypes.Categorical),
	}
	keys := []string{"Samples", "Features", "Missing Values", "Avg |corr|", "Max |corr|", "Memory (MB)", "Dropped Columns"}
	return keys, msg
}

func fmtResult(r *selector.Result) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Selected":    p.Sprintf("%d / %d", r.NumFeatures, r.TotalOriginalFeatures),
		"Features":    strings.Join(r.SelectedFeatures, ", "),
		"Reduction":   r.FeatureReduction,
		"Fitness":     p.Sprintf("%.4f", r.FitnessScore),
		"Redundancy":  p.Sprintf("%.4f", r.FeatureQuality.RedundancyRate),
		"Entropy":     p.Sprintf("%.4f", r.FeatureQuality.RepresentationEntropy),
		"Diversity":   p.Sprintf("%.4f", r.FeatureQuality.DiversityScore),
		"Time":        p.Sprintf("%.2f s", r.ExecutionTime),
		"Run ID":      r.RunID,
		"Generations": p.Sprintf("%d", len(r.FitnessHistory)),
		"Notes":       strings.Join(r.Notes, "; "),
	}
	keys := []string{"Selected", "Features", "Reduction", "Fitness", "Redundancy", "Entropy", "Diversity", "Time", "Run ID"}
	if len(r.FitnessHistory) > 0 {
		keys = append(keys, "Generations")
	} else {
		delete(msg, "Generations")
	}
	if len(r.Notes) > 0 {
		keys = append(keys, "Notes")
	} else {
		delete(msg, "Notes")
	}
	return keys, msg
}

func fmtComparison(c *compare.Result) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	side := func(s compare.Side) string {
		switch s {
		case compare.SideA:
			return c.MethodA
		case compare.SideB:
			return c.MethodB
		}
		return "tie"
	}
	metric := func(m compare.Metric) string {
		return p.Sprintf("%.4f vs %.4f (%s)", m.A, m.B, side(m.Winner))
	}
	msg := map[string]string{
		"Methods":        fmt.Sprintf("%s vs %s", c.MethodA, c.MethodB),
		"Redundancy":     metric(c.Quality.RedundancyRate),
		"Entropy":        metric(c.Quality.RepresentationEntropy),
		"Diversity":      metric(c.Quality.DiversityScore),
		"Overlap":        p.Sprintf("%.1f%%", c.Features.Percentage),
		"Time Ratio":     p.Sprintf("%.2fx", c.Performance.TimeRatio),
		"Winner":         side(c.Winner),
		"Recommendation": c.Recommendation,
	}
	keys := []string{"Methods", "Redundancy", "Entropy", "Diversity", "Overlap", "Time Ratio", "Winner", "Recommendation"}
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	b.WriteString(divider)
	for _, k := range keys {
		b.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
