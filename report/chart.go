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
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/zintix-labs/featlab/errs"
)

// Chart 輸出 HTML 頁面：各方法的適應度歷史折線圖與品質指標長條圖。
func Chart(w io.Writer, r *Report) error {
	if r == nil || len(r.Results) == 0 {
		return errs.NewWarn("nothing to chart: report has no results")
	}
	page := components.NewPage()
	page.PageTitle = "featlab"
	if line := historyChart(r); line != nil {
		page.AddCharts(line)
	}
	page.AddCharts(qualityChart(r))
	return page.Render(w)
}

// ChartFile 與 Chart 相同，輸出到檔案。
func ChartFile(path string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create chart file failed")
	}
	defer f.Close()
	return Chart(f, r)
}

// historyChart 只畫有適應度歷史的結果；都沒有時回傳 nil。
func historyChart(r *Report) *charts.Line {
	longest := 0
	for _, res := range r.Results {
		longest = max(longest, len(res.FitnessHistory))
	}
	if longest == 0 {
		return nil
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Best fitness per generation"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithXAxisOpts(opts.XAxis{Name: "generation"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "fitness",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)
	xs := make([]string, longest)
	for i := range xs {
		xs[i] = strconv.Itoa(i)
	}
	line.SetXAxis(xs)
	for _, res := range r.Results {
		if len(res.FitnessHistory) == 0 {
			continue
		}
		data := make([]opts.LineData, len(res.FitnessHistory))
		for i, v := range res.FitnessHistory {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(res.Method, data)
	}
	return line
}

func qualityChart(r *Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Feature quality"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	bar.SetXAxis([]string{"redundancy_rate", "representation_entropy", "diversity_score", "fitness"})
	for _, res := range r.Results {
		q := res.FeatureQuality
		bar.AddSeries(res.Method, []opts.BarData{
			{Value: q.RedundancyRate},
			{Value: q.RepresentationEntropy},
			{Value: q.DiversityScore},
			{Value: res.FitnessScore},
		})
	}
	return bar
}
