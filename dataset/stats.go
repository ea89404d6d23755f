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

package dataset

import (
	"math"
	"strconv"

	"github.com/zintix-labs/featlab/sdk/corr"
)

// maxDistributionKeys 超過此數量的相異目標值視為連續目標，不輸出分布。
const maxDistributionKeys = 50

// FeatureTypes 特徵型別統計。
type FeatureTypes struct {
	Numerical   int `json:"numerical" yaml:"numerical"`
	Categorical int `json:"categorical" yaml:"categorical"`
}

// Stats 為資料集摘要，對應 API 的 dataset_info。
type Stats struct {
	Samples               int            `json:"samples" yaml:"samples"`
	Features              int            `json:"features" yaml:"features"`
	TargetDistribution    map[string]int `json:"target_distribution,omitempty" yaml:"target_distribution,omitempty"`
	MissingValues         int            `json:"missing_values" yaml:"missing_values"`
	FeatureTypes          FeatureTypes   `json:"feature_types" yaml:"feature_types"`
	MemoryUsageMB         float64        `json:"memory_usage_mb" yaml:"memory_usage_mb"`
	AvgFeatureCorrelation float64        `json:"avg_feature_correlation" yaml:"avg_feature_correlation"`
	MaxFeatureCorrelation float64        `json:"max_feature_correlation" yaml:"max_feature_correlation"`
}

// Describe 計算資料集摘要；rep 可為 nil。
func Describe(d *Dataset, rep *CleanReport) *Stats {
	st := &Stats{
		Samples:  d.Rows(),
		Features: d.NumFeatures(),
		FeatureTypes: FeatureTypes{
			Numerical: d.NumFeatures(),
		},
		MemoryUsageMB: round(float64((d.NumFeatures()+1)*d.Rows()*8)/1024/1024, 2),
	}
	if rep != nil {
		st.MissingValues = rep.MissingValues
		st.FeatureTypes.Categorical = len(rep.DroppedNonNumeric)
	}

	dist := map[string]int{}
	for _, v := range d.Target {
		k := strconv.FormatFloat(v, 'g', -1, 64)
		dist[k]++
		if len(dist) > maxDistributionKeys {
			dist = nil
			break
		}
	}
	st.TargetDistribution = dist

	sum, n := 0.0, 0
	for _, c := range d.Cols {
		r, ok := corr.AbsPearson(c, d.Target)
		if !ok {
			continue
		}
		sum += r
		n++
		st.MaxFeatureCorrelation = max(st.MaxFeatureCorrelation, r)
	}
	if n > 0 {
		st.AvgFeatureCorrelation = round(sum/float64(n), 4)
	}
	st.MaxFeatureCorrelation = round(st.MaxFeatureCorrelation, 4)
	return st
}

func round(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
