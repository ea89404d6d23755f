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

// Package report 把選擇結果輸出成 JSON、YAML、終端表格與 HTML 圖表。
package report

import (
	"encoding/json"
	"io"

	"github.com/zintix-labs/featlab/compare"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/selector"
	"gopkg.in/yaml.v3"
)

// Report 為一次執行（單一方法或比較）的完整輸出。
type Report struct {
	Dataset    *dataset.Stats     `json:"dataset_info,omitempty" yaml:"dataset_info,omitempty"`
	Results    []*selector.Result `json:"results" yaml:"results"`
	Comparison *compare.Result    `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// Render 定義輸出行為
type Render interface {
	Write(w io.Writer, r *Report) error
}

// 輸出格式
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ByFormat 依名稱取得 Render。
func ByFormat(name string) (Render, error) {
	switch name {
	case FormatTable, "":
		return &TableRender{}, nil
	case FormatJSON:
		return &JSONRender{Indent: true}, nil
	case FormatYAML:
		return &YAMLRender{}, nil
	}
	return nil, errs.Configf("unknown output format %q, want table|json|yaml", name)
}

// Json渲染
type JSONRender struct {
	Indent bool
}

func (jr *JSONRender) Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if jr.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, r *Report) error {
	// 只有「最內層的一維陣列」輸出成 flow style：[..., ...]，fitness_history 才不會佔滿整頁
	return forceReadableList(w, r)
}

func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// styleReadableSequences：不含子 sequence 的 sequence 改為 flow style，
// 但元素是 mapping（例如 results）的保持 block。
func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		nested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				nested = true
			}
			styleReadableSequences(c)
		}
		if !nested {
			n.Style = yaml.FlowStyle
		}
	}
}
