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

package ga

import (
	"slices"
	"strings"
	"unicode"

	"github.com/zintix-labs/featlab/errs"
)

// 識別欄位過濾模式
const (
	ExcludeToken     = "token"     // 欄名切成詞後，任一詞等於 pattern
	ExcludeSubstring = "substring" // 欄名（小寫）包含 pattern
	ExcludeNone      = "none"      // 不過濾
)

// Exclude 設定「識別欄位」過濾；只作用在最終選出的特徵上，不影響搜尋過程。
type Exclude struct {
	Mode     string   `yaml:"mode" json:"mode"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// DefaultExclude 回傳預設過濾設定。
func DefaultExclude() Exclude {
	return Exclude{Mode: ExcludeToken, Patterns: []string{"id", "patient", "sample"}}
}

func (e *Exclude) validate() error {
	switch e.Mode {
	case "":
		e.Mode = ExcludeToken
	case ExcludeToken, ExcludeSubstring, ExcludeNone:
	default:
		return errs.Configf("exclude mode must be one of token|substring|none, got %q", e.Mode)
	}
	return nil
}

// Matcher 回傳欄名判斷函式；true 代表應排除。
func (e Exclude) Matcher() func(name string) bool {
	pats := make([]string, 0, len(e.Patterns))
	for _, p := range e.Patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			pats = append(pats, p)
		}
	}
	if len(pats) == 0 {
		return func(string) bool { return false }
	}
	switch e.Mode {
	case ExcludeNone:
		return func(string) bool { return false }
	case ExcludeSubstring:
		return func(name string) bool {
			low := strings.ToLower(name)
			return slices.ContainsFunc(pats, func(p string) bool { return strings.Contains(low, p) })
		}
	default:
		return func(name string) bool {
			return slices.ContainsFunc(tokens(name), func(tok string) bool { return slices.Contains(pats, tok) })
		}
	}
}

// tokens 以非英數字元與 camelCase 邊界切詞並轉小寫。
//
//	"patient_id" -> [patient id]
//	"sampleID"   -> [sample id]
//	"width"      -> [width]
func tokens(name string) []string {
	var (
		out []string
		cur []rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	rs := []rune(name)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && len(cur) > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}
