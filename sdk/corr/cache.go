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

package corr

type state uint8

const (
	unknown state = iota
	defined
	undefined
)

type entry struct {
	v  float64
	st state
}

// Cache 以「延遲計算」方式保存 |corr|。
//
// 一次搜尋會對同一組欄位反覆評估數千個子集，
// 每組 (i,j) 與 (i,target) 只會真正計算一次。
// Cache 不是併發安全的：每次搜尋各自建立一份，不跨搜尋共用。
type Cache struct {
	cols   [][]float64
	target []float64
	tgt    []entry
	pair   []entry // n*n，只使用 i<j 的上三角
	vars   []float64
	varOK  []bool
}

// NewCache 建立 Cache；cols 為欄優先 (column-major) 的特徵資料。
func NewCache(cols [][]float64, target []float64) *Cache {
	n := len(cols)
	return &Cache{
		cols:   cols,
		target: target,
		tgt:    make([]entry, n),
		pair:   make([]entry, n*n),
		vars:   make([]float64, n),
		varOK:  make([]bool, n),
	}
}

// Len 回傳特徵數。
func (c *Cache) Len() int {
	return len(c.cols)
}

// Target 回傳 |corr(feature i, target)|。
func (c *Cache) Target(i int) (float64, bool) {
	e := &c.tgt[i]
	if e.st == unknown {
		e.v, e.st = resolve(AbsPearson(c.cols[i], c.target))
	}
	return e.v, e.st == defined
}

// Pair 回傳 |corr(feature i, feature j)|；i == j 時未定義。
func (c *Cache) Pair(i, j int) (float64, bool) {
	if i == j {
		return 0, false
	}
	if i > j {
		i, j = j, i
	}
	e := &c.pair[i*len(c.cols)+j]
	if e.st == unknown {
		e.v, e.st = resolve(AbsPearson(c.cols[i], c.cols[j]))
	}
	return e.v, e.st == defined
}

// Variance 回傳欄位 i 的樣本變異數。
func (c *Cache) Variance(i int) float64 {
	if !c.varOK[i] {
		c.vars[i] = Variance(c.cols[i])
		c.varOK[i] = true
	}
	return c.vars[i]
}

func resolve(v float64, ok bool) (float64, state) {
	if !ok {
		return 0, undefined
	}
	return v, defined
}
