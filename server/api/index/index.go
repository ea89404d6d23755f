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

// Package index 為服務首頁與健康檢查。
package index

import (
	"encoding/json"
	"net/http"
)

// Endpoint 描述一個對外路由。
type Endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Desc   string `json:"description"`
}

// Endpoints 為首頁列出的路由清單。
var Endpoints = []Endpoint{
	{http.MethodGet, "/healthz", "liveness probe"},
	{http.MethodGet, "/metrics", "prometheus metrics"},
	{http.MethodGet, "/v1/methods", "registered feature selection methods"},
	{http.MethodPost, "/v1/feature-selection", "run one method (or ga + traditional with run_both) on an uploaded dataset"},
	{http.MethodPost, "/v1/feature-selection/compare", "run several methods on an uploaded dataset and compare the first two"},
}

func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"service":   "featlab",
		"endpoints": Endpoints,
	})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
