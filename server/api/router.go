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

package api

import (
	"log/slog"

	"github.com/zintix-labs/featlab/server/api/index"
	v1 "github.com/zintix-labs/featlab/server/api/v1"
	"github.com/zintix-labs/featlab/server/metrics"
	"github.com/zintix-labs/featlab/server/netsvr"
	"github.com/zintix-labs/featlab/server/netsvr/middleware"
	"github.com/zintix-labs/featlab/server/svrcfg"
)

// RegisterRoutes 註冊 middleware 與所有路由；sCfg 需已通過 Vaild()。
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	registerMiddleware(svr, sCfg.Log, sCfg.Metrics) // 1. 註冊 middleware
	registerIndex(svr, sCfg.Metrics)                // 2. 主頁 / 健康檢查 / 指標
	registerV1API(svr, sCfg)                        // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger, m *metrics.Metrics) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Instrument(m))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetRouter, m *metrics.Metrics) {
	svr.Get("/", index.IndexHandlerFn)
	svr.Get("/healthz", index.Healthz)
	svr.Handle("/metrics", m.Handler())
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	h := v1.NewSelectionHandler(sCfg)
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/methods", h.Methods)
		vOne.Post("/feature-selection", h.Select)
		vOne.Post("/feature-selection/compare", h.Compare)
	})
}
