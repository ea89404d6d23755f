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

package netsvr

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultAddr string = ":8000"

// Options 為 http.Server 的監聽位址與 timeout。
//
// 特徵選擇是同步計算，一次請求可能跑數十秒，WriteTimeout 預設為 0（不限制）；
// 需要上限時交給反向代理或請求 context。
type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// DefaultOptions 回傳預設值。
func DefaultOptions() Options {
	return Options{
		Addr:              defaultAddr,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// -----------------------------------------------------------------------------
//  Chi 服務
// -----------------------------------------------------------------------------

// ChiAdapter 以 chi (基於標準庫 net/http) 實作 NetSvr。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
	addr   string
}

// NewChiServer 依 Options 建立 ChiAdapter；空白欄位使用預設值。
func NewChiServer(opt Options) *ChiAdapter {
	def := DefaultOptions()
	if opt.Addr == "" {
		opt.Addr = def.Addr
	}
	if opt.ReadHeaderTimeout <= 0 {
		opt.ReadHeaderTimeout = def.ReadHeaderTimeout
	}
	if opt.IdleTimeout <= 0 {
		opt.IdleTimeout = def.IdleTimeout
	}
	cr := chi.NewRouter()
	return &ChiAdapter{
		router: cr,
		server: &http.Server{
			Addr:              opt.Addr,
			Handler:           cr,
			ReadHeaderTimeout: opt.ReadHeaderTimeout,
			WriteTimeout:      opt.WriteTimeout,
			IdleTimeout:       opt.IdleTimeout,
		},
		addr: opt.Addr,
	}
}

// NewChiServerDefault 建立監聽 :8000 的 ChiAdapter。
func NewChiServerDefault() *ChiAdapter {
	return NewChiServer(DefaultOptions())
}

// -----------------------------------------------------------------------------
//  介面實作 NetSvr / (會同時實作 Component)
// -----------------------------------------------------------------------------

func (c *ChiAdapter) Ready() bool {
	return (c != nil) && (c.router != nil) && (c.server != nil) &&
		(c.addr != "") && (strings.HasPrefix(c.addr, ":") || strings.Contains(c.addr, ":")) &&
		(c.server.Handler != nil) && (c.server.Handler == c.router)
}

func (c *ChiAdapter) Run() error {
	if err := c.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) {
	c.router.Use(mw)
}

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) {
	c.router.Get(path, h)
}

func (c *ChiAdapter) Post(path string, h http.HandlerFunc) {
	c.router.Post(path, h)
}

func (c *ChiAdapter) Handle(path string, h http.Handler) {
	c.router.Handle(path, h)
}

func (c *ChiAdapter) Group(path string, fn func(subRouter NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{router: r})
	})
}

// -----------------------------------------------------------------------------
//  其他公開方法
// -----------------------------------------------------------------------------

func (c *ChiAdapter) Address() string {
	return c.addr
}

// Handler 回傳路由本身，供 httptest 直接驅動。
func (c *ChiAdapter) Handler() http.Handler {
	return c.router
}
