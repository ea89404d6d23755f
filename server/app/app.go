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

// Package app 提供應用程式生命週期管理（App），負責統一啟動與關閉多個 Component。
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 為未設定時的優雅關閉期限。
const DefaultShutdownTimeout = 5 * time.Second

// App 啟動所有註冊的 Component，並在收到 OS 信號、ctx 結束或任一 Component 停止時協調優雅關閉。
type App struct {
	comps           []Component
	ShutdownTimeout time.Duration
	Log             *slog.Logger
}

// New 建立一個新的 App 實例。
func New() *App {
	return &App{
		ShutdownTimeout: DefaultShutdownTimeout,
		Log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewWith 是 New 的語法糖，允許在建立時直接註冊多個 Component。
func NewWith(comps ...Component) *App {
	app := New()
	for _, c := range comps {
		app.Register(c)
	}
	return app
}

// Register 將一個 Component 註冊到 App 中，該 Component 將在 Run 時被管理。
func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// Run 等同 RunContext(context.Background())。
func (a *App) Run() error {
	return a.RunContext(context.Background())
}

// RunContext 以 goroutine 啟動所有 Component 並阻塞，直到：
//   - 收到 SIGINT/SIGTERM 或 ctx 結束：優雅關閉後回傳 nil
//   - 任一 Component.Run 返回：優雅關閉後回傳該錯誤（正常結束為 nil）
func (a *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var err error
	select {
	case sig := <-quit:
		a.Log.Info("app received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	case err = <-errCh:
	}
	a.gracefulShutdown()
	return err
}

// gracefulShutdown 在期限內依序呼叫所有 Component.Shutdown。
func (a *App) gracefulShutdown() {
	td := a.ShutdownTimeout
	if td <= 0 {
		td = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), td)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			a.Log.Error("component shutdown failed", slog.Any("err", err))
		}
	}
}
