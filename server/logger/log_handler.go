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

// Package logger 組裝服務與 CLI 使用的 *slog.Logger：模式（dev/prod/silence）與非阻塞的 AsyncHandler。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/featlab/errs"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev     LogMode = iota // text + debug
	ModeProd                   // JSON + info
	ModeSilence                // 全部丟棄
)

var modeNames = map[string]LogMode{
	"dev":     ModeDev,
	"prod":    ModeProd,
	"silence": ModeSilence,
}

// ParseMode 將設定檔中的字串轉成 LogMode。
func ParseMode(s string) (LogMode, error) {
	if m, ok := modeNames[s]; ok {
		return m, nil
	}
	return ModeDev, errs.Configf("unknown log mode %q, want dev|prod|silence", s)
}

func (m LogMode) String() string {
	for k, v := range modeNames {
		if v == m {
			return k
		}
	}
	return "unknown"
}

// NewDefaultLogger 以 LogMode 預設值建立 *slog.Logger，輸出到 stderr。
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(os.Stderr, mode))
}

// NewLoggerTo 與 NewDefaultLogger 相同，但輸出到 w（CLI 需要讓 stdout 只留給結果）。
func NewLoggerTo(w io.Writer, mode LogMode) *slog.Logger {
	return slog.New(buildHandler(w, mode))
}

// NewDefaultAsyncLogger 以 LogMode 預設值建立非阻塞的 *slog.Logger。
func NewDefaultAsyncLogger(mode LogMode) *slog.Logger {
	return slog.New(NewAsyncHandler(buildHandler(os.Stderr, mode), 8192))
}

// NewAsync 以 LogMode 預設值建立 logger，並回傳 AsyncHandler 供關閉時 Close()。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(os.Stderr, mode), buf)
	return slog.New(ah), ah
}

func buildHandler(w io.Writer, mode LogMode) slog.Handler {
	switch mode {
	case ModeProd:
		// 正式環境：JSON，給 Loki / Promtail
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// AsyncHandler 是一個 slog.Handler wrapper：
//   - Handle 只做 enqueue，不阻塞請求路徑
//   - 背景 goroutine 逐筆呼叫 next.Handle 寫出
//   - channel 滿時直接丟棄並計數
//
// slog.Logger 會忽略 Handler.Handle 回傳的 error；I/O 錯誤需在 next 內自行處理。
type AsyncHandler struct {
	next slog.Handler
	d    *dispatcher
}

type dispatcher struct {
	ch      chan item
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type item struct {
	ctx     context.Context
	rec     slog.Record
	handler slog.Handler
}

// NewAsyncHandler 以 buf 大小的佇列包裝 next；buf <= 0 時為 1024。
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(os.Stderr, ModeDev)
	}
	if buf <= 0 {
		buf = 1024
	}
	d := &dispatcher{
		ch:     make(chan item, buf),
		closed: make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return &AsyncHandler{next: next, d: d}
}

func (h *AsyncHandler) Ready() bool {
	return h != nil && h.d != nil
}

// Dropped 回傳因佇列滿或已關閉而丟棄的筆數。
func (h *AsyncHandler) Dropped() uint64 {
	if !h.Ready() {
		return 0
	}
	return h.d.dropped.Load()
}

// Close 停止接收並把佇列中剩下的 log 寫完。
func (h *AsyncHandler) Close() {
	if !h.Ready() {
		return
	}
	h.d.once.Do(func() { close(h.d.closed) })
	h.d.wg.Wait()
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case it := <-d.ch:
			it.write()
		case <-d.closed:
			for {
				select {
				case it := <-d.ch:
					it.write()
				default:
					return
				}
			}
		}
	}
}

func (it item) write() {
	if it.handler != nil {
		_ = it.handler.Handle(it.ctx, it.rec)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Ready() {
		return nil
	}
	select {
	case <-h.d.closed:
		h.d.dropped.Add(1)
		return nil
	default:
	}
	// Record 內含可變引用，跨 goroutine 前先 Clone。
	select {
	case h.d.ch <- item{ctx: ctx, rec: r.Clone(), handler: h.next}:
	default:
		h.d.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), d: h.d}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), d: h.d}
}
