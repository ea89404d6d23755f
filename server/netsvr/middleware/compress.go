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

package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig 壓縮等級與不壓縮的路徑。
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
	// SkipPaths 自行處理壓縮的路徑（例如 promhttp 的 /metrics），避免二次壓縮。
	SkipPaths []string
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
	SkipPaths: []string{"/metrics"},
}

// Compression 依 Accept-Encoding 選擇 zstd > gzip，兩者皆無時不壓縮。
var Compression = NewCompression(DefaultCompressConfig)

// encoder 為 gzip.Writer 與 zstd.Encoder 的共同行為。
type encoder interface {
	io.WriteCloser
	Reset(w io.Writer)
	Flush() error
}

// codec 為一種 Content-Encoding 與其 encoder pool。
type codec struct {
	name string
	pool sync.Pool
}

func (c *codec) get(w io.Writer) encoder {
	enc := c.pool.Get().(encoder)
	enc.Reset(w)
	return enc
}

// put 結束 encoder；noBody 時把 footer 丟到 io.Discard，避免污染 204/304 回應。
func (c *codec) put(enc encoder, noBody bool) {
	if noBody {
		enc.Reset(io.Discard)
	}
	_ = enc.Close()
	c.pool.Put(enc)
}

// NewCompression 依 cfg 建立壓縮 middleware；codec 依偏好順序排列。
func NewCompression(cfg CompressConfig) func(http.Handler) http.Handler {
	codecs := []*codec{
		{name: "zstd", pool: sync.Pool{New: func() any {
			zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(cfg.ZstdLevel), zstd.WithEncoderConcurrency(1))
			if err != nil {
				panic(err)
			}
			return zw
		}}},
		{name: "gzip", pool: sync.Pool{New: func() any {
			gw, err := gzip.NewWriterLevel(nil, cfg.GzipLevel)
			if err != nil {
				gw = gzip.NewWriter(nil)
			}
			return gw
		}}},
	}
	skip := slices.Clone(cfg.SkipPaths)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || isUpgrade(r) || slices.Contains(skip, r.URL.Path) ||
				w.Header().Get("Content-Encoding") != "" {
				next.ServeHTTP(w, r)
				return
			}
			c := negotiate(r.Header.Get("Accept-Encoding"), codecs)
			if c == nil {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Encoding", c.name)
			w.Header().Add("Vary", "Accept-Encoding")

			cw := &compressWriter{ResponseWriter: w, enc: c.get(w)}
			defer func() { c.put(cw.enc, cw.noBody) }()
			next.ServeHTTP(cw, r)
		})
	}
}

// negotiate 回傳第一個被接受（q != 0）的 codec。
func negotiate(header string, codecs []*codec) *codec {
	accepted := map[string]bool{}
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		q := strings.ReplaceAll(params, " ", "")
		accepted[name] = q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	for _, c := range codecs {
		if accepted[c.name] {
			return c
		}
	}
	return nil
}

func isUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

// 204 No Content、304 Not Modified、1xx 沒有 body
func noBodyStatus(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

type compressWriter struct {
	http.ResponseWriter
	enc    encoder
	noBody bool
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.noBody {
		return cw.ResponseWriter.Write(b)
	}
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if noBodyStatus(code) {
		cw.noBody = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Flush() {
	if !cw.noBody {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}
