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

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/zintix-labs/featlab/errs"
)

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuf) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]LogMode{"dev": ModeDev, "prod": ModeProd, "silence": ModeSilence} {
		got, err := ParseMode(name)
		if err != nil || got != want || got.String() != name {
			t.Fatalf("%s: got %v %v", name, got, err)
		}
	}
	if _, err := ParseMode("loud"); !errs.IsConfig(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var buf lockedBuf
	ah := NewAsyncHandler(slog.NewTextHandler(&buf, nil), 64)
	log := slog.New(ah).With(slog.String("svc", "featlab"))
	for i := 0; i < 10; i++ {
		log.Info("tick", slog.Int("i", i))
	}
	ah.Close()

	out := buf.String()
	if got := strings.Count(out, "msg=tick"); got+int(ah.Dropped()) != 10 {
		t.Fatalf("written %d + dropped %d != 10", got, ah.Dropped())
	}
	if !strings.Contains(out, "svc=featlab") {
		t.Fatalf("attrs lost: %s", out)
	}

	log.Info("after close")
	if ah.Dropped() == 0 {
		t.Fatal("records after Close should be dropped")
	}
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf, ModeProd).Debug("hidden")
	NewLoggerTo(&buf, ModeProd).Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
