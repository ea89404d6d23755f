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

package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/featlab/errs"
)

func TestRunPProfWritesProfile(t *testing.T) {
	for _, mode := range Modes() {
		dir := t.TempDir()
		called := false
		err := RunPProf(func() error { called = true; return nil }, mode, dir)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !called {
			t.Fatalf("%s: exe not called", mode)
		}
		st, err := os.Stat(filepath.Join(dir, mode+".pprof"))
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if mode != ModeCPU && st.Size() == 0 {
			t.Fatalf("%s: empty profile", mode)
		}
	}
}

func TestRunPProfPassThrough(t *testing.T) {
	boom := errors.New("boom")
	if err := RunPProf(func() error { return boom }, ModeNone, t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	dir := t.TempDir()
	if err := RunPProf(func() error { return boom }, ModeHeap, dir); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "heap.pprof")); !os.IsNotExist(err) {
		t.Fatalf("heap profile should not be written when exe fails")
	}
}

func TestRunPProfUnknownMode(t *testing.T) {
	err := RunPProf(func() error { return nil }, "block", t.TempDir())
	if !errs.IsConfig(err) {
		t.Fatalf("got %v", err)
	}
}
