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

// Package perf 以 runtime/pprof 包裝一次執行，供 CLI 的 --pprof 使用。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/featlab/errs"
)

// DefaultDir 為 pprof 檔案預設寫入路徑。
const DefaultDir = "build/profiling"

// Profile 模式
const (
	ModeNone   = ""
	ModeCPU    = "cpu"
	ModeHeap   = "heap"
	ModeAllocs = "allocs"
)

// Modes 回傳所有可用模式（不含空字串）。
func Modes() []string {
	return []string{ModeCPU, ModeHeap, ModeAllocs}
}

// RunPProf 依 mode 執行 exe 並把 profile 寫到 dir/<mode>.pprof；mode 為空時直接執行。
// exe 的錯誤優先回傳。
//
// Usage like:
//
//	featlab select --file data.csv --target y --pprof cpu
//	go tool pprof build/profiling/cpu.pprof
func RunPProf(exe func() error, mode, dir string) error {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case ModeNone:
		return exe()
	case ModeCPU:
		return PProfCPU(exe, dir)
	case ModeHeap:
		return snapshot(exe, dir, "heap")
	case ModeAllocs:
		return snapshot(exe, dir, "allocs")
	}
	return errs.Configf("unknown pprof mode %q, want cpu|heap|allocs", mode)
}

// PProfCPU 在 exe 執行期間開啟 CPU profiling。
//
// 可以作性能分析，也可以拿來做構建時給 pgo 的優化 blueprint。
func PProfCPU(exe func() error, dir string) error {
	f, err := create(dir, "cpu.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start cpu profile")
	}
	defer pprof.StopCPUProfile()

	return exe()
}

// snapshot 在 exe 執行完後寫出一次 heap（in-use）或 allocs（累積配置）profile。
// heap 前先 GC，讓快照貼近 live objects。
func snapshot(exe func() error, dir, name string) error {
	if err := exe(); err != nil {
		return err
	}
	if name == "heap" {
		runtime.GC()
	}
	f, err := create(dir, name+".pprof")
	if err != nil {
		return err
	}
	defer f.Close()

	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("profile %s not found", name)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "failed to write "+name+" profile")
	}
	return nil
}

func create(dir, file string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create profiling dir")
	}
	f, err := os.Create(filepath.Join(dir, file))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create "+file)
	}
	return f, nil
}
