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

// ops 為開發用的任務執行器：go run ./scripts <task>
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// task 描述一個 go 指令與輸出過濾方式。
type task struct {
	desc   string
	args   []string
	filter func(line string) bool // nil 表示全部輸出
}

var tasks = map[string]task{
	"test": {
		desc:   "go test ./... -cover -count=1, only ok/FAIL lines",
		args:   []string{"test", "./...", "-cover", "-count=1"},
		filter: summaryOnly,
	},
	"test-all": {
		desc: "go test ./... -cover",
		args: []string{"test", "./...", "-cover"},
	},
	"test-detail": {
		desc:   "go test ./... -v -count=1, without packages that have no tests",
		args:   []string{"test", "./...", "-v", "-count=1"},
		filter: func(line string) bool { return !strings.Contains(line, "[no test files]") },
	},
	"cover": {
		desc: "write build/coverage.out for go tool cover",
		args: []string{"test", "./...", "-count=1", "-coverprofile=build/coverage.out"},
	},
	"bench-ga": {
		desc: "benchmark the genetic search",
		args: []string{"test", "./ga", "-run=^$", "-bench=.", "-benchmem"},
	},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	t, ok := tasks[name]
	if !ok {
		PrintYellow(fmt.Sprintf("Unknown task: %s", name))
		usage()
		os.Exit(1)
	}
	if err := run(name, t); err != nil {
		PrintRed(fmt.Sprintf("\n%s finished with errors: %v", name, err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	names := make([]string, 0, len(tasks))
	for k := range tasks {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %-12s %s\n", k, tasks[k].desc)
	}
}

func run(name string, t task) error {
	PrintGreen("running " + name)

	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		PrintRed(err.Error())
	}
	if name == "cover" {
		_ = os.MkdirAll("build", 0o755)
	}

	cmd := exec.Command("go", t.args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 編譯錯誤在 stderr，合併後一起過濾
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}

	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if t.filter != nil && !t.filter(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}
	if err := sc.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	return cmd.Wait()
}

// summaryOnly 只留 ok / FAIL 與建置失敗訊息。
func summaryOnly(line string) bool {
	return strings.HasPrefix(line, "ok") ||
		strings.HasPrefix(line, "FAIL") ||
		strings.Contains(line, "build failed") ||
		strings.Contains(line, "setup failed")
}

const (
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

func PrintRed(msg string)    { fmt.Println(colorRed + msg + colorReset) }
func PrintGreen(msg string)  { fmt.Println(colorGreen + msg + colorReset) }
func PrintYellow(msg string) { fmt.Println(colorYellow + msg + colorReset) }
