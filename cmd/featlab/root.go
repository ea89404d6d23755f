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

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zintix-labs/featlab"
	"github.com/zintix-labs/featlab/sdk/perf"
	"github.com/zintix-labs/featlab/server/logger"
	"github.com/zintix-labs/featlab/setting"
)

// options 為所有子命令共用的旗標值。
type options struct {
	config   string
	logMode  string
	pprof    string
	pprofDir string

	// select / compare
	file     string
	target   string
	method   string
	methods  []string
	format   string
	chart    string
	progress bool

	// serve
	addr string
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "featlab",
		Short:         "Evolutionary and traditional feature subset selection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindGlobal(root.PersistentFlags(), o)
	root.AddCommand(newServeCmd(o), newSelectCmd(o), newCompareCmd(o))
	return root
}

func bindGlobal(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.config, "config", "c", "", "setting file (yaml or json); empty uses the embedded default")
	fs.StringVar(&o.logMode, "log-mode", "", "log mode: dev|prod|silence (overrides server.log_mode)")
	fs.StringVar(&o.pprof, "pprof", "", "pprof: '', cpu, heap, allocs")
	fs.StringVar(&o.pprofDir, "pprof-dir", perf.DefaultDir, "directory for pprof output")
}

// bindDataset 綁定 select / compare 共用的資料與輸出旗標。
func bindDataset(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.file, "file", "f", "", "dataset file (csv, json, xlsx)")
	fs.StringVarP(&o.target, "target", "t", "", "target column")
	fs.StringVarP(&o.format, "format", "o", "table", "output format: table|json|yaml")
	fs.StringVar(&o.chart, "chart", "", "write an html chart page to this path")
	fs.BoolVar(&o.progress, "progress", false, "show a progress bar on stderr for the genetic search")
}

// loadSetting 讀取設定並套用 --log-mode。
func (o *options) loadSetting() (*setting.Setting, error) {
	var (
		set *setting.Setting
		err error
	)
	if o.config == "" {
		set, err = setting.Embedded()
	} else {
		set, err = setting.Load(o.config)
	}
	if err != nil {
		return nil, err
	}
	if o.logMode != "" {
		set.Server.LogMode = o.logMode
	}
	return set, nil
}

// newLab 建立 Lab；log 與進度條都寫到 stderr，stdout 只留給結果。
func (o *options) newLab(stderr io.Writer) (*featlab.Lab, *slog.Logger, error) {
	set, err := o.loadSetting()
	if err != nil {
		return nil, nil, err
	}
	mode, err := logger.ParseMode(set.Server.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewLoggerTo(stderr, mode)
	opts := []featlab.Option{featlab.WithLogger(log)}
	if o.progress {
		opts = append(opts, featlab.WithProgress(stderr))
	}
	lab, err := featlab.New(set, opts...)
	if err != nil {
		return nil, nil, err
	}
	return lab, log, nil
}

// profiled 以 --pprof 包裝子命令的執行。
func (o *options) profiled(run func(cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return perf.RunPProf(func() error { return run(cmd) }, o.pprof, o.pprofDir)
	}
}
