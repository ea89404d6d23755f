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
	"github.com/spf13/cobra"
	"github.com/zintix-labs/featlab"
	"github.com/zintix-labs/featlab/server"
	"github.com/zintix-labs/featlab/server/logger"
	"github.com/zintix-labs/featlab/server/svrcfg"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the feature selection HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.serve(cmd)
		},
	}
	cmd.Flags().StringVar(&o.addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (o *options) serve(cmd *cobra.Command) error {
	set, err := o.loadSetting()
	if err != nil {
		return err
	}
	if o.addr != "" {
		set.Server.Addr = o.addr
	}
	mode, err := logger.ParseMode(set.Server.LogMode)
	if err != nil {
		return err
	}
	log, ah := logger.NewAsync(4096, mode)
	defer ah.Close()

	lab, err := featlab.New(set, featlab.WithLogger(log))
	if err != nil {
		return err
	}
	return server.Run(cmd.Context(), &svrcfg.SvrCfg{Log: log, Lab: lab})
}
