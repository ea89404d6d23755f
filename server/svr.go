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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/server/api"
	"github.com/zintix-labs/featlab/server/app"
	"github.com/zintix-labs/featlab/server/netsvr"
	"github.com/zintix-labs/featlab/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口。
//
//  1. 驗證 SvrCfg（logger / Lab / Metrics）。
//  2. 依 Lab 設定中的 server 區塊建立 HTTP server（netsvr）。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 啟動 app 並阻塞到 ctx 結束或收到 SIGINT/SIGTERM。
func Run(ctx context.Context, sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Vaild(); err != nil {
		// 外層 logger 可能不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	sv := sCfg.Lab.Setting().Server
	svr := netsvr.NewChiServer(netsvr.Options{
		Addr:              sv.Addr,
		ReadHeaderTimeout: sv.ReadHeaderTimeout,
	})
	return serve(ctx, sCfg, svr)
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr（自訂 listener、TLS、timeout 等）。
// svr 必須非 nil；若是 ChiAdapter 需 Ready()。
func RunWithSvr(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}
	return serve(ctx, sCfg, svr)
}

func serve(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	api.RegisterRoutes(svr, sCfg)

	a := app.NewWith(svr)
	a.Log = sCfg.Log
	if t := sCfg.Lab.Setting().Server.ShutdownTimeout; t > 0 {
		a.ShutdownTimeout = t
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("[featlab] listening", slog.String("addr", s.Address()))
	}
	if err := a.RunContext(ctx); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
