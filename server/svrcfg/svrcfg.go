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

package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/featlab"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/server/logger"
	"github.com/zintix-labs/featlab/server/metrics"
)

// SvrCfg 為 HTTP 服務的依賴注入點。
type SvrCfg struct {
	Log     *slog.Logger
	Lab     *featlab.Lab
	Metrics *metrics.Metrics
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log = logger.NewDefaultLogger(logger.ModeSilence)
	}
	if sc.Lab == nil {
		return errs.NewFatal("featlab lab is required")
	}
	if sc.Metrics == nil {
		sc.Metrics = metrics.New()
	}
	return nil
}

// MaxUploadBytes 回傳單次上傳上限。
func (sc *SvrCfg) MaxUploadBytes() int64 {
	return sc.Lab.Setting().Server.MaxUploadBytes()
}
