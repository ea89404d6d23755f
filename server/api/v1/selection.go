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

package v1

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/zintix-labs/featlab"
	"github.com/zintix-labs/featlab/compare"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/selector"
	"github.com/zintix-labs/featlab/server/httperr"
	"github.com/zintix-labs/featlab/server/metrics"
	"github.com/zintix-labs/featlab/server/svrcfg"
)

// DatasetInfo 為回應中的資料集摘要。
type DatasetInfo struct {
	Samples      int                  `json:"samples"`
	Features     int                  `json:"features"`
	TargetColumn string               `json:"target_column"`
	Stats        *dataset.Stats       `json:"stats"`
	Cleaning     *dataset.CleanReport `json:"cleaning"`
}

// Response 為成功回應。
type Response struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	MethodUsed  string             `json:"method_used"`
	DatasetInfo DatasetInfo        `json:"dataset_info"`
	Results     []*selector.Result `json:"results"`
	Comparison  *compare.Result    `json:"comparison,omitempty"`
}

// ============================================================
// ** SelectionHandler **
// ============================================================

type SelectionHandler struct {
	lab       *featlab.Lab
	log       *slog.Logger
	metrics   *metrics.Metrics
	maxUpload int64
}

func NewSelectionHandler(sCfg *svrcfg.SvrCfg) *SelectionHandler {
	return &SelectionHandler{
		lab:       sCfg.Lab,
		log:       sCfg.Log,
		metrics:   sCfg.Metrics,
		maxUpload: sCfg.MaxUploadBytes(),
	}
}

// Methods 回傳可用的方法 key。
func (h *SelectionHandler) Methods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"success": true,
		"methods": append(h.lab.Methods(), MethodTraditional),
		"default": h.lab.Setting().Method,
	})
}

// Select 執行單一方法；run_both=true 時執行 ga 與 traditional_method 並比較。
func (h *SelectionHandler) Select(w http.ResponseWriter, r *http.Request) {
	up, err := h.upload(w, r)
	if err != nil {
		h.fail(w, "feature selection rejected", err)
		return
	}
	defer up.cleanup()

	runBoth, err := formBool(r, "run_both")
	if err != nil {
		h.fail(w, "feature selection rejected", err)
		return
	}
	method := r.FormValue("method")
	if method == "" {
		method = h.lab.Setting().Method
	}

	resp := up.response()
	if runBoth {
		trad := resolveMethod(MethodTraditional, up.params)
		ra, err := h.run(selector.KeyGA, up)
		if err != nil {
			h.fail(w, "feature selection failed", err)
			return
		}
		rb, err := h.run(trad, up)
		if err != nil {
			h.fail(w, "feature selection failed", err)
			return
		}
		resp.MethodUsed = "Both (" + ra.Method + " and " + rb.Method + ")"
		resp.Results = []*selector.Result{ra, rb}
		resp.Comparison = compare.Compare(ra, rb)
	} else {
		res, err := h.run(resolveMethod(method, up.params), up)
		if err != nil {
			h.fail(w, "feature selection failed", err)
			return
		}
		resp.MethodUsed = res.Method
		resp.Results = []*selector.Result{res}
	}
	resp.Message = "Feature selection completed successfully using " + resp.MethodUsed
	writeJSON(w, resp)
}

// Compare 依 methods（可重複或逗號分隔）逐一執行；兩個以上時比較前兩個。
func (h *SelectionHandler) Compare(w http.ResponseWriter, r *http.Request) {
	up, err := h.upload(w, r)
	if err != nil {
		h.fail(w, "comparison rejected", err)
		return
	}
	defer up.cleanup()

	var raw []string
	if r.MultipartForm != nil {
		raw = r.MultipartForm.Value["methods"]
	}
	if len(raw) == 0 {
		raw = r.Form["methods"]
	}
	names := splitList(raw)
	if len(names) == 0 {
		h.fail(w, "comparison rejected", errs.Configf("methods is required"))
		return
	}

	resp := up.response()
	seen := map[string]bool{}
	for _, n := range names {
		key := resolveMethod(n, up.params)
		if seen[key] {
			continue
		}
		seen[key] = true
		res, err := h.run(key, up)
		if err != nil {
			h.fail(w, "comparison failed", err)
			return
		}
		resp.Results = append(resp.Results, res)
	}
	if len(resp.Results) >= 2 {
		resp.Comparison = compare.Compare(resp.Results[0], resp.Results[1])
	}
	resp.MethodUsed = "Comparison (" + strings.Join(names, ", ") + ")"
	resp.Message = "Comparison completed for methods: " + strings.Join(names, ", ")
	writeJSON(w, resp)
}

// ============================================================
// ** 內部 **
// ============================================================

type upload struct {
	ds      *dataset.Dataset
	clean   *dataset.CleanReport
	target  string
	params  selector.Params
	cleanup func()
}

func (u *upload) response() *Response {
	return &Response{
		Success: true,
		DatasetInfo: DatasetInfo{
			Samples:      u.ds.Rows(),
			Features:     u.ds.NumFeatures(),
			TargetColumn: u.target,
			Stats:        dataset.Describe(u.ds, u.clean),
			Cleaning:     u.clean,
		},
	}
}

// upload 限制大小、解析表單與參數、讀入並清理資料集。
func (h *SelectionHandler) upload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	// 上限與 MaxBytesReader 相同，上傳檔只留在記憶體
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if err == http.ErrNotMultipart {
			return nil, errs.Configf("request must be multipart/form-data with a file field")
		}
		return nil, errs.WrapAs(err, errs.CodeData, "invalid multipart form")
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	file, hdr, err := r.FormFile("file")
	if err != nil {
		cleanup()
		return nil, errs.Configf("no file provided")
	}
	defer file.Close()

	target := strings.TrimSpace(r.FormValue("target_column"))
	if target == "" {
		cleanup()
		return nil, errs.Configf("target_column is required")
	}
	params, err := parseParams(r, h.lab.Setting().Params())
	if err != nil {
		cleanup()
		return nil, err
	}
	ds, clean, err := h.load(file, hdr, target)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &upload{ds: ds, clean: clean, target: target, params: params, cleanup: cleanup}, nil
}

func (h *SelectionHandler) load(file multipart.File, hdr *multipart.FileHeader, target string) (*dataset.Dataset, *dataset.CleanReport, error) {
	f, err := dataset.FormatOf(hdr.Filename)
	if err != nil {
		return nil, nil, err
	}
	h.metrics.ObserveUpload(hdr.Size)
	return h.lab.Load(file, f, target)
}

func (h *SelectionHandler) run(method string, up *upload) (*selector.Result, error) {
	start := time.Now()
	res, err := h.lab.RunWith(method, up.params, up.ds)
	n := 0
	if res != nil {
		n = res.NumFeatures
	}
	h.metrics.ObserveRun(method, time.Since(start), n, err)
	return res, err
}

func (h *SelectionHandler) fail(w http.ResponseWriter, msg string, err error) {
	httperr.Log(h.log, msg, err)
	httperr.Errs(w, err)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httperr.Errs(w, errs.Wrap(err, "encode response failed"))
	}
}
