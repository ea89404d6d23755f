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

// Package setting 為 featlab 的整體設定：預設方法、演化與傳統方法參數、資料清理與服務設定。
package setting

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/zintix-labs/featlab/configs"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/ga"
	"github.com/zintix-labs/featlab/selector"
	"gopkg.in/yaml.v3"
)

// Setting 包含啟動 featlab 所需的所有設定。
type Setting struct {
	Method      string               `yaml:"method"      json:"method"`
	MinRows     int                  `yaml:"min_rows"    json:"min_rows"`
	GA          ga.Config            `yaml:"ga"          json:"ga"`
	Traditional selector.Traditional `yaml:"traditional" json:"traditional"`
	Clean       dataset.CleanOptions `yaml:"clean"       json:"clean"`
	Server      Server               `yaml:"server"      json:"server"`
}

// Server 為 HTTP 服務設定。
type Server struct {
	Addr              string        `yaml:"addr"                json:"addr"`
	LogMode           string        `yaml:"log_mode"            json:"log_mode"`
	MaxUploadMB       int           `yaml:"max_upload_mb"       json:"max_upload_mb"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    json:"shutdown_timeout"`
}

// MaxUploadBytes 回傳上傳上限（bytes）。
func (s Server) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Default 回傳程式內建的預設設定，與內嵌的 configs/featlab.yaml 一致。
func Default() *Setting {
	p := selector.DefaultParams()
	return &Setting{
		Method:      selector.KeyGA,
		MinRows:     10,
		GA:          p.GA,
		Traditional: p.Traditional,
		Clean:       dataset.DefaultCleanOptions(),
		Server: Server{
			Addr:              ":8000",
			LogMode:           "dev",
			MaxUploadMB:       50,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
	}
}

// Embedded 讀取內嵌的預設設定檔。
func Embedded() (*Setting, error) {
	return ByYAML(configs.Default)
}

// Load 依副檔名讀取設定檔（.json 用 JSON，其餘一律 YAML）。
func Load(path string) (*Setting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WrapAs(err, errs.CodeConfig, "read setting file failed: "+path)
	}
	if len(path) > 5 && path[len(path)-5:] == ".json" {
		return ByJSON(data)
	}
	return ByYAML(data)
}

// ByYAML 以預設值為底讀取 YAML；未知欄位視為錯誤。
func ByYAML(data []byte) (*Setting, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.WrapAs(err, errs.CodeConfig, "failed to unmarshal yaml setting")
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// ByJSON 以預設值為底讀取 JSON；未知欄位視為錯誤。
func ByJSON(data []byte) (*Setting, error) {
	s := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, errs.WrapAs(err, errs.CodeConfig, "failed to unmarshal json setting")
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Params 回傳選擇器參數。
func (s *Setting) Params() selector.Params {
	return selector.Params{GA: s.GA, Traditional: s.Traditional}
}

func (s *Setting) init() error {
	if s.Method == "" {
		s.Method = selector.KeyGA
	}
	if s.Server.LogMode == "" {
		s.Server.LogMode = "dev"
	}
	return s.valid()
}

// Validate 重新檢查（例如由 CLI 旗標覆寫後）。
func (s *Setting) Validate() error {
	return s.init()
}

func (s *Setting) valid() error {
	p := s.Params()
	if err := p.Validate(); err != nil {
		return err
	}
	s.GA, s.Traditional = p.GA, p.Traditional
	if !selector.Default().Has(s.Method) {
		return errs.Configf("unknown method %q", s.Method)
	}
	if s.MinRows < 1 {
		return errs.Configf("min_rows must be >= 1, got %d", s.MinRows)
	}
	if s.Clean.QuasiConstantRatio < 0 || s.Clean.QuasiConstantRatio > 1 {
		return errs.Configf("quasi_constant_ratio must be in [0,1], got %v", s.Clean.QuasiConstantRatio)
	}
	if s.Server.MaxUploadMB <= 0 {
		return errs.Configf("max_upload_mb must be > 0, got %d", s.Server.MaxUploadMB)
	}
	switch s.Server.LogMode {
	case "dev", "prod", "silence":
	default:
		return errs.Configf("log_mode must be dev|prod|silence, got %q", s.Server.LogMode)
	}
	if s.Server.ReadHeaderTimeout < 0 || s.Server.ShutdownTimeout < 0 {
		return errs.Configf("server timeouts must be >= 0")
	}
	return nil
}
