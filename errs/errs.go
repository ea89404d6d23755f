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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : 錯誤分級，讓最上層（CLI / HTTP）判斷要中止還是回報給使用者。
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Code 標示錯誤來源類別。
//
//   - CodeConfig：執行參數不合法（population_size <= 0、機率不在 [0,1] ...）
//   - CodeData：資料集結構不合法（欄位不足、列數不一致、目標欄缺失 ...）
//   - CodeInternal：其餘無法歸類的內部錯誤
type Code uint8

const (
	CodeNone Code = iota
	CodeConfig
	CodeData
	CodeInternal
)

var codeMap = map[Code]string{
	CodeNone:     "",
	CodeConfig:   "config",
	CodeData:     "data",
	CodeInternal: "internal",
}

func (c Code) String() string {
	return codeMap[c]
}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文；Cause 串接下層錯誤；
// ErrLv 決定嚴重度；Code 決定錯誤類別。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Code    Code
}

// Error 實作 error 介面。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Code != CodeNone {
		base = fmt.Sprintf("errlv=%s code=%s %s", ErrLv(e.ErrLv), e.Code, e.Message)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal, Code: CodeInternal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Configf 建立參數錯誤（Warn + CodeConfig）。
func Configf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Warn, Code: CodeConfig}
}

// Dataf 建立資料集錯誤（Warn + CodeData）。
func Dataf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Warn, Code: CodeData}
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 以給定訊息包裝底層錯誤。
//
// 若 cause 已經是 *E，沿用其 ErrLv 與 Code；
// 否則（標準庫或三方套件錯誤）一律視為 Fatal + CodeInternal。
// 已知可處理的情境請直接用 Configf / Dataf 建立，不要 Wrap。
func Wrap(cause error, msg string) *E {
	r := New(Fatal, msg)
	r.Code = CodeInternal
	if e, ok := AsErr(cause); ok {
		r.ErrLv = e.ErrLv
		r.Code = e.Code
	}
	r.Cause = cause
	return r
}

// WrapAs 包裝第三方錯誤並指定分類；用於「解析失敗屬於使用者輸入」這類情境。
func WrapAs(cause error, code Code, msg string) *E {
	return &E{Message: msg, Cause: cause, ErrLv: Warn, Code: code}
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// IsConfig 判斷錯誤鏈上是否有參數錯誤。
func IsConfig(err error) bool {
	e, ok := AsErr(err)
	return ok && e.Code == CodeConfig
}

// IsData 判斷錯誤鏈上是否有資料集錯誤。
func IsData(err error) bool {
	e, ok := AsErr(err)
	return ok && e.Code == CodeData
}
