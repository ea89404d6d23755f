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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/featlab/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.Configf("bad"), http.StatusBadRequest},
		{errs.Dataf("bad"), http.StatusBadRequest},
		{errs.Wrap(errs.Dataf("bad"), "wrapped"), http.StatusBadRequest},
		{errs.NewFatal("boom"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusCode(c.err), "%v", c.err)
	}
}

func TestErrsBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, errs.Dataf("target column %q not found", "y"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var b Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.False(t, b.Success)
	assert.Equal(t, `target column "y" not found`, b.Error)
	assert.Equal(t, "data", b.Code)
}
