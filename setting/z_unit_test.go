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

package setting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zintix-labs/featlab/errs"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	s, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	if err := want.Validate(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("embedded setting drifted from Default (-want +got):\n%s", diff)
	}
}

func TestPartialYAMLKeepsDefaults(t *testing.T) {
	s, err := ByYAML([]byte("method: rfe\nga:\n  generations: 5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Method != "rfe" || s.GA.Generations != 5 {
		t.Fatalf("overrides not applied: %+v", s)
	}
	if s.GA.PopulationSize != 30 || s.Server.MaxUploadMB != 50 {
		t.Fatalf("defaults lost: %+v", s)
	}
}

func TestEmptyYAML(t *testing.T) {
	if _, err := ByYAML(nil); err != nil {
		t.Fatalf("empty yaml should fall back to defaults: %v", err)
	}
}

func TestRejects(t *testing.T) {
	cases := []string{
		"ga:\n  population_size: 0\n",
		"ga:\n  mutation_prob: 1.5\n",
		"method: lasso\n",
		"min_rows: 0\n",
		"server:\n  max_upload_mb: 0\n",
		"server:\n  log_mode: loud\n",
		"traditional:\n  max_correlation: 2\n",
		"unknown_field: 1\n",
	}
	for _, c := range cases {
		_, err := ByYAML([]byte(c))
		if err == nil || !errs.IsConfig(err) {
			t.Fatalf("%q: expected config error, got %v", c, err)
		}
	}
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "featlab.json")
	body := `{"method":"kbest","traditional":{"n_features":4},"server":{"read_header_timeout":2000000000}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Method != "kbest" || s.Traditional.NFeatures != 4 || s.Server.ReadHeaderTimeout != 2*time.Second {
		t.Fatalf("json not applied: %+v", s)
	}
	if s.Params().Traditional.NFeatures != 4 {
		t.Fatal("params should mirror setting")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errs.IsConfig(err) {
		t.Fatalf("missing file should be config error, got %v", err)
	}
}

func TestMaxUploadBytes(t *testing.T) {
	if got := (Server{MaxUploadMB: 2}).MaxUploadBytes(); got != 2<<20 {
		t.Fatalf("got %d", got)
	}
}
