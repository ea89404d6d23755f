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

package ga

import (
	"github.com/zintix-labs/featlab/errs"
)

// 選擇策略名稱
const (
	SelectTournament = "tournament"
	SelectRoulette   = "roulette"
)

// Config 為一次演化搜尋的參數。
type Config struct {
	PopulationSize int     `yaml:"population_size" json:"population_size"`
	Generations    int     `yaml:"generations" json:"generations"`
	CrossoverProb  float64 `yaml:"crossover_prob" json:"crossover_prob"`
	MutationProb   float64 `yaml:"mutation_prob" json:"mutation_prob"`
	TournamentSize int     `yaml:"tournament_size" json:"tournament_size"`
	RandomState    int64   `yaml:"random_state" json:"random_state"`
	Selection      string  `yaml:"selection" json:"selection"`
	Exclude        Exclude `yaml:"exclude" json:"exclude"`
}

// DefaultConfig 回傳預設參數。
func DefaultConfig() Config {
	return Config{
		PopulationSize: 30,
		Generations:    50,
		CrossoverProb:  0.8,
		MutationProb:   0.1,
		TournamentSize: 3,
		RandomState:    42,
		Selection:      SelectTournament,
		Exclude:        DefaultExclude(),
	}
}

// Validate 檢查參數；所有錯誤皆為 errs.CodeConfig。
func (c *Config) Validate() error {
	if c.PopulationSize < 1 {
		return errs.Configf("population_size must be > 0, got %d", c.PopulationSize)
	}
	if c.Generations < 1 {
		return errs.Configf("generations must be > 0, got %d", c.Generations)
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		return errs.Configf("crossover_prob must be in [0,1], got %v", c.CrossoverProb)
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return errs.Configf("mutation_prob must be in [0,1], got %v", c.MutationProb)
	}
	if c.TournamentSize < 1 {
		return errs.Configf("tournament_size must be >= 1, got %d", c.TournamentSize)
	}
	switch c.Selection {
	case "":
		c.Selection = SelectTournament
	case SelectTournament, SelectRoulette:
	default:
		return errs.Configf("selection must be %q or %q, got %q", SelectTournament, SelectRoulette, c.Selection)
	}
	return c.Exclude.validate()
}

func dataErrEmpty() error {
	return errs.Dataf("dataset has no features")
}
