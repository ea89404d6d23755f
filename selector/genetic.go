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

package selector

import (
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/ga"
)

type genetic struct {
	eng *ga.Engine
}

func newGenetic(p Params, env Env) (Selector, error) {
	eng, err := ga.NewEngine(p.GA, ga.WithLogger(env.logger()), ga.WithProgress(env.Progress))
	if err != nil {
		return nil, err
	}
	return &genetic{eng: eng}, nil
}

func (g *genetic) Key() string  { return KeyGA }
func (g *genetic) Name() string { return "Genetic Algorithm" }

func (g *genetic) Select(ds *dataset.Dataset) (*Result, error) {
	start := time.Now()
	out, err := g.eng.Run(ds)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	cfg := g.eng.Config()
	res := &Result{
		RunID:                 uuid.NewString(),
		Key:                   KeyGA,
		Method:                g.Name(),
		SelectedFeatures:      out.Names,
		SelectedIndices:       out.Selected,
		NumFeatures:           len(out.Selected),
		TotalOriginalFeatures: out.TotalFeatures,
		FeatureReduction:      Reduction(len(out.Selected), out.TotalFeatures),
		FitnessScore:          out.Fitness,
		FitnessHistory:        out.History,
		FeatureQuality:        out.Quality,
		ExecutionTime:         Seconds(elapsed),
		Elapsed:               elapsed,
		ParametersUsed: map[string]any{
			"population_size": cfg.PopulationSize,
			"generations":     cfg.Generations,
			"crossover_prob":  cfg.CrossoverProb,
			"mutation_prob":   cfg.MutationProb,
			"tournament_size": cfg.TournamentSize,
			"selection":       cfg.Selection,
			"random_state":    cfg.RandomState,
		},
	}
	if out.FallbackUsed {
		res.Notes = append(res.Notes, "no subset scored above zero, top features by target correlation were used")
	}
	if len(out.Excluded) > 0 {
		res.Notes = append(res.Notes, "identifier-like features removed: "+joinNames(out.Excluded))
	}
	return res, nil
}
