package idhash

import (
	"testing"

	"newsvendor-lab/internal/domain"
)

func TestComputeRunID(t *testing.T) {
	econ := domain.DefaultEconomics()

	tests := []struct {
		name       string
		kind       string
		seed       uint64
		quantities []int
		days       int
		iterations int
	}{
		{
			name:       "optimize default candidates",
			kind:       domain.RunKindOptimize,
			seed:       42,
			quantities: []int{40, 50, 60, 70, 80, 90, 100},
			days:       1000,
			iterations: 1,
		},
		{
			name:       "simulate single quantity",
			kind:       domain.RunKindSimulate,
			seed:       7,
			quantities: []int{70},
			days:       30,
			iterations: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRunID(tt.kind, tt.seed, econ, tt.quantities, tt.days, tt.iterations)

			if len(got) != 64 {
				t.Errorf("ComputeRunID() length = %d, want 64", len(got))
			}

			again := ComputeRunID(tt.kind, tt.seed, econ, tt.quantities, tt.days, tt.iterations)
			if got != again {
				t.Errorf("ComputeRunID() not deterministic: %s != %s", got, again)
			}
		})
	}
}

func TestComputeRunID_Uniqueness(t *testing.T) {
	econ := domain.DefaultEconomics()
	base := ComputeRunID(domain.RunKindOptimize, 42, econ, []int{60, 70}, 1000, 1)

	variants := map[string]string{
		"kind":       ComputeRunID(domain.RunKindSimulate, 42, econ, []int{60, 70}, 1000, 1),
		"seed":       ComputeRunID(domain.RunKindOptimize, 43, econ, []int{60, 70}, 1000, 1),
		"economics":  ComputeRunID(domain.RunKindOptimize, 42, domain.Economics{SellPrice: 50, UnitCost: 30, ScrapValue: 5}, []int{60, 70}, 1000, 1),
		"order":      ComputeRunID(domain.RunKindOptimize, 42, econ, []int{70, 60}, 1000, 1),
		"days":       ComputeRunID(domain.RunKindOptimize, 42, econ, []int{60, 70}, 999, 1),
		"iterations": ComputeRunID(domain.RunKindOptimize, 42, econ, []int{60, 70}, 1000, 2),
	}

	for name, id := range variants {
		if id == base {
			t.Errorf("changing %s did not change the run ID", name)
		}
	}
}

func TestComputePipelineRunID(t *testing.T) {
	econ := domain.DefaultEconomics()
	candidates := []int{40, 50, 60, 70, 80, 90, 100}
	base := ComputePipelineRunID(42, econ, candidates, 1000, 1, 30, 70)

	if len(base) != 64 {
		t.Errorf("ComputePipelineRunID() length = %d, want 64", len(base))
	}
	if again := ComputePipelineRunID(42, econ, candidates, 1000, 1, 30, 70); again != base {
		t.Errorf("ComputePipelineRunID() not deterministic: %s != %s", base, again)
	}

	variants := map[string]string{
		"optimize":         ComputeRunID(domain.RunKindOptimize, 42, econ, candidates, 1000, 1),
		"report days":      ComputePipelineRunID(42, econ, candidates, 1000, 1, 60, 70),
		"default quantity": ComputePipelineRunID(42, econ, candidates, 1000, 1, 30, 50),
		"sample days":      ComputePipelineRunID(42, econ, candidates, 999, 1, 30, 70),
		"iterations":       ComputePipelineRunID(42, econ, candidates, 1000, 3, 30, 70),
	}

	for name, id := range variants {
		if id == base {
			t.Errorf("changing %s did not change the pipeline run ID", name)
		}
	}
}
