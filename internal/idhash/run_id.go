// Package idhash derives deterministic identifiers for simulation runs.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"newsvendor-lab/internal/domain"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(kind|seed|sell|cost|scrap|q1,q2,...|days|iterations)
// Returns hex-encoded hash (64 characters).
// Identical requests under the same seed produce identical IDs.
func ComputeRunID(
	kind string,
	seed uint64,
	econ domain.Economics,
	quantities []int,
	days int,
	iterations int,
) string {
	qs := make([]string, len(quantities))
	for i, q := range quantities {
		qs[i] = strconv.Itoa(q)
	}

	data := fmt.Sprintf("%s|%d|%d|%d|%d|%s|%d|%d",
		kind,
		seed,
		econ.SellPrice,
		econ.UnitCost,
		econ.ScrapValue,
		strings.Join(qs, ","),
		days,
		iterations,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputePipelineRunID computes the run_id of a full pipeline run.
// Formula: SHA256(pipeline|<ComputeRunID fields>|reportDays|defaultQuantity)
// It never collides with an optimize run over the same candidates, whose
// result carries no ledger.
func ComputePipelineRunID(
	seed uint64,
	econ domain.Economics,
	candidates []int,
	sampleDays int,
	iterations int,
	reportDays int,
	defaultQuantity int,
) string {
	base := ComputeRunID(domain.RunKindPipeline, seed, econ, candidates, sampleDays, iterations)
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", base, reportDays, defaultQuantity)))
	return hex.EncodeToString(hash[:])
}
