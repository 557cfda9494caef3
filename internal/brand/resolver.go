// Package brand enforces at-most-one winning creator per recognized brand
// name across an analysis run. Classification runs in parallel; claim
// arbitration is serialized behind one mutex so the brand map always has a
// single linearizable view.
package brand

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/brandlens/brandlens/internal/model"
)

// confidenceDelta is the margin a challenger must beat the incumbent by
// before confidence alone triggers replacement.
const confidenceDelta = 0.1

// followerFactor is how much larger a challenger's audience must be to win
// a near-tied claim.
const followerFactor = 1.5

// Resolver arbitrates duplicate brand claims for one analysis run.
type Resolver struct {
	mu     sync.Mutex
	folder cases.Caser
	claims map[string]*model.ClassificationResult
}

// NewResolver creates an empty resolver. One resolver per run; no state is
// shared across runs.
func NewResolver() *Resolver {
	return &Resolver{
		folder: cases.Fold(),
		claims: make(map[string]*model.ClassificationResult),
	}
}

// Claim registers a result's brand claim. Results without a brand name pass
// through untouched. When the brand is already assigned, the precedence
// rules pick a winner and the loser is demoted in place to an unbranded UGC
// result.
func (r *Resolver) Claim(candidate *model.ClassificationResult) {
	name := strings.TrimSpace(candidate.BrandName)
	if name == "" {
		return
	}
	key := r.folder.String(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	incumbent, ok := r.claims[key]
	if !ok {
		r.claims[key] = candidate
		return
	}

	if r.beats(candidate, incumbent, key) {
		r.claims[key] = candidate
		demote(incumbent, name, candidate.Creator.UniqueID)
	} else {
		demote(candidate, name, incumbent.Creator.UniqueID)
	}
}

// Winner returns the current winning result for a brand name, or nil.
func (r *Resolver) Winner(brandName string) *model.ClassificationResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claims[r.folder.String(strings.TrimSpace(brandName))]
}

// Brands returns the number of distinct brands claimed so far.
func (r *Resolver) Brands() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claims)
}

// labelRank orders the labels for rule 1: official beats matrix beats
// brand-tagged UGC.
func labelRank(res *model.ClassificationResult) int {
	switch {
	case res.IsOfficialBrand:
		return 2
	case res.IsMatrixAccount:
		return 1
	default:
		return 0
	}
}

// beats applies the precedence rules in order. Caller holds the mutex.
func (r *Resolver) beats(candidate, incumbent *model.ClassificationResult, key string) bool {
	// 1. label rank
	if cr, ir := labelRank(candidate), labelRank(incumbent); cr != ir {
		return cr > ir
	}

	// 2. official-indicator match
	if candidate.OfficialIndicator != incumbent.OfficialIndicator {
		return candidate.OfficialIndicator
	}

	// 3. significantly higher confidence
	if candidate.Confidence > incumbent.Confidence+confidenceDelta {
		return true
	}

	// 4. near-tied confidence: markedly larger audience
	if diff := candidate.Confidence - incumbent.Confidence; diff >= -confidenceDelta && diff <= confidenceDelta {
		if float64(candidate.Creator.FollowerCount) > float64(incumbent.Creator.FollowerCount)*followerFactor {
			return true
		}
	}

	// 5. handle contains the brand name
	candidateHas := strings.Contains(r.folder.String(candidate.Creator.UniqueID), key)
	incumbentHas := strings.Contains(r.folder.String(incumbent.Creator.UniqueID), key)
	if candidateHas && !incumbentHas {
		return true
	}

	// 6. keep the incumbent
	return false
}

// demote rewrites a losing claim to an unbranded UGC result.
func demote(res *model.ClassificationResult, brandName, winnerID string) {
	res.IsOfficialBrand = false
	res.IsMatrixAccount = false
	res.IsUGCCreator = true
	res.BrandName = ""
	res.Rationale = fmt.Sprintf("Brand %q already claimed by %s", brandName, winnerID)
}
