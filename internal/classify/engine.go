// Package classify turns a creator profile into a mutually-exclusive
// three-way label by prompting a language model and parsing its
// pipe-delimited verdict.
package classify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
	"github.com/brandlens/brandlens/pkg/llm"
)

const fallbackRationale = "Analysis failed - defaulted to UGC creator"

// Engine classifies creators via an LLM completion client.
type Engine struct {
	client llm.Client
	policy Policy
}

// NewEngine creates a classification engine. A nil policy falls back to the
// stock keyword policy.
func NewEngine(client llm.Client, policy Policy) *Engine {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Engine{client: client, policy: policy}
}

// Classify builds the prompt for one creator, submits it, and parses the
// response. Malformed model output degrades to the UGC fallback; only a
// transport-level failure returns an error, which callers treat as a
// per-creator skip.
func (e *Engine) Classify(ctx context.Context, creator model.CreatorRecord) (*model.ClassificationResult, error) {
	isOfficial := e.policy.IsOfficial(creator.UniqueID, creator.Nickname, creator.Signature)

	contextText := strings.TrimSpace(
		"Title: " + creator.ContentTitle + "\nDescription: " + creator.ContentDescription,
	)
	prompt := buildPrompt(creator.UniqueID, creator.Nickname, creator.Signature, isOfficial, contextText)

	text, err := e.client.Complete(ctx, prompt)
	if err != nil {
		return nil, errs.Upstreamf("classify %s: %v", creator.UniqueID, err)
	}

	result := &model.ClassificationResult{
		Creator:           sanitize(creator),
		OfficialIndicator: isOfficial,
	}

	p, ok := parseResponse(text)
	if !ok {
		zap.L().Warn("malformed classification response, defaulting to UGC",
			zap.String("unique_id", creator.UniqueID),
			zap.String("response", text),
		)
		result.IsUGCCreator = true
		result.Rationale = fallbackRationale
		return result, nil
	}

	// Big-name brands need an actual official indicator before we accept an
	// OFFICIAL_BRAND verdict; the model alone is too credulous here.
	if p.official && !isOfficial && e.policy.IsMajorTech(p.brand) {
		p.official = false
		p.matrix = true
		p.rationale += " (demoted: no official-account indicators for a major brand)"
	}

	result.IsOfficialBrand = p.official
	result.IsMatrixAccount = p.matrix
	result.IsUGCCreator = p.ugc
	result.BrandName = p.brand
	result.Confidence = p.confidence
	result.Rationale = p.rationale
	return result, nil
}

// sanitize strips embedded line breaks from free-text fields before they
// reach the CSV reports.
func sanitize(c model.CreatorRecord) model.CreatorRecord {
	replacer := strings.NewReplacer("\n", " ", "\r", " ")
	c.Signature = replacer.Replace(c.Signature)
	return c
}
