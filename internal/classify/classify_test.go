package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func TestParseResponse_WellFormed(t *testing.T) {
	p, ok := parseResponse("true|false|false|Nike|0.95|Handle and bio match the brand")
	require.True(t, ok)
	assert.True(t, p.official)
	assert.False(t, p.matrix)
	assert.False(t, p.ugc)
	assert.Equal(t, "Nike", p.brand)
	assert.InDelta(t, 0.95, p.confidence, 1e-9)
	assert.Equal(t, "Handle and bio match the brand", p.rationale)
}

func TestParseResponse_NoneBrandBecomesEmpty(t *testing.T) {
	p, ok := parseResponse("false|false|true|none|0.8|ordinary creator")
	require.True(t, ok)
	assert.Empty(t, p.brand)
}

func TestParseResponse_Malformed(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"too few fields", "true|false|false|Nike|0.9"},
		{"too many fields", "true|false|false|Nike|0.9|r|extra"},
		{"bad boolean", "yes|false|false|Nike|0.9|r"},
		{"no label true", "false|false|false|Nike|0.9|r"},
		{"two labels true", "true|true|false|Nike|0.9|r"},
		{"prose answer", "This account appears to be an official brand."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := parseResponse(tc.text)
			assert.False(t, ok)
		})
	}
}

func TestParseResponse_ConfidenceCoercion(t *testing.T) {
	p, ok := parseResponse("false|true|false|Nike|not-a-number|r")
	require.True(t, ok)
	assert.Zero(t, p.confidence)

	p, ok = parseResponse("false|true|false|Nike|1.7|r")
	require.True(t, ok)
	assert.Equal(t, 1.0, p.confidence)

	p, ok = parseResponse("false|true|false|Nike|-0.2|r")
	require.True(t, ok)
	assert.Equal(t, 0.0, p.confidence)
}

func TestClassify_WellFormedResponse(t *testing.T) {
	stub := &stubLLM{response: "true|false|false|Nike|0.92|official handle"}
	engine := NewEngine(stub, nil)

	creator := model.CreatorRecord{
		UniqueID:  "nike_official",
		Nickname:  "Nike",
		Signature: "The official Nike account",
	}
	res, err := engine.Classify(context.Background(), creator)
	require.NoError(t, err)

	assert.True(t, res.IsOfficialBrand)
	assert.Equal(t, "Nike", res.BrandName)
	assert.True(t, res.OfficialIndicator) // "official" appears in the bio
	assert.InDelta(t, 0.92, res.Confidence, 1e-9)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "nike_official")
	assert.Contains(t, stub.prompts[0], "The official Nike account")
}

func TestClassify_MalformedResponseFallsBackToUGC(t *testing.T) {
	stub := &stubLLM{response: "I cannot classify this account."}
	engine := NewEngine(stub, nil)

	res, err := engine.Classify(context.Background(), model.CreatorRecord{UniqueID: "someone"})
	require.NoError(t, err)

	assert.False(t, res.IsOfficialBrand)
	assert.False(t, res.IsMatrixAccount)
	assert.True(t, res.IsUGCCreator)
	assert.Empty(t, res.BrandName)
	assert.Equal(t, fallbackRationale, res.Rationale)
}

func TestClassify_TransportErrorPropagates(t *testing.T) {
	stub := &stubLLM{err: errors.New("connection refused")}
	engine := NewEngine(stub, nil)

	_, err := engine.Classify(context.Background(), model.CreatorRecord{UniqueID: "someone"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUpstream)
}

func TestClassify_SanitizesSignature(t *testing.T) {
	stub := &stubLLM{response: "false|false|true|none|0.5|plain creator"}
	engine := NewEngine(stub, nil)

	res, err := engine.Classify(context.Background(), model.CreatorRecord{
		UniqueID:  "someone",
		Signature: "line one\nline two\r\nline three",
	})
	require.NoError(t, err)
	assert.NotContains(t, res.Creator.Signature, "\n")
	assert.NotContains(t, res.Creator.Signature, "\r")
}

func TestClassify_MajorTechDemotedWithoutIndicators(t *testing.T) {
	stub := &stubLLM{response: "true|false|false|Apple|0.9|username mentions apple"}
	engine := NewEngine(stub, nil)

	res, err := engine.Classify(context.Background(), model.CreatorRecord{
		UniqueID:  "apple.fanzone",
		Nickname:  "Apple Fan",
		Signature: "daily apple content",
	})
	require.NoError(t, err)

	assert.False(t, res.IsOfficialBrand)
	assert.True(t, res.IsMatrixAccount)
	assert.Equal(t, "Apple", res.BrandName)
}

func TestClassify_SmallBrandOfficialAccepted(t *testing.T) {
	stub := &stubLLM{response: "true|false|false|GetNote AI|0.95|username contains brand name"}
	engine := NewEngine(stub, nil)

	res, err := engine.Classify(context.Background(), model.CreatorRecord{
		UniqueID: "getnoteai",
		Nickname: "GetNote AI",
	})
	require.NoError(t, err)
	assert.True(t, res.IsOfficialBrand)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.IsOfficial("brand_x", "Brand X", "the official account"))
	assert.True(t, p.IsOfficial("support_acct", "x", ""))
	assert.False(t, p.IsOfficial("jane_doe", "Jane", "just vibes"))

	assert.True(t, p.IsMajorTech("Apple"))
	assert.True(t, p.IsMajorTech(" google "))
	assert.False(t, p.IsMajorTech("GetNote AI"))
}
