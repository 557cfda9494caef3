package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/classify"
	"github.com/brandlens/brandlens/internal/model"
	"github.com/brandlens/brandlens/pkg/profile"
)

// scriptedLLM returns a canned response per unique id, extracted from the
// prompt text.
type scriptedLLM struct {
	mu        sync.Mutex
	responses map[string]string
	fallback  string
	errFor    map[string]bool
	calls     int
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	for id, resp := range s.responses {
		if strings.Contains(prompt, "Creator Username: "+id+"\n") {
			return resp, nil
		}
	}
	for id := range s.errFor {
		if strings.Contains(prompt, "Creator Username: "+id+"\n") {
			return "", errors.New("simulated transport failure")
		}
	}
	return s.fallback, nil
}

type stubProfiles struct {
	profiles map[string]*profile.Profile
}

func (s *stubProfiles) FetchProfile(ctx context.Context, uniqueID string) (*profile.Profile, error) {
	if p, ok := s.profiles[uniqueID]; ok {
		return p, nil
	}
	return nil, profile.ErrNotFound
}

func fastConfig() Config {
	return Config{
		BatchSize:   2,
		MaxWorkers:  2,
		SubmitDelay: time.Millisecond,
		RatePerSec:  10_000,
		RateBurst:   100,
	}
}

func creators(ids ...string) []model.CreatorRecord {
	out := make([]model.CreatorRecord, len(ids))
	for i, id := range ids {
		out[i] = model.CreatorRecord{UniqueID: id, Nickname: id}
	}
	return out
}

func TestRun_ClassifiesAllCreators(t *testing.T) {
	llm := &scriptedLLM{
		responses: map[string]string{
			"brand_official": "true|false|false|BrandX|0.95|official account",
			"fan_one":        "false|false|true|None|0.9|no partnership signals",
		},
		fallback: "false|false|true|None|0.8|default",
	}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	results, err := o.Run(context.Background(), creators("brand_official", "fan_one", "fan_two"), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 3, llm.calls)

	byID := map[string]*model.ClassificationResult{}
	for _, r := range results {
		byID[r.Creator.UniqueID] = r
	}
	assert.True(t, byID["brand_official"].IsOfficialBrand)
	assert.Equal(t, "BrandX", byID["brand_official"].BrandName)
	assert.True(t, byID["fan_one"].IsUGCCreator)
}

func TestRun_PerCreatorFailureSkips(t *testing.T) {
	llm := &scriptedLLM{
		errFor:   map[string]bool{"broken": true},
		fallback: "false|false|true|None|0.8|default",
	}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	var logs []string
	var mu sync.Mutex
	logf := func(line string) {
		mu.Lock()
		logs = append(logs, line)
		mu.Unlock()
	}

	results, err := o.Run(context.Background(), creators("ok_one", "broken", "ok_two"), nil, logf)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	mu.Lock()
	defer mu.Unlock()
	joined := fmt.Sprint(logs)
	assert.Contains(t, joined, "Failed to process broken")
}

func TestRun_DuplicateBrandClaimsResolved(t *testing.T) {
	llm := &scriptedLLM{
		responses: map[string]string{
			"brandx_hq":  "true|false|false|BrandX|0.9|official account",
			"brandx_fan": "false|true|false|BrandX|0.9|affiliated account",
		},
	}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	results, err := o.Run(context.Background(), creators("brandx_hq", "brandx_fan"), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	holders := 0
	for _, r := range results {
		if r.BrandName == "BrandX" {
			holders++
			assert.True(t, r.IsOfficialBrand)
			assert.Equal(t, "brandx_hq", r.Creator.UniqueID)
		}
	}
	assert.Equal(t, 1, holders)
}

func TestRun_ProgressReportedPerBatch(t *testing.T) {
	llm := &scriptedLLM{fallback: "false|false|true|None|0.8|default"}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	var mu sync.Mutex
	var updates []Progress
	onProgress := func(p Progress) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	}

	// batch size 2 over 5 creators: 3 batches
	_, err := o.Run(context.Background(), creators("a", "b", "c", "d", "e"), onProgress, nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 3)
	last := updates[len(updates)-1]
	assert.Equal(t, 5, last.Completed)
	assert.Equal(t, 5, last.Total)
	assert.Equal(t, 3, last.Batches)
}

func TestRun_CancelStopsSubmission(t *testing.T) {
	llm := &scriptedLLM{fallback: "false|false|true|None|0.8|default"}
	cfg := fastConfig()
	cfg.SubmitDelay = 50 * time.Millisecond
	o := New(classify.NewEngine(llm, nil), nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := o.Run(ctx, creators("a", "b", "c", "d"), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRun_EnrichmentMergesProfileFields(t *testing.T) {
	llm := &scriptedLLM{fallback: "false|false|true|None|0.8|default"}
	profiles := &stubProfiles{profiles: map[string]*profile.Profile{
		"enriched": {
			Signature:      "bio from the profile api",
			FollowerCount:  4242,
			FollowingCount: 17,
			VideoCount:     99,
			AvatarURL:      "http://cdn/pic.jpg",
		},
	}}
	o := New(classify.NewEngine(llm, nil), profiles, fastConfig())

	results, err := o.Run(context.Background(), creators("enriched", "unknown"), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[string]*model.ClassificationResult{}
	for _, r := range results {
		byID[r.Creator.UniqueID] = r
	}

	enriched := byID["enriched"].Creator
	assert.Equal(t, "bio from the profile api", enriched.Signature)
	assert.Equal(t, 4242, enriched.FollowerCount)
	assert.Equal(t, "http://cdn/pic.jpg", enriched.AvatarURL)

	// failed fetch falls back to the nickname bio
	assert.Equal(t, "Creator: unknown", byID["unknown"].Creator.Signature)
}

func TestRun_EmptyInput(t *testing.T) {
	llm := &scriptedLLM{fallback: "false|false|true|None|0.8|default"}
	o := New(classify.NewEngine(llm, nil), nil, fastConfig())

	results, err := o.Run(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, llm.calls)
}
