// Package profile fetches creator profile data from the external user-info
// API. Every failure path collapses to ErrNotFound so one bad handle can
// never abort a batch.
package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// ErrNotFound is returned when the profile cannot be fetched for any reason:
// empty or placeholder handle, upstream error code, network failure, or a
// malformed response. Callers treat it as "skip enrichment".
var ErrNotFound = eris.New("profile not found")

// Profile holds the fields the user-info API returns for a creator.
type Profile struct {
	Signature      string
	FollowerCount  int
	FollowingCount int
	VideoCount     int
	AvatarURL      string
}

// Client fetches creator profiles.
type Client interface {
	FetchProfile(ctx context.Context, uniqueID string) (*Profile, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHost overrides the API host header.
func WithHost(host string) Option {
	return func(c *httpClient) {
		c.host = host
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	host    string
	http    *http.Client
}

// NewClient creates a user-info API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey: apiKey,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// userInfoResponse mirrors the scraper service's wire format.
type userInfoResponse struct {
	Code int `json:"code"`
	Data struct {
		User struct {
			Signature   string `json:"signature"`
			AvatarThumb string `json:"avatarThumb"`
		} `json:"user"`
		Stats struct {
			FollowerCount  int `json:"followerCount"`
			FollowingCount int `json:"followingCount"`
			VideoCount     int `json:"videoCount"`
		} `json:"stats"`
	} `json:"data"`
}

func (c *httpClient) FetchProfile(ctx context.Context, uniqueID string) (*Profile, error) {
	if uniqueID == "" || uniqueID == "None" {
		return nil, eris.Wrap(ErrNotFound, "profile: empty unique id")
	}

	endpoint := c.baseURL + "/user/info?unique_id=" + url.QueryEscape(uniqueID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "profile: create request")
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	if c.host != "" {
		req.Header.Set("x-rapidapi-host", c.host)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Warn("profile request failed", zap.String("unique_id", uniqueID), zap.Error(err))
		return nil, eris.Wrapf(ErrNotFound, "profile: request for %s", uniqueID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(ErrNotFound, "profile: read response for %s", uniqueID)
	}

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("profile request returned non-200",
			zap.String("unique_id", uniqueID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, eris.Wrapf(ErrNotFound, "profile: status %d for %s", resp.StatusCode, uniqueID)
	}

	var parsed userInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrapf(ErrNotFound, "profile: unmarshal response for %s", uniqueID)
	}
	if parsed.Code != 0 {
		zap.L().Warn("profile api returned error code",
			zap.String("unique_id", uniqueID),
			zap.Int("code", parsed.Code),
		)
		return nil, eris.Wrapf(ErrNotFound, "profile: api code %d for %s", parsed.Code, uniqueID)
	}

	return &Profile{
		Signature:      parsed.Data.User.Signature,
		FollowerCount:  parsed.Data.Stats.FollowerCount,
		FollowingCount: parsed.Data.Stats.FollowingCount,
		VideoCount:     parsed.Data.Stats.VideoCount,
		AvatarURL:      parsed.Data.User.AvatarThumb,
	}, nil
}
