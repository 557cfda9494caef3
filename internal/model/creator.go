// Package model defines the core domain types shared across ingestion,
// classification, and reporting.
package model

// CreatorRecord is the canonical form of one social-media creator row.
// Built by the ingest normalizer, enriched in place from the profile API,
// and treated as immutable once handed to the classification engine.
type CreatorRecord struct {
	UniqueID           string `json:"unique_id"`
	VideoID            string `json:"video_id"`
	Nickname           string `json:"nickname"`
	Signature          string `json:"signature"`
	FollowerCount      int    `json:"follower_count"`
	FollowingCount     int    `json:"following_count"`
	VideoCount         int    `json:"video_count"`
	AvatarURL          string `json:"avatar_url"`
	ContentTitle       string `json:"content_title"`
	ContentDescription string `json:"content_description"`
	CreatedAt          string `json:"created_at"` // YYYY-MM-DD, "" when unknown
}

// ProfileLink returns the public profile URL for the creator's handle.
func (c CreatorRecord) ProfileLink() string {
	return "https://www.tiktok.com/@" + c.UniqueID
}

// ClassificationResult is the engine's verdict for one creator. Exactly one
// of the three label flags is true; malformed or ambiguous model output is
// coerced to the UGC fallback before a result is ever constructed.
//
// Results are never mutated after creation except by the brand resolver,
// which may demote a losing duplicate-brand claim back to UGC.
type ClassificationResult struct {
	Creator           CreatorRecord `json:"creator"`
	IsOfficialBrand   bool          `json:"is_official_brand"`
	IsMatrixAccount   bool          `json:"is_matrix_account"`
	IsUGCCreator      bool          `json:"is_ugc_creator"`
	BrandName         string        `json:"brand_name"`
	Confidence        float64       `json:"confidence"`
	Rationale         string        `json:"rationale"`
	OfficialIndicator bool          `json:"official_indicator"` // heuristic pre-check fed into the prompt
}

// BrandRelated reports whether the result belongs in the brand-related
// report partition: a named brand or an official/matrix label.
func (r *ClassificationResult) BrandRelated() bool {
	return r.BrandName != "" || r.IsOfficialBrand || r.IsMatrixAccount
}
