package classify

import "strings"

// Policy supplies the heuristic signals fed into the classification prompt.
// The keyword lists behind the default implementation are demo-quality
// stand-ins, so callers can swap in their own signal source.
type Policy interface {
	// IsOfficial reports whether the profile text carries official-account
	// indicators.
	IsOfficial(handle, nickname, signature string) bool

	// IsMajorTech reports whether the brand belongs to a large company that
	// warrants stricter official-account judgment.
	IsMajorTech(brand string) bool
}

// KeywordPolicy implements Policy with substring matching against fixed
// keyword lists.
type KeywordPolicy struct {
	Indicators []string
	MajorTech  map[string]struct{}
}

// DefaultPolicy returns the stock keyword policy.
func DefaultPolicy() *KeywordPolicy {
	major := map[string]struct{}{}
	for _, name := range []string{
		"apple", "microsoft", "google", "amazon", "facebook", "meta", "samsung",
		"sony", "intel", "nvidia", "ibm", "oracle", "adobe", "salesforce",
		"netflix", "uber", "twitter", "linkedin", "snapchat", "tiktok", "instagram",
	} {
		major[name] = struct{}{}
	}
	return &KeywordPolicy{
		Indicators: []string{
			"official", "verified", "@company.com", "@brand.com",
			"team", "support", "headquarters", "corporate",
		},
		MajorTech: major,
	}
}

func (p *KeywordPolicy) IsOfficial(handle, nickname, signature string) bool {
	combined := strings.ToLower(handle + " " + nickname + " " + signature)
	for _, indicator := range p.Indicators {
		if strings.Contains(combined, indicator) {
			return true
		}
	}
	return false
}

func (p *KeywordPolicy) IsMajorTech(brand string) bool {
	_, ok := p.MajorTech[strings.ToLower(strings.TrimSpace(brand))]
	return ok
}
