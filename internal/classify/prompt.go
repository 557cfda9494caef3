package classify

import "fmt"

// promptTemplate is the classification contract. The six-pipe response
// format is load-bearing: canned fixtures and the parser both depend on it,
// so any provider swap must keep it byte-for-byte.
const promptTemplate = `Analyze the following TikTok creator profile and classify them into ONE of these three categories:

Creator Username: %s
Display Name: %s
Bio/Signature: %s
Is Official Account: %t
Content Context: %s

CLASSIFICATION CATEGORIES:

1. OFFICIAL_BRAND: Official brand/company accounts or primary promotional accounts
   - Username contains the brand/product name (e.g., @appname, @brandname, @productname)
   - Bio directly promotes their own product/service with app store links, download calls
   - Clear company branding and product ownership
   - Primary account representing the brand/product
   - Examples: @getnoteai, @ainotebook_app, @quizard.ai, @notabilityapp, @appleofficial

2. MATRIX_ACCOUNT: Creator profiles with clear connection to a specific brand
   - Profile has obvious brand links, descriptions, partnerships with ONE specific brand
   - Bio mentions working for/with a specific company or brand
   - Clear affiliation or employment with a particular brand shown in profile
   - Consistent promotion of a single brand across content
   - Examples: "Apple employee", "Brand ambassador for Nike", "Working at Tesla"

3. UGC_CREATOR: Only creators with clear brand partnership signals
   - Look for these SPECIFIC SIGNALS of brand partnerships:
     * Brand mentions/tags in content or bio
     * Use of #ad, #sponsored, #partner tags
     * Disclosure of partnerships or sponsorships
     * Bio links to brand/store (Shopify, LTK, etc.)
     * Discount codes or affiliate links mentioned
     * Call-to-actions encouraging purchases ("Use my code X")
     * Consistent posting about same brand/products with commercial intent
   - Examples: @brandnat with #tldvpartner, creators with discount codes, affiliate marketers
   - IMPORTANT: Only assign brand name if clear partnership signals exist

CRITICAL CLASSIFICATION RULES:
1. If the USERNAME contains a product/brand name AND the bio promotes that same product → OFFICIAL_BRAND
2. If profile clearly shows connection to ONE specific brand (but not official account) → MATRIX_ACCOUNT
3. For UGC_CREATOR: ONLY assign brand name if clear partnership signals exist (tags, codes, sponsorship disclosure)
4. Content creators who just review/mention products WITHOUT partnership signals should be UGC_CREATOR with NO brand name
5. For major tech companies (Apple, Google, etc.), be strict about "official" indicators for OFFICIAL_BRAND
6. For smaller apps/products, if username = product name → OFFICIAL_BRAND
7. Only ONE category should be True, others must be False

Please respond with EXACTLY 6 values separated by pipes (|):

1. OFFICIAL_BRAND [True/False]
2. MATRIX_ACCOUNT [True/False]
3. UGC_CREATOR [True/False]
4. Brand Name [Specific brand name or "None"] - ONLY provide brand name if clear partnership signals exist
5. Confidence Score [0.0-1.0] - How confident are you in this classification?
6. Analysis Details [Brief explanation] - Explain your classification reasoning and any partnership signals found

Examples:
- True|False|False|GetNote AI|0.95|Username contains brand name 'getnoteai' and bio promotes GetNote AI app
- True|False|False|AI Notebook App|0.90|Username is 'ainotebook_app' directly promoting their own product
- False|True|False|tldv.io|0.85|Bio shows clear partnership with tldv.io through #tldvpartner tag
- False|False|True|Nike|0.80|Profile shows #nikeambassador and discount codes for Nike products
- False|False|True|None|0.90|General tech reviewer with no clear brand partnership signals or sponsorship disclosure

Format: True|False|False|BrandName|0.9|Brief explanation`

// buildPrompt interpolates one creator into the template.
func buildPrompt(handle, nickname, signature string, isOfficial bool, context string) string {
	return fmt.Sprintf(promptTemplate, handle, nickname, signature, isOfficial, context)
}
