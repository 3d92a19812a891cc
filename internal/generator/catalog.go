package generator

import "github.com/nao1215/auditflow/internal/model"

// Random draw offsets. Changing any of these changes every report generated
// for every URL, so they are part of the stored-history format.
const (
	offsetPerformance   = 1
	offsetSEO           = 2
	offsetSecurity      = 3
	offsetAccessibility = 4

	offsetFCP         = 12
	offsetLCP         = 13
	offsetCLS         = 14
	offsetTTFB        = 15
	offsetInteraction = 16

	// offsetIssueBase is the offset of the first issue template; the i-th
	// template uses offsetIssueBase+i.
	offsetIssueBase = 20

	offsetUplift         = 30
	offsetLostRevenue    = 31
	offsetMarketPosition = 32
)

// issueInclusionThreshold is the draw an issue template must exceed to be
// included in a report.
const issueInclusionThreshold = 0.4

// scoreRange describes floor(r*span)+base, i.e. values in [base, base+span).
type scoreRange struct {
	offset int
	span   int
	base   int
}

var (
	performanceRange   = scoreRange{offset: offsetPerformance, span: 40, base: 55}
	seoRange           = scoreRange{offset: offsetSEO, span: 30, base: 65}
	securityRange      = scoreRange{offset: offsetSecurity, span: 20, base: 75}
	accessibilityRange = scoreRange{offset: offsetAccessibility, span: 30, base: 60}
)

// techEntry is a catalog technology with its detection rule.
// Entries with alwaysDetected set ignore offset and threshold.
type techEntry struct {
	tech           model.Technology
	offset         int
	threshold      float64
	alwaysDetected bool
}

// techCatalog is the fixed, ordered technology catalog.
var techCatalog = []techEntry{
	{
		tech:      model.Technology{Name: "Next.js", Version: "14.1.0", Status: "Optimal", Category: "Frontend"},
		offset:    5,
		threshold: 0.3,
	},
	{
		tech:           model.Technology{Name: "React", Version: "18.2.0", Status: "Optimal", Category: "Frontend"},
		alwaysDetected: true,
	},
	{
		tech:      model.Technology{Name: "Tailwind CSS", Version: "3.4.1", Status: "Optimal", Category: "CSS"},
		offset:    6,
		threshold: 0.4,
	},
	{
		tech:      model.Technology{Name: "Node.js", Version: "20.11.0", Status: "Current", Category: "Backend"},
		offset:    7,
		threshold: 0.5,
	},
	{
		tech:           model.Technology{Name: "Google Analytics 4", Version: "Latest", Status: "Optimal", Category: "Analytics"},
		alwaysDetected: true,
	},
	{
		tech:      model.Technology{Name: "Vercel", Version: "Edge", Status: "Optimal", Category: "Hosting"},
		offset:    8,
		threshold: 0.4,
	},
	{
		tech:      model.Technology{Name: "Hotjar", Version: "v2", Status: "Optimal", Category: "Analytics"},
		offset:    9,
		threshold: 0.6,
	},
}

// issueCatalog is the fixed, ordered issue template catalog.
var issueCatalog = []model.Issue{
	{
		Priority:         model.PriorityP0,
		Title:            "Serve images in next-gen formats",
		Category:         "Performance",
		Impact:           "High",
		Effort:           "Moderate",
		Description:      "Image formats like WebP and AVIF often provide better compression than PNG or JPEG.",
		EstimatedSaving:  "1.4s load time",
		RemediationSteps: []string{"Configure image CDN", "Use <picture> element", "Convert static assets"},
		CodeSnippet:      `<img src="image.webp" type="image/webp" />`,
	},
	{
		Priority:         model.PriorityP1,
		Title:            "Eliminate render-blocking resources",
		Category:         "Performance",
		Impact:           "High",
		Effort:           "Moderate",
		Description:      "Resources are blocking the first paint of your page.",
		EstimatedSaving:  "0.8s load time",
		RemediationSteps: []string{"Defer non-critical JS", "Inline critical CSS", "Preload key requests"},
		CodeSnippet:      `<script src="script.js"></script>`,
	},
	{
		Priority:         model.PriorityP2,
		Title:            "Missing Meta Descriptions",
		Category:         "SEO",
		Impact:           "Medium",
		Effort:           "Low",
		Description:      "14 pages are missing meta descriptions, affecting CTR.",
		EstimatedSaving:  "+15% Organic CTR",
		RemediationSteps: []string{"Add unique descriptions", "Use 150-160 chars", "Include target keywords"},
		CodeSnippet:      `<meta name="description" content="Your description here">`,
	},
	{
		Priority:         model.PriorityP2,
		Title:            "Security Headers Missing",
		Category:         "Security",
		Impact:           "Medium",
		Effort:           "Low",
		Description:      "HSTS and CSP headers not detected.",
		EstimatedSaving:  "Security Compliance",
		RemediationSteps: []string{"Enable HSTS", "Define CSP policy", "Set X-Frame-Options"},
		CodeSnippet:      `Header always set Strict-Transport-Security "max-age=31536000"`,
	},
	{
		Priority:         model.PriorityP3,
		Title:            "Insufficient Color Contrast",
		Category:         "Accessibility",
		Impact:           "Medium",
		Effort:           "Low",
		Description:      "Text elements do not meet WCAG AA standards.",
		EstimatedSaving:  "ADA Compliance",
		RemediationSteps: []string{"Adjust text colors", "Increase font weight", "Check background opacity"},
		CodeSnippet:      ".text { color: #595959; } /* WCAG AA Compliant */",
	},
}

// cookieCatalog is the fixed cookie list attached to every report.
var cookieCatalog = []model.Cookie{
	{Name: "_ga", Type: "Analytics", Secure: true},
	{Name: "session_id", Type: "Auth", Secure: true},
	{Name: "preference_data", Type: "Functional", Secure: false},
}

// Market position labels.
const (
	marketPositionTop30 = "Top 30%"
	marketPositionTop50 = "Top 50%"
)
