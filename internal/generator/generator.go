package generator

import (
	"math"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/auditflow/internal/model"
)

// Generator builds audit reports.
// The zero value is not usable; create one with New.
//
// Design decision: Only the ID and timestamp sources are injectable. Every
// other field is a pure function of the URL, so there is nothing else a test
// would need to control.
type Generator struct {
	// now returns the generation instant.
	now func() time.Time

	// newID returns a fresh report identifier.
	newID func() string

	// printer formats currency amounts with digit grouping.
	printer *message.Printer
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the function used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithIDFunc sets the function used to create report IDs.
func WithIDFunc(newID func() string) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

// New creates a Generator. By default reports are stamped with the current
// UTC time and a random UUID.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:     time.Now,
		newID:   uuid.NewString,
		printer: message.NewPrinter(language.AmericanEnglish),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// defaultGenerator backs the package-level Generate function.
var defaultGenerator = New()

// Generate builds a report for url using the default generator.
func Generate(url string) *model.AuditReport {
	return defaultGenerator.Generate(url)
}

// Generate builds a report for url. It never fails; rejecting blank input is
// the caller's responsibility.
func (g *Generator) Generate(url string) *model.AuditReport {
	seed := Seed(url)
	r := func(offset int) float64 {
		return Rand(seed, offset)
	}

	return &model.AuditReport{
		ID:        g.newID(),
		URL:       url,
		Timestamp: g.now().UTC().Truncate(time.Millisecond),
		Scores:    scores(r),
		Metrics:   metrics(r),
		TechStack: techStack(r),
		Issues:    issues(r),
		Cookies:   cookies(),
		Business:  g.business(r),
	}
}

// Seed returns the sum of the UTF-16 code units of s.
// Characters outside the Basic Multilingual Plane contribute both halves of
// their surrogate pair.
func Seed(s string) int {
	seed := 0
	for _, unit := range utf16.Encode([]rune(s)) {
		seed += int(unit)
	}
	return seed
}

// Rand returns a reproducible value in [0,1) for the given seed and offset.
func Rand(seed, offset int) float64 {
	x := math.Sin(float64(seed+offset)) * 10000
	return x - math.Floor(x)
}

// draw returns floor(r*span)+base.
func (sr scoreRange) draw(r func(int) float64) int {
	return int(math.Floor(r(sr.offset)*float64(sr.span))) + sr.base
}

// scores derives the four category scores and their rounded mean.
func scores(r func(int) float64) model.Scores {
	s := model.Scores{
		Performance:   performanceRange.draw(r),
		SEO:           seoRange.draw(r),
		Security:      securityRange.draw(r),
		Accessibility: accessibilityRange.draw(r),
	}
	sum := s.Performance + s.SEO + s.Security + s.Accessibility
	s.Overall = roundHalfUp(float64(sum) / 4)
	return s
}

// roundHalfUp rounds to the nearest integer with halves rounded toward
// positive infinity, which is how every stored report has been rounded.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// metrics derives the formatted performance timings.
func metrics(r func(int) float64) model.Metrics {
	return model.Metrics{
		FirstContentfulPaint:   fixed(r(offsetFCP)*2.0+0.5, 1) + "s",
		LargestContentfulPaint: fixed(r(offsetLCP)*3.5+1.2, 1) + "s",
		CumulativeLayoutShift:  fixed(r(offsetCLS)*0.15, 3),
		TimeToFirstByte:        strconv.Itoa(int(math.Floor(r(offsetTTFB)*150+20))) + "ms",
		InteractionLatency:     strconv.Itoa(int(math.Floor(r(offsetInteraction)*300+50))) + "ms",
	}
}

// fixed formats v with exactly prec decimals.
func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// techStack returns the detected technologies in catalog order.
func techStack(r func(int) float64) []model.Technology {
	detected := make([]model.Technology, 0, len(techCatalog))
	for _, entry := range techCatalog {
		if entry.alwaysDetected || r(entry.offset) > entry.threshold {
			detected = append(detected, entry.tech)
		}
	}
	return detected
}

// issues returns the included issue templates in catalog order.
// Remediation steps are copied so reports never share backing arrays.
func issues(r func(int) float64) []model.Issue {
	included := make([]model.Issue, 0, len(issueCatalog))
	for i, tmpl := range issueCatalog {
		if r(offsetIssueBase+i) <= issueInclusionThreshold {
			continue
		}
		issue := tmpl
		issue.RemediationSteps = append([]string(nil), tmpl.RemediationSteps...)
		included = append(included, issue)
	}
	return included
}

// cookies returns a copy of the cookie catalog.
func cookies() []model.Cookie {
	return append([]model.Cookie(nil), cookieCatalog...)
}

// business derives the business-impact projection.
func (g *Generator) business(r func(int) float64) model.Business {
	uplift := int(math.Floor(r(offsetUplift)*30)) + 10
	lost := int(math.Floor(r(offsetLostRevenue)*8000)) + 1200

	position := marketPositionTop50
	if r(offsetMarketPosition) > 0.5 {
		position = marketPositionTop30
	}

	return model.Business{
		PotentialUplift: strconv.Itoa(uplift) + "%",
		LostRevenue:     "$" + g.printer.Sprintf("%d", lost) + "/mo",
		MarketPosition:  position,
	}
}
