package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/glance/internal/model"
)

// Labelled lines are matched at line start so "Competitor Ticker:" never
// satisfies "Ticker:". Markdown emphasis around the label is tolerated.
var (
	tickerRe           = regexp.MustCompile(`(?m)^[ \t*_\-]*Ticker[*_]*:[*_]*[ \t]*(.+)$`)
	companyNameRe      = regexp.MustCompile(`(?m)^[ \t*_\-]*Company Name[*_]*:[*_]*[ \t]*(.+)$`)
	competitorNameRe   = regexp.MustCompile(`(?m)^[ \t*_\-]*Competitor Name[*_]*:[*_]*[ \t]*(.+)$`)
	competitorTickerRe = regexp.MustCompile(`(?m)^[ \t*_\-]*Competitor Ticker[*_]*:[*_]*[ \t]*(.+)$`)
	symbolRe           = regexp.MustCompile(`^[A-Za-z0-9&^.\-]+$`)
)

// placeholders are answers the model gives when it found nothing.
var placeholders = map[string]bool{
	"unknown":      true,
	"n/a":          true,
	"na":           true,
	"none":         true,
	"null":         true,
	"not found":    true,
	"not-found":    true,
	"not provided": true,
}

// ParseFields reads the labelled lines of an extraction answer into e.
// Missing or placeholder values leave the sentinel in place.
func ParseFields(text string, e *model.Extraction) {
	e.Ticker = ticker(firstGroup(tickerRe, text))
	e.CompanyName = name(firstGroup(companyNameRe, text))
	e.CompetitorName = name(firstGroup(competitorNameRe, text))
	e.CompetitorTicker = ticker(firstGroup(competitorTickerRe, text))
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// name trims decoration from a free-text value.
func name(v string) string {
	v = strings.Trim(strings.TrimSpace(v), "*_`\"'")
	v = strings.TrimSpace(v)
	return orUnknown(v)
}

// ticker keeps the first word of the value and normalizes it to upper case.
func ticker(v string) string {
	v = strings.Trim(strings.TrimSpace(v), "*_`\"'")
	if orUnknown(v) == model.Unknown {
		return model.Unknown
	}
	if f := strings.Fields(v); len(f) > 0 {
		v = strings.TrimRight(f[0], ".,;:)")
	}
	if !symbolRe.MatchString(v) {
		return model.Unknown
	}
	return strings.ToUpper(v)
}

func orUnknown(v string) string {
	if v == "" || strings.HasPrefix(v, "<") || placeholders[strings.ToLower(v)] {
		return model.Unknown
	}
	return v
}
