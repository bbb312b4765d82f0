package report

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/glance/internal/model"
)

var printer = message.NewPrinter(language.English)

// section is one heading and the slots printed under it.
type section struct {
	heading string
	slots   []model.Slot
}

// BuildContext renders the retrieval set as the report context block.
// Section order is fixed; every section is present even when all of its
// slots fell back.
func BuildContext(query string, e model.Extraction, set model.RetrievalSet, opts Options) string {
	sections := []section{
		{"### Financials, Balance Sheet, Cash Flow Statement, and P&L Statement", []model.Slot{set.Fundamentals}},
		{"### Information about the Firm and Industry it operates in", set.ByCategory(model.CategoryIndustry)},
		{"### Web research addressing the question", set.ByCategory(model.CategoryQuestion)},
		{"### Extracts providing information about the firm's operations from a document about the firm", set.ByCategory(model.CategoryDocument)},
		{"### Latest News about the firm", set.ByCategory(model.CategoryNews)},
		{printer.Sprintf("### Relevant segments from a fundamental analysis knowledge base (adapted to the %s market, using %s rather than NASDAQ or DJI)", opts.Market, opts.Benchmark), set.ByCategory(model.CategoryKnowledge)},
	}

	var b strings.Builder
	b.WriteString("## Fundamental Analysis Data for " + e.Ticker + "\n")
	for _, s := range sections {
		b.WriteString("\n" + s.heading + "\n")
		b.WriteString(joinSlots(s.slots))
		b.WriteString("\n")
	}
	b.WriteString("\n### User Input\n")
	b.WriteString(query)
	b.WriteString("\n")
	return b.String()
}

func joinSlots(slots []model.Slot) string {
	texts := make([]string, len(slots))
	for i, s := range slots {
		texts[i] = s.Text
	}
	return strings.Join(texts, "\n")
}

// FormatRatios renders the ratios as "Label: value" lines with grouped
// digits. Missing values print as null.
func FormatRatios(snap model.FinancialSnapshot) string {
	lines := []string{"Ticker: " + snap.Ticker}
	for _, r := range snap.Ratios.Named() {
		if v, ok := r.Value(); ok {
			lines = append(lines, printer.Sprintf("%s: %.2f", r.Label, v))
		} else {
			lines = append(lines, r.Label+": null")
		}
	}
	return strings.Join(lines, "\n")
}
