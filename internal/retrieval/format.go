package retrieval

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/pkg/google"
)

var printer = message.NewPrinter(language.English)

// FormatSnippets numbers the non-empty snippets from 1 and truncates the
// result to maxChars runes.
func FormatSnippets(items []google.Item, maxChars int) string {
	lines := make([]string, 0, len(items))
	n := 0
	for _, it := range items {
		text := it.Text()
		if text == "" {
			continue
		}
		n++
		lines = append(lines, strconv.Itoa(n)+". "+text)
	}
	return truncate(strings.Join(lines, "\n"), maxChars)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars])
}

// FormatFinancials renders the ratios and yearly sales as labelled lines.
// Missing ratios are shown as not available.
func FormatFinancials(snap model.FinancialSnapshot) string {
	var b strings.Builder
	b.WriteString("Ticker: " + snap.Ticker + "\n")
	for _, r := range snap.Ratios.Named() {
		b.WriteString(r.Label + ": ")
		if v, ok := r.Value(); ok {
			b.WriteString(printer.Sprintf("%.2f", v))
		} else {
			b.WriteString("not available")
		}
		b.WriteByte('\n')
	}
	if len(snap.YearlySales) > 0 {
		b.WriteString("Yearly Sales:\n")
		for _, y := range snap.YearlySales {
			b.WriteString(printer.Sprintf("%s: %.0f\n", y.Date, y.Sales))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
