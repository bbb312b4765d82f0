package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Italic(true)
)

func renderAnalysis(resp *model.AnalysisResponse) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", resp.CompanyName, resp.Ticker)))
	b.WriteString("\n")
	if resp.CompetitorName != "" {
		b.WriteString(labelStyle.Render("Competitor: ") + fmt.Sprintf("%s (%s)", resp.CompetitorName, resp.CompetitorTicker) + "\n")
	}
	b.WriteString(sectionStyle.Render(ratios(resp.Ticker, resp.FinancialRatios, resp.YearlySales)))
	b.WriteString("\n\n")
	b.WriteString(resp.Narrative)
	if n := resp.Retrieval.Failed(); n > 0 {
		b.WriteString("\n\n" + mutedStyle.Render(fmt.Sprintf("%d retrieval slots fell back", n)))
	}
	return b.String()
}

func renderProfile(p *model.ProfileResponse) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", p.CompanyName, p.Ticker)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Competitor: ") + fmt.Sprintf("%s (%s)", p.CompetitorName, p.CompetitorTicker) + "\n")
	b.WriteString(sectionStyle.Render(ratios(p.Ticker, p.FinancialRatios, p.YearlySales)))
	b.WriteString("\n")
	if len(p.CompetitorYearlySales) > 0 {
		b.WriteString(sectionStyle.Render(sales("Competitor Yearly Sales", p.CompetitorYearlySales)))
		b.WriteString("\n")
	}
	if p.Overview != "" {
		b.WriteString("\n" + p.Overview + "\n")
	}
	if p.News != "" {
		b.WriteString("\n" + labelStyle.Render("Latest News") + "\n" + p.News + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFirmTicker(ft *model.FirmTicker) string {
	return titleStyle.Render(ft.Ticker) + "  " + ft.CompanyName
}

func ratios(ticker string, r model.FinancialRatios, ys []model.YearlySales) string {
	text := report.FormatRatios(model.FinancialSnapshot{Ticker: ticker, Ratios: r})
	if len(ys) > 0 {
		text += "\n" + sales("Yearly Sales", ys)
	}
	return text
}

func sales(title string, ys []model.YearlySales) string {
	lines := []string{title + ":"}
	for _, y := range ys {
		lines = append(lines, fmt.Sprintf("  %s: %.0f", y.Date, y.Sales))
	}
	return strings.Join(lines, "\n")
}
