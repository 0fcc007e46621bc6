// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/savexlabs/arb-engine/business/arbitrage/domain"
	rankingDomain "github.com/savexlabs/arb-engine/business/ranking/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// ConsoleReporter renders scan results for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// Report prints the ranked opportunities and the coverage set summary.
func (r *ConsoleReporter) Report(report *domain.Report, selection *rankingDomain.SelectionResult) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, titleStyle.Render(fmt.Sprintf(
		"Scan %s: %d pools scanned, %d opportunities",
		report.GeneratedAt.Format(time.RFC3339), report.ScannedPools, len(report.Opportunities),
	)))

	if selection != nil {
		fmt.Fprintf(r.out, "%s major=%d stablecoin=%d defi=%d longtail=%d\n",
			labelStyle.Render("coverage:"),
			selection.CountsByCategory[rankingDomain.CategoryMajor],
			selection.CountsByCategory[rankingDomain.CategoryStablecoin],
			selection.CountsByCategory[rankingDomain.CategoryDefi],
			selection.CountsByCategory[rankingDomain.CategoryLongtail],
		)
	}

	if len(report.Opportunities) == 0 {
		fmt.Fprintln(r.out, dimStyle.Render("no opportunities above threshold"))
		return
	}

	fmt.Fprintf(r.out, "%s high=%d medium=%d low=%d\n",
		labelStyle.Render("confidence:"),
		report.Counts[domain.ConfidenceHigh],
		report.Counts[domain.ConfidenceMedium],
		report.Counts[domain.ConfidenceLow],
	)

	for i, opp := range report.Opportunities {
		r.printOpportunity(i+1, opp)
	}
}

func (r *ConsoleReporter) printOpportunity(rank int, opp domain.Opportunity) {
	style := lowStyle
	switch opp.Confidence {
	case domain.ConfidenceHigh:
		style = highStyle
	case domain.ConfidenceMedium:
		style = mediumStyle
	}

	line := fmt.Sprintf("%2d. [%-10s] %-24s %8s%%", rank, opp.Kind, opp.PairName(), opp.ProfitPercent.StringFixed(2))
	fmt.Fprintln(r.out, style.Render(line))

	switch opp.Kind {
	case domain.KindDirect:
		fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf(
			"    pool %s  mainnet %s  external %s  est. profit %s",
			opp.PoolOrPathID,
			opp.MainnetPrice.StringFixed(6),
			opp.ExternalPrice.StringFixed(6),
			opp.EstimatedProfit.StringFixed(2),
		)))
	case domain.KindTriangular:
		fmt.Fprintln(r.out, dimStyle.Render("    path "+opp.PoolOrPathID))
	}
}
