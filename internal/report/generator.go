// Package report renders dry-run import reports for the terminal or for tools.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted values of the report format option.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Generator renders ImportReports.
type Generator struct {
	logger logging.Logger
	// ShowRecords adds the extracted records to text output.
	ShowRecords bool
}

// NewGenerator creates a Generator. A nil logger falls back to the default logger.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{
		logger:      logging.OrDefault(logger).WithField("component", "ReportGenerator"),
		ShowRecords: true,
	}
}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Write renders report to w in the given format. Text output is styled only
// when w is a terminal.
func (g *Generator) Write(w io.Writer, report models.ImportReport, format string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatText, "":
		out = []byte(g.renderText(lipgloss.NewRenderer(w), report))
	case FormatJSON:
		out, err = g.generateJSON(report)
	case FormatYAML:
		out, err = g.generateYAML(report)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Generate renders report into a byte slice.
func (g *Generator) Generate(report models.ImportReport, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, report, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// document is the machine-readable shape of a report.
type document struct {
	Status  models.ReportStatus `json:"status" yaml:"status"`
	Title   string              `json:"title" yaml:"title"`
	Summary string              `json:"summary" yaml:"summary"`
	models.ImportReport `yaml:",inline"`
}

func newDocument(report models.ImportReport) document {
	if report.Diagnostics == nil {
		report.Diagnostics = []string{}
	}
	return document{
		Status:       report.Status(),
		Title:        report.Title(),
		Summary:      report.Summary(),
		ImportReport: report,
	}
}

func (g *Generator) generateJSON(report models.ImportReport) ([]byte, error) {
	out, err := json.MarshalIndent(newDocument(report), "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(report models.ImportReport) ([]byte, error) {
	out, err := yaml.Marshal(newDocument(report))
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func (g *Generator) renderText(r *lipgloss.Renderer, report models.ImportReport) string {
	titleStyle := r.NewStyle().Bold(true)
	switch report.Status() {
	case models.ReportSuccess:
		titleStyle = titleStyle.Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	case models.ReportFailed:
		titleStyle = titleStyle.Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	default:
		titleStyle = titleStyle.Foreground(lipgloss.AdaptiveColor{Light: "#FFAF00", Dark: "#FFAF00"})
	}
	diagStyle := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})

	var b strings.Builder
	b.WriteString(titleStyle.Render(report.Title()))
	b.WriteString("\n")
	if report.SourceName != "" {
		fmt.Fprintf(&b, "File: %s\n", report.SourceName)
	}
	b.WriteString(report.Summary())
	b.WriteString("\n")

	if len(report.Diagnostics) > 0 {
		b.WriteString("\nDiagnostics:\n")
		for _, d := range report.Diagnostics {
			b.WriteString(diagStyle.Render("  " + d))
			b.WriteString("\n")
		}
	}

	if g.ShowRecords && len(report.Records) > 0 {
		b.WriteString("\n")
		b.WriteString(recordsTable(r, report.Records))
		b.WriteString("\n")
	}
	return b.String()
}

func recordsTable(r *lipgloss.Renderer, records []models.TransactionRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle()).
		Headers("Date", "Label", "Partner", "Amount", "Currency", "Foreign Amount")
	for _, rec := range records {
		foreign := ""
		if rec.HasForeignCurrency() {
			foreign = rec.ForeignAmount.StringFixed(2)
		}
		t.Row(
			rec.Date.Format("2006-01-02"),
			rec.PaymentRef,
			rec.PartnerRef,
			rec.Amount.StringFixed(2),
			rec.ForeignCurrencyRef,
			foreign,
		)
	}
	return t.String()
}
