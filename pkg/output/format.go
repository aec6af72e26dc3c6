// Package output provides utilities for formatting and displaying optimization reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/iwvelando/bpo-report/internal/theorem"
	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/format"
	"github.com/iwvelando/bpo-report/pkg/mathutil"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"github.com/iwvelando/bpo-report/pkg/validation"
	"gopkg.in/yaml.v3"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
)

// Write renders the report in the requested format.
func Write(w io.Writer, outputFormat string, report optimization.Report, f *format.Formatter) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	if f == nil {
		f = format.Default()
	}

	switch outputFormat {
	case constants.OutputFormatJSON:
		return writeJSON(w, report)
	case constants.OutputFormatYAML:
		return writeYAML(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report.Summary)
	default:
		return PrettyFormat(w, report, f)
	}
}

// WriteFile writes the report to path, creating parent directories. An empty
// outputFormat is inferred from the file extension.
func WriteFile(path, outputFormat string, report optimization.Report, f *format.Formatter) error {
	if outputFormat == "" {
		outputFormat = FormatFromPath(path)
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if err := Write(file, outputFormat, report, f); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// FormatFromPath maps a file extension to an output format, defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return constants.OutputFormatYAML
	case ".csv":
		return constants.OutputFormatCSV
	case ".txt":
		return constants.OutputFormatPretty
	default:
		return constants.OutputFormatJSON
	}
}

// PrettyFormat outputs a human-readable report with tables for the top
// theorems and the roadmap.
func PrettyFormat(w io.Writer, report optimization.Report, f *format.Formatter) error {
	s := report.Summary
	var b strings.Builder

	title := "BPO Optimization Report"
	if report.ID != "" {
		title += " " + report.ID
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if !report.GeneratedAt.IsZero() {
		writeField(&b, "Generated", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	writeField(&b, "Monthly cost", f.Currency(s.Input.MonthlyCost))
	writeField(&b, "Agents", strconv.Itoa(s.Input.AgentCount))
	writeField(&b, "Calls per month", strconv.Itoa(s.Input.CallsPerMonth))
	writeField(&b, "Total monthly savings", f.Currency(s.TotalSavings))
	writeField(&b, "Annual savings", f.Currency(s.AnnualSavings))
	writeField(&b, "Implementation cost", f.Currency(s.ImplementationCost))
	writeField(&b, "ROI", f.ROI(s.ROIEstimate))
	writeField(&b, "Average efficiency gain", f.Percent(s.AverageEfficiencyGain))

	if len(s.TopResults) > 0 {
		rows := make([][]string, 0, len(s.TopResults))
		for i, r := range s.TopResults {
			share := fmt.Sprintf("%.1f%%", mathutil.CalculatePercentage(r.SavingsAmount, s.TotalSavings))
			rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(r.TheoremID), r.Name, f.Currency(r.SavingsAmount), share, f.Percent(r.EfficiencyGain)})
		}
		writeTable(&b, "Top theorems", []string{"Rank", "ID", "Theorem", "Monthly savings", "Share", "Efficiency"}, rows)
	}

	if len(s.Roadmap) > 0 {
		rows := make([][]string, 0, len(s.Roadmap))
		for _, p := range s.Roadmap {
			rows = append(rows, []string{strconv.Itoa(p.Phase), p.Weeks, p.Focus, p.TheoremName, f.Currency(p.ExpectedSavings), strings.Join(p.Resources, ", ")})
		}
		writeTable(&b, "Implementation roadmap", []string{"Phase", "Weeks", "Focus", "Theorem", "Expected savings", "Resources"}, rows)
	}

	risk := s.RiskAssessment
	if risk != (optimization.RiskAssessment{}) {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Risk assessment"))
		b.WriteString("\n")
		writeField(&b, "Implementation risk", risk.Implementation)
		writeField(&b, "Financial risk", risk.Financial)
		writeField(&b, "Operational risk", risk.Operational)
		writeField(&b, "Mitigation", risk.Mitigation)
	}

	if len(s.SuccessMetrics) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Success metrics"))
		b.WriteString("\n")
		for _, m := range s.SuccessMetrics {
			b.WriteString("  - ")
			b.WriteString(m)
			b.WriteString("\n")
		}
	}

	if len(s.Recommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, r := range s.Recommendations {
			b.WriteString("  - ")
			b.WriteString(r.Message)
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

func writeTable(b *strings.Builder, title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
}

// CsvFormat outputs one row per theorem followed by the summary figures.
func CsvFormat(w io.Writer, s optimization.Summary) error {
	top := make(map[int]int, len(s.TopResults))
	for i, r := range s.TopResults {
		top[r.TheoremID] = i + 1
	}

	cw := csv.NewWriter(w)
	records := [][]string{{"record", "theorem_id", "name", "savings_amount", "efficiency_gain", "top_rank"}}
	for _, r := range s.Results {
		rank := ""
		if n, ok := top[r.TheoremID]; ok {
			rank = strconv.Itoa(n)
		}
		records = append(records, []string{"result", strconv.Itoa(r.TheoremID), r.Name, money(r.SavingsAmount), ratio(r.EfficiencyGain), rank})
	}

	roi := constants.NotAvailable
	if s.ROIEstimate.Defined {
		roi = strconv.FormatFloat(s.ROIEstimate.Months, 'f', 4, 64)
	}
	records = append(records,
		[]string{"total_savings", "", "", money(s.TotalSavings), ratio(s.AverageEfficiencyGain), ""},
		[]string{"annual_savings", "", "", money(s.AnnualSavings), "", ""},
		[]string{"implementation_cost", "", "", money(s.ImplementationCost), "", ""},
		[]string{"roi_months", "", "", roi, "", ""},
	)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// Theorems renders the theorem table in the requested format.
func Theorems(w io.Writer, entries []theorem.Entry, outputFormat string) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	switch outputFormat {
	case constants.OutputFormatJSON:
		return writeJSON(w, entries)
	case constants.OutputFormatYAML:
		return writeYAML(w, entries)
	case constants.OutputFormatCSV:
		cw := csv.NewWriter(w)
		records := [][]string{{"id", "name", "multiplier", "metric", "formula", "application"}}
		for _, e := range entries {
			records = append(records, []string{strconv.Itoa(e.ID), e.Name, ratio(e.Multiplier), e.Metric, e.Formula, e.Application})
		}
		return cw.WriteAll(records)
	default:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{strconv.Itoa(e.ID), e.Name, ratio(e.Multiplier), e.Application})
		}
		var b strings.Builder
		writeTable(&b, "Theorems", []string{"ID", "Theorem", "Multiplier", "Application"}, rows)
		_, err := io.WriteString(w, strings.TrimPrefix(b.String(), "\n"))
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Reports renders a listing of archived reports.
func Reports(w io.Writer, reports []optimization.Report, f *format.Formatter) error {
	rows := make([][]string, 0, len(reports))
	for _, rep := range reports {
		rows = append(rows, []string{
			rep.ID,
			rep.GeneratedAt.UTC().Format("2006-01-02 15:04:05"),
			f.NumericCurrency(rep.Summary.Input.MonthlyCost),
			f.NumericCurrency(rep.Summary.TotalSavings),
			f.ROI(rep.Summary.ROIEstimate),
		})
	}

	var b strings.Builder
	writeTable(&b, fmt.Sprintf("Archived reports (%d)", len(reports)),
		[]string{"Report ID", "Generated", "Monthly cost (" + f.Symbol() + ")", "Total savings (" + f.Symbol() + ")", "ROI"}, rows)
	_, err := io.WriteString(w, b.String())
	return err
}
