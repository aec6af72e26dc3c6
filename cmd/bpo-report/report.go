package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"github.com/iwvelando/bpo-report/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	monthlyCost   float64
	agentCount    int
	callsPerMonth int
	outPath       string
	listLimit     int
	demoTickets   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a savings report",
	Long: `Generates a savings report for the given operation. Any of the input
flags left unset falls back to the configured business case.

Examples:
  bpo-report report --monthly-cost 1000000 --agents 50 --calls 12000
  bpo-report report --monthly-cost 1000000 --out reports/latest.yaml`,
	RunE: runReport,
}

var businessCaseCmd = &cobra.Command{
	Use:   "business-case",
	Short: "Print the configured business case report",
	RunE:  runBusinessCase,
}

var theoremsCmd = &cobra.Command{
	Use:   "theorems",
	Short: "Print the theorem table",
	RunE:  runTheorems,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List archived reports, newest first",
	RunE:  runReports,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print the synthetic ticket dataset summary and volume trend",
	RunE:  runDemo,
}

func init() {
	reportCmd.Flags().Float64Var(&monthlyCost, "monthly-cost", 0, "monthly operating cost")
	reportCmd.Flags().IntVar(&agentCount, "agents", 0, "number of agents")
	reportCmd.Flags().IntVar(&callsPerMonth, "calls", 0, "calls handled per month")
	reportCmd.Flags().StringVar(&outPath, "out", "", "write the report to this file instead of stdout")

	businessCaseCmd.Flags().StringVar(&outPath, "out", "", "write the report to this file instead of stdout")

	reportsCmd.Flags().IntVar(&listLimit, "limit", constants.DefaultListLimit, "maximum number of reports to list")

	demoCmd.Flags().IntVar(&demoTickets, "tickets", 0, "also print up to this many tickets")
}

func runReport(cmd *cobra.Command, args []string) error {
	in := conf.BusinessCase.Input()
	if cmd.Flags().Changed("monthly-cost") {
		in.MonthlyCost = monthlyCost
	}
	if cmd.Flags().Changed("agents") {
		in.AgentCount = agentCount
	}
	if cmd.Flags().Changed("calls") {
		in.CallsPerMonth = callsPerMonth
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Optimize(cmd.Context(), in)
	if err != nil {
		return err
	}
	rep.Summary = a.Present(rep.Summary)

	logger.Debug("report generated",
		zap.String("op", "main.runReport"),
		zap.String("reportID", rep.ID),
		zap.Float64("totalSavings", rep.Summary.TotalSavings),
	)

	return emitReport(cmd, rep)
}

func runBusinessCase(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return emitReport(cmd, optimization.Report{Summary: a.Present(a.BusinessCase())})
}

// emitReport writes to --out when given, otherwise to stdout.
func emitReport(cmd *cobra.Command, rep optimization.Report) error {
	f, err := conf.Formatter()
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := output.WriteFile(outPath, outputFormat, rep, f); err != nil {
			return err
		}
		logger.Info("report written",
			zap.String("op", "main.emitReport"),
			zap.String("path", outPath),
		)
		return nil
	}

	format, err := resolveOutputFormat()
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), format, rep, f)
}

func runTheorems(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return output.Theorems(cmd.OutOrStdout(), a.Theorems(), format)
}

func runReports(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	reports, err := a.Reports(cmd.Context(), listLimit)
	if err != nil {
		return err
	}

	return output.Reports(cmd.OutOrStdout(), reports, a.Formatter())
}

func runDemo(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	trend, volume, err := a.DemoTrend()
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"agents":       len(a.DemoAgents()),
		"by_status":    a.DemoTicketsByStatus(),
		"trend":        trend,
		"daily_volume": volume,
	}
	if demoTickets > 0 {
		payload["tickets"] = a.DemoTickets(demoTickets)
	}

	format := outputFormat
	if format == "" {
		format = constants.OutputFormatJSON
	}
	return writeData(cmd.OutOrStdout(), format, payload)
}

// writeData renders structured data; only the json and yaml formats apply.
func writeData(w io.Writer, format string, v interface{}) error {
	switch format {
	case constants.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case constants.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("output format %q is not supported here, use json or yaml", format)
	}
}
