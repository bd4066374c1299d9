package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/olekukonko/tablewriter"

	"github.com/apiforge/apiforge/pkg/models"
)

func renderConsole(w io.Writer, results []*models.SuiteResult) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, sr := range results {
		if _, err := fmt.Fprintf(w, "\nSuite: %s\n", sr.SuiteName); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"CASE ID", "TITLE", "METHOD", "ENDPOINT", "STATUS", "TIME (MS)"})
		table.SetBorder(true)
		table.SetRowLine(false)
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, r := range sr.Results {
			status := string(r.Status)
			switch r.Status {
			case models.StatusPassed:
				status = green(status)
			case models.StatusFailed:
				status = red(status)
			case models.StatusError, models.StatusSkipped:
				status = yellow(status)
			}
			table.Append([]string{
				r.CaseID,
				r.CaseTitle,
				r.Method,
				r.Endpoint,
				status,
				fmt.Sprintf("%.1f", r.ResponseTimeMS),
			})
		}
		table.Render()

		line := fmt.Sprintf("total: %d  passed: %d  failed: %d  skipped: %d  errors: %d  pass rate: %.2f%%  time: %.1fms",
			sr.Total, sr.Passed, sr.Failed, sr.Skipped, sr.Error, sr.PassRate, sr.TotalTimeMS)
		if sr.Failed > 0 || sr.Error > 0 {
			line = red(line)
		} else {
			line = green(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PrintGenerationSummary shows what the generator produced, broken
// down by test type and priority.
func PrintGenerationSummary(w io.Writer, suites *models.GeneratedSuites) {
	fmt.Fprintf(w, "\nGenerated %d test cases for %s %s across %d suites\n",
		suites.Summary.TotalCases, suites.APIName, suites.APIVersion, len(suites.Suites))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"SUITE", "CASES"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range suites.Suites {
		table.Append([]string{s.SuiteName, fmt.Sprintf("%d", len(s.TestCases))})
	}
	table.Render()

	byType := tablewriter.NewWriter(w)
	byType.SetHeader([]string{"TEST TYPE", "COUNT"})
	byType.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, t := range []models.TestType{
		models.TypePositive, models.TypeEquivalence, models.TypeBoundary,
		models.TypeErrorGuess, models.TypeSecurity,
	} {
		if n, ok := suites.Summary.ByType[t]; ok {
			byType.Append([]string{string(t), fmt.Sprintf("%d", n)})
		}
	}
	byType.Render()

	byPriority := tablewriter.NewWriter(w)
	byPriority.SetHeader([]string{"PRIORITY", "COUNT"})
	byPriority.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, p := range []models.Priority{
		models.PriorityP0, models.PriorityP1, models.PriorityP2, models.PriorityP3,
	} {
		if n, ok := suites.Summary.ByPriority[p]; ok {
			byPriority.Append([]string{string(p), fmt.Sprintf("%d", n)})
		}
	}
	byPriority.Render()
}

// DumpVerbose pretty prints the full result structures, used by the
// --verbose flag of the run command.
func DumpVerbose(w io.Writer, results []*models.SuiteResult) {
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetExportedOnly(true)
	for _, sr := range results {
		printer.Println(sr)
	}
}
