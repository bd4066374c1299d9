package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/config"
	"github.com/apiforge/apiforge/pkg/storage"
	"github.com/apiforge/apiforge/utils"
)

func init() {
	Register("report", Report)
}

// Report renders a stored run result in any supported format. With no
// id it lists the stored documents instead.
func Report(_ context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var id string

	var cmd = &cobra.Command{
		Use:     "report",
		Short:   "render a stored run result, or list stored documents",
		Example: `apiforge report --id result_20250101T120000_ab12cd --report-format markdown --report-path report.md`,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := storage.New(logger, conf.StorageDir)
			if err != nil {
				utils.LogError(logger, err, "failed to open storage")
				return nil
			}

			if id == "" {
				entries, err := store.List()
				if err != nil {
					utils.LogError(logger, err, "failed to list stored documents")
					return nil
				}
				table := tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"ID", "KIND", "SAVED AT"})
				table.SetAlignment(tablewriter.ALIGN_LEFT)
				for _, e := range entries {
					table.Append([]string{e.ID, e.Kind, e.SavedAt.Format("2006-01-02 15:04:05")})
				}
				table.Render()
				return nil
			}

			results, err := store.GetResults(id)
			if err != nil {
				utils.LogError(logger, err, "failed to load stored results", zap.String("id", id))
				return nil
			}
			if err := writeReports(logger, conf, results); err != nil {
				utils.LogError(logger, err, "failed to write report")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Id of the stored run result")
	cmd.Flags().StringSlice("report-format", conf.Report.Formats, "Report formats: console, markdown, json, yaml or xlsx")
	cmd.Flags().String("report-path", conf.Report.Path, "Report file, or directory when several formats are requested")

	for key, flag := range map[string]string{
		"report.formats": "report-format",
		"report.path":    "report-path",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			utils.LogError(logger, err, fmt.Sprintf("failed to bind report flag %s", flag))
			return nil
		}
	}

	return cmd
}
