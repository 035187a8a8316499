package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/breedlens/internal/export"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

var (
	expFilters    filterFlags
	expOutputPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered records as CSV",
	Long: `Write the filtered records as CSV with a header row. Missing measurements are
written as empty fields. Without --output the CSV goes to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		c, err := expFilters.criteria(ds)
		if err != nil {
			return err
		}
		recs := filter.Apply(ds, c).Records()
		if expOutputPath == "" {
			return export.WriteCSV(cmd.OutOrStdout(), recs)
		}
		if err := export.WriteFile(expOutputPath, recs); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logger.Debug("Exported records", zap.String("path", expOutputPath), zap.Int("records", len(recs)))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d of %d record(s) to %s\n", len(recs), ds.Len(), expOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	expFilters.register(exportCmd.Flags())
	exportCmd.Flags().StringVarP(&expOutputPath, "output", "o", "", "CSV path (e.g. "+export.DefaultFilename+"); stdout if omitted")
}
