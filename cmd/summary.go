package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/breedlens/internal/analysis"
	"github.com/KaramelBytes/breedlens/internal/filter"
	"github.com/KaramelBytes/breedlens/internal/utils"
)

var (
	sumFilters    filterFlags
	sumOutputPath string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the cleaned dataset, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		c, err := sumFilters.criteria(ds)
		if err != nil {
			return err
		}
		view := filter.Apply(ds, c)
		md := analysis.Describe(ds.Source(), ds.Len(), view.Records()).Markdown()

		if sumOutputPath != "" {
			if err := utils.SafeWriteFile(sumOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	sumFilters.register(summaryCmd.Flags())
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
}
