package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/breedlens/internal/filter"
)

var compareCmd = &cobra.Command{
	Use:   "compare <breed> <breed>",
	Short: "Show two breeds side by side",
	Long:  `Show two breeds side by side. Filters do not apply; both breeds are looked up in the full dataset.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		view, err := filter.Compare(ds, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		found := map[string]bool{}
		fmt.Fprintf(out, "%-28s %-14s %8s %8s %8s\n", "Breed", "Breed Group", "Height", "Weight", "Life")
		for i := 0; i < view.Len(); i++ {
			r := view.At(i)
			found[r.Breed] = true
			fmt.Fprintf(out, "%-28s %-14s %8s %8s %8s\n", r.Breed, r.BreedGroup,
				orDash(r.Height.String()), orDash(r.Weight.String()), orDash(r.LifeExpectancy.String()))
		}
		for _, b := range args {
			if !found[b] {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: breed not found: %s\n", b)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
