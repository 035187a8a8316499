package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/breedlens/internal/config"
	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/table"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set BreedLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", cfg.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", cfg.WriteTimeoutSec)
		fmt.Fprintf(out, "table_page_size: %d\n", cfg.TablePageSize)
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		fmt.Fprintf(out, "export_filename: %s\n", cfg.ExportFilename)
		if len(cfg.ExtraStripRules) > 0 {
			cols := make([]string, 0, len(cfg.ExtraStripRules))
			for k := range cfg.ExtraStripRules {
				cols = append(cols, k)
			}
			sort.Strings(cols)
			for _, k := range cols {
				fmt.Fprintf(out, "extra_strip_rules.%s: %q\n", k, cfg.ExtraStripRules[k])
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Extra strip rules are set per column with the key extra_strip_rules.<column>
and a comma-separated list of substrings, e.g.
  breedlens config set extra_strip_rules.weight " lbs, kg"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		intVal := func(dst *int) error {
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			*dst = i
			return nil
		}
		switch key {
		case "data_path":
			cfg.DataPath = val
		case "delimiter":
			if _, err := table.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "sheet_name":
			cfg.SheetName = val
		case "listen_addr":
			cfg.ListenAddr = val
		case "read_timeout_sec":
			if err := intVal(&cfg.ReadTimeoutSec); err != nil {
				return err
			}
		case "write_timeout_sec":
			if err := intVal(&cfg.WriteTimeoutSec); err != nil {
				return err
			}
		case "table_page_size":
			if err := intVal(&cfg.TablePageSize); err != nil {
				return err
			}
		case "chart_width":
			if err := intVal(&cfg.ChartWidth); err != nil {
				return err
			}
		case "chart_height":
			if err := intVal(&cfg.ChartHeight); err != nil {
				return err
			}
		case "export_filename":
			cfg.ExportFilename = val
		default:
			col, ok := strings.CutPrefix(key, "extra_strip_rules.")
			if !ok || col == "" {
				return fmt.Errorf("unknown key: %s", key)
			}
			var subs []string
			for _, s := range strings.Split(val, ",") {
				if s != "" {
					subs = append(subs, s)
				}
			}
			if _, err := dataset.DefaultStripRules().Merge(map[string][]string{col: subs}); err != nil {
				return err
			}
			if cfg.ExtraStripRules == nil {
				cfg.ExtraStripRules = map[string][]string{}
			}
			cfg.ExtraStripRules[strings.ToLower(col)] = subs
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
