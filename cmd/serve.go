package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/breedlens/internal/charts"
	"github.com/KaramelBytes/breedlens/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			addr = serveAddr
		}
		if addr == "" {
			addr = ":8501"
		}
		srv, err := web.New(ds, web.Options{
			ChartSize:      charts.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
			ExportFilename: cfg.ExportFilename,
			PageSize:       cfg.TablePageSize,
			ReadTimeout:    time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout:   time.Duration(cfg.WriteTimeoutSec) * time.Second,
		}, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d breeds from %s\n", ds.Len(), ds.Source())
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dashboard at http://%s\n", displayAddr(addr))
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
