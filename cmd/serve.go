package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/malfinder/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MALFinder web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := buildRanker(cmd.Context())
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}
		srv := server.New(r, newComposer(), server.Options{TopN: cfg.TopN, DisplayRows: cfg.DisplayRows})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start(addr) }()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving %d titles on %s\n", r.Catalog().Len(), addr)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config serve_addr)")
}
