package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/salesloom-cli/internal/server"
	"github.com/KaramelBytes/salesloom-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveLoader loaderFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for upload, mapping review and processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		opt, co, err := serveLoader.options(c)
		if err != nil {
			return err
		}
		addr := c.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		log := appLogger()

		store := session.NewStore(session.Settings{MinRows: c.MinRowCount, Coerce: co}, log)
		srv := server.New(server.Options{
			Addr:           addr,
			AllowedOrigins: c.AllowedOrigins,
			MaxUploadBytes: int64(c.MaxUploadMB) << 20,
			SessionTTL:     time.Duration(c.SessionTTLMin) * time.Minute,
			Loader:         opt,
		}, store, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Printf("✓ Serving on %s (Ctrl+C to stop)\n", addr)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config server_addr)")
	serveLoader.register(serveCmd)
}

