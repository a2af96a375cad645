package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/flightform/internal/server"
	"github.com/oakwood-commons/flightform/pkg/airports"
	"github.com/oakwood-commons/flightform/pkg/logger"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the airport dataset over HTTP at " + server.PathAirports,
		Long: "serve publishes the configured airport dataset as JSON at " + server.PathAirports + ",\n" +
			"with a health probe at " + server.PathHealth + " and suggestions at " + server.PathSuggest + "?q=QUERY.\n" +
			"The listen address defaults to :$PORT, or :8080 when PORT is unset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				if port := os.Getenv("PORT"); port != "" {
					addr = ":" + port
				}
			}
			src, err := airports.ParseSource(root.run.AirportsSource)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ds := airports.NewDataset()
			loadCtx := ctx
			if t := root.cfg.Airports.Timeout; t > 0 {
				var cancel context.CancelFunc
				loadCtx, cancel = context.WithTimeout(ctx, t)
				defer cancel()
			}
			ds.LoadAsync(loadCtx, src)

			logger.FromContext(ctx).Info("serving airport data", logger.SourceKey, src.String())
			return server.New(ctx, ds).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
