package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bridges/internal/devserver"
	"github.com/matzehuels/bridges/pkg/config"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local BRIDGES-compatible server",
		Long: `Run a local server that accepts documents the way a BRIDGES server does.

Documents are kept in memory and can be read back with
GET /assignments/{assignment}?username=<user>. Point the client at it with
--server local or --server http://localhost:3000.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := devserver.New(loggerFromContext(cmd.Context()))
			srv.APIKey = apiKey
			if apiKey == "" {
				c.printWarning("No --api-key set: every key is accepted")
			}
			err := srv.ListenAndServe(cmd.Context(), addr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv(config.EnvAPIKey), "required api key (default $"+config.EnvAPIKey+")")

	return cmd
}
