package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/connmat/internal/server"
	"github.com/matzehuels/connmat/pkg/archive"
	"github.com/matzehuels/connmat/pkg/observability"
)

const defaultAddr = ":8080"

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		maxBody      int64
		cacheBackend string
		redisURL     string
		archiveURI   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve matrix builds over HTTP",
		Long: `Serve accepts edge lists at POST /v1/matrix and returns the connectivity
matrix as CSV (default) or JSON (?format=json). Pass ?zero_diagonal=false to
keep self-pair counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") || cfg.Server.Addr == "" {
				cfg.Server.Addr = addr
			}
			if flags.Changed("cache-backend") {
				cfg.Cache.Backend = cacheBackend
			}
			if flags.Changed("redis-url") {
				cfg.Cache.RedisURL = redisURL
				if cfg.Cache.Backend == "" {
					cfg.Cache.Backend = backendRedis
				}
			}
			if flags.Changed("archive-uri") {
				cfg.Archive.URI = archiveURI
			}
			return c.runServe(cmd.Context(), cfg, maxBody)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	cmd.Flags().StringVar(&cacheBackend, "cache-backend", "", "cache backend: file (default), redis, none")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "redis URL for --cache-backend=redis")
	cmd.Flags().StringVar(&archiveURI, "archive-uri", "", "MongoDB URI to archive every build to")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *Config, maxBody int64) error {
	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	observability.SetHTTPHooks(&logHooks{logger: c.Logger})

	opts := []server.Option{server.WithMaxBodyBytes(maxBody)}
	if cfg.Archive.URI != "" {
		store, err := archive.NewMongoStore(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close(context.WithoutCancel(ctx))
		opts = append(opts, server.WithArchive(store))
	}

	printInfo("Listening on %s", StyleValue.Render(cfg.Server.Addr))
	err = server.New(runner, c.Logger, opts...).ListenAndServe(ctx, cfg.Server.Addr)
	if errors.Is(err, context.Canceled) {
		printInfo("Server stopped")
		return nil
	}
	return err
}
