package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/config"
	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/server"
	"github.com/matzehuels/seqgrid/pkg/storage"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Clients POST segment lists to /layouts and query the stored plans for
their level table, segment spacing and the pixel of any position. Plans are
kept in memory, or in MongoDB with --storage mongo (see storage.mongo_uri
in the config file).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("storage") {
				cfg.Storage.Backend = backend
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	d := config.Default()
	cmd.Flags().StringVar(&addr, "addr", d.Server.Addr, "listen address")
	cmd.Flags().StringVar(&backend, "storage", d.Storage.Backend, "layout storage: memory, mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner, store, server.Config{
		Addr:           cfg.Server.Addr,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Logger:         logger,
	})
	printInfo("Serving on %s %s", StyleLink.Render(listenURL(cfg.Server.Addr)), StyleDim.Render("("+cfg.Storage.Backend+" storage)"))
	return srv.ListenAndServe(ctx)
}

// openStore connects the configured storage backend.
func openStore(ctx context.Context, cfg config.Storage) (storage.Store, error) {
	switch cfg.Backend {
	case config.StorageMemory, "":
		return storage.NewMemoryStore(), nil
	case config.StorageMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "storage.mongo_uri is required for the mongo backend")
		}
		s, err := storage.NewMongoStore(ctx, storage.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.Database,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q (must be memory or mongo)", cfg.Backend)
}

// listenURL turns a listen address into a URL for display.
func listenURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
