package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindtree-io/mindtree/pkg/cache"
	"github.com/mindtree-io/mindtree/pkg/diagram"
	"github.com/mindtree-io/mindtree/pkg/render/svg"
	"github.com/mindtree-io/mindtree/pkg/server"
	"github.com/mindtree-io/mindtree/pkg/tree"
)

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultCleanupInterval = time.Minute
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string        // listen address
	ttl     time.Duration // diagram expiry
	redis   string        // optional Redis address for the artifact cache
	noCache bool          // disable the artifact cache
	config  string        // optional TOML config path
}

// newServeCmd creates the serve command for hosting clickable diagrams over
// HTTP. An optional file argument pre-registers one diagram at startup.
func newServeCmd() *cobra.Command {
	opts := serveOpts{
		addr: defaultAddr,
		ttl:  server.DefaultTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve clickable mind maps over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runServe(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", opts.ttl, "idle expiry for registered diagrams")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for the artifact cache (e.g. localhost:6379)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered artifact cache")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "path to TOML config file")

	return cmd
}

// serveCache selects the artifact cache backend for the server: Redis when
// an address is given, otherwise the file cache, or the null cache when
// caching is disabled.
func serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redis != "" {
		return cache.NewRedisCache(ctx, opts.redis, os.Getenv("MINDTREE_REDIS_PASSWORD"), 0)
	}
	return newCache(false)
}

// runServe starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func runServe(ctx context.Context, input string, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	c, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	s := server.New(cfg.Engine(),
		server.WithCache(c),
		server.WithLogger(logger),
		server.WithTTL(opts.ttl),
	)
	s.Registry().StartCleanup(ctx, defaultCleanupInterval)

	if input != "" {
		id, err := seedDiagram(s, cfg.Engine(), input)
		if err != nil {
			return err
		}
		printSuccess("Registered %s", input)
		printDetail("http://localhost%s/diagrams/%s.svg", opts.addr, id)
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Infof("Listening on %s", opts.addr)
	printInfo("Serving on %s (POST /diagrams to register a tree)", opts.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// seedDiagram registers a tree file as a diagram before the server accepts
// traffic, so a single-file session needs no POST round trip.
func seedDiagram(s *server.Server, cfg diagram.Config, input string) (string, error) {
	raw, err := os.ReadFile(input)
	if err != nil {
		return "", err
	}
	root, err := tree.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	eng, err := diagram.New(root, cfg, svg.Measurer())
	if err != nil {
		return "", err
	}
	d := s.Registry().Add(eng, cache.Hash(raw))
	return d.ID, nil
}
