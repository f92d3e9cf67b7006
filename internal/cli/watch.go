package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindtree-io/mindtree/pkg/diagram"
	"github.com/mindtree-io/mindtree/pkg/render/svg"
	"github.com/mindtree-io/mindtree/pkg/tree"
	"github.com/mindtree-io/mindtree/pkg/watcher"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	output string // output SVG path
	config string // optional TOML config path
}

// newWatchCmd creates the watch command, which re-renders the diagram
// whenever the input file changes on disk.
func newWatchCmd() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render the diagram whenever the input file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output SVG file (default: input name with .svg)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "path to TOML config file")

	return cmd
}

// runWatch renders once, then blocks re-rendering on every save until the
// context is cancelled. Editors that save via rename-and-replace are
// handled by the watcher.
func runWatch(ctx context.Context, input string, opts *watchOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}

	renderOnce := func() {
		root, err := tree.LoadFile(input)
		if err != nil {
			logger.Errorf("Reload failed: %v", err)
			printError("%v", err)
			return
		}
		eng, err := diagram.New(root, cfg.Engine(), svg.Measurer())
		if err != nil {
			logger.Errorf("Layout failed: %v", err)
			printError("%v", err)
			return
		}
		data := svg.Render(eng,
			svg.WithFont("sans-serif", cfg.Text.FontSize),
			svg.WithLineHeight(cfg.Text.LineHeight),
		)
		if err := os.WriteFile(output, data, 0o644); err != nil {
			logger.Errorf("Write failed: %v", err)
			printError("%v", err)
			return
		}
		printSuccess("Rendered %d nodes", len(eng.Visible()))
		printFile(output)
	}

	renderOnce()

	w, err := watcher.New(input, watcher.DefaultDebounceDuration, renderOnce)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	printInfo("Watching %s (ctrl+c to stop)", input)
	<-ctx.Done()
	return nil
}
