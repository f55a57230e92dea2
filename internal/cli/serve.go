package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgtree/pkg/buildinfo"
	"github.com/matzehuels/svgtree/pkg/server"
	"github.com/matzehuels/svgtree/pkg/theme"
	"github.com/matzehuels/svgtree/pkg/tree"
)

type serveOpts struct {
	addr       string
	style      string
	theme      string
	keyField   string
	horizontal bool
}

// serveCommand creates the serve command for the live browser preview.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live, interactive preview",
		Long: `Serve lays out the tree and hosts it on a local web page. Clicks select
nodes, right clicks collapse them, and the keyboard navigates. Every change is
pushed to all open pages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from SVGTREE_LISTEN_ADDR)")
	cmd.Flags().StringVar(&opts.style, "options", "", "TOML file with style overrides")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "initial color scheme: light, dark")
	cmd.Flags().StringVar(&opts.keyField, "key-field", "", "data field used as node key")
	cmd.Flags().BoolVar(&opts.horizontal, "horizontal", false, "lay out roots horizontally")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	popts, err := c.pipelineOptions(input, renderOpts{
		style:      opts.style,
		theme:      opts.theme,
		keyField:   opts.keyField,
		horizontal: opts.horizontal,
	})
	if err != nil {
		return err
	}
	scheme, err := theme.ParseScheme(popts.Theme)
	if err != nil {
		return err
	}
	themes := theme.NewService(scheme)
	popts.Themes = themes

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	done := timed(logger)
	f, err := runner.Preview(popts)
	if err != nil {
		return err
	}
	defer f.Close()
	done("Laid out " + input)

	srv := server.New(f, themes,
		server.WithLogger(logger),
		server.WithTitle(filepath.Base(input)),
		server.WithExtendHandler(func(n *tree.Node) {
			logger.Info("extend requested", "key", n.Key(), "name", n.Data().Name)
		}))

	addr := opts.addr
	if addr == "" {
		addr = c.Config.ListenAddr
	}
	printSuccess("Serving %s", input)
	printKeyValue("address", fmt.Sprintf("http://%s", displayAddr(addr)))
	printKeyValue("version", buildinfo.Short())
	return srv.ListenAndServe(ctx, addr)
}

// displayAddr turns a listen address into one a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
