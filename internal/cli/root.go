package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgtree/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The logger is attached to each command's context before it runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "svgtree lays out trees as interactive SVG",
		Long:         `svgtree renders hierarchical data as collapsible, keyboard-navigable SVG trees. Layouts update incrementally, so large trees stay responsive in the live preview and the terminal browser.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
