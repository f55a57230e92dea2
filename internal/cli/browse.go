package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgtree/pkg/controller"
	"github.com/matzehuels/svgtree/pkg/theme"
)

type browseOpts struct {
	output     string
	style      string
	theme      string
	keyField   string
	horizontal bool
}

// browseCommand creates the browse command for terminal navigation.
func (c *CLI) browseCommand() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse a tree in the terminal",
		Long: `Browse shows the tree as an outline. Arrow keys move the selection,
Enter or c collapses, v flips the orientation of the selected node, and t
switches the theme. With --output the SVG is rewritten after every change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "SVG file kept in sync with the browser")
	cmd.Flags().StringVar(&opts.style, "options", "", "TOML file with style overrides")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "initial color scheme: light, dark")
	cmd.Flags().StringVar(&opts.keyField, "key-field", "", "data field used as node key")
	cmd.Flags().BoolVar(&opts.horizontal, "horizontal", false, "lay out roots horizontally")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts browseOpts) error {
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

	f, err := runner.Preview(popts)
	if err != nil {
		return err
	}
	defer f.Close()

	ctrl := controller.Attach(f, controller.WithLogger(logger))
	defer ctrl.Detach()

	model := NewBrowseModel(f, themes, opts.output)
	if err := model.write(); err != nil {
		return err
	}
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(BrowseModel); ok && m.Err != nil {
		return m.Err
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}
