package pipeline

import (
	"github.com/matzehuels/svgtree/pkg/theme"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Layout builds a forest from data with the options. The forest subscribes to
// its theme service, so the caller must Close it.
func Layout(data []*tree.Data, opts Options) (*tree.Forest, error) {
	scheme, err := theme.ParseScheme(opts.Theme)
	if err != nil {
		return nil, err
	}
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewService(scheme)
	}
	forestOpts := []tree.Option{
		tree.WithKeyField(opts.KeyField),
		tree.WithOptions(opts.Style),
		tree.WithTheme(themes),
		tree.WithVertical(!opts.Horizontal),
	}
	if opts.Logger != nil {
		forestOpts = append(forestOpts, tree.WithLogger(opts.Logger))
	}
	if opts.Measurer != nil {
		forestOpts = append(forestOpts, tree.WithMeasurer(opts.Measurer))
	}
	return tree.NewForest(data, forestOpts...)
}
