package pipeline

import (
	"bytes"
	"os"

	"github.com/matzehuels/svgtree/pkg/errors"
	svgio "github.com/matzehuels/svgtree/pkg/io"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Load reads and decodes the input. It returns the raw bytes too, for
// hashing.
func Load(opts Options) ([]*tree.Data, []byte, error) {
	raw := opts.Data
	if raw == nil {
		var err error
		raw, err = os.ReadFile(opts.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.Input)
			}
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.Input)
		}
	}
	data, err := svgio.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	return data, raw, nil
}

// countNodes counts the evaluated nodes without running producers.
func countNodes(data []*tree.Data) int {
	n := 0
	for _, d := range data {
		n++
		if !d.Pending() {
			n += countNodes(d.Items())
		}
	}
	return n
}
