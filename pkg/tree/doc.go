// Package tree lays out hierarchical data as nested SVG elements and keeps
// the layout current as the data, the options and the node states change.
//
// Each [Data] node gets one [Node], which owns an <svg> element holding the
// node's rectangle and label, the links to its children, and the children's
// own <svg> elements positioned by x/y attributes. Sizes are computed bottom
// up. A mutation re-lays out the node it touches and then walks towards the
// root only while the size a parent depends on keeps changing, so the cost of
// an update is proportional to the depth of the change rather than the size
// of the tree.
//
// A [Forest] owns a list of root nodes sharing one [Manager], which maps
// identifiers and keys back to live nodes. The forest turns platform input
// events into semantic events and holds the selection state: one active key
// shared by every node with that key, and a hover flag per node.
//
// # Usage
//
//	f, err := tree.NewForest([]*tree.Data{root},
//	    tree.WithMeasurer(textmeasure.NewFaceMeasurer()),
//	    tree.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	f.AddEventListener(tree.EventClick, func(e tree.Event) {
//	    if e.Node != nil {
//	        f.SetActiveNode(e.Node)
//	    }
//	})
//	_ = f.WriteSVG(os.Stdout)
//
// A Forest and its nodes are not safe for concurrent use.
package tree
