// Package io reads tree data from JSON and writes tree data and computed
// layouts back out.
//
// # Data Format
//
// A document is either a single node object (one tree) or an array of node
// objects (a forest):
//
//	{
//	  "name": "app",
//	  "path": "/app",
//	  "outSelfShape": "diamond",
//	  "children": [
//	    {"name": "lib-a", "path": "/app/lib-a"},
//	    {"name": "lib-b", "lazy": true, "children": [{"name": "deep"}]}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - name: Label drawn inside the node rectangle
//
// Optional:
//   - children: Array of child nodes
//   - lazy: Keep the children pending until the node is first expanded; the
//     node starts collapsed
//   - extensible: Draw the "+" affordance after the children
//   - color, backgroundColor, outColor, outSelfFill: Style overrides
//   - dashArray: Stroke dash pattern for the node's links, a string ("4 2")
//     or a single number (4)
//   - outSelfShape: Marker below the node ("arrow", "circle", "diamond",
//     "triangle" or "none")
//   - inChildrenShape, inChildrenFill: Per-child markers at the link ends
//
// Every other property is kept in [tree.Data.Fields], where the key field
// (usually "path") is read from. Numbers are kept as [json.Number] so large
// integers survive as keys.
//
// # Layout Export
//
// [LayoutOf] flattens a laid-out forest into absolute coordinates, one entry
// per node, for tools that want positions without parsing SVG. [WriteLayout]
// and [ExportLayout] encode it as JSON.
package io
