// Package pkg provides the libraries behind svgtree, an incremental SVG
// tree-layout engine.
//
// # Overview
//
// svgtree turns hierarchical data into a nested SVG scene: every node is an
// <svg> element holding its name rect, its link paths, and its children's
// <svg> elements. Nodes collapse, expand, change orientation, and restyle in
// place; after a change only the node and the ancestors whose size actually
// changed are laid out again.
//
// # Architecture
//
// The typical data flow:
//
//	JSON tree data
//	     ↓
//	[io] package (decode, lazy children)
//	     ↓
//	[tree] package (forest of nodes on a [scene] document)
//	     ↓
//	[controller] / [server] (host events → node mutations)
//	     ↓
//	SVG, PNG, PDF, DOT, or layout JSON via [pipeline]
//
// # Quick Start
//
//	data, _ := io.ImportJSON("tree.json")
//	f, _ := tree.NewForest(data, tree.WithTheme(theme.NewService(theme.Dark)))
//	defer f.Close()
//
//	f.Roots()[0].SetCollapsed(true)
//	f.WriteSVG(os.Stdout)
//
// # Main Packages
//
// ## Layout
//
// [tree] - Data model, node registry, the layout state machine of each node,
// forests, selection, and semantic events.
//
// [geometry] and [shape] - Pure sizing and path functions the nodes are
// built from.
//
// [options] and [theme] - Layered style options and the light/dark palette
// service nodes subscribe to.
//
// [scene] - The retained element tree the layout writes into, with SVG
// serialization and weak handle lookup.
//
// [textmeasure] and [fonts] - Text metrics from the embedded Go fonts.
//
// ## Hosting
//
// [controller] - Default interaction policy (select, collapse, navigate).
//
// [server] - Live browser preview over a websocket.
//
// ## Export
//
// [pipeline] - Load → layout → render with artifact caching.
//
// [render] - PNG and PDF conversion; [render/nodelink] for Graphviz output.
//
// [io] - JSON import and layout export.
//
// [cache] - File, Redis, and null artifact caches.
//
// ## Support
//
// [errors] - Coded errors. [observability] - Global instrumentation hooks.
// [buildinfo] - Version information.
package pkg
