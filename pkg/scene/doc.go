// Package scene provides a small retained scene graph for SVG output.
//
// A [Document] creates [Element] values and indexes them by [Handle] so that a
// remote host (a browser over a websocket, a terminal UI) can name the element
// an input event originated from. The index holds weak references: an element
// that has been detached and dropped by its owner disappears from the index
// without any explicit bookkeeping.
//
// Elements keep their attributes, style properties and classes in insertion
// order, so serializing the same graph twice yields byte-identical output.
//
// # Usage
//
//	doc := scene.NewDocument()
//	root := doc.Create(scene.KindSVG)
//	rect := doc.Create(scene.KindRect)
//	rect.SetAttrFloat("width", 40)
//	rect.SetStyle("fill", "white")
//	root.Append(rect)
//
//	svg := scene.Render(root, scene.WithNamespace())
package scene
