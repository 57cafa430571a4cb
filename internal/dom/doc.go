// Package dom holds the node-tree primitives the template engine is built on.
//
// Nodes are *html.Node from golang.org/x/net/html. A detached container
// ("fragment") is a DocumentNode without a parent; its children are the
// top-level nodes of a parsed template or of a materialised view.
//
// Moving nodes always goes through RemoveChild first: x/net/html panics when
// a node that still has a parent is appended elsewhere.
package dom
