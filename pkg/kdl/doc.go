// Package kdl parses KDL-style configuration documents into a tree of
// named nodes with ordered entries, ordered children, and byte-accurate
// source spans.
//
// # Overview
//
// Panemux layouts are written in a node-tree configuration language: each
// line declares a node with a name, optional arguments and key=value
// properties, and an optional brace-delimited block of child nodes. This
// package turns raw text into that tree and nothing more; all semantic
// interpretation (what "pane" or "split_direction" mean) happens in the
// resolver, which consumes the tree as an opaque structure.
//
// # Supported Syntax
//
// The dialect is a practical subset of KDL 1.0:
//
//   - bare identifiers and quoted strings as node names
//   - positional arguments: quoted strings, integers, true/false, null
//   - named properties: key=value with the same value forms
//   - child blocks delimited by { and }
//   - node termination by newline, semicolon, or closing brace
//   - // line comments and /* block */ comments
//
// # Source Spans
//
// Every node, entry, and value records its byte offset and length in the
// original text. The resolver threads these spans into every error it
// reports, enabling caret-style diagnostics against the source document.
//
// # Usage
//
//	doc, err := kdl.Parse(src)
//	if err != nil {
//	    return err // positioned errors.Error with code DOCUMENT_SYNTAX
//	}
//	for _, node := range doc.Nodes {
//	    fmt.Println(node.Name, node.Span.Offset)
//	}
//
// Field access helpers ([Node.Field], [Node.Child], [Node.Strings]) cover
// the lookup patterns the resolver needs: a value supplied either as a
// property on the node's header or as the first argument of a same-named
// child node.
package kdl
