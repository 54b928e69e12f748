// Package convert turns a patch description into a flat signal-flow graph.
//
// Conversion runs in two passes over one graph. BuildGraph materialises
// every declared node of every patch through the registry, resolves
// connections to global ids, applies the sink builders' reroute hooks and
// makes signal fan-in explicit by inserting a mixer node in front of any
// signal inlet fed by more than one source. FlattenGraph then removes all
// nesting: subpatches are inlined innermost first by splicing the
// connections that go through their inlet and outlet proxies, after which
// the proxies and the instantiation nodes are deleted.
//
// Convert runs both passes after giving every subpatch a single
// instantiation site with patch.Expand.
package convert
