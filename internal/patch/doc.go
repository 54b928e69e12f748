// Package patch is the hierarchical program model the converter consumes.
//
// A Description is a set of patches keyed by id. Each patch declares nodes,
// connections between node portlets, and the ordered lists of nodes acting
// as its inlet and outlet proxies. A node that instantiates another patch
// carries that patch's id in SubpatchID.
//
// Besides the model itself the package answers two questions about a
// description: which nodes reference a given patch (ReferencesTo), and
// whether the nesting relation is well formed (Validate, Expand).
package patch
