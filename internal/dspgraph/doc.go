// Package dspgraph is the flat graph store that conversion writes into.
//
// A Graph holds nodes keyed by their global identifier. Every node carries
// typed inlet and outlet portlets together with two adjacency maps: Sources
// (inlet -> upstream endpoints) and Sinks (outlet -> downstream endpoints).
// The store keeps the two maps consistent with each other, so a connection
// is always visible from both of its ends.
//
// The graph is owned by a single conversion and is not safe for concurrent
// use.
package dspgraph
