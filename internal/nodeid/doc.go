// internal/nodeid/doc.go

/*
Package nodeid provides the structured identifiers used for nodes of the flat
graph, based on the canonical format `path`.

The format is a dot-separated sequence of segments, where the final segment may
carry an index, e.g. `n.main.osc` or `m.n.main.dac[0]`. Segment names may
contain any character; `.`, `[`, `]` and `\` are escaped with a backslash so
that two different addresses never render to the same string.

Two namespaces are reserved:

  - `n` for nodes declared in a patch: `n.<patch>.<node>`
  - `m` for mixers synthesized in front of a sink inlet: `m.<sink path>[<inlet>]`
*/
package nodeid
