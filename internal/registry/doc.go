// Package registry maps node type names to the builders that materialise
// them in the flat graph.
//
// Builders come from two places. Compiled-in modules implement Module and
// register Go functions directly. Node-type manifests loaded from
// configuration are turned into generic builders by RegisterManifest, after
// ValidateManifests has checked them.
package registry
