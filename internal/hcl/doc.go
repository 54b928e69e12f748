// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses `patch` and `node_type` blocks from every .hcl file
// under the given paths and translates them into the format-agnostic
// config.Model.
package hcl
