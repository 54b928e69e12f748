// Package config defines the format-agnostic input model for the
// application, along with the Loader interface that concrete formats
// implement.
//
// A Model carries the patch description to convert and any node-type
// manifests that extend the built-in node builders. Loaders for a specific
// syntax, such as HCL, live in their own packages.
package config
