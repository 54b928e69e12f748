// Package dag holds a small directed graph of string ids with depth-first
// cycle detection. The converter uses it for the patch nesting relation:
// an edge outer -> inner means a node of patch outer instantiates patch
// inner.
package dag
