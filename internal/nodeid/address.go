// internal/nodeid/address.go
package nodeid

import (
	"reflect"
	"strconv"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('.')
		}
		writeEscaped(&sb, segment.Name)
		if segment.HasIndex() {
			sb.WriteRune('[')
			sb.WriteString(strconv.Itoa(segment.Index))
			sb.WriteRune(']')
		}
	}

	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return reflect.DeepEqual(a.Path, other.Path)
}

// Namespace returns the name of the first path segment.
func (a *Address) Namespace() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[0].Name
}

// ForPatchNode builds the address of a node declared in a patch.
func ForPatchNode(patchID, nodeID string) *Address {
	return &Address{Path: []PathSegment{
		NewPathSegment(PatchNamespace),
		NewPathSegment(patchID),
		NewPathSegment(nodeID),
	}}
}

// PatchNodeID is the string form of ForPatchNode.
func PatchNodeID(patchID, nodeID string) string {
	return ForPatchNode(patchID, nodeID).String()
}

// ForMixer builds the address of the mixer feeding the given sink inlet.
// The sink path is kept whole and the inlet becomes the final index.
func ForMixer(sink *Address, inlet int) *Address {
	path := make([]PathSegment, 0, len(sink.Path)+2)
	path = append(path, NewPathSegment(MixerNamespace))
	path = append(path, sink.Path...)

	last := &path[len(path)-1]
	if len(sink.Path) == 0 || last.HasIndex() {
		path = append(path, NewPathSegmentWithIndex("inlet", inlet))
	} else {
		last.Index = inlet
	}
	return &Address{Path: path}
}

// MixerID derives the mixer identifier for a sink node id and inlet. Ids that
// do not parse as addresses are treated as a single opaque segment.
func MixerID(sinkID string, inlet int) string {
	sink, err := Parse(sinkID)
	if err != nil {
		sink = &Address{Path: []PathSegment{NewPathSegment(sinkID)}}
	}
	return ForMixer(sink, inlet).String()
}

func writeEscaped(sb *strings.Builder, name string) {
	for _, r := range name {
		switch r {
		case '\\', '.', '[', ']':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
}
