package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/stretchr/testify/require"
)

// Sinks lists outgoing edges per outlet, written {nodeID, portlet}.
type Sinks map[int][]dspgraph.Endpoint

// Edges captures every node of g with its outgoing edges. Nodes without
// edges map to an empty Sinks.
func Edges(g *dspgraph.Graph) map[string]Sinks {
	out := make(map[string]Sinks, g.Len())
	for _, n := range g.Nodes() {
		s := Sinks{}
		for outlet, sinks := range n.Sinks {
			if len(sinks) > 0 {
				s[outlet] = sinks
			}
		}
		out[n.ID] = s
	}
	return out
}

// AssertEdges fails the test unless g holds exactly the expected nodes and
// outgoing edges, ignoring the order of sinks on an outlet. It also checks
// that every edge is recorded on both of its ends.
func AssertEdges(t *testing.T, expected map[string]Sinks, g *dspgraph.Graph) {
	t.Helper()
	RequireConsistent(t, g)

	sortEndpoints := cmpopts.SortSlices(func(a, b dspgraph.Endpoint) bool {
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		return a.Portlet < b.Portlet
	})
	if diff := cmp.Diff(expected, Edges(g), sortEndpoints, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("graph edges mismatch (-want +got):\n%s", diff)
	}
}

// RequireConsistent checks that the sources and sinks maps of g mirror
// each other.
func RequireConsistent(t *testing.T, g *dspgraph.Graph) {
	t.Helper()
	count := func(list []dspgraph.Endpoint, e dspgraph.Endpoint) int {
		c := 0
		for _, x := range list {
			if x.Equal(e) {
				c++
			}
		}
		return c
	}

	for _, n := range g.Nodes() {
		for outlet, sinks := range n.Sinks {
			for _, sink := range sinks {
				peer, err := g.Node(sink.NodeID)
				require.NoError(t, err, "sink of %s:%d", n.ID, outlet)
				require.Equal(t, 1, count(peer.Sources[sink.Portlet], dspgraph.Endpoint{NodeID: n.ID, Portlet: outlet}),
					"edge %s:%d -> %s:%d missing on the sink side", n.ID, outlet, sink.NodeID, sink.Portlet)
			}
		}
		for inlet, sources := range n.Sources {
			for _, source := range sources {
				peer, err := g.Node(source.NodeID)
				require.NoError(t, err, "source of %s:%d", n.ID, inlet)
				require.Equal(t, 1, count(peer.Sinks[source.Portlet], dspgraph.Endpoint{NodeID: n.ID, Portlet: inlet}),
					"edge %s:%d -> %s:%d missing on the source side", source.NodeID, source.Portlet, n.ID, inlet)
			}
		}
	}
}
