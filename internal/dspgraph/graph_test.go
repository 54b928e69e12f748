package dspgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sig(id int) Portlet { return Portlet{ID: id, Kind: Signal} }
func msg(id int) Portlet { return Portlet{ID: id, Kind: Message} }

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	require.NoError(t, g.AddNode(NewNode("osc", "osc~", nil, []Portlet{sig(0), msg(1)}, []Portlet{sig(0)})))
	require.NoError(t, g.AddNode(NewNode("gain", "*~", nil, []Portlet{sig(0), sig(1)}, []Portlet{sig(0)})))
	require.NoError(t, g.AddNode(NewNode("dac", "dac~", nil, []Portlet{sig(0)}, nil)))
	return g
}

func TestAddNode(t *testing.T) {
	g := newTestGraph(t)
	assert.Equal(t, 3, g.Len())

	err := g.AddNode(NewNode("osc", "osc~", nil, nil, nil))
	require.ErrorIs(t, err, ErrNodeExists)
	assert.ErrorContains(t, err, "osc")

	ids := []string{}
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"osc", "gain", "dac"}, ids)
}

func TestNode(t *testing.T) {
	g := newTestGraph(t)

	n, err := g.Node("gain")
	require.NoError(t, err)
	assert.Equal(t, "*~", n.Type)

	_, err = g.Node("missing")
	require.ErrorIs(t, err, ErrNodeNotFound)
	assert.ErrorContains(t, err, "missing")
	assert.False(t, g.Has("missing"))
}

func TestConnect(t *testing.T) {
	t.Run("records both directions", func(t *testing.T) {
		// --- Arrange ---
		g := newTestGraph(t)

		// --- Act ---
		require.NoError(t, g.Connect(Endpoint{"osc", 0}, Endpoint{"gain", 0}))

		// --- Assert ---
		sinks, err := g.Sinks("osc", 0)
		require.NoError(t, err)
		assert.Equal(t, []Endpoint{{"gain", 0}}, sinks)

		sources, err := g.Sources("gain", 0)
		require.NoError(t, err)
		assert.Equal(t, []Endpoint{{"osc", 0}}, sources)
	})

	t.Run("is idempotent", func(t *testing.T) {
		g := newTestGraph(t)
		require.NoError(t, g.Connect(Endpoint{"osc", 0}, Endpoint{"gain", 0}))
		require.NoError(t, g.Connect(Endpoint{"osc", 0}, Endpoint{"gain", 0}))

		sinks, _ := g.Sinks("osc", 0)
		sources, _ := g.Sources("gain", 0)
		assert.Len(t, sinks, 1)
		assert.Len(t, sources, 1)
	})

	t.Run("error cases", func(t *testing.T) {
		testCases := []struct {
			name   string
			source Endpoint
			sink   Endpoint
			target error
		}{
			{"missing source node", Endpoint{"nope", 0}, Endpoint{"gain", 0}, ErrNodeNotFound},
			{"missing sink node", Endpoint{"osc", 0}, Endpoint{"nope", 0}, ErrNodeNotFound},
			{"missing outlet", Endpoint{"osc", 3}, Endpoint{"gain", 0}, ErrPortletNotFound},
			{"missing inlet", Endpoint{"osc", 0}, Endpoint{"gain", 7}, ErrPortletNotFound},
			{"sink node has no inlets", Endpoint{"dac", 0}, Endpoint{"gain", 0}, ErrPortletNotFound},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				g := newTestGraph(t)
				err := g.Connect(tc.source, tc.sink)
				assert.ErrorIs(t, err, tc.target)
			})
		}
	})
}

func TestSourcesReturnsCopy(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.Connect(Endpoint{"osc", 0}, Endpoint{"gain", 0}))

	sources, err := g.Sources("gain", 0)
	require.NoError(t, err)
	sources[0] = Endpoint{"changed", 9}

	again, _ := g.Sources("gain", 0)
	assert.Equal(t, []Endpoint{{"osc", 0}}, again)
}

func TestDeleteNode(t *testing.T) {
	// --- Arrange ---
	g := newTestGraph(t)
	require.NoError(t, g.Connect(Endpoint{"osc", 0}, Endpoint{"gain", 0}))
	require.NoError(t, g.Connect(Endpoint{"osc", 0}, Endpoint{"dac", 0}))
	require.NoError(t, g.Connect(Endpoint{"gain", 0}, Endpoint{"dac", 0}))

	// --- Act ---
	require.NoError(t, g.DeleteNode("gain"))

	// --- Assert ---
	assert.False(t, g.Has("gain"))
	assert.Equal(t, 2, g.Len())

	osc, _ := g.Node("osc")
	dac, _ := g.Node("dac")
	want := map[int][]Endpoint{0: {{"dac", 0}}}
	if diff := cmp.Diff(want, osc.Sinks); diff != "" {
		t.Errorf("osc sinks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int][]Endpoint{0: {{"osc", 0}}}, dac.Sources); diff != "" {
		t.Errorf("dac sources mismatch (-want +got):\n%s", diff)
	}

	err := g.DeleteNode("gain")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestEndpointEqual(t *testing.T) {
	assert.True(t, Endpoint{"a", 1}.Equal(Endpoint{"a", 1}))
	assert.False(t, Endpoint{"a", 1}.Equal(Endpoint{"a", 2}))
	assert.False(t, Endpoint{"a", 1}.Equal(Endpoint{"b", 1}))
}
