package convert

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/patchgraph/internal/ctxlog"
	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/nodeid"
	"github.com/specialistvlad/patchgraph/internal/patch"
	"github.com/specialistvlad/patchgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// buildGraph materialises every patch's nodes, then its connections.
func (c *compilation) buildGraph(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("BuildGraph: Starting graph construction.", "patches", len(c.desc.Patches))

	for _, patchID := range c.desc.PatchIDs() {
		p := c.desc.Patches[patchID]

		for _, nodeID := range p.NodeIDs() {
			if _, err := c.buildNode(p, p.Nodes[nodeID], nodeid.PatchNodeID(p.ID, nodeID)); err != nil {
				return err
			}
		}

		if err := c.buildConnections(p); err != nil {
			return fmt.Errorf("patch '%s': %w", p.ID, err)
		}
		logger.Debug("BuildGraph: Patch built.", "patch", p.ID, "nodes", len(p.Nodes), "connections", len(p.Connections))
	}

	logger.Debug("BuildGraph: Graph construction complete.", "nodes", c.graph.Len())
	return nil
}

// buildNode creates the flat node for n under the global id.
func (c *compilation) buildNode(owner *patch.Patch, n *patch.Node, id string) (*dspgraph.Node, error) {
	b, err := c.registry.Lookup(n.Type)
	if err != nil {
		return nil, fmt.Errorf("patch '%s' node '%s': %w", owner.ID, n.ID, err)
	}

	var args map[string]any
	if b.TranslateArgs != nil {
		args, err = b.TranslateArgs(n, owner, c.desc)
		if err != nil {
			return nil, fmt.Errorf("patch '%s' node '%s': translating arguments: %w", owner.ID, n.ID, err)
		}
	}
	shape, err := b.Build(args)
	if err != nil {
		return nil, fmt.Errorf("patch '%s' node '%s': building: %w", owner.ID, n.ID, err)
	}

	node := dspgraph.NewNode(id, n.Type, args, shape.Inlets, shape.Outlets)
	node.IsSignalSink = shape.IsSignalSink
	node.IsMessageSource = shape.IsMessageSource
	if err := c.graph.AddNode(node); err != nil {
		return nil, err
	}
	c.observer.NodeBuilt(n.Type)
	return node, nil
}

// buildConnections resolves the patch's connections and wires them,
// batching every connection that ends at the same sink inlet.
func (c *compilation) buildConnections(p *patch.Patch) error {
	type group struct {
		sink    dspgraph.Endpoint
		sources []dspgraph.Endpoint
	}
	var groups []*group
	bySink := make(map[dspgraph.Endpoint]*group)

	for _, conn := range p.Connections {
		source := dspgraph.Endpoint{NodeID: nodeid.PatchNodeID(p.ID, conn.Source.NodeID), Portlet: conn.Source.Portlet}
		sink := dspgraph.Endpoint{NodeID: nodeid.PatchNodeID(p.ID, conn.Sink.NodeID), Portlet: conn.Sink.Portlet}

		sink, err := c.reroute(source, sink)
		if err != nil {
			return err
		}

		g, ok := bySink[sink]
		if !ok {
			g = &group{sink: sink}
			bySink[sink] = g
			groups = append(groups, g)
		}
		g.sources = append(g.sources, source)
	}

	for _, g := range groups {
		if err := c.connectAll(p, g.sources, g.sink); err != nil {
			return err
		}
	}
	return nil
}

// reroute asks the sink's builder whether a connection from source should
// land on another inlet, and returns the sink to use.
func (c *compilation) reroute(source, sink dspgraph.Endpoint) (dspgraph.Endpoint, error) {
	sinkNode, err := c.graph.Node(sink.NodeID)
	if err != nil {
		return sink, err
	}
	b, err := c.registry.Lookup(sinkNode.Type)
	if err != nil {
		return sink, err
	}
	if b.Reroute == nil {
		return sink, nil
	}

	sourceNode, err := c.graph.Node(source.NodeID)
	if err != nil {
		return sink, err
	}
	outlet, ok := sourceNode.Outlets[source.Portlet]
	if !ok {
		return sink, fmt.Errorf("outlet %d of '%s': %w", source.Portlet, source.NodeID, dspgraph.ErrPortletNotFound)
	}

	if inlet, ok := b.Reroute(outlet, sink.Portlet); ok {
		c.observer.ConnectionRerouted(sinkNode.Type)
		return dspgraph.Endpoint{NodeID: sink.NodeID, Portlet: inlet}, nil
	}
	return sink, nil
}

// connectAll wires sources to sink. Several message sources connect
// directly; several signal sources are summed by a mixer node.
func (c *compilation) connectAll(owner *patch.Patch, sources []dspgraph.Endpoint, sink dspgraph.Endpoint) error {
	if len(sources) == 1 {
		return c.graph.Connect(sources[0], sink)
	}

	sinkNode, err := c.graph.Node(sink.NodeID)
	if err != nil {
		return err
	}
	inlet, ok := sinkNode.Inlets[sink.Portlet]
	if !ok {
		return fmt.Errorf("inlet %d of '%s': %w", sink.Portlet, sink.NodeID, dspgraph.ErrPortletNotFound)
	}

	switch inlet.Kind {
	case dspgraph.Message:
		for _, source := range sources {
			if err := c.graph.Connect(source, sink); err != nil {
				return err
			}
		}
		return nil
	case dspgraph.Signal:
		return c.mix(owner, sources, sink)
	default:
		return fmt.Errorf("%w \"%s\" on inlet %d of '%s'", ErrUnsupportedKind, inlet.Kind, sink.Portlet, sink.NodeID)
	}
}

// mix inserts a mixer in front of sink: source i feeds mixer inlet i and
// the mixer output feeds sink.
func (c *compilation) mix(owner *patch.Patch, sources []dspgraph.Endpoint, sink dspgraph.Endpoint) error {
	decl := &patch.Node{
		ID:   "mixer",
		Type: registry.MixerType,
		Args: []cty.Value{cty.NumberIntVal(int64(len(sources)))},
	}
	mixer, err := c.buildNode(owner, decl, nodeid.MixerID(sink.NodeID, sink.Portlet))
	if err != nil {
		return fmt.Errorf("inserting mixer for '%s': %w", sink.NodeID, err)
	}

	inlets := slices.Sorted(maps.Keys(mixer.Inlets))
	if len(inlets) < len(sources) {
		return fmt.Errorf("mixer '%s' has %d inlets for %d sources", mixer.ID, len(inlets), len(sources))
	}
	for i, source := range sources {
		if err := c.graph.Connect(source, dspgraph.Endpoint{NodeID: mixer.ID, Portlet: inlets[i]}); err != nil {
			return err
		}
	}
	if err := c.graph.Connect(dspgraph.Endpoint{NodeID: mixer.ID, Portlet: 0}, sink); err != nil {
		return err
	}

	c.observer.MixerInserted(len(sources))
	return nil
}
