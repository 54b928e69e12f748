package convert

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/patchgraph/internal/ctxlog"
	"github.com/specialistvlad/patchgraph/internal/dspgraph"
	"github.com/specialistvlad/patchgraph/internal/nodeid"
	"github.com/specialistvlad/patchgraph/internal/patch"
)

// flattenGraph inlines every patch once all patches it instantiates have
// been inlined themselves.
func (c *compilation) flattenGraph(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	pending := make(map[string]bool, len(c.desc.Patches))
	for _, id := range c.desc.PatchIDs() {
		pending[id] = true
	}
	logger.Debug("FlattenGraph: Starting.", "patches", len(pending))

	for round := 1; len(pending) > 0; round++ {
		inlined := 0
		for _, id := range c.desc.PatchIDs() {
			if !pending[id] {
				continue
			}
			p := c.desc.Patches[id]
			if c.hasPendingSubpatch(p, pending) {
				continue
			}
			if err := c.inlineSubpatch(ctx, p); err != nil {
				return fmt.Errorf("inlining patch '%s': %w", id, err)
			}
			delete(pending, id)
			inlined++
		}
		logger.Debug("FlattenGraph: Round complete.", "round", round, "inlined", inlined, "remaining", len(pending))

		if inlined == 0 {
			remaining := make([]string, 0, len(pending))
			for id := range pending {
				remaining = append(remaining, id)
			}
			slices.Sort(remaining)
			return fmt.Errorf("%w: cannot inline %v", ErrNestingCycle, remaining)
		}
	}

	logger.Debug("FlattenGraph: Complete.", "nodes", c.graph.Len())
	return nil
}

func (c *compilation) hasPendingSubpatch(p *patch.Patch, pending map[string]bool) bool {
	for _, n := range p.Nodes {
		if n.IsSubpatch() && pending[n.SubpatchID] {
			return true
		}
	}
	return false
}

// inlineSubpatch splices sub into every node instantiating it. Inlets are
// spliced before outlets so a connection running straight from an inlet
// proxy to an outlet proxy survives. Instantiation nodes are deleted only
// after both splices.
func (c *compilation) inlineSubpatch(ctx context.Context, sub *patch.Patch) error {
	refs := c.desc.ReferencesTo(sub.ID)

	if err := c.inlineInlets(sub, refs); err != nil {
		return err
	}
	if err := c.inlineOutlets(sub, refs); err != nil {
		return err
	}
	for _, ref := range refs {
		if err := c.graph.DeleteNode(nodeid.PatchNodeID(ref.PatchID, ref.NodeID)); err != nil {
			return err
		}
	}

	ctxlog.FromContext(ctx).Debug("FlattenGraph: Inlined patch.", "patch", sub.ID, "references", len(refs))
	c.observer.SubpatchInlined(sub.ID, len(refs))
	return nil
}

// inlineInlets connects whatever feeds inlet i of each instantiation node
// to whatever the i-th inlet proxy feeds, then removes the proxy.
func (c *compilation) inlineInlets(sub *patch.Patch, refs []patch.Reference) error {
	for i, proxyID := range sub.Inlets {
		proxy := nodeid.PatchNodeID(sub.ID, proxyID)
		sinks, err := c.graph.Sinks(proxy, 0)
		if err != nil {
			return err
		}

		for _, ref := range refs {
			sources, err := c.graph.Sources(nodeid.PatchNodeID(ref.PatchID, ref.NodeID), i)
			if err != nil {
				return err
			}
			if err := c.connectEach(sources, sinks); err != nil {
				return err
			}
		}

		if err := c.graph.DeleteNode(proxy); err != nil {
			return err
		}
	}
	return nil
}

// inlineOutlets connects whatever feeds the i-th outlet proxy to whatever
// outlet i of each instantiation node feeds, then removes the proxy.
func (c *compilation) inlineOutlets(sub *patch.Patch, refs []patch.Reference) error {
	for i, proxyID := range sub.Outlets {
		proxy := nodeid.PatchNodeID(sub.ID, proxyID)
		sources, err := c.graph.Sources(proxy, 0)
		if err != nil {
			return err
		}

		if len(sources) > 0 {
			for _, ref := range refs {
				sinks, err := c.graph.Sinks(nodeid.PatchNodeID(ref.PatchID, ref.NodeID), i)
				if err != nil {
					return err
				}
				if err := c.connectEach(sources, sinks); err != nil {
					return err
				}
			}
		}

		if err := c.graph.DeleteNode(proxy); err != nil {
			return err
		}
	}
	return nil
}

// connectEach connects every source to every sink.
func (c *compilation) connectEach(sources, sinks []dspgraph.Endpoint) error {
	for _, sink := range sinks {
		for _, source := range sources {
			if err := c.graph.Connect(source, sink); err != nil {
				return err
			}
		}
	}
	return nil
}
