package patch

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks that every name in the description resolves: connection
// endpoints, inlet and outlet proxies, and subpatch references. It does
// not check node types or portlets. All problems are reported together.
func (d *Description) Validate() error {
	var result *multierror.Error

	for _, patchID := range d.PatchIDs() {
		p := d.Patches[patchID]
		if p.ID != patchID {
			result = multierror.Append(result, fmt.Errorf("patch '%s' is stored under id '%s'", p.ID, patchID))
		}

		for _, nodeID := range p.NodeIDs() {
			n := p.Nodes[nodeID]
			if n.ID != nodeID {
				result = multierror.Append(result, fmt.Errorf("patch '%s': node '%s' is stored under id '%s'", patchID, n.ID, nodeID))
			}
			if n.Type == "" {
				result = multierror.Append(result, fmt.Errorf("patch '%s': node '%s' has no type", patchID, nodeID))
			}
			if n.IsSubpatch() {
				if _, ok := d.Patches[n.SubpatchID]; !ok {
					result = multierror.Append(result, fmt.Errorf("patch '%s': node '%s' references unknown subpatch '%s'", patchID, nodeID, n.SubpatchID))
				}
			}
		}

		for i, c := range p.Connections {
			for _, end := range []struct {
				role string
				ep   Endpoint
			}{{"source", c.Source}, {"sink", c.Sink}} {
				if _, ok := p.Nodes[end.ep.NodeID]; !ok {
					result = multierror.Append(result, fmt.Errorf("patch '%s': connection %d %s references unknown node '%s'", patchID, i, end.role, end.ep.NodeID))
				}
				if end.ep.Portlet < 0 {
					result = multierror.Append(result, fmt.Errorf("patch '%s': connection %d %s has negative portlet %d", patchID, i, end.role, end.ep.Portlet))
				}
			}
		}

		proxies := make(map[string]bool, len(p.Inlets)+len(p.Outlets))
		for _, list := range []struct {
			role string
			ids  []string
		}{{"inlet", p.Inlets}, {"outlet", p.Outlets}} {
			for i, id := range list.ids {
				if _, ok := p.Nodes[id]; !ok {
					result = multierror.Append(result, fmt.Errorf("patch '%s': %s %d references unknown node '%s'", patchID, list.role, i, id))
				}
				if proxies[id] {
					result = multierror.Append(result, fmt.Errorf("patch '%s': node '%s' is listed as a proxy more than once", patchID, id))
				}
				proxies[id] = true
			}
		}
	}

	return result.ErrorOrNil()
}
