package patch

// ReferencesTo returns every node in the description that instantiates the
// patch subpatchID, ordered by patch id and then node id.
func (d *Description) ReferencesTo(subpatchID string) []Reference {
	var refs []Reference
	for _, patchID := range d.PatchIDs() {
		p := d.Patches[patchID]
		for _, nodeID := range p.NodeIDs() {
			if p.Nodes[nodeID].SubpatchID == subpatchID {
				refs = append(refs, Reference{PatchID: patchID, NodeID: nodeID})
			}
		}
	}
	return refs
}
