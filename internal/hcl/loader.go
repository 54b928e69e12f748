package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/patchgraph/internal/config"
	"github.com/specialistvlad/patchgraph/internal/ctxlog"
	"github.com/specialistvlad/patchgraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges all blocks into one
// model. A patch or node type declared twice, in one file or across files,
// is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := config.NewModel()
	parser := hclparse.NewParser()
	patchRanges := make(map[string]hcl.Range)
	typeRanges := make(map[string]hcl.Range)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, pb := range root.Patches {
			if prev, ok := patchRanges[pb.ID]; ok {
				return nil, duplicateError("patch", pb.ID, pb.DefRange, prev)
			}
			patchRanges[pb.ID] = pb.DefRange

			p, err := translatePatch(pb)
			if err != nil {
				return nil, err
			}
			model.Description.Patches[p.ID] = p
		}

		for _, nb := range root.NodeTypes {
			if prev, ok := typeRanges[nb.Name]; ok {
				return nil, duplicateError("node_type", nb.Name, nb.DefRange, prev)
			}
			typeRanges[nb.Name] = nb.DefRange
			model.NodeTypes[nb.Name] = translateNodeType(nb)
		}
	}

	logger.Debug("HCL loading complete.", "patches", len(model.Description.Patches), "node_types", len(model.NodeTypes))
	return model, nil
}

func duplicateError(kind, name string, at, prev hcl.Range) error {
	diags := hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %s %q", kind, name),
		Detail:   fmt.Sprintf("A %s named %q was already declared at %s.", kind, name, prev),
		Subject:  at.Ptr(),
	}}
	return fmt.Errorf("failed to load configuration: %w", diags)
}
