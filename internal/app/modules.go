package app

import (
	"github.com/specialistvlad/patchgraph/internal/registry"
	"github.com/specialistvlad/patchgraph/modules/control"
	"github.com/specialistvlad/patchgraph/modules/core"
	"github.com/specialistvlad/patchgraph/modules/dsp"
	"github.com/specialistvlad/patchgraph/modules/print"
)

// coreModules is the definitive list of all node builder modules that are
// compiled into the patchgraph binary.
var coreModules = []registry.Module{
	&core.Module{},
	&dsp.Module{},
	&control.Module{},
	&print.Module{},
}
