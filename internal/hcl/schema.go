package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Patches   []*patchBlock    `hcl:"patch,block"`
	NodeTypes []*nodeTypeBlock `hcl:"node_type,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// patchBlock is the HCL schema for a `patch "id" { ... }` block.
type patchBlock struct {
	ID       string       `hcl:"id,label"`
	Inlets   []string     `hcl:"inlets,optional"`
	Outlets  []string     `hcl:"outlets,optional"`
	Nodes    []*nodeBlock `hcl:"node,block"`
	Wires    []*wireBlock `hcl:"wire,block"`
	DefRange hcl.Range    `hcl:",def_range"`
}

// nodeBlock is the HCL schema for a `node "id" { ... }` block.
type nodeBlock struct {
	ID       string         `hcl:"id,label"`
	Type     string         `hcl:"type"`
	Args     hcl.Expression `hcl:"args,optional"`
	Subpatch string         `hcl:"subpatch,optional"`
	DefRange hcl.Range      `hcl:",def_range"`
}

// wireBlock is the HCL schema for a `wire { ... }` block.
type wireBlock struct {
	From   string `hcl:"from"`
	Outlet int    `hcl:"outlet,optional"`
	To     string `hcl:"to"`
	Inlet  int    `hcl:"inlet,optional"`
}

// nodeTypeBlock is the HCL schema for a `node_type "name" { ... }` block.
type nodeTypeBlock struct {
	Name          string          `hcl:"name,label"`
	Inlets        []string        `hcl:"inlets,optional"`
	Outlets       []string        `hcl:"outlets,optional"`
	SignalSink    bool            `hcl:"signal_sink,optional"`
	MessageSource bool            `hcl:"message_source,optional"`
	Reroutes      []*rerouteBlock `hcl:"reroute,block"`
	DefRange      hcl.Range       `hcl:",def_range"`
}

// rerouteBlock is the HCL schema for a `reroute { ... }` block.
type rerouteBlock struct {
	Inlet int    `hcl:"inlet"`
	Kind  string `hcl:"kind"`
	To    int    `hcl:"to"`
}
