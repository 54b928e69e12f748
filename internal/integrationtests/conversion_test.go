package integrationtests

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sortEndpoints = cmpopts.SortSlices(func(a, b endpoint) bool {
	if a.Node != b.Node {
		return a.Node < b.Node
	}
	return a.Portlet < b.Portlet
})

func assertEdges(t *testing.T, expected map[string]map[string][]endpoint, r *result) {
	t.Helper()
	if diff := cmp.Diff(expected, r.edges(), sortEndpoints); diff != "" {
		t.Errorf("graph edges mismatch (-want +got):\n%s", diff)
	}
}

// Test for: subpatches nested three levels deep, split over several files,
// collapse into a graph without proxies or instantiation nodes.
func TestConversion_NestedSubpatchesAcrossFiles(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
patch "main" {
  node "m" {
    type = "metro"
    args = [500]
  }
  node "v" {
    type     = "pd"
    subpatch = "voice"
  }
  node "dac" {
    type = "dac~"
  }
  wire {
    from = "m"
    to   = "v"
  }
  wire {
    from = "v"
    to   = "dac"
  }
  wire {
    from  = "v"
    to    = "dac"
    inlet = 1
  }
}
`,
		"lib/voice.hcl": `
patch "voice" {
  inlets  = ["in"]
  outlets = ["out"]

  node "in" {
    type = "inlet"
  }
  node "osc" {
    type = "osc~"
  }
  node "e" {
    type     = "pd"
    subpatch = "env"
  }
  node "out" {
    type = "outlet~"
  }
  wire {
    from = "in"
    to   = "osc"
  }
  wire {
    from = "osc"
    to   = "e"
  }
  wire {
    from = "e"
    to   = "out"
  }
}
`,
		"lib/env.hcl": `
patch "env" {
  inlets  = ["in"]
  outlets = ["out"]

  node "in" {
    type = "inlet~"
  }
  node "mul" {
    type = "*~"
    args = [0.25]
  }
  node "out" {
    type = "outlet~"
  }
  wire {
    from = "in"
    to   = "mul"
  }
  wire {
    from = "mul"
    to   = "out"
  }
}
`,
	}

	// --- Act ---
	r := mustRun(t, files)

	// --- Assert ---
	assert.ElementsMatch(t, []string{"n.main.m", "n.voice.osc", "n.env.mul", "n.main.dac"}, keys(r.Nodes))
	assertEdges(t, map[string]map[string][]endpoint{
		// The message from the metro lands on the oscillator's internal inlet.
		"n.main.m":    {"0": {{Node: "n.voice.osc", Portlet: 2}}},
		"n.voice.osc": {"0": {{Node: "n.env.mul", Portlet: 0}}},
		"n.env.mul":   {"0": {{Node: "n.main.dac", Portlet: 0}, {Node: "n.main.dac", Portlet: 1}}},
	}, r)
	assert.Equal(t, 0.25, r.Nodes["n.env.mul"].Args["value"])
	assert.Contains(t, r.Logs, "FlattenGraph: Complete.")
}

// Test for: a subpatch instantiated twice is inlined once per site.
func TestConversion_SubpatchUsedTwice(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
patch "main" {
  node "osc1" {
    type = "osc~"
    args = [220]
  }
  node "osc2" {
    type = "osc~"
    args = [330]
  }
  node "v1" {
    type     = "pd"
    subpatch = "voice"
  }
  node "v2" {
    type     = "pd"
    subpatch = "voice"
  }
  node "dac" {
    type = "dac~"
  }
  wire {
    from = "osc1"
    to   = "v1"
  }
  wire {
    from = "osc2"
    to   = "v2"
  }
  wire {
    from = "v1"
    to   = "dac"
  }
  wire {
    from  = "v2"
    to    = "dac"
    inlet = 1
  }
}

patch "voice" {
  inlets  = ["in"]
  outlets = ["out"]

  node "in" {
    type = "inlet~"
  }
  node "mul" {
    type = "*~"
  }
  node "out" {
    type = "outlet~"
  }
  wire {
    from = "in"
    to   = "mul"
  }
  wire {
    from = "mul"
    to   = "out"
  }
}
`,
	}

	// --- Act ---
	r := mustRun(t, files)

	// --- Assert ---
	assertEdges(t, map[string]map[string][]endpoint{
		"n.main.osc1":         {"0": {{Node: "n.voice.mul", Portlet: 0}}},
		"n.main.osc2":         {"0": {{Node: "n.voice@main/v2.mul", Portlet: 0}}},
		"n.voice.mul":         {"0": {{Node: "n.main.dac", Portlet: 0}}},
		"n.voice@main/v2.mul": {"0": {{Node: "n.main.dac", Portlet: 1}}},
	}, r)
	assert.Len(t, r.Nodes, 5)
}

// Test for: fan-in is summed through a mixer for signals and left alone for messages.
func TestConversion_FanIn(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
patch "main" {
  node "osc1" {
    type = "osc~"
  }
  node "osc2" {
    type = "osc~"
  }
  node "osc3" {
    type = "osc~"
  }
  node "dac" {
    type = "dac~"
    args = [1]
  }
  node "lb" {
    type = "loadbang"
  }
  node "m" {
    type = "metro"
  }
  node "f" {
    type = "float"
  }
  node "p" {
    type = "print"
    args = ["value"]
  }
  wire {
    from = "osc1"
    to   = "dac"
  }
  wire {
    from = "osc2"
    to   = "dac"
  }
  wire {
    from = "osc3"
    to   = "dac"
  }
  wire {
    from = "lb"
    to   = "f"
  }
  wire {
    from = "m"
    to   = "f"
  }
  wire {
    from = "f"
    to   = "p"
  }
}
`,
	}

	// --- Act ---
	r := mustRun(t, files)

	// --- Assert ---
	mixer, ok := r.Nodes["m.n.main.dac[0]"]
	require.True(t, ok, "three signals into one inlet need a mixer")
	assert.Equal(t, "mixer~", mixer.Type)
	assert.Equal(t, float64(3), mixer.Args["channels"])
	assert.Equal(t, []endpoint{{Node: "n.main.osc1"}}, mixer.Sources["0"])
	assert.Equal(t, []endpoint{{Node: "n.main.osc2"}}, mixer.Sources["1"])
	assert.Equal(t, []endpoint{{Node: "n.main.osc3"}}, mixer.Sources["2"])

	assert.Equal(t, []endpoint{{Node: "m.n.main.dac[0]"}}, r.Nodes["n.main.dac"].Sources["0"])
	assert.ElementsMatch(t, []endpoint{{Node: "n.main.lb"}, {Node: "n.main.m"}}, r.Nodes["n.main.f"].Sources["0"],
		"message fan-in connects every source directly")
	assert.Len(t, r.Nodes, 9)
}

// Test for: node types declared in manifests, including reroute rules.
func TestConversion_ManifestNodeTypes(t *testing.T) {
	// --- Arrange ---
	patchDir := writeTree(t, map[string]string{
		"main.hcl": `
patch "main" {
  node "osc" {
    type = "osc~"
  }
  node "m" {
    type = "metro"
  }
  node "lop" {
    type = "lop~"
    args = [800, "hz"]
  }
  node "dac" {
    type = "dac~"
  }
  wire {
    from = "osc"
    to   = "lop"
  }
  wire {
    from = "m"
    to   = "lop"
  }
  wire {
    from = "lop"
    to   = "dac"
  }
}
`,
	})
	manifestDir := writeTree(t, map[string]string{
		"filters.hcl": `
node_type "lop~" {
  inlets  = ["signal", "message"]
  outlets = ["signal"]

  reroute {
    inlet = 0
    kind  = "message"
    to    = 1
  }
}
`,
	})

	// --- Act ---
	r, err := runApp(t, patchDir, manifestDir)

	// --- Assert ---
	require.NoError(t, err)
	assertEdges(t, map[string]map[string][]endpoint{
		"n.main.osc": {"0": {{Node: "n.main.lop", Portlet: 0}}},
		"n.main.m":   {"0": {{Node: "n.main.lop", Portlet: 1}}},
		"n.main.lop": {"0": {{Node: "n.main.dac", Portlet: 0}}},
	}, r)
	assert.Equal(t, []any{float64(800), "hz"}, r.Nodes["n.main.lop"].Args["args"])
	assert.Equal(t, "message", r.Nodes["n.main.lop"].Inlets["1"].Kind)
}

func TestConversion_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		files       map[string]string
		manifests   map[string]string
		errContains []string
	}{
		{
			name: "unknown node type",
			files: map[string]string{"main.hcl": `
patch "main" {
  node "x" {
    type = "reverb~"
  }
}`},
			errContains: []string{"conversion failed", "reverb~"},
		},
		{
			name: "subpatches instantiate each other",
			files: map[string]string{
				"a.hcl": `
patch "a" {
  node "s" {
    type     = "pd"
    subpatch = "b"
  }
}`,
				"b.hcl": `
patch "b" {
  node "s" {
    type     = "pd"
    subpatch = "a"
  }
}`,
			},
			errContains: []string{"conversion failed", "subpatch nesting cycle"},
		},
		{
			name: "unknown subpatch and unknown wire node reported together",
			files: map[string]string{"main.hcl": `
patch "main" {
  node "s" {
    type     = "pd"
    subpatch = "missing"
  }
  wire {
    from = "s"
    to   = "ghost"
  }
}`},
			errContains: []string{"invalid patch description", "unknown subpatch 'missing'", "unknown node 'ghost'"},
		},
		{
			name: "duplicate patch across files",
			files: map[string]string{
				"a.hcl": "patch \"main\" {\n}\n",
				"b.hcl": "patch \"main\" {\n}\n",
			},
			errContains: []string{"failed to load configuration", `Duplicate patch "main"`},
		},
		{
			name:  "manifest with unknown kind",
			files: map[string]string{"main.hcl": "patch \"main\" {\n}\n"},
			manifests: map[string]string{"types.hcl": `
node_type "weird~" {
  inlets = ["audio"]
}`},
			errContains: []string{"invalid node type manifests", "unknown kind 'audio'"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			patchDir := writeTree(t, tc.files)
			manifests := ""
			if tc.manifests != nil {
				manifests = writeTree(t, tc.manifests)
			}

			// --- Act ---
			_, err := runApp(t, patchDir, manifests)

			// --- Assert ---
			require.Error(t, err)
			for _, s := range tc.errContains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

// Test for: a single file path works as well as a directory.
func TestConversion_SingleFilePath(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"one.hcl": "patch \"a\" {\n  node \"x\" {\n    type = \"loadbang\"\n  }\n}\n",
		"two.hcl": "patch \"b\" {\n  node \"y\" {\n    type = \"loadbang\"\n  }\n}\n",
	})

	r, err := runApp(t, filepath.Join(dir, "one.hcl"), "")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"n.a.x"}, keys(r.Nodes))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
