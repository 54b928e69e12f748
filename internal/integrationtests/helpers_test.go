package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/patchgraph/internal/app"
	"github.com/specialistvlad/patchgraph/internal/hcl"
	"github.com/specialistvlad/patchgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

type endpoint struct {
	Node    string `json:"node"`
	Portlet int    `json:"portlet"`
}

type portlet struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
}

type node struct {
	ID      string                `json:"id"`
	Type    string                `json:"type"`
	Args    map[string]any        `json:"args"`
	Inlets  map[string]portlet    `json:"inlets"`
	Outlets map[string]portlet    `json:"outlets"`
	Sources map[string][]endpoint `json:"sources"`
	Sinks   map[string][]endpoint `json:"sinks"`
}

// result is a converted graph decoded from the app's JSON output.
type result struct {
	Nodes map[string]node
	Logs  string
}

// writeTree lays out name -> content under a fresh temporary directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

// runApp converts every patch under patchDir, with optional manifests, and
// returns the decoded graph together with the captured logs.
func runApp(t *testing.T, patchDir, manifests string) (*result, error) {
	t.Helper()
	cfg, err := app.NewConfig(app.Config{
		PatchPaths:    []string{patchDir},
		ManifestsPath: manifests,
		Format:        "json",
		LogFormat:     "text",
		LogLevel:      "debug",
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	if err := app.NewApp(out, logs, cfg, hcl.NewLoader()).Run(context.Background()); err != nil {
		return &result{Logs: logs.String()}, err
	}

	var doc struct {
		Nodes []node `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	r := &result{Nodes: make(map[string]node, len(doc.Nodes)), Logs: logs.String()}
	for _, n := range doc.Nodes {
		r.Nodes[n.ID] = n
	}
	return r, nil
}

// mustRun is runApp for conversions expected to succeed.
func mustRun(t *testing.T, files map[string]string) *result {
	t.Helper()
	r, err := runApp(t, writeTree(t, files), "")
	require.NoError(t, err)
	return r
}

// edges flattens the graph to node -> outlet -> sinks, dropping empty lists.
func (r *result) edges() map[string]map[string][]endpoint {
	m := make(map[string]map[string][]endpoint)
	for id, n := range r.Nodes {
		for outlet, sinks := range n.Sinks {
			if len(sinks) == 0 {
				continue
			}
			if m[id] == nil {
				m[id] = make(map[string][]endpoint)
			}
			m[id][outlet] = sinks
		}
	}
	return m
}
