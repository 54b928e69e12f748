package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/specialistvlad/patchgraph/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected *app.Config
	}{
		{
			name: "positional path with defaults",
			args: []string{"patches/main.hcl"},
			expected: &app.Config{
				PatchPaths: []string{"patches/main.hcl"},
				Format:     "json",
				LogFormat:  "json",
				LogLevel:   "info",
			},
		},
		{
			name: "all flags",
			args: []string{
				"-p", "a.hcl", "--patch", "b.hcl", "c.hcl",
				"--manifests", "types",
				"-o", "graph.yaml",
				"--format", "YAML",
				"--log-format", "text",
				"--log-level", "DEBUG",
				"--metrics-file", "m.prom",
			},
			expected: &app.Config{
				PatchPaths:    []string{"a.hcl", "b.hcl", "c.hcl"},
				ManifestsPath: "types",
				OutputPath:    "graph.yaml",
				Format:        "yaml",
				LogFormat:     "text",
				LogLevel:      "debug",
				MetricsFile:   "m.prom",
			},
		},
		{
			name: "comma separated patch flag",
			args: []string{"--patch=a.hcl,b.hcl"},
			expected: &app.Config{
				PatchPaths: []string{"a.hcl", "b.hcl"},
				Format:     "json",
				LogFormat:  "json",
				LogLevel:   "info",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			require.NoError(t, err)
			assert.False(t, shouldExit)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestParse_ShouldExit(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "short help", args: []string{"-h"}},
		{name: "long help", args: []string{"--help"}},
		{name: "no patch path", args: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
			assert.Contains(t, out.String(), "PATCH_PATH")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		errContains string
	}{
		{name: "unknown flag", args: []string{"--nope"}, errContains: "unknown flag: --nope"},
		{name: "bad format", args: []string{"--format", "xml", "a.hcl"}, errContains: "Format must be one of [json yaml]"},
		{name: "bad log format", args: []string{"--log-format", "xml", "a.hcl"}, errContains: "LogFormat must be one of [text json]"},
		{name: "bad log level", args: []string{"--log-level", "trace", "a.hcl"}, errContains: "LogLevel must be one of [debug info warn error]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			// --- Assert ---
			require.Error(t, err)
			assert.False(t, shouldExit)
			assert.Nil(t, cfg)

			exitErr, ok := IsExitError(err)
			require.True(t, ok)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.errContains)
		})
	}
}

func TestIsExitError(t *testing.T) {
	_, ok := IsExitError(errors.New("plain"))
	assert.False(t, ok)

	wrapped := errors.Join(errors.New("ctx"), &ExitError{Code: 3, Message: "x"})
	exitErr, ok := IsExitError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 3, exitErr.Code)
}
