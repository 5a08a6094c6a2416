package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should propagate the error from cli.Parse.
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_InvalidManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL manifest with a syntax error should fail the definition loading
	// phase and surface as an error from run.
	invalidHCL := `
		widget "hello" {
			factory =
	`
	tempDir := t.TempDir()
	defsPath := filepath.Join(tempDir, "defs.hcl")
	require.NoError(t, os.WriteFile(defsPath, []byte(invalidHCL), 0600))

	pagePath := filepath.Join(tempDir, "page.html")
	require.NoError(t, os.WriteFile(pagePath, []byte("<html><body></body></html>"), 0600))

	args := []string{"--defs", defsPath, pagePath}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error for an unparseable manifest")
	require.Contains(t, err.Error(), "failed to load definitions")
}

func TestRun_RealizesPage(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	manifest := `
widget "greeting" {
  factory = "appgrid/widgets/basic"
  options = {
    tagName = "strong"
    label   = "hello"
  }
}
`
	page := `<html><body><app-projector><app-widget id="greeting"></app-widget></app-projector></body></html>`

	tempDir := t.TempDir()
	defsPath := filepath.Join(tempDir, "defs.hcl")
	require.NoError(t, os.WriteFile(defsPath, []byte(manifest), 0600))
	pagePath := filepath.Join(tempDir, "page.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(page), 0600))

	args := []string{"--defs", defsPath, pagePath}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err)
	rendered := out.String()
	require.Contains(t, rendered, "<strong", "realized widget markup should appear in the output")
	require.Contains(t, rendered, "hello")
	require.NotContains(t, rendered, "<app-widget", "the placeholder element should have been replaced")
}
