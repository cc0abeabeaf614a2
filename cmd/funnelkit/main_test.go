package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// Commands share flag state through rootCmd, so the whole workflow runs in
// one test.
func TestCommands_Workflow(t *testing.T) {
	dir := t.TempDir()
	store := []string{"--store", "file", "--dir", dir}
	with := func(args ...string) []string { return append(args, store...) }

	out, err := run(t, with("init", "quiz")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created funnel 'quiz'")
	assert.FileExists(t, filepath.Join(dir, "quiz.json"))

	_, err = run(t, with("init", "quiz")...)
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, with("validate", "quiz")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Funnel 'quiz' is valid!")

	out, err = run(t, with("ls")...)
	require.NoError(t, err)
	assert.Contains(t, out, "- quiz")

	out, err = run(t, with("show", "quiz")...)
	require.NoError(t, err)
	assert.Contains(t, out, "## 2. Clothing")

	out, err = run(t, with("graph", "quiz", "--highlight", "q1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class q1 current;")

	script := filepath.Join(t.TempDir(), "ops.yaml")
	require.NoError(t, os.WriteFile(script, []byte("funnel: quiz\nops:\n  - op: rename_step\n    step: q1\n    title: Wardrobe\n"), 0o644))
	out, err = run(t, with("apply", script)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 1 ops to 'quiz'")

	out, err = run(t, with("show", "quiz")...)
	require.NoError(t, err)
	assert.Contains(t, out, "## 2. Wardrobe")

	out, err = run(t, with("score", "quiz", "--pick", "q1-2=q1-classic,q1-natural", "--pick", "q2-2=q2-classic")...)
	require.NoError(t, err)
	assert.Contains(t, out, "classic ★")
	assert.Contains(t, out, "66.7%")

	out, err = run(t, with("rm", "quiz")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed funnel 'quiz'")

	out, err = run(t, with("ls")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No funnels found.")

	_, err = run(t, with("validate", "quiz")...)
	assert.Error(t, err)
}

func TestValidate_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: broken\nname: Broken\nsteps: []\n"), 0o644))

	_, err := run(t, "validate", path, "--store", "memory")
	assert.ErrorContains(t, err, "validation failed")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "funnelkit version ")
}

func TestImport(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "01-intro.md"), []byte(`---
funnel: lead
id: intro
title: Welcome
kind: intro
order: 1
components:
  - id: intro-title
    kind: heading
    properties:
      text: Join the list
---`), 0o644))

	dir := t.TempDir()
	out, err := run(t, "import", src, "--store", "file", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 funnels")
	assert.FileExists(t, filepath.Join(dir, "lead.json"))
}
