package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gobvh/pkg/export"
	"github.com/philipparndt/gobvh/pkg/geometry"
	"github.com/philipparndt/gobvh/pkg/stl"
	"github.com/stretchr/testify/require"
)

// writeMesh writes a binary STL with n separated triangles along X.
func writeMesh(t *testing.T, dir string, n int) string {
	t.Helper()

	model := stl.NewModel("strip")
	for i := 0; i < n; i++ {
		x := float64(i) * 2
		require.NoError(t, model.AddFacet(
			geometry.NewVector3(x, 0, 0),
			geometry.NewVector3(x+1, 0, 0),
			geometry.NewVector3(x, 1, 0),
		))
	}

	path := filepath.Join(dir, "strip.stl")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, stl.WriteBinary(f, model))
	require.NoError(t, f.Close())
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, "", args...)
}

func executeWithConfig(t *testing.T, yamlConfig string, args ...string) (string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "bvhtool.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(yamlConfig), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuildWritesExports(t *testing.T) {
	dir := t.TempDir()
	mesh := writeMesh(t, dir, 4)
	objFile := filepath.Join(dir, "boxes.obj")
	gpuFile := filepath.Join(dir, "scene.bvh")

	out, err := execute(t, "build", mesh, "--obj", objFile, "--gpu", gpuFile, "--workers", "2")
	require.NoError(t, err)
	require.Contains(t, out, "Triangles: 4")
	require.Contains(t, out, "Nodes: 7 (4 leaves)")
	require.Contains(t, out, "Depth: 2")

	lines, err := export.LoadOBJ(objFile)
	require.NoError(t, err)
	require.Len(t, lines.Vertices, 7*8)
	require.Len(t, lines.Lines, 7*12)

	f, err := os.Open(gpuFile)
	require.NoError(t, err)
	defer f.Close()
	nodes, tris, err := export.ReadGPU(f)
	require.NoError(t, err)
	require.Len(t, nodes, 7)
	require.Len(t, tris, 4)
}

func TestBoxesPrintsEveryNode(t *testing.T) {
	mesh := writeMesh(t, t.TempDir(), 3)

	out, err := execute(t, "boxes", mesh)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "Box: (0, 0, 0) - (5, 1, 0)", lines[0])
}

func TestVerify(t *testing.T) {
	mesh := writeMesh(t, t.TempDir(), 10)

	out, err := execute(t, "verify", mesh)
	require.NoError(t, err)
	require.Contains(t, out, "OK: 10 triangles")
}

func TestUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.ply")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := execute(t, "verify", path)
	require.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bvhtool.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+path)
	require.FileExists(t, path)
}

func TestInvalidLogLevel(t *testing.T) {
	mesh := writeMesh(t, t.TempDir(), 2)

	_, err := executeWithConfig(t, "logging:\n  level: loud\n", "verify", mesh)
	require.Error(t, err)
	require.Contains(t, err.Error(), "initializing logger")
}

func TestInfoReportsMeshAndHierarchy(t *testing.T) {
	mesh := writeMesh(t, t.TempDir(), 4)

	out, err := execute(t, "info", mesh)
	require.NoError(t, err)
	require.Contains(t, out, "Triangles: 4")
	require.Contains(t, out, "Diagonal: 7.071068 units")
	require.Contains(t, out, "Nodes: 7 (3 interior, 4 leaves)")
	require.Contains(t, out, "Depth: 2 (balanced: 2)")
}
