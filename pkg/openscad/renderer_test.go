package openscad

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDependencies(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.scad")
	writeFile(t, main, "use <lib/shapes.scad>\n// include <ignored.scad>\ninclude <./params.scad>\ncube(1);\n")
	writeFile(t, filepath.Join(dir, "lib", "shapes.scad"), "include <../params.scad>\n")
	writeFile(t, filepath.Join(dir, "params.scad"), "size = 2;\n")

	deps, err := NewRenderer(dir, nil).ResolveDependencies("main.scad")
	if err != nil {
		t.Fatalf("ResolveDependencies failed: %v", err)
	}

	expected := []string{
		main,
		filepath.Join(dir, "lib", "shapes.scad"),
		filepath.Join(dir, "params.scad"),
	}
	if len(deps) != len(expected) {
		t.Fatalf("Expected %d dependencies, got %v", len(expected), deps)
	}
	for i := range expected {
		if deps[i] != expected[i] {
			t.Errorf("Dependency %d: expected %s, got %s", i, expected[i], deps[i])
		}
	}
}

func TestResolveDependenciesCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scad"), "use <b.scad>\n")
	writeFile(t, filepath.Join(dir, "b.scad"), "use <a.scad>\n")

	deps, err := NewRenderer(dir, nil).ResolveDependencies(filepath.Join(dir, "a.scad"))
	if err != nil {
		t.Fatalf("ResolveDependencies failed: %v", err)
	}
	if len(deps) != 2 {
		t.Errorf("Expected 2 dependencies, got %v", deps)
	}
}

func TestResolveDependenciesMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scad"), "use <missing.scad>\n")

	if _, err := NewRenderer(dir, nil).ResolveDependencies("a.scad"); err == nil {
		t.Error("Expected error for missing dependency")
	}
}

func TestRenderWithoutBinary(t *testing.T) {
	saved := Binary
	Binary = "openscad-binary-that-does-not-exist"
	defer func() { Binary = saved }()

	err := NewRenderer(t.TempDir(), nil).RenderToSTL(context.Background(), "a.scad", "a.stl")
	if !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Expected ErrNotInstalled, got %v", err)
	}
}
