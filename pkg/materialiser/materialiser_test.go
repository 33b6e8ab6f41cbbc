package materialiser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMaterialiseReadsYAMLMostSpecificFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yml", "a: 1\nnested:\n  b: 2\n")
	writeFile(t, dir, "myapp.yml", "a: 3\n")

	sources, err := Materialise([]string{dir}, "myapp", "default")
	if err != nil {
		t.Fatalf("Materialise: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2: %+v", len(sources), sources)
	}
	if sources[0].Name != filepath.Join(dir, "myapp.yml") {
		t.Fatalf("expected myapp.yml first, got %s", sources[0].Name)
	}
	if sources[0].Source["a"] != 3 {
		t.Fatalf("got %v, want 3", sources[0].Source["a"])
	}
	if sources[1].Source["nested.b"] != 2 {
		t.Fatalf("expected flattened nested.b=2, got %+v", sources[1].Source)
	}
}

func TestMaterialiseSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	sources, err := Materialise([]string{dir}, "myapp", "default")
	if err != nil {
		t.Fatalf("Materialise: %v", err)
	}
	if len(sources) != 0 {
		t.Fatalf("got %d sources, want 0", len(sources))
	}
}

func TestMaterialiseParsesProperties(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.properties", "# comment\nfoo.bar=baz\nqux: 1\n")

	sources, err := Materialise([]string{dir}, "application", "")
	if err != nil {
		t.Fatalf("Materialise: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(sources))
	}
	if sources[0].Source["foo.bar"] != "baz" {
		t.Fatalf("got %+v", sources[0].Source)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
