package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
	}
}

func TestSearchLocationsDefaultTemplate(t *testing.T) {
	dir := t.TempDir()

	paths := SearchLocations(dir, nil, "myapp", "prod", "main")
	if len(paths) != 1 || paths[0] != filepath.Clean(dir) {
		t.Fatalf("expected [%s], got %v", dir, paths)
	}
}

func TestSearchLocationsMostSpecificFirst(t *testing.T) {
	dir := t.TempDir()
	appDir := filepath.Join(dir, "myapp")
	appProfileDir := filepath.Join(dir, "myapp", "prod")
	mkdirs(t, appDir, appProfileDir)

	templates := []string{"{workingDir}/{application}/{profile}", "{workingDir}/{application}", "{workingDir}"}
	paths := SearchLocations(dir, templates, "myapp", "prod", "main")

	if len(paths) != 3 {
		t.Fatalf("expected 3 existing search paths, got %v", paths)
	}
	if paths[0] != filepath.Clean(appProfileDir) {
		t.Errorf("expected most specific path first, got %s", paths[0])
	}
	if paths[1] != filepath.Clean(appDir) {
		t.Errorf("expected app-only path second, got %s", paths[1])
	}
}

func TestSearchLocationsSkipsMissingDirectories(t *testing.T) {
	dir := t.TempDir()

	templates := []string{"{workingDir}/{application}"}
	paths := SearchLocations(dir, templates, "missing-app", "", "main")
	if len(paths) != 0 {
		t.Fatalf("expected no search paths, got %v", paths)
	}
}

func TestSearchLocationsExpandsMultipleProfiles(t *testing.T) {
	dir := t.TempDir()
	devDir := filepath.Join(dir, "dev")
	prodDir := filepath.Join(dir, "prod")
	mkdirs(t, devDir, prodDir)

	templates := []string{"{workingDir}/{profile}"}
	paths := SearchLocations(dir, templates, "", "dev,prod", "main")
	if len(paths) != 2 {
		t.Fatalf("expected 2 profile search paths, got %v", paths)
	}
}
