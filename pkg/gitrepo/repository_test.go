package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"configserver/pkg/config"
	"configserver/pkg/telemetry/logging"
)

func testLogger() *logging.Logger {
	log, err := logging.New(logging.Config{Level: "error", Format: "text", Writer: os.Stderr})
	if err != nil {
		panic(err)
	}
	return log
}

// initLocalRepoOnBranch creates a one-commit repository at dir, renames
// its initial branch to branch (moving HEAD and deleting the old ref),
// and returns the commit SHA.
func initLocalRepoOnBranch(t *testing.T, dir, branch string) string {
	t.Helper()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.yml"), []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := wt.Add("app.yml"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head.Name().Short() != branch {
		branchRef := plumbing.NewBranchReferenceName(branch)
		if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, hash)); err != nil {
			t.Fatalf("create branch %s: %v", branch, err)
		}
		if err := wt.Checkout(&gogit.CheckoutOptions{Branch: branchRef, Force: true}); err != nil {
			t.Fatalf("checkout %s: %v", branch, err)
		}
		if err := repo.Storer.RemoveReference(head.Name()); err != nil {
			t.Fatalf("remove old branch ref: %v", err)
		}
	}
	return hash.String()
}

func fileRepoConfig(dir, branch string) *config.GitConfig {
	return &config.GitConfig{
		URI:                "file://" + dir,
		WorkingDirectory:   dir,
		DefaultLabel:       branch,
		RefreshRateSeconds: -1,
	}
}

func TestGetLocationsIdempotentResolve(t *testing.T) {
	dir := t.TempDir()
	sha := initLocalRepoOnBranch(t, dir, "trunk")

	repo := NewRepository(fileRepoConfig(dir, "trunk"), nil, testLogger())

	first, err := repo.GetLocations(context.Background(), "app", "default", "trunk")
	if err != nil {
		t.Fatalf("first GetLocations: %v", err)
	}
	second, err := repo.GetLocations(context.Background(), "app", "default", "trunk")
	if err != nil {
		t.Fatalf("second GetLocations: %v", err)
	}

	if first.Version != sha || second.Version != sha {
		t.Errorf("expected version %s, got %s and %s", sha, first.Version, second.Version)
	}
	if len(first.SearchPaths) == 0 || first.SearchPaths[0] != filepath.Clean(dir) {
		t.Errorf("expected search path %s, got %v", dir, first.SearchPaths)
	}
}

func TestGetLocationsNoSuchLabel(t *testing.T) {
	dir := t.TempDir()
	initLocalRepoOnBranch(t, dir, "trunk")

	repo := NewRepository(fileRepoConfig(dir, "trunk"), nil, testLogger())

	_, err := repo.GetLocations(context.Background(), "app", "default", "does-not-exist")
	if err == nil {
		t.Fatal("expected error for nonexistent label")
	}
	var notFound *NoSuchLabelError
	if !asNoSuchLabel(err, &notFound) {
		t.Fatalf("expected *NoSuchLabelError, got %T: %v", err, err)
	}
}

func TestGetLocationsMainMasterFallback(t *testing.T) {
	dir := t.TempDir()
	sha := initLocalRepoOnBranch(t, dir, "master")

	cfg := fileRepoConfig(dir, "main")
	cfg.TryMasterFallback = true
	repo := NewRepository(cfg, nil, testLogger())

	locs, err := repo.GetLocations(context.Background(), "app", "default", "")
	if err != nil {
		t.Fatalf("GetLocations: %v", err)
	}
	if locs.Label != "master" {
		t.Errorf("expected resolved label master, got %s", locs.Label)
	}
	if locs.Version != sha {
		t.Errorf("expected version %s, got %s", sha, locs.Version)
	}
}

func TestCurrentCommitMatchesHead(t *testing.T) {
	dir := t.TempDir()
	sha := initLocalRepoOnBranch(t, dir, "trunk")

	repo := NewRepository(fileRepoConfig(dir, "trunk"), nil, testLogger())
	if _, err := repo.GetLocations(context.Background(), "app", "default", "trunk"); err != nil {
		t.Fatalf("GetLocations: %v", err)
	}

	commit, err := repo.CurrentCommit()
	if err != nil {
		t.Fatalf("CurrentCommit: %v", err)
	}
	if commit.SHA != sha {
		t.Errorf("expected sha %s, got %s", sha, commit.SHA)
	}
}

func TestRepositoryCurrentCommitUsesInjectedFactory(t *testing.T) {
	dir := t.TempDir()
	initLocalRepoOnBranch(t, dir, "trunk")
	realRepo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}

	factory := &fakeGitFactory{openResult: realRepo}
	repo := NewRepositoryWithFactory(fileRepoConfig(dir, "trunk"), nil, testLogger(), factory)

	commit, err := repo.CurrentCommit()
	if err != nil {
		t.Fatalf("CurrentCommit: %v", err)
	}
	head, err := realRepo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if commit.SHA != head.Hash().String() {
		t.Errorf("expected commit from the factory-provided repository, got %s", commit.SHA)
	}
}

func TestRepositoryCurrentCommitSurfacesFactoryOpenError(t *testing.T) {
	dir := t.TempDir()
	factory := &fakeGitFactory{openErr: errors.New("boom")}
	repo := NewRepositoryWithFactory(fileRepoConfig(dir, "trunk"), nil, testLogger(), factory)

	if _, err := repo.CurrentCommit(); err == nil {
		t.Fatal("expected CurrentCommit to surface the factory's Open error")
	} else if _, ok := err.(*CannotLoadEnvironmentError); !ok {
		t.Errorf("expected *CannotLoadEnvironmentError, got %T: %v", err, err)
	}
}

func asNoSuchLabel(err error, target **NoSuchLabelError) bool {
	if e, ok := err.(*NoSuchLabelError); ok {
		*target = e
		return true
	}
	return false
}
