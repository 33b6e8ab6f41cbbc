package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"configserver/pkg/config"
)

func TestShouldPullNeverWhenRefreshRateNegative(t *testing.T) {
	dir := t.TempDir()
	initLocalRepoOnBranch(t, dir, "trunk")
	repo, _ := gogit.PlainOpen(dir)

	cfg := &config.GitConfig{RefreshRateSeconds: -1}
	s := NewSynchronizer(cfg, testLogger())

	if s.ShouldPull(repo, dir, &syncState{}) {
		t.Fatal("expected ShouldPull to be false when refresh rate is negative")
	}
}

func TestShouldPullDebouncesWithinWindow(t *testing.T) {
	dir := t.TempDir()
	initLocalRepoOnBranch(t, dir, "trunk")
	repo, _ := gogit.PlainOpen(dir)

	cfg := &config.GitConfig{RefreshRateSeconds: 60}
	s := NewSynchronizer(cfg, testLogger())

	state := &syncState{lastRefreshMs: time.Now().UnixMilli()}
	if s.ShouldPull(repo, dir, state) {
		t.Fatal("expected ShouldPull to be false within the debounce window")
	}
}

func TestShouldPullFalseWithoutOriginAfterWindowElapses(t *testing.T) {
	dir := t.TempDir()
	initLocalRepoOnBranch(t, dir, "trunk")
	repo, _ := gogit.PlainOpen(dir)

	cfg := &config.GitConfig{RefreshRateSeconds: 1}
	s := NewSynchronizer(cfg, testLogger())

	state := &syncState{lastRefreshMs: time.Now().Add(-2 * time.Second).UnixMilli()}
	// Clean tree with no origin remote: hasOrigin is false, so the final
	// result is false even though the debounce window has elapsed - this
	// exercises the hasOrigin branch rather than the debounce branch.
	if s.ShouldPull(repo, dir, state) {
		t.Fatal("expected ShouldPull to be false without a configured origin remote")
	}
}

func TestIsCleanTreatsMissingTrackingRefAsNotAhead(t *testing.T) {
	dir := t.TempDir()
	initLocalRepoOnBranch(t, dir, "trunk")
	repo, _ := gogit.PlainOpen(dir)

	s := NewSynchronizer(&config.GitConfig{}, testLogger())
	clean, err := s.IsClean(repo, "trunk")
	if err != nil {
		t.Fatalf("IsClean: %v", err)
	}
	if !clean {
		t.Fatal("expected clean worktree with no tracking ref to be reported clean")
	}
}

// writeCommit overwrites app.yml in dir's worktree and commits the change
// on whatever branch is currently checked out, returning the new SHA.
func writeCommit(t *testing.T, repo *gogit.Repository, dir, contents string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "app.yml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := wt.Add("app.yml"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := wt.Commit("update", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestRepositoryGetLocationsPullsNewCommits(t *testing.T) {
	originDir := t.TempDir()
	initLocalRepoOnBranch(t, originDir, "trunk")
	origin, err := gogit.PlainOpen(originDir)
	if err != nil {
		t.Fatalf("PlainOpen origin: %v", err)
	}

	cfg := &config.GitConfig{
		URI:                originDir,
		Basedir:            filepath.Join(t.TempDir(), "checkout"),
		DefaultLabel:       "trunk",
		RefreshRateSeconds: 0,
	}
	repo := NewRepository(cfg, nil, testLogger())

	first, err := repo.GetLocations(context.Background(), "app", "default", "trunk")
	if err != nil {
		t.Fatalf("first GetLocations: %v", err)
	}

	sha2 := writeCommit(t, origin, originDir, "a: 2\n")

	second, err := repo.GetLocations(context.Background(), "app", "default", "trunk")
	if err != nil {
		t.Fatalf("second GetLocations: %v", err)
	}
	if second.Version != sha2 {
		t.Errorf("expected fetch to pull new commit %s, got %s (first was %s)", sha2, second.Version, first.Version)
	}
}

func TestRepositoryGetLocationsForcePullRecoversDirtyTree(t *testing.T) {
	originDir := t.TempDir()
	initLocalRepoOnBranch(t, originDir, "trunk")
	origin, err := gogit.PlainOpen(originDir)
	if err != nil {
		t.Fatalf("PlainOpen origin: %v", err)
	}

	basedir := filepath.Join(t.TempDir(), "checkout")
	cfg := &config.GitConfig{
		URI:                originDir,
		Basedir:            basedir,
		DefaultLabel:       "trunk",
		RefreshRateSeconds: 0,
		ForcePull:          true,
	}
	repo := NewRepository(cfg, nil, testLogger())

	if _, err := repo.GetLocations(context.Background(), "app", "default", "trunk"); err != nil {
		t.Fatalf("first GetLocations: %v", err)
	}

	if err := os.WriteFile(filepath.Join(basedir, "app.yml"), []byte("a: uncommitted\n"), 0o644); err != nil {
		t.Fatalf("dirty working tree: %v", err)
	}

	sha2 := writeCommit(t, origin, originDir, "a: 2\n")

	second, err := repo.GetLocations(context.Background(), "app", "default", "trunk")
	if err != nil {
		t.Fatalf("second GetLocations: %v", err)
	}
	if second.Version != sha2 {
		t.Errorf("expected force-pull to land on %s, got %s", sha2, second.Version)
	}

	contents, err := os.ReadFile(filepath.Join(basedir, "app.yml"))
	if err != nil {
		t.Fatalf("read app.yml: %v", err)
	}
	if string(contents) != "a: 2\n" {
		t.Errorf("expected dirty local edit discarded by hard reset, got %q", string(contents))
	}
}

func TestRepositoryGetLocationsRemovesStaleIndexLock(t *testing.T) {
	dir := t.TempDir()
	initLocalRepoOnBranch(t, dir, "trunk")

	repo := NewRepository(fileRepoConfig(dir, "trunk"), nil, testLogger())
	if _, err := repo.GetLocations(context.Background(), "app", "default", "trunk"); err != nil {
		t.Fatalf("first GetLocations: %v", err)
	}

	lockPath := filepath.Join(dir, ".git", "index.lock")
	if err := os.WriteFile(lockPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write stale lock: %v", err)
	}

	if _, err := repo.GetLocations(context.Background(), "app", "default", "trunk"); err != nil {
		t.Fatalf("expected stale lock to be recovered from, got error: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("expected stale index.lock to be removed")
	}
}

func TestRepositoryGetLocationsDeletesUntrackedLocalBranches(t *testing.T) {
	originDir := t.TempDir()
	initLocalRepoOnBranch(t, originDir, "trunk")
	origin, err := gogit.PlainOpen(originDir)
	if err != nil {
		t.Fatalf("PlainOpen origin: %v", err)
	}
	head, err := origin.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	featureRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName("old-feature"), head.Hash())
	if err := origin.Storer.SetReference(featureRef); err != nil {
		t.Fatalf("create old-feature branch: %v", err)
	}

	cfg := &config.GitConfig{
		URI:                     originDir,
		Basedir:                 filepath.Join(t.TempDir(), "checkout"),
		DefaultLabel:            "trunk",
		RefreshRateSeconds:      0,
		DeleteUntrackedBranches: true,
	}
	repo := NewRepository(cfg, nil, testLogger())

	if _, err := repo.GetLocations(context.Background(), "app", "default", "old-feature"); err != nil {
		t.Fatalf("checkout old-feature: %v", err)
	}

	if err := origin.Storer.RemoveReference(plumbing.NewBranchReferenceName("old-feature")); err != nil {
		t.Fatalf("remove old-feature from origin: %v", err)
	}

	if _, err := repo.GetLocations(context.Background(), "app", "default", "trunk"); err != nil {
		t.Fatalf("checkout trunk after prune: %v", err)
	}

	workingRepo, err := gogit.PlainOpen(cfg.Basedir)
	if err != nil {
		t.Fatalf("PlainOpen working copy: %v", err)
	}
	if _, err := workingRepo.Reference(plumbing.NewBranchReferenceName("old-feature"), true); err == nil {
		t.Error("expected local old-feature branch to be deleted after its origin ref was pruned")
	}
}
