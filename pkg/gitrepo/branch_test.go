package gitrepo

import (
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"configserver/pkg/config"
)

// clonedRepoWithBranches creates an origin repository with commits on
// "trunk" and a second branch "feature", then clones it so that
// refs/remotes/origin/* tracking branches exist in the returned
// repository, the way a real fetched checkout would.
func clonedRepoWithBranches(t *testing.T) *gogit.Repository {
	t.Helper()

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
	featureRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName("feature"), head.Hash())
	if err := origin.Storer.SetReference(featureRef); err != nil {
		t.Fatalf("create feature branch: %v", err)
	}

	workDir := filepath.Join(t.TempDir(), "clone")
	cloned, err := gogit.PlainClone(workDir, false, &gogit.CloneOptions{URL: originDir})
	if err != nil {
		t.Fatalf("PlainClone: %v", err)
	}
	return cloned
}

func TestBranchManagerCheckoutCreatesLocalTrackingBranch(t *testing.T) {
	repo := clonedRepoWithBranches(t)
	bm := NewBranchManager(repo, &config.GitConfig{}, testLogger())

	if bm.IsLocalBranch("feature") {
		t.Fatal("expected no local feature branch before checkout")
	}
	if !bm.IsBranch("feature") {
		t.Fatal("expected feature to resolve as a remote-tracking branch")
	}

	if err := bm.Checkout("feature"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !bm.IsLocalBranch("feature") {
		t.Fatal("expected a local feature branch to exist after checkout")
	}
}

func TestBranchManagerCheckoutLocalBranch(t *testing.T) {
	repo := clonedRepoWithBranches(t)
	bm := NewBranchManager(repo, &config.GitConfig{}, testLogger())

	if err := bm.Checkout("trunk"); err != nil {
		t.Fatalf("Checkout trunk: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head.Name().Short() != "trunk" {
		t.Errorf("expected HEAD on trunk, got %s", head.Name().Short())
	}
}

func TestBranchManagerCheckoutTag(t *testing.T) {
	repo := clonedRepoWithBranches(t)
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewTagReferenceName("v1"), head.Hash())); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	bm := NewBranchManager(repo, &config.GitConfig{}, testLogger())
	if err := bm.Checkout("v1"); err != nil {
		t.Fatalf("Checkout tag: %v", err)
	}
}

func TestBranchManagerCheckoutSHA(t *testing.T) {
	repo := clonedRepoWithBranches(t)
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}

	bm := NewBranchManager(repo, &config.GitConfig{}, testLogger())
	if err := bm.Checkout(head.Hash().String()); err != nil {
		t.Fatalf("Checkout sha: %v", err)
	}
}

func TestBranchManagerCheckoutUnknownLabelErrors(t *testing.T) {
	repo := clonedRepoWithBranches(t)
	bm := NewBranchManager(repo, &config.GitConfig{}, testLogger())

	if err := bm.Checkout("does-not-exist"); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestBranchManagerDeleteUntrackedLocalBranches(t *testing.T) {
	repo := clonedRepoWithBranches(t)
	cfg := &config.GitConfig{DefaultLabel: "trunk"}
	bm := NewBranchManager(repo, cfg, testLogger())

	if err := bm.Checkout("feature"); err != nil {
		t.Fatalf("Checkout feature: %v", err)
	}
	if err := bm.Checkout("trunk"); err != nil {
		t.Fatalf("Checkout trunk: %v", err)
	}

	updates := []TrackingRefUpdate{
		{LocalRef: "refs/remotes/origin/feature", Type: RefUpdateDelete},
	}
	deleted := bm.DeleteUntrackedLocalBranches(updates)
	if len(deleted) != 1 || deleted[0] != "feature" {
		t.Fatalf("expected [feature] deleted, got %v", deleted)
	}
	if bm.IsLocalBranch("feature") {
		t.Fatal("expected local feature branch to be removed")
	}
}

func TestBranchManagerDeleteUntrackedLocalBranchesKeepsDefaultLabel(t *testing.T) {
	repo := clonedRepoWithBranches(t)
	cfg := &config.GitConfig{DefaultLabel: "trunk"}
	bm := NewBranchManager(repo, cfg, testLogger())

	updates := []TrackingRefUpdate{
		{LocalRef: "refs/remotes/origin/trunk", Type: RefUpdateDelete},
	}
	deleted := bm.DeleteUntrackedLocalBranches(updates)
	if len(deleted) != 0 {
		t.Fatalf("expected default label branch never deleted, got %v", deleted)
	}
}
