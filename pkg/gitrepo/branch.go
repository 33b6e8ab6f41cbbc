package gitrepo

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"configserver/pkg/config"
	"configserver/pkg/telemetry/logging"
)

// BranchManager resolves labels (branches, tags, or commit SHAs) against
// an open repository and checks them out. All methods operate on a
// single already-open *gogit.Repository and are only ever called from
// within the owning Repository's critical section.
type BranchManager struct {
	repo *gogit.Repository
	cfg  *config.GitConfig
	log  *logging.Logger
}

// NewBranchManager constructs a branch manager bound to the given open
// repository.
func NewBranchManager(repo *gogit.Repository, cfg *config.GitConfig, log *logging.Logger) *BranchManager {
	return &BranchManager{repo: repo, cfg: cfg, log: log}
}

// IsBranch reports whether label names a local or a remote-tracking
// branch.
func (b *BranchManager) IsBranch(label string) bool {
	return b.IsLocalBranch(label) || b.hasRemoteBranch(label)
}

// IsLocalBranch reports whether refs/heads/<label> exists.
func (b *BranchManager) IsLocalBranch(label string) bool {
	_, err := b.repo.Reference(plumbing.NewBranchReferenceName(label), true)
	return err == nil
}

func (b *BranchManager) hasRemoteBranch(label string) bool {
	_, err := b.repo.Reference(plumbing.NewRemoteReferenceName("origin", label), true)
	return err == nil
}

// Checkout brings the worktree to label. If label names a remote branch
// with no local tracking branch yet, a local tracking branch is created
// first. Otherwise label is checked out by name, which also covers tags
// and commit SHAs.
func (b *BranchManager) Checkout(label string) error {
	wt, err := b.repo.Worktree()
	if err != nil {
		return err
	}

	if b.IsBranch(label) && !b.IsLocalBranch(label) {
		remoteRef, err := b.repo.Reference(plumbing.NewRemoteReferenceName("origin", label), true)
		if err != nil {
			return err
		}
		localName := plumbing.NewBranchReferenceName(label)
		if err := b.repo.Storer.SetReference(plumbing.NewHashReference(localName, remoteRef.Hash())); err != nil {
			return err
		}
		return wt.Checkout(&gogit.CheckoutOptions{Branch: localName, Force: true})
	}

	if b.IsLocalBranch(label) {
		return wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(label), Force: true})
	}

	tagName := plumbing.NewTagReferenceName(label)
	if _, err := b.repo.Reference(tagName, true); err == nil {
		return wt.Checkout(&gogit.CheckoutOptions{Branch: tagName, Force: true})
	}

	if hash := plumbing.NewHash(label); looksLikeSHA(label) {
		if _, err := b.repo.CommitObject(hash); err == nil {
			return wt.Checkout(&gogit.CheckoutOptions{Hash: hash, Force: true})
		}
	}

	return plumbing.ErrReferenceNotFound
}

// CheckoutDefaultWithRetry checks out the configured default label, and
// if that is "main" with master-fallback enabled and the checkout
// fails, retries with "master". Returns the label actually checked out.
func (b *BranchManager) CheckoutDefaultWithRetry() (string, error) {
	label := b.cfg.DefaultLabel
	if err := b.Checkout(label); err != nil {
		if label == "main" && b.cfg.TryMasterFallback {
			if err2 := b.Checkout("master"); err2 == nil {
				return "master", nil
			}
		}
		return "", err
	}
	return label, nil
}

// DeleteUntrackedLocalBranches removes local tracking branches whose
// remote counterpart was deleted by the last fetch. It must first move
// off any of those branches by checking out the default label, since a
// branch cannot be deleted while checked out. Errors are logged and
// swallowed, returning whatever was actually deleted (possibly empty).
func (b *BranchManager) DeleteUntrackedLocalBranches(updates []TrackingRefUpdate) []string {
	var candidates []string
	for _, u := range updates {
		if u.Type != RefUpdateDelete {
			continue
		}
		if name, ok := strings.CutPrefix(u.LocalRef, "refs/remotes/origin/"); ok {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if _, err := b.CheckoutDefaultWithRetry(); err != nil {
		b.log.Warn("cannot delete untracked branches, checkout of default label failed", "error", err)
		return nil
	}

	var deleted []string
	for _, name := range candidates {
		if name == b.cfg.DefaultLabel || name == "master" {
			continue
		}
		if err := b.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(name)); err != nil {
			b.log.Warn("failed to delete untracked local branch", "branch", name, "error", err)
			continue
		}
		deleted = append(deleted, name)
	}
	return deleted
}

func looksLikeSHA(s string) bool {
	if len(s) < 7 || len(s) > 40 {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
