package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"configserver/pkg/config"
	"configserver/pkg/telemetry/logging"
)

// Synchronizer decides when to pull and performs the fetch/merge/reset
// sequence. It owns no state of its own beyond configuration; the
// lastRefreshMs debounce timestamp lives in the syncState owned by the
// calling Repository, passed in by reference so it survives across
// calls that each construct a fresh Synchronizer against a freshly
// opened repository handle.
type Synchronizer struct {
	cfg *config.GitConfig
	log *logging.Logger
}

// NewSynchronizer constructs a synchronizer for the given configuration.
func NewSynchronizer(cfg *config.GitConfig, log *logging.Logger) *Synchronizer {
	return &Synchronizer{cfg: cfg, log: log}
}

// ShouldPull decides, per the debounce and force-pull policy, whether a
// fetch should be attempted this call.
func (s *Synchronizer) ShouldPull(repo *gogit.Repository, workingDir string, state *syncState) bool {
	if s.cfg.RefreshRateSeconds < 0 {
		return false
	}
	nowMs := time.Now().UnixMilli()
	if s.cfg.RefreshRateSeconds > 0 && nowMs-state.lastRefreshMs < int64(s.cfg.RefreshRateSeconds)*1000 {
		return false
	}

	wt, err := repo.Worktree()
	if err != nil {
		s.log.Warn("cannot obtain worktree", "error", err)
		return false
	}

	status, err := wt.Status()
	if err != nil && isShortReadOfBlock(err) && s.cfg.ForcePull {
		s.log.Warn("corrupt index detected, recovering", "error", err)
		recoverCorruptIndex(repo, wt, workingDir)
		status, err = wt.Status()
	}
	if err != nil {
		s.log.Warn("cannot read worktree status", "error", err)
		return false
	}

	clean := status.IsClean()
	hasOrigin := originURL(repo) != ""

	if s.cfg.ForcePull && !clean {
		s.logDirtyPaths(status)
		return true
	}
	if !clean {
		s.log.Info("working tree dirty, not force-pulling", "origin", originURL(repo))
	}
	return clean && hasOrigin
}

func (s *Synchronizer) logDirtyPaths(status gogit.Status) {
	var paths []string
	for path := range status {
		paths = append(paths, path)
	}
	s.log.Info("force-pulling over dirty working tree", "paths", paths)
}

// Fetch runs `git fetch origin` with tags, stamping lastRefreshMs before
// the network call (so a failed fetch still consumes the debounce
// window). Transport errors are logged and swallowed: stale local state
// is preferred to a failed request.
func (s *Synchronizer) Fetch(ctx context.Context, repo *gogit.Repository, auth transport.AuthMethod, state *syncState) (*FetchResult, error) {
	if s.cfg.RefreshRateSeconds > 0 {
		state.lastRefreshMs = time.Now().UnixMilli()
	}

	before := snapshotOriginRefs(repo)

	err := repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName:      "origin",
		Auth:            auth,
		Tags:            gogit.AllTags,
		Prune:           s.cfg.DeleteUntrackedBranches,
		InsecureSkipTLS: s.cfg.SkipSslValidation,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		s.log.Warn("fetch failed, continuing with local state", "error", err)
		return nil, nil
	}

	after := snapshotOriginRefs(repo)
	updates := diffOriginRefs(before, after)
	return &FetchResult{Updated: len(updates) > 0, TrackingRefUpdates: updates}, nil
}

// TryMerge brings the local branch up to date with its remote
// counterpart when label names a branch. Since the working copy is a
// disposable cache (never pushed to, local commits never preserved),
// "merge" here is a fast-forward of the local branch ref to the remote
// ref; if the tree isn't clean afterwards, it falls back to a hard
// reset onto the remote ref.
func (s *Synchronizer) TryMerge(repo *gogit.Repository, branches *BranchManager, label string) {
	if !branches.IsBranch(label) {
		return
	}

	localName := plumbing.NewBranchReferenceName(label)
	originName := plumbing.NewRemoteReferenceName("origin", label)

	originRef, err := repo.Reference(originName, true)
	if err != nil {
		s.log.Warn("merge target not found", "label", label, "error", err)
		return
	}

	if err := repo.Storer.SetReference(plumbing.NewHashReference(localName, originRef.Hash())); err != nil {
		s.log.Warn("merge failed", "label", label, "error", err)
	} else if wt, err := repo.Worktree(); err == nil {
		if err := wt.Checkout(&gogit.CheckoutOptions{Branch: localName, Force: false}); err != nil {
			s.log.Warn("checkout after merge failed", "label", label, "error", err)
		}
	}

	clean, err := s.IsClean(repo, label)
	if err != nil || !clean {
		s.ResetHard(repo, originName)
	}
}

// ResetHard performs a hard reset of the worktree to ref. Errors are
// logged and swallowed.
func (s *Synchronizer) ResetHard(repo *gogit.Repository, ref plumbing.ReferenceName) {
	reference, err := repo.Reference(ref, true)
	if err != nil {
		s.log.Warn("reset target not found", "ref", ref, "error", err)
		return
	}
	wt, err := repo.Worktree()
	if err != nil {
		s.log.Warn("cannot obtain worktree for reset", "error", err)
		return
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: reference.Hash(), Mode: gogit.HardReset}); err != nil {
		s.log.Warn("hard reset failed", "ref", ref, "error", err)
		return
	}
	s.log.Info("hard reset", "ref", ref, "to", reference.Hash().String())
}

// IsClean reports whether the worktree has no local modifications and
// the local branch is not ahead of its remote counterpart. A missing
// tracking ref is treated as "not ahead", matching the source's
// treatment of a null BranchTrackingStatus.
func (s *Synchronizer) IsClean(repo *gogit.Repository, label string) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, nil
	}
	if !status.IsClean() {
		return false, nil
	}

	localRef, err := repo.Reference(plumbing.NewBranchReferenceName(label), true)
	if err != nil {
		return true, nil
	}
	originRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", label), true)
	if err != nil {
		return true, nil
	}
	if localRef.Hash() == originRef.Hash() {
		return true, nil
	}

	originCommit, err := repo.CommitObject(originRef.Hash())
	if err != nil {
		return true, nil
	}
	localCommit, err := repo.CommitObject(localRef.Hash())
	if err != nil {
		return true, nil
	}
	ahead, err := originCommit.IsAncestor(localCommit)
	if err != nil {
		return true, nil
	}
	return !ahead, nil
}

func isShortReadOfBlock(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Short read of block.")
}

func recoverCorruptIndex(repo *gogit.Repository, wt *gogit.Worktree, workingDir string) {
	_ = os.Remove(filepath.Join(workingDir, ".git", "index"))
	if head, err := repo.Head(); err == nil {
		_ = wt.Reset(&gogit.ResetOptions{Commit: head.Hash(), Mode: gogit.HardReset})
	}
}

func originURL(repo *gogit.Repository) string {
	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return ""
	}
	return remote.Config().URLs[0]
}

func snapshotOriginRefs(repo *gogit.Repository) map[string]plumbing.Hash {
	out := make(map[string]plumbing.Hash)
	refs, err := repo.References()
	if err != nil {
		return out
	}
	defer refs.Close()
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if strings.HasPrefix(name, "refs/remotes/origin/") {
			out[name] = ref.Hash()
		}
		return nil
	})
	return out
}

func diffOriginRefs(before, after map[string]plumbing.Hash) []TrackingRefUpdate {
	var updates []TrackingRefUpdate
	for name, hash := range after {
		if prev, ok := before[name]; !ok {
			updates = append(updates, TrackingRefUpdate{LocalRef: name, Type: RefUpdateAdd})
		} else if prev != hash {
			updates = append(updates, TrackingRefUpdate{LocalRef: name, Type: RefUpdateUpdate})
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			updates = append(updates, TrackingRefUpdate{LocalRef: name, Type: RefUpdateDelete})
		}
	}
	return updates
}
