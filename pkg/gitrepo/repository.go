package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"configserver/pkg/config"
	"configserver/pkg/security/secrets"
	"configserver/pkg/telemetry/logging"
)

// Repository is the git-backed environment repository: it owns the
// single mutex that serialises every git-touching operation against its
// working directory, and exposes GetLocations as the sole entry point
// for resolving a request to a revision and a set of search paths.
type Repository struct {
	cfg     *config.GitConfig
	creds   *CredentialsProvider
	cloner  *RepositoryCloner
	factory GitFactory
	log     *logging.Logger

	mu      sync.Mutex
	state   syncState
	metrics RepositoryMetrics
}

// NewRepository constructs a Repository from its configuration. It does
// not touch the filesystem; call Start to perform the initial clone
// when cfg.CloneOnStart is set. secretsMgr resolves ${secret:name}
// references in cfg's credential fields and may be nil.
func NewRepository(cfg *config.GitConfig, secretsMgr *secrets.Manager, log *logging.Logger) *Repository {
	return NewRepositoryWithFactory(cfg, secretsMgr, log, NewGitFactory())
}

// NewRepositoryWithFactory constructs a Repository sourcing all git
// operations through factory, letting tests inject a fake in place of
// go-git/v5's real filesystem and network operations.
func NewRepositoryWithFactory(cfg *config.GitConfig, secretsMgr *secrets.Manager, log *logging.Logger, factory GitFactory) *Repository {
	creds := NewCredentialsProvider(cfg, secretsMgr)
	return &Repository{
		cfg:     cfg,
		creds:   creds,
		cloner:  NewRepositoryCloner(cfg, creds, factory, log),
		factory: factory,
		log:     log,
	}
}

// Start performs the configured startup behaviour: if CloneOnStart is
// set, the remote is cloned into basedir immediately rather than
// waiting for the first request.
func (r *Repository) Start(ctx context.Context) error {
	if !r.cfg.CloneOnStart {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	if err := r.cloner.InitClonedRepository(ctx); err != nil {
		return err
	}
	r.metrics.CloneDuration = time.Since(start)
	r.state.initialized = true
	r.state.localBaseExists = true
	return nil
}

// GetLocations resolves (application, profile, label) to a Locations
// value: it brings the working copy to the requested revision and
// computes the filesystem search paths for it. An empty label resolves
// to the configured default label, with a retry against "master" when
// the default is "main" and master-fallback is enabled.
func (r *Repository) GetLocations(ctx context.Context, application, profile, label string) (*Locations, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if label == "" {
		label = r.cfg.DefaultLabel
	}

	effectiveLabel := label
	version, err := r.refresh(ctx, label)
	if err != nil && label == r.cfg.DefaultLabel && label == "main" && r.cfg.TryMasterFallback {
		if v2, err2 := r.refresh(ctx, "master"); err2 == nil {
			version, err, effectiveLabel = v2, nil, "master"
		}
	}
	if err != nil {
		return nil, err
	}

	workingDir := r.workingDir()
	searchPaths := SearchLocations(workingDir, r.cfg.SearchPaths, application, profile, effectiveLabel)

	return &Locations{
		Application: application,
		Profile:     profile,
		Label:       effectiveLabel,
		Version:     version,
		SearchPaths: searchPaths,
	}, nil
}

// refresh brings the working directory to the revision named by label,
// returning the resulting HEAD SHA. Must be called with r.mu held.
func (r *Repository) refresh(ctx context.Context, label string) (string, error) {
	workingDir := r.workingDir()
	removeStaleLock(workingDir)

	var repo *gogit.Repository
	var err error
	if gitDirExists(workingDir) {
		repo, err = r.factory.Open(workingDir)
	} else {
		repo, err = r.cloner.CopyRepository(ctx)
	}
	if err != nil {
		return "", wrapGitError(r.cfg.URI, label, err)
	}

	branches := NewBranchManager(repo, r.cfg, r.log)
	synchronizer := NewSynchronizer(r.cfg, r.log)

	if synchronizer.ShouldPull(repo, workingDir, &r.state) {
		auth, authErr := r.creds.GetAuth()
		if authErr != nil {
			r.log.Warn("cannot resolve credentials for fetch", "error", authErr)
		} else {
			fr, ferr := synchronizer.Fetch(ctx, repo, auth, &r.state)
			if ferr == nil && fr != nil {
				r.metrics.SuccessfulPulls++
				r.metrics.LastPullTime = time.Now()
				if r.cfg.DeleteUntrackedBranches {
					branches.DeleteUntrackedLocalBranches(fr.TrackingRefUpdates)
				}
			} else if ferr != nil {
				r.metrics.FailedPulls++
			}
		}
	}

	if err := branches.Checkout(label); err != nil {
		return "", wrapGitError(r.cfg.URI, label, err)
	}
	synchronizer.TryMerge(repo, branches, label)

	head, err := repo.Head()
	if err != nil {
		return "", &CannotLoadEnvironmentError{Err: err}
	}
	sha := head.Hash().String()
	r.metrics.LastCommitSHA = sha
	return sha, nil
}

// CurrentCommit returns metadata for the commit currently checked out
// in the working directory. It is a read-only introspection operation
// and does not trigger a sync.
func (r *Repository) CurrentCommit() (*CommitInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	repo, err := r.factory.Open(r.workingDir())
	if err != nil {
		return nil, &CannotLoadEnvironmentError{Err: err}
	}
	head, err := repo.Head()
	if err != nil {
		return nil, &CannotLoadEnvironmentError{Err: err}
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, &CannotLoadEnvironmentError{Err: err}
	}
	return commitInfoFrom(commit), nil
}

// CommitHistory returns up to limit commits reachable from HEAD, most
// recent first.
func (r *Repository) CommitHistory(limit int) ([]*CommitInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	repo, err := r.factory.Open(r.workingDir())
	if err != nil {
		return nil, &CannotLoadEnvironmentError{Err: err}
	}
	head, err := repo.Head()
	if err != nil {
		return nil, &CannotLoadEnvironmentError{Err: err}
	}
	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, &CannotLoadEnvironmentError{Err: err}
	}
	defer iter.Close()

	var history []*CommitInfo
	for len(history) < limit {
		commit, err := iter.Next()
		if err != nil {
			break
		}
		history = append(history, commitInfoFrom(commit))
	}
	return history, nil
}

// Metrics returns a copy of the repository's operation metrics.
func (r *Repository) Metrics() RepositoryMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics
}

func (r *Repository) workingDir() string {
	if r.cfg.WorkingDirectory != "" {
		return r.cfg.WorkingDirectory
	}
	return r.cfg.Basedir
}

func gitDirExists(workingDir string) bool {
	info, err := os.Stat(filepath.Join(workingDir, ".git"))
	return err == nil && info.IsDir()
}

// removeStaleLock deletes a leftover index.lock from a crashed prior
// process. The repository's own mutex already excludes live concurrent
// writers from within this process, so any lock file found here is
// necessarily debris.
func removeStaleLock(workingDir string) {
	_ = os.Remove(filepath.Join(workingDir, ".git", "index.lock"))
}

func commitInfoFrom(c *object.Commit) *CommitInfo {
	return &CommitInfo{
		SHA:       c.Hash.String(),
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Timestamp: c.Author.When,
		Message:   c.Message,
	}
}
