package gitrepo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"

	"configserver/pkg/config"
	"configserver/pkg/telemetry/logging"
)

// RepositoryCloner handles first-touch bring-up of the working copy:
// the initial clone at startup, and on-demand re-creation when the
// basedir has gone missing.
type RepositoryCloner struct {
	cfg     *config.GitConfig
	creds   *CredentialsProvider
	factory GitFactory
	log     *logging.Logger
}

// NewRepositoryCloner constructs a cloner for the given configuration,
// sourcing git operations through factory.
func NewRepositoryCloner(cfg *config.GitConfig, creds *CredentialsProvider, factory GitFactory, log *logging.Logger) *RepositoryCloner {
	return &RepositoryCloner{cfg: cfg, creds: creds, factory: factory, log: log}
}

// InitClonedRepository performs the startup clone: wipes basedir,
// clones the remote, and checks out the default label. It is a no-op
// for file: URIs, which are read in place and never cloned.
func (c *RepositoryCloner) InitClonedRepository(ctx context.Context) error {
	if strings.HasPrefix(c.cfg.URI, "file:") {
		return nil
	}

	start := time.Now()
	if err := deleteBasedirIfExists(c.cfg.Basedir); err != nil {
		return fmt.Errorf("clearing basedir: %w", err)
	}

	repo, err := c.cloneRemote(ctx)
	if err != nil {
		return err
	}
	c.log.Info("cloned repository", "uri", c.cfg.URI, "duration", time.Since(start))

	if c.cfg.DefaultLabel != "" {
		branches := NewBranchManager(repo, c.cfg, c.log)
		if !currentBranchIs(repo, c.cfg.DefaultLabel) {
			if _, err := branches.CheckoutDefaultWithRetry(); err != nil {
				return fmt.Errorf("checking out default label %q: %w", c.cfg.DefaultLabel, err)
			}
		}
	}
	return nil
}

// CopyRepository brings the working copy into existence on demand: it
// is called from refresh() when the basedir does not contain a .git
// directory. For file: URIs the remote path is opened in place (no
// copy, since the remote is the working tree); otherwise it clones.
func (c *RepositoryCloner) CopyRepository(ctx context.Context) (*gogit.Repository, error) {
	if path, ok := strings.CutPrefix(c.cfg.URI, "file://"); ok {
		if _, err := os.Stat(path + "/.git"); err != nil {
			return nil, fmt.Errorf("file uri %q does not contain a .git directory: %w", c.cfg.URI, err)
		}
		return c.factory.Open(path)
	}

	if err := deleteBasedirIfExists(c.cfg.Basedir); err != nil {
		return nil, fmt.Errorf("clearing basedir: %w", err)
	}
	repo, err := c.cloneRemote(ctx)
	if err != nil {
		_ = os.RemoveAll(c.cfg.Basedir)
		return nil, err
	}
	return repo, nil
}

func (c *RepositoryCloner) cloneRemote(ctx context.Context) (*gogit.Repository, error) {
	auth, err := c.creds.GetAuth()
	if err != nil {
		return nil, fmt.Errorf("resolving credentials: %w", err)
	}

	cloneCtx := ctx
	var cancel context.CancelFunc
	if c.cfg.TimeoutSeconds > 0 {
		cloneCtx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	repo, err := c.factory.NewCloneCommand().
		SetURL(c.cfg.URI).
		SetDirectory(c.cfg.Basedir).
		SetAuth(auth).
		SetTags(gogit.AllTags).
		SetRecurseSubmodules(c.cfg.CloneSubmodules).
		SetInsecureSkipTLS(c.cfg.SkipSslValidation).
		Do(cloneCtx)
	if err != nil {
		return nil, wrapGitError(c.cfg.URI, "", err)
	}
	return repo, nil
}

func currentBranchIs(repo *gogit.Repository, label string) bool {
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return false
	}
	return strings.EqualFold(head.Name().Short(), label)
}

func deleteBasedirIfExists(basedir string) error {
	if _, err := os.Stat(basedir); os.IsNotExist(err) {
		return os.MkdirAll(basedir, 0o755)
	}
	entries, err := os.ReadDir(basedir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(basedir + "/" + entry.Name()); err != nil {
			return fmt.Errorf("removing %s: %w", entry.Name(), err)
		}
	}
	return nil
}
