package gitrepo

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// GitFactory is the seam between the orchestration logic in Repository
// and RepositoryCloner and go-git/v5's concrete types, mirroring the
// source's JGitFactory (getGitByOpen/getCloneCommandByCloneRepository).
// Production code uses NewGitFactory; tests inject a fake built on a
// tmp-dir repository instead of exercising the real clone machinery.
type GitFactory interface {
	// Open opens an already-checked-out repository at dir.
	Open(dir string) (*gogit.Repository, error)
	// NewCloneCommand returns a builder for a fresh clone.
	NewCloneCommand() CloneCommandBuilder
}

// CloneCommandBuilder configures and executes a single clone operation.
type CloneCommandBuilder interface {
	SetURL(url string) CloneCommandBuilder
	SetDirectory(dir string) CloneCommandBuilder
	SetAuth(auth transport.AuthMethod) CloneCommandBuilder
	SetTags(tags gogit.TagMode) CloneCommandBuilder
	SetRecurseSubmodules(recurse bool) CloneCommandBuilder
	SetInsecureSkipTLS(skip bool) CloneCommandBuilder
	Do(ctx context.Context) (*gogit.Repository, error)
}

// defaultGitFactory is the production GitFactory, backed directly by
// go-git/v5's plain filesystem operations.
type defaultGitFactory struct{}

// NewGitFactory returns the production GitFactory.
func NewGitFactory() GitFactory {
	return defaultGitFactory{}
}

func (defaultGitFactory) Open(dir string) (*gogit.Repository, error) {
	return gogit.PlainOpen(dir)
}

func (defaultGitFactory) NewCloneCommand() CloneCommandBuilder {
	return &plainCloneCommand{opts: &gogit.CloneOptions{}}
}

type plainCloneCommand struct {
	dir  string
	opts *gogit.CloneOptions
}

func (c *plainCloneCommand) SetURL(url string) CloneCommandBuilder {
	c.opts.URL = url
	return c
}

func (c *plainCloneCommand) SetDirectory(dir string) CloneCommandBuilder {
	c.dir = dir
	return c
}

func (c *plainCloneCommand) SetAuth(auth transport.AuthMethod) CloneCommandBuilder {
	c.opts.Auth = auth
	return c
}

func (c *plainCloneCommand) SetTags(tags gogit.TagMode) CloneCommandBuilder {
	c.opts.Tags = tags
	return c
}

func (c *plainCloneCommand) SetRecurseSubmodules(recurse bool) CloneCommandBuilder {
	if recurse {
		c.opts.RecurseSubmodules = gogit.DefaultSubmoduleRecursionDepth
	} else {
		c.opts.RecurseSubmodules = gogit.NoRecurseSubmodules
	}
	return c
}

func (c *plainCloneCommand) SetInsecureSkipTLS(skip bool) CloneCommandBuilder {
	c.opts.InsecureSkipTLS = skip
	return c
}

func (c *plainCloneCommand) Do(ctx context.Context) (*gogit.Repository, error) {
	return gogit.PlainCloneContext(ctx, c.dir, false, c.opts)
}
