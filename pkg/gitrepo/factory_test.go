package gitrepo

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// spyGitFactory wraps the production GitFactory, recording how many times
// Open and NewCloneCommand were invoked so tests can assert that
// RepositoryCloner/Repository go through the factory seam rather than
// calling go-git directly.
type spyGitFactory struct {
	inner  GitFactory
	opens  int
	clones int
}

func newSpyGitFactory() *spyGitFactory {
	return &spyGitFactory{inner: NewGitFactory()}
}

func (f *spyGitFactory) Open(dir string) (*gogit.Repository, error) {
	f.opens++
	return f.inner.Open(dir)
}

func (f *spyGitFactory) NewCloneCommand() CloneCommandBuilder {
	f.clones++
	return f.inner.NewCloneCommand()
}

// fakeCloneCommand is a minimal in-memory CloneCommandBuilder used where a
// test needs to observe exactly what a clone was configured with, without
// performing a real clone.
type fakeCloneCommand struct {
	url               string
	dir               string
	auth              transport.AuthMethod
	recurseSubmodules bool
	insecureSkipTLS   bool
	result            *gogit.Repository
	err               error
}

func (c *fakeCloneCommand) SetURL(url string) CloneCommandBuilder {
	c.url = url
	return c
}

func (c *fakeCloneCommand) SetDirectory(dir string) CloneCommandBuilder {
	c.dir = dir
	return c
}

func (c *fakeCloneCommand) SetAuth(auth transport.AuthMethod) CloneCommandBuilder {
	c.auth = auth
	return c
}

func (c *fakeCloneCommand) SetTags(gogit.TagMode) CloneCommandBuilder {
	return c
}

func (c *fakeCloneCommand) SetRecurseSubmodules(recurse bool) CloneCommandBuilder {
	c.recurseSubmodules = recurse
	return c
}

func (c *fakeCloneCommand) SetInsecureSkipTLS(skip bool) CloneCommandBuilder {
	c.insecureSkipTLS = skip
	return c
}

func (c *fakeCloneCommand) Do(ctx context.Context) (*gogit.Repository, error) {
	return c.result, c.err
}

// fakeGitFactory is an in-memory GitFactory: Open returns a preconfigured
// repository (or error) without touching the filesystem, and
// NewCloneCommand hands back a fakeCloneCommand recording its configuration
// and returning a preconfigured result, the seam SPEC_FULL.md calls for so
// RepositoryCloner/Repository can be tested without a real git transport.
type fakeGitFactory struct {
	openResult  *gogit.Repository
	openErr     error
	lastClone   *fakeCloneCommand
	cloneResult *gogit.Repository
	cloneErr    error
}

func (f *fakeGitFactory) Open(dir string) (*gogit.Repository, error) {
	return f.openResult, f.openErr
}

func (f *fakeGitFactory) NewCloneCommand() CloneCommandBuilder {
	f.lastClone = &fakeCloneCommand{result: f.cloneResult, err: f.cloneErr}
	return f.lastClone
}
