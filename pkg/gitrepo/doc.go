// Package gitrepo implements the git-backed environment repository: a
// local working copy of a remote git repository kept synchronised on
// demand, from which (application, profile, label) triples are
// resolved to a revision and a set of filesystem search paths.
//
// # Basic usage
//
//	repo := gitrepo.NewRepository(&cfg.Git, secretsMgr, logger)
//	if err := repo.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	locs, err := repo.GetLocations(ctx, "myapp", "prod", "main")
//	if err != nil {
//		var notFound *gitrepo.NoSuchLabelError
//		if errors.As(err, &notFound) {
//			// label does not exist
//		}
//	}
//
// # Concurrency
//
// Repository serialises every git-touching operation on a single mutex:
// GetLocations, CurrentCommit, and CommitHistory all acquire it before
// touching the working tree. This is the only correctness barrier —
// the working tree is a mutable shared resource that cannot be mutated
// concurrently.
//
// # Label resolution
//
// A label may name a branch, a tag, or a commit SHA. An empty label
// resolves to the configured default label; when that default is
// "main" and master-fallback is enabled, a remote that only has
// "master" is still resolved successfully.
package gitrepo
