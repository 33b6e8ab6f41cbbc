package gitrepo

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// NoSuchLabelError indicates the requested label does not exist in the
// remote repository (no matching branch, tag, or commit).
type NoSuchLabelError struct {
	Label string
	Err   error
}

func (e *NoSuchLabelError) Error() string {
	return fmt.Sprintf("no such label: %s", e.Label)
}

func (e *NoSuchLabelError) Unwrap() error { return e.Err }

// NoSuchRepositoryError indicates the remote URI could not be reached or
// does not point at a valid git repository.
type NoSuchRepositoryError struct {
	URI string
	Err error
}

func (e *NoSuchRepositoryError) Error() string {
	return fmt.Sprintf("no such repository: %s", e.URI)
}

func (e *NoSuchRepositoryError) Unwrap() error { return e.Err }

// CannotLoadEnvironmentError wraps any other failure encountered while
// bringing the working copy to the requested revision.
type CannotLoadEnvironmentError struct {
	Err error
}

func (e *CannotLoadEnvironmentError) Error() string {
	return fmt.Sprintf("cannot load environment: %v", e.Err)
}

func (e *CannotLoadEnvironmentError) Unwrap() error { return e.Err }

// wrapGitError maps a raw error from the git plumbing layer into one of
// the three domain errors: ref-not-found becomes NoSuchLabel; a missing
// or empty remote, a failed authentication or authorization, a missing
// repository and an unmatched refspec become NoSuchRepository. Every
// other error, including other git-layer failures such as a checkout
// that could not be completed, becomes CannotLoadEnvironment.
func wrapGitError(uri, label string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isRefNotFound(err):
		return &NoSuchLabelError{Label: label, Err: err}
	case isNoRemoteRepository(err):
		return &NoSuchRepositoryError{URI: uri, Err: err}
	default:
		return &CannotLoadEnvironmentError{Err: err}
	}
}

func isRefNotFound(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound)
}

func isNoRemoteRepository(err error) bool {
	if errors.Is(err, transport.ErrRepositoryNotFound) ||
		errors.Is(err, transport.ErrEmptyRemoteRepository) ||
		errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) ||
		errors.Is(err, gogit.ErrRepositoryNotExists) {
		return true
	}
	var refSpecErr gogit.NoMatchingRefSpecError
	return errors.As(err, &refSpecErr)
}
