package encryption

import "net/http"

// Kind identifies the class of encryption-domain error, mapped to an HTTP
// status code and status token in the {status, description} response body.
type Kind int

const (
	// KeyFormat indicates an uploaded key was not valid PEM or keystore data.
	KeyFormat Kind = iota
	// KeyNotAvailable indicates a public key was requested but the active
	// encryptor does not hold one (it is symmetric, or has none installed).
	KeyNotAvailable
	// DecryptionNotSupported indicates the active encryptor only holds a
	// public key and cannot perform decryption.
	DecryptionNotSupported
	// KeyNotInstalled indicates no key has been installed at all.
	KeyNotInstalled
	// EncryptionTooWeak indicates the resolved encryptor is a no-op: it
	// returns its input unchanged.
	EncryptionTooWeak
	// InvalidCipher indicates the ciphertext could not be decrypted with
	// the resolved key (wrong key, corrupt input, or a rejected argument).
	InvalidCipher
)

// Error is the domain error type returned by EncryptionService operations.
// It carries enough information to render the §4.8 error taxonomy without
// the HTTP layer needing to know the originating cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Description() + ": " + e.Err.Error()
	}
	return e.Description()
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for this error.
func (e *Error) Status() int {
	switch e.Kind {
	case KeyFormat, DecryptionNotSupported:
		return http.StatusBadRequest
	case KeyNotAvailable, KeyNotInstalled, EncryptionTooWeak:
		return http.StatusNotFound
	case InvalidCipher:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// StatusToken returns the short machine-readable status string used in the
// JSON error body, e.g. "NO_KEY", "INVALID".
func (e *Error) StatusToken() string {
	switch e.Kind {
	case KeyFormat:
		return "BAD_REQUEST"
	case KeyNotAvailable:
		return "NOT_FOUND"
	case DecryptionNotSupported:
		return "BAD_REQUEST"
	case KeyNotInstalled:
		return "NO_KEY"
	case EncryptionTooWeak:
		return "INVALID"
	case InvalidCipher:
		return "INVALID"
	default:
		return "INTERNAL_ERROR"
	}
}

// Description returns the human-readable description used in the JSON
// error body, worded to match the source taxonomy.
func (e *Error) Description() string {
	switch e.Kind {
	case KeyFormat:
		return "Key data not in correct format (PEM or jks keystore)"
	case KeyNotAvailable:
		return "No public key available"
	case DecryptionNotSupported:
		return "Server-side decryption is not supported"
	case KeyNotInstalled:
		return "No key was installed for encryption service"
	case EncryptionTooWeak:
		return "The encryption algorithm is not strong enough"
	case InvalidCipher:
		return "Text not encrypted with this key"
	default:
		return "internal error"
	}
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
