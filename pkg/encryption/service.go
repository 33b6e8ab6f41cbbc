package encryption

import (
	"sync/atomic"
)

// ActiveKey is the encryption service's single mutable piece of state: the
// currently installed encryptor (if any) and a cached snapshot of its
// capabilities, replaced atomically on key upload so concurrent readers
// either see the fully-constructed old value or the fully-constructed new
// one, never a partial update.
type ActiveKey struct {
	Encryptor    TextEncryptor
	PublicKeyPEM string
	CanDecrypt   bool
}

// Service holds the active key/encryptor and exposes the encrypt, decrypt,
// public-key, status, and key-install operations of the §4.8 REST surface.
// It is safe for concurrent use.
type Service struct {
	active atomic.Pointer[ActiveKey]
}

// NewService returns an encryption service with no key installed.
func NewService() *Service {
	return &Service{}
}

// InstallKey parses raw key material (PEM-encoded RSA key pair, PEM public
// key, or a raw symmetric passphrase) and installs it as the new
// ActiveKey, replacing any previously installed key atomically.
func (s *Service) InstallKey(data []byte) error {
	enc, err := loadKey(data)
	if err != nil {
		return err
	}
	s.install(enc)
	return nil
}

func (s *Service) install(enc TextEncryptor) {
	key := &ActiveKey{Encryptor: enc, CanDecrypt: enc.CanDecrypt()}
	if pem, ok := enc.PublicKeyPEM(); ok {
		key.PublicKeyPEM = pem
	}
	s.active.Store(key)
}

// resolve returns the active encryptor, failing with KeyNotInstalled if
// none has been installed, or EncryptionTooWeak if it is a no-op.
func (s *Service) resolve() (TextEncryptor, error) {
	key := s.active.Load()
	if key == nil || key.Encryptor == nil {
		return nil, newError(KeyNotInstalled, nil)
	}
	if isWeak(key.Encryptor) {
		return nil, newError(EncryptionTooWeak, nil)
	}
	return key.Encryptor, nil
}

// Encrypt encrypts plaintext, which may carry a `{key:name}` prefix and
// form-encoded stripping artifacts from contentType. It returns the
// ciphertext re-prefixed with whatever key selector was stripped.
func (s *Service) Encrypt(data, contentType string) (string, error) {
	enc, err := s.resolve()
	if err != nil {
		return "", err
	}

	stripped := stripFormData(data, contentType, false)
	key, plaintext := splitKeyPrefix(stripped)

	ciphertext, err := enc.Encrypt([]byte(plaintext))
	if err != nil {
		return "", newError(InvalidCipher, err)
	}
	return withKeyPrefix(key, ciphertext), nil
}

// Decrypt decrypts data, which may carry a `{key:name}` prefix and
// form-encoded stripping artifacts from contentType.
func (s *Service) Decrypt(data, contentType string) (string, error) {
	enc, err := s.resolve()
	if err != nil {
		return "", err
	}
	if !enc.CanDecrypt() {
		return "", newError(DecryptionNotSupported, nil)
	}

	_, prefixStripped := splitKeyPrefix(data)
	ciphertext := stripFormData(prefixStripped, contentType, true)

	plaintext, err := enc.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// PublicKey returns the PEM-encoded public key of the active encryptor.
func (s *Service) PublicKey() (string, error) {
	key := s.active.Load()
	if key == nil || key.Encryptor == nil {
		return "", newError(KeyNotInstalled, nil)
	}
	if key.PublicKeyPEM == "" {
		return "", newError(KeyNotAvailable, nil)
	}
	return key.PublicKeyPEM, nil
}

// Status resolves the default encryptor and runs the weakness check,
// returning nil if the service is ready to encrypt.
func (s *Service) Status() error {
	_, err := s.resolve()
	return err
}
