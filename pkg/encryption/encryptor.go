package encryption

// TextEncryptor is an opaque capability that maps plaintext to ciphertext
// and, if it holds a private key, ciphertext back to plaintext. Both the
// AES symmetric and RSA asymmetric implementations satisfy it.
type TextEncryptor interface {
	// Encrypt returns the ciphertext for plaintext, hex-encoded.
	Encrypt(plaintext []byte) (string, error)
	// Decrypt returns the plaintext for hex-encoded ciphertext. It returns
	// an *Error of kind DecryptionNotSupported if this encryptor holds
	// only a public key.
	Decrypt(ciphertext string) ([]byte, error)
	// CanDecrypt reports whether this encryptor holds key material capable
	// of decryption (always true for symmetric keys, false for an
	// RSA encryptor constructed from a public key alone).
	CanDecrypt() bool
	// PublicKeyPEM returns the PEM-encoded public key, if this encryptor
	// holds one (RSA only). The second return value is false for
	// symmetric encryptors.
	PublicKeyPEM() (string, bool)
}

// isWeak reports whether enc is a no-op: it returns its own input
// unchanged. The §8 "Weakness rejection" property requires every
// resolved encryptor to be probed this way before use.
func isWeak(enc TextEncryptor) bool {
	const probe = "FOO"
	ciphertext, err := enc.Encrypt([]byte(probe))
	if err != nil {
		return false
	}
	return ciphertext == probe
}
