package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// aesEncryptor is a symmetric TextEncryptor backed by AES-256-GCM. The key
// is derived from an arbitrary-length passphrase by SHA-256, matching the
// source's behaviour of accepting any passphrase string as a symmetric key.
type aesEncryptor struct {
	key [32]byte
}

// newAESEncryptor derives a 256-bit key from passphrase.
func newAESEncryptor(passphrase string) *aesEncryptor {
	return &aesEncryptor{key: sha256.Sum256([]byte(passphrase))}
}

func (e *aesEncryptor) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(e.key[:])
	if err != nil {
		return "", fmt.Errorf("aes: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("aes: new gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("aes: nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(sealed), nil
}

func (e *aesEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, newError(InvalidCipher, err)
	}
	block, err := aes.NewCipher(e.key[:])
	if err != nil {
		return nil, fmt.Errorf("aes: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aes: new gcm: %w", err)
	}
	if len(raw) < gcm.NonceSize() {
		return nil, newError(InvalidCipher, errors.New("ciphertext too short"))
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, newError(InvalidCipher, err)
	}
	return plaintext, nil
}

func (e *aesEncryptor) CanDecrypt() bool { return true }

func (e *aesEncryptor) PublicKeyPEM() (string, bool) { return "", false }
