package encryption

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
)

// rsaEncryptor is an asymmetric TextEncryptor backed by RSA-OAEP. It may
// hold only a public key, in which case Decrypt always fails with
// DecryptionNotSupported and PublicKeyPEM reports the key.
type rsaEncryptor struct {
	public  *rsa.PublicKey
	private *rsa.PrivateKey // nil when constructed from a public key alone
}

func newRSAEncryptorFromPrivate(key *rsa.PrivateKey) *rsaEncryptor {
	return &rsaEncryptor{public: &key.PublicKey, private: key}
}

func newRSAEncryptorFromPublic(key *rsa.PublicKey) *rsaEncryptor {
	return &rsaEncryptor{public: key}
}

func (e *rsaEncryptor) Encrypt(plaintext []byte) (string, error) {
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, e.public, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("rsa: encrypt: %w", err)
	}
	return hex.EncodeToString(ciphertext), nil
}

func (e *rsaEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	if e.private == nil {
		return nil, newError(DecryptionNotSupported, nil)
	}
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, newError(InvalidCipher, err)
	}
	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, e.private, raw, nil)
	if err != nil {
		return nil, newError(InvalidCipher, err)
	}
	return plaintext, nil
}

func (e *rsaEncryptor) CanDecrypt() bool { return e.private != nil }

func (e *rsaEncryptor) PublicKeyPEM() (string, bool) {
	der, err := x509.MarshalPKIXPublicKey(e.public)
	if err != nil {
		return "", false
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), true
}
