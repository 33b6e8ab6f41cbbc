package encryption

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
)

// loadKey builds a TextEncryptor from uploaded key material. It accepts:
//   - a PEM-encoded RSA private key ("RSA PRIVATE KEY" or "PRIVATE KEY"),
//     producing an encryptor that can both encrypt and decrypt;
//   - a PEM-encoded RSA public key ("PUBLIC KEY" or "RSA PUBLIC KEY"),
//     producing a public-key-only encryptor that cannot decrypt;
//   - anything else, treated as a raw symmetric passphrase.
//
// Java keystore (JKS) files are not supported: no keystore is shipped with
// this key material, and uploading one fails with KeyFormat exactly as an
// unparseable PEM block would.
func loadKey(data []byte) (TextEncryptor, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		// A JKS file starts with the magic bytes 0xFEEDFEED.
		if bytes.HasPrefix(data, []byte{0xFE, 0xED, 0xFE, 0xED}) {
			return nil, newError(KeyFormat, errors.New("java keystore (JKS) data is not supported"))
		}
		return newAESEncryptor(string(data)), nil
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, newError(KeyFormat, err)
		}
		return newRSAEncryptorFromPrivate(key), nil

	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, newError(KeyFormat, err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, newError(KeyFormat, errors.New("not an RSA private key"))
		}
		return newRSAEncryptorFromPrivate(rsaKey), nil

	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, newError(KeyFormat, err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, newError(KeyFormat, errors.New("not an RSA public key"))
		}
		return newRSAEncryptorFromPublic(rsaKey), nil

	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, newError(KeyFormat, err)
		}
		return newRSAEncryptorFromPublic(key), nil

	default:
		return nil, newError(KeyFormat, errors.New("unrecognised PEM block type: "+block.Type))
	}
}
