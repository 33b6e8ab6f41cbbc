// Package encryption implements the configuration server's encryption
// endpoint: a single active key (symmetric AES-GCM or asymmetric RSA-OAEP)
// used to encrypt and decrypt configuration property values on behalf of
// clients that don't want secrets committed to the backing git repository
// in plaintext.
//
// Service holds the ActiveKey and exposes Encrypt, Decrypt, PublicKey,
// Status, and InstallKey; HTTP glue (request parsing, content-type
// dispatch, response writing) lives in pkg/httpapi.
//
// Key upload accepts PEM-encoded RSA key pairs, PEM-encoded RSA public
// keys (decrypt then fails with DecryptionNotSupported), or a raw
// passphrase treated as a symmetric key. Java keystore (JKS) uploads are
// not supported and fail with the same KeyFormat error as any other
// unparseable input.
package encryption
