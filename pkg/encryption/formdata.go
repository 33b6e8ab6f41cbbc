package encryption

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"
)

// stripFormData implements the form-data stripping rule from the source
// EncryptionController: browsers and naive HTTP clients posting
// application/x-www-form-urlencoded bodies mangle base64 payloads (spaces
// for '+', percent-encoding, trailing padding quirks). This function
// recovers the intended ciphertext/plaintext. It is quirky by design and
// must be preserved exactly, not "cleaned up" — clients depend on its
// precise behaviour.
func stripFormData(data, contentType string, decrypting bool) string {
	if contentType == "text/plain" || !strings.HasSuffix(data, "=") {
		return data
	}

	decoded, err := url.QueryUnescape(data)
	if err != nil {
		decoded = data
	}
	if decrypting {
		decoded = strings.ReplaceAll(decoded, " ", "+")
	}

	candidate := strings.TrimSuffix(decoded, "=")

	if decrypting {
		if strings.HasSuffix(decoded, "=") && len(decoded)%2 != 0 {
			if _, err := hex.DecodeString(candidate); err == nil {
				return candidate
			}
			if _, err := base64.StdEncoding.DecodeString(candidate); err == nil {
				return candidate
			}
		}
		return decoded
	}

	return candidate
}
