package encryption

import "strings"

const (
	keyPrefixOpen  = "{key:"
	keyPrefixClose = "}"
)

// splitKeyPrefix extracts a `{key:name}` prefix from text, if present,
// returning the key name and the remaining text. The key name is combined
// with the path-derived name/profiles (if any) to build the selector used
// to resolve an encryptor; with a single ActiveKey this selector is
// informational only, carried through so the same prefix can be restored
// on the ciphertext.
func splitKeyPrefix(text string) (key string, rest string) {
	if !strings.HasPrefix(text, keyPrefixOpen) {
		return "", text
	}
	end := strings.Index(text, keyPrefixClose)
	if end < 0 {
		return "", text
	}
	return text[len(keyPrefixOpen):end], text[end+1:]
}

// withKeyPrefix re-attaches a `{key:name}` prefix to text, mirroring
// whatever was stripped by splitKeyPrefix.
func withKeyPrefix(key, text string) string {
	if key == "" {
		return text
	}
	return keyPrefixOpen + key + keyPrefixClose + text
}
