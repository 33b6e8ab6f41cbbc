package encryption

import "testing"

func TestStripFormDataTextPlainUnchanged(t *testing.T) {
	got := stripFormData("abc==", "text/plain", false)
	if got != "abc==" {
		t.Fatalf("got %q, want unchanged input", got)
	}
}

func TestStripFormDataNoTrailingEqualsUnchanged(t *testing.T) {
	got := stripFormData("abcdef", "application/x-www-form-urlencoded", false)
	if got != "abcdef" {
		t.Fatalf("got %q, want unchanged input", got)
	}
}

func TestStripFormDataEncryptingStripsTrailingEquals(t *testing.T) {
	got := stripFormData("aGVsbG8=", "application/x-www-form-urlencoded", false)
	if got != "aGVsbG8" {
		t.Fatalf("got %q, want trailing '=' stripped", got)
	}
}

func TestStripFormDataDecryptingRecoversPlusFromSpace(t *testing.T) {
	// A base64 string containing '+' gets mangled to ' ' by form parsing
	// of application/x-www-form-urlencoded bodies; URL-decoding then
	// space-to-plus recovery should restore it before stripping.
	got := stripFormData("ab c=", "application/x-www-form-urlencoded", true)
	if got != "ab+c" {
		t.Fatalf("got %q, want space recovered to '+' and '=' stripped", got)
	}
}

func TestStripFormDataURLDecodesPercentEncoding(t *testing.T) {
	got := stripFormData("ab%2Bc=", "application/x-www-form-urlencoded", false)
	if got != "ab+c" {
		t.Fatalf("got %q, want percent-decoded and stripped", got)
	}
}
