package httpapi

import "strings"

// decodeLabel restores `/` from the `(_)` wire encoding used for labels
// and application names that themselves contain a slash (e.g. a branch
// name "feature/foo" becomes "feature(_)foo" on the wire).
func decodeLabel(s string) string {
	return strings.ReplaceAll(s, "(_)", "/")
}

// splitProfiles splits a comma-separated profiles path segment into its
// individual profile names.
func splitProfiles(profiles string) []string {
	if profiles == "" {
		return nil
	}
	parts := strings.Split(profiles, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
