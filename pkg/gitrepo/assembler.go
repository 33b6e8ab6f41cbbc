package gitrepo

import (
	"os"
	"path/filepath"
	"strings"
)

// SearchLocations computes the ordered filesystem search paths for an
// (application, profile, label) triple against a checked-out working
// tree. Each entry in templates may reference {workingDir},
// {application}, {profile}, and {label}; profile may be a comma
// separated list, each of which is expanded independently. Only
// existing directories are returned, most-specific first: app+profile
// combinations before app-only, before profile-only, before the bare
// template root.
func SearchLocations(workingDir string, templates []string, application, profile, label string) []string {
	if len(templates) == 0 {
		templates = []string{"{workingDir}"}
	}

	profiles := splitProfiles(profile)

	type combo struct{ application, profile string }
	var combos []combo
	for _, p := range profiles {
		combos = append(combos, combo{application, p})
	}
	combos = append(combos, combo{application, ""})
	for _, p := range profiles {
		combos = append(combos, combo{"", p})
	}
	combos = append(combos, combo{"", ""})

	seen := make(map[string]bool)
	var out []string
	for _, tmpl := range templates {
		for _, c := range combos {
			path := expandTemplate(tmpl, workingDir, c.application, c.profile, label)
			if path == "" || seen[path] {
				continue
			}
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	return out
}

func splitProfiles(profile string) []string {
	if profile == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(profile, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var templateReplacer = func(workingDir, application, profile, label string) *strings.Replacer {
	return strings.NewReplacer(
		"{workingDir}", workingDir,
		"{application}", application,
		"{profile}", profile,
		"{label}", label,
	)
}

func expandTemplate(tmpl, workingDir, application, profile, label string) string {
	expanded := templateReplacer(workingDir, application, profile, label).Replace(tmpl)
	// Collapse a template segment left empty by an unset {application}
	// or {profile} substitution (e.g. "{workingDir}/{application}" with
	// application == "") rather than returning a path with an empty
	// trailing component.
	cleaned := filepath.Clean(expanded)
	if application == "" && strings.Contains(tmpl, "{application}") {
		return ""
	}
	if profile == "" && strings.Contains(tmpl, "{profile}") {
		return ""
	}
	return cleaned
}
