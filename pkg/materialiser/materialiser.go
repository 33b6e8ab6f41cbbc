// Package materialiser turns a set of filesystem search paths into the
// ordered list of PropertySources an Environment response is built from.
// It is a pure function of the filesystem contents at call time: no
// caching, no state, grounded on the teacher's yaml.v3-based config
// loader (pkg/config/load.go) generalized from one fixed config file to
// an arbitrary, ordered set of application/profile-named property files.
package materialiser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PropertySource is a named bag of key/value pairs contributing to the
// effective configuration, most-specific source first.
type PropertySource struct {
	Name   string         `json:"name"`
	Source map[string]any `json:"source"`
}

// candidateNames returns the file base names searched within a single
// search path directory, most-specific first: "{app}-{profile}",
// "{app}", "application-{profile}", "application", for each of
// application and the built-in default name.
func candidateNames(application, profile string) []string {
	names := []string{}
	if application != "" && application != "application" {
		if profile != "" {
			names = append(names, application+"-"+profile)
		}
		names = append(names, application)
	}
	if profile != "" {
		names = append(names, "application-"+profile)
	}
	names = append(names, "application")
	return names
}

var extensions = []string{".yml", ".yaml", ".properties", ".json"}

// Materialise reads property files from searchPaths (most-specific
// directory first, as returned by gitrepo.SearchLocations) and returns the
// ordered list of PropertySources found, most-specific file first. Only
// files that exist are included; a missing candidate is silently
// skipped, matching the source's tolerant multi-format lookup.
func Materialise(searchPaths []string, application, profile string) ([]PropertySource, error) {
	var sources []PropertySource

	names := candidateNames(application, profile)

	for _, dir := range searchPaths {
		for _, name := range names {
			for _, ext := range extensions {
				path := filepath.Join(dir, name+ext)
				data, err := os.ReadFile(path)
				if err != nil {
					if os.IsNotExist(err) {
						continue
					}
					return nil, fmt.Errorf("materialiser: reading %s: %w", path, err)
				}

				props, err := parse(data, ext)
				if err != nil {
					return nil, fmt.Errorf("materialiser: parsing %s: %w", path, err)
				}

				sources = append(sources, PropertySource{
					Name:   path,
					Source: props,
				})
			}
		}
	}

	return sources, nil
}

func parse(data []byte, ext string) (map[string]any, error) {
	switch ext {
	case ".yml", ".yaml":
		return parseYAML(data)
	case ".json":
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return flatten("", m), nil
	case ".properties":
		return parseProperties(data), nil
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
}

func parseYAML(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return flatten("", raw), nil
}

// flatten turns a nested map into a dotted-key flat map, matching the
// property-source shape clients of the original service expect
// (e.g. "server.port" rather than a nested "server": {"port": ...}).
func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]any:
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
		case map[any]any:
			converted := make(map[string]any, len(nested))
			for nk, nv := range nested {
				converted[fmt.Sprintf("%v", nk)] = nv
			}
			for nk, nv := range flatten(key, converted) {
				out[nk] = nv
			}
		default:
			out[key] = v
		}
	}
	return out
}

// parseProperties parses a Java-style .properties file: "key=value" or
// "key: value" per line, '#' and '!' comments, blank lines ignored.
func parseProperties(data []byte) map[string]any {
	out := make(map[string]any)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		out[key] = value
	}
	return out
}
