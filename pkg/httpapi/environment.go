package httpapi

import (
	"configserver/pkg/gitrepo"
	"configserver/pkg/materialiser"
)

// Environment is the JSON response for a GET /{app}/{profile}[/{label}]
// request: the resolved revision plus the ordered list of property
// sources contributing to the effective configuration.
type Environment struct {
	Name            string                       `json:"name"`
	Profiles        []string                     `json:"profiles"`
	Label           string                       `json:"label"`
	Version         string                       `json:"version"`
	PropertySources []materialiser.PropertySource `json:"propertySources"`
	State           string                       `json:"state,omitempty"`
}

// buildEnvironment resolves locations then materialises property sources
// into the wire response for application/profile/label.
func buildEnvironment(locations *gitrepo.Locations, profiles []string) (*Environment, error) {
	sources, err := materialiser.Materialise(locations.SearchPaths, locations.Application, locations.Profile)
	if err != nil {
		return nil, err
	}
	return &Environment{
		Name:            locations.Application,
		Profiles:        profiles,
		Label:           locations.Label,
		Version:         locations.Version,
		PropertySources: sources,
	}, nil
}
