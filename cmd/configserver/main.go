// configserver is a centralized, git-backed configuration server.
//
// It resolves application/profile/label requests to a git revision,
// materialises the matching property files into property sources, and
// exposes an encryption endpoint for property values.
//
// Usage:
//
//	# Start server with default configuration
//	configserver run
//
//	# Start with custom configuration file
//	configserver run --config /path/to/config.yaml
//
//	# Validate the configuration file
//	configserver validate
//
//	# Show version information
//	configserver version
//
// For complete documentation, see: https://github.com/configserver
package main

func main() {
	Execute()
}
