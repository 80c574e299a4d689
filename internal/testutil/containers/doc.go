// Package containers starts throwaway backing services for integration
// tests. Every helper here is built only with the integration tag and needs a
// reachable Docker daemon.
package containers
