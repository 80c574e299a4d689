// Package ports defines interfaces between layers in the hexagonal architecture.
// Service ports are implemented by the application layer and called by handlers.
// The event log and listener ports are implemented by outbound adapters
// (journals and publishers) and called by the engine.
package ports
