// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [QueueStore]: Persists the single rotation session across restarts
//   - [Validator]: Resolves a credential to an identity or rejects it
//   - [Notifier]: Emits progress, cancellable step, and summary messages
//   - [IdentityWriter]: Writes the chosen credential into the host's identity storage
//   - [Restarter]: Tears the host down and brings it back
//   - [Action]: Applies one credential to a target during a bulk run
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (file system, sqlite, HTTP, commands, zerolog).
package ports
