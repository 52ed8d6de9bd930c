// Package domain contains the core domain entities and value objects for credrot.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (file system, HTTP, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [QueueState]: The persisted rotation session (remaining credentials, counters, progress)
//   - [Identity]: What a validator reports for an accepted credential
//   - [Phase]: The rotation driver's position in its state machine
//   - [StartReport], [BulkReport]: Results of the batch operations
//
// # Design Principles
//
// Domain entities are:
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
//
// Credentials are opaque strings. Nothing in this package inspects them
// beyond splitting a raw list and trimming quotes.
package domain
