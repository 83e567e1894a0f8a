// Package domain contains the core domain entities and value objects for swingcam.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (camera, microphone, file system,
// logging) and contains only pure business logic.
//
// # Entities
//
//   - [Frame]: A single captured video frame with its capture timestamp
//   - [Clip]: The frames captured by one recording session plus metadata
//   - [Command]: A classified voice command token
//   - [Mode]: The orchestrator's current top-level activity
//   - [SpeedPolicy] and [SpeedRef]: Bounded replay speed and its shared cell
//   - [Settings]: Persistent user settings (replay speed)
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
