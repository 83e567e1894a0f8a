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
//   - [FrameSource]: Produces camera frames (camera, spool directory, test pattern)
//   - [CommandSource]: Yields classified voice commands from the recognizer
//   - [FrameSink]: Renders frames plus mode and counters (presentation layer)
//   - [Chime]: Audible "command recognized" feedback
//   - [SettingsRepository]: Persists and loads the replay speed
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (file system, console, zerolog, etc.).
package ports
