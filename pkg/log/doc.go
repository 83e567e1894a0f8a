// Package log provides the structured logging abstraction used by swingcam
// components.
//
// Components depend on the Logger interface only. Two implementations ship
// with the package: a zerolog adapter for the appliance and a no-op logger
// for tests and embedding.
//
//	logger := log.NewZerologAdapter(os.Stderr, "info")
//	orch := logger.With(log.String("component", "orchestrator"))
//	orch.Info("mode change", log.String("to", "Recording"))
package log
