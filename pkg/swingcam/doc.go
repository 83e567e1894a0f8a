// Package swingcam provides an embeddable voice-triggered instant replay
// session.
//
// A session watches a camera feed and listens for spoken commands. Saying
// "okay" records a fixed-length clip which is then replayed at an
// adjustable speed; "otra" replays it again, "lento" and "rápido" change
// the replay speed, "menu" toggles the info panel and "salir" ends the
// session.
//
// # Basic Usage
//
//	cfg := swingcam.DefaultConfig()
//	cfg.SettingsDir = "/var/lib/swingcam"
//
//	s, err := swingcam.New(cfg,
//	    swingcam.WithFrameSource(camera),
//	    swingcam.WithCommandSource(recognizer),
//	    swingcam.WithFrameSink(display),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	<-s.Done() // returns after "salir"
//
// # Devices
//
// Camera, recognizer, display, chime and settings storage are reached
// through the [FrameSource], [CommandSource], [FrameSink], [Chime] and
// [SettingsRepository] interfaces. Any left unset fall back to a test
// pattern camera, typed commands on stdin, a status line on stdout, silence
// and a settings.json file in [Config.SettingsDir].
//
// # Lifecycle States
//
// A Session is in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping] or [StateCrashed]. Use [Session.Status]
// to query it and [WithEventHandler] to observe changes.
package swingcam
