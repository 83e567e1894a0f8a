package swingcam

// Option configures optional behavior of a Session.
type Option func(*options)

type options struct {
	logger       Logger
	eventHandler EventHandler
	source       FrameSource
	commands     CommandSource
	sink         FrameSink
	chime        Chime
	settings     SettingsRepository
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for session events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithFrameSource sets the camera.
func WithFrameSource(source FrameSource) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithCommandSource sets the speech recognizer.
func WithCommandSource(commands CommandSource) Option {
	return func(o *options) {
		o.commands = commands
	}
}

// WithFrameSink sets the display.
func WithFrameSink(sink FrameSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithChime sets the audible acknowledgement for accepted commands.
func WithChime(chime Chime) Option {
	return func(o *options) {
		o.chime = chime
	}
}

// WithSettingsRepository sets where the replay speed is persisted.
// It takes precedence over Config.SettingsDir.
func WithSettingsRepository(repo SettingsRepository) Option {
	return func(o *options) {
		o.settings = repo
	}
}
