package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/swingcam/internal/adapters/console"
	"github.com/bft-labs/swingcam/internal/adapters/fs"
	"github.com/bft-labs/swingcam/internal/adapters/synthetic"
	"github.com/bft-labs/swingcam/internal/cliconfig"
	"github.com/bft-labs/swingcam/pkg/log"
	"github.com/bft-labs/swingcam/pkg/swingcam"
)

const helpDescription = `
Instant replay for your swing, driven by voice.

Say "okay" to record the next few seconds, then watch it back.
  otra     watch the last clip again
  lento    slower replay
  rápido   faster replay
  menu     show or hide the info panel
  salir    quit

The replay speed you pick is remembered between sessions.
Commands come from stdin or from a transcript file a recognizer appends to.
Frames come from a built-in test pattern or a spool directory a capture
tool writes JPEG/PNG frames into.
`

var exampleUsage = strings.TrimSpace(`
  swingcam
  swingcam --frame-source dir --frame-dir /run/swingcam/frames --fps 60
  swingcam --command-source transcript --transcript /run/swingcam/heard.txt
  swingcam --config $HOME/.swingcam/config.toml --duration 6s
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	bootLog := log.NewZerologAdapter(os.Stderr, "info")

	root := &cobra.Command{
		Use:           "swingcam",
		Short:         "Voice-triggered instant replay",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// Precedence: flags > SWINGCAM_* env > config file > defaults.
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := log.NewZerologAdapter(os.Stderr, cfg.LogLevel)
			logger.Info("configuration", log.Any("config", cfg))

			return run(cfg, logger)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.swingcam/config.toml)")

	root.Flags().StringVar(&cfg.FrameSource, "frame-source", cfg.FrameSource, "camera: pattern or dir")
	root.Flags().StringVar(&cfg.FrameDir, "frame-dir", cfg.FrameDir, "spool directory for --frame-source dir")
	root.Flags().Float64Var(&cfg.FrameRate, "fps", cfg.FrameRate, "camera frame rate")
	root.Flags().IntVar(&cfg.Width, "width", cfg.Width, "frame width")
	root.Flags().IntVar(&cfg.Height, "height", cfg.Height, "frame height")
	root.Flags().IntVar(&cfg.Rotation, "rotation", cfg.Rotation, "display rotation in degrees (0, 90, 180, 270)")

	root.Flags().StringVar(&cfg.CommandSource, "command-source", cfg.CommandSource, "recognizer: stdin or transcript")
	root.Flags().StringVar(&cfg.TranscriptPath, "transcript", cfg.TranscriptPath, "transcript file for --command-source transcript")

	root.Flags().DurationVar(&cfg.RecordDuration, "duration", cfg.RecordDuration, "clip length")
	root.Flags().Float64Var(&cfg.MinSpeed, "min-speed", cfg.MinSpeed, "slowest replay speed")
	root.Flags().Float64Var(&cfg.MaxSpeed, "max-speed", cfg.MaxSpeed, "fastest replay speed")
	root.Flags().Float64Var(&cfg.SpeedStep, "speed-step", cfg.SpeedStep, "speed change per lento/rápido")
	root.Flags().Float64Var(&cfg.DefaultSpeed, "default-speed", cfg.DefaultSpeed, "replay speed when none is saved")

	root.Flags().StringVar(&cfg.SettingsDir, "settings-dir", cfg.SettingsDir, "directory for settings.json (default: $HOME/.swingcam)")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "initial retry delay when the camera has no frame")
	root.Flags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "event queue capacity")
	if err := root.Flags().MarkHidden("queue-size"); err != nil {
		bootLog.Info("failed to hide queue-size flag", log.Err(err))
	}
	root.Flags().BoolVar(&cfg.PreviewWhileRecording, "preview", cfg.PreviewWhileRecording, "show the live feed while recording")
	root.Flags().BoolVar(&cfg.Chime, "chime", cfg.Chime, "ring the terminal bell on accepted commands")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		bootLog.Error("swingcam", log.Err(err))
		os.Exit(1)
	}
}

// run wires the devices named by cfg into a session and blocks until the
// user says "salir", a signal arrives, or the session fails.
func run(cfg cliconfig.Config, logger log.Logger) error {
	opts := []swingcam.Option{
		swingcam.WithLogger(logger),
		swingcam.WithFrameSource(newFrameSource(cfg, logger)),
		swingcam.WithCommandSource(newCommandSource(cfg, logger)),
		swingcam.WithFrameSink(console.NewStatusSink(os.Stdout)),
		swingcam.WithSettingsRepository(fs.NewSettingsFile(cfg.SettingsDir)),
	}
	if cfg.Chime {
		opts = append(opts, swingcam.WithChime(console.NewBell(os.Stderr)))
	}

	s, err := swingcam.New(swingcam.Config{
		RecordDuration:        cfg.RecordDuration,
		MinSpeed:              cfg.MinSpeed,
		MaxSpeed:              cfg.MaxSpeed,
		SpeedStep:             cfg.SpeedStep,
		DefaultSpeed:          cfg.DefaultSpeed,
		PreviewWhileRecording: cfg.PreviewWhileRecording,
		QueueSize:             cfg.QueueSize,
		PollInterval:          cfg.PollInterval,
		SettingsDir:           cfg.SettingsDir,
	}, opts...)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	select {
	case sig := <-sigCh:
		logger.Info("received signal, stopping", log.String("signal", sig.String()))
	case <-s.Done():
		if err := s.Err(); err != nil {
			return err
		}
	}

	if err := s.Stop(); err != nil && !errors.Is(err, swingcam.ErrNotRunning) {
		return fmt.Errorf("stop session: %w", err)
	}
	snap := s.Snapshot()
	logger.Info("session ended",
		log.Int("swings", snap.Swings),
		log.Float64("speed", snap.Speed),
		log.Uint64("frames_dropped", snap.FramesDropped),
		log.Uint64("preview_skipped", snap.PreviewSkipped),
	)
	return nil
}

func newFrameSource(cfg cliconfig.Config, logger log.Logger) swingcam.FrameSource {
	if cfg.FrameSource == cliconfig.FrameSourceDir {
		return fs.NewDirFrameSource(fs.DirFrameSourceConfig{
			Dir:       cfg.FrameDir,
			FrameRate: cfg.FrameRate,
			Width:     cfg.Width,
			Height:    cfg.Height,
			Rotation:  cfg.Rotation,
		}, logger)
	}
	return synthetic.NewPatternSource(cfg.FrameRate, cfg.Width, cfg.Height, cfg.Rotation)
}

func newCommandSource(cfg cliconfig.Config, logger log.Logger) swingcam.CommandSource {
	if cfg.CommandSource == cliconfig.CommandSourceTranscript {
		return fs.NewTranscriptSource(cfg.TranscriptPath, logger)
	}
	return console.NewLineSource(os.Stdin, logger)
}
