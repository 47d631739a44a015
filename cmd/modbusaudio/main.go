package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/fluffware/modbusaudio/internal/adapters/audio"
	"github.com/fluffware/modbusaudio/internal/cliconfig"
	"github.com/fluffware/modbusaudio/pkg/log"
	"github.com/fluffware/modbusaudio/pkg/modbusaudio"
	"github.com/fluffware/modbusaudio/plugins/clipwatcher"
)

const longHelp = `Play audio clips when a Modbus master switches coils.

Each coil that goes from off to on plays the clip whose slot equals the coil
address. Clips are declared in a clip command file, one per line:

  # slot  file
  audio 0 chime.wav
  audio 3 "door bell.wav"

Files ending in .yaml or .yml are read as a list of {command, args} records.
Settings come from flags, MODBUSAUDIO_* environment variables and a TOML
config file, in that order of precedence.`

var exampleUsage = strings.TrimSpace(`
  modbusaudio --clips /etc/modbusaudio/clips.conf
  modbusaudio --listen 127.0.0.1:1502 --no-audio --log-level debug
  modbusaudio --config $HOME/.modbusaudio/config.toml --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCommand(run).Execute(); err != nil {
		logger := cliconfig.Logger(os.Stderr, cliconfig.DefaultLogLevel)
		logger.Error().Err(err).Msg("modbusaudio")
		os.Exit(1)
	}
}

// newRootCommand builds the command; runFn receives the resolved config.
func newRootCommand(runFn func(context.Context, cliconfig.Config) error) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "modbusaudio",
		Short:         "Modbus TCP server that plays audio clips on coil writes",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			return runFn(cmd.Context(), cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.modbusaudio/config.toml)")
	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Modbus TCP listen address")
	root.Flags().StringVar(&cfg.ClipsFile, "clips", cfg.ClipsFile, "clip command file")

	root.Flags().IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "output sample rate in Hz")
	root.Flags().IntVar(&cfg.Channels, "channels", cfg.Channels, "output channels (1 or 2)")
	root.Flags().IntVar(&cfg.FramesPerBuffer, "frames-per-buffer", cfg.FramesPerBuffer, "frames per output buffer")

	root.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "discard a partial frame after this much silence")
	root.Flags().IntVar(&cfg.MaxConnections, "max-conns", cfg.MaxConnections, "maximum concurrent Modbus clients")

	root.Flags().BoolVar(&cfg.StandardEcho, "standard-echo", cfg.StandardEcho, "answer write single coil with the standard 5 byte echo")
	root.Flags().BoolVar(&cfg.WatchClips, "watch", cfg.WatchClips, "reload clips when the clip file changes")
	root.Flags().BoolVar(&cfg.NoAudio, "no-audio", cfg.NoAudio, "run without an audio device")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	return root
}

// resolveConfig layers the config file and environment under the flags
// given on the command line, then validates the result.
func resolveConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, cfgFile, changed); err != nil {
			return err
		}
	} else if cfgPath != "" {
		return fmt.Errorf("config file %s not found", cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

func run(ctx context.Context, cfg cliconfig.Config) error {
	zl := cliconfig.Logger(os.Stderr, cfg.LogLevel)
	zl.Info().Interface("config", cfg).Msg("configuration")
	logger := log.NewZerologAdapterWithLogger(zl)

	opts := []modbusaudio.Option{modbusaudio.WithLogger(logger)}
	if cfg.NoAudio {
		opts = append(opts, modbusaudio.WithAudioBackend(audio.NewNoopBackend()))
	}
	if cfg.WatchClips {
		opts = append(opts, clipwatcher.WithDefaultClipWatcher())
	}

	bridge, err := modbusaudio.New(modbusaudio.Config{
		ListenAddr:      cfg.ListenAddr,
		ClipsFile:       cfg.ClipsFile,
		SampleRate:      cfg.SampleRate,
		Channels:        cfg.Channels,
		FramesPerBuffer: cfg.FramesPerBuffer,
		ReadTimeout:     cfg.ReadTimeout,
		MaxConnections:  cfg.MaxConnections,
		StandardEcho:    cfg.StandardEcho,
	}, opts...)
	if err != nil {
		return fmt.Errorf("create bridge: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bridge.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	<-ctx.Done()
	zl.Info().Msg("received signal, stopping...")

	if err := bridge.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

