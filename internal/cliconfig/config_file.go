package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Listen          string `toml:"listen"`
	ClipsFile       string `toml:"clips_file"`
	SampleRate      int    `toml:"sample_rate"`
	Channels        int    `toml:"channels"`
	FramesPerBuffer int    `toml:"frames_per_buffer"`
	ReadTimeout     string `toml:"read_timeout"`
	MaxConnections  int    `toml:"max_connections"`
	StandardEcho    *bool  `toml:"standard_echo"`
	WatchClips      *bool  `toml:"watch_clips"`
	NoAudio         *bool  `toml:"no_audio"`
	LogLevel        string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.modbusaudio/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".modbusaudio", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). A relative
// clips_file resolves against the config file's directory.
func ApplyFileConfig(cfg *Config, fc FileConfig, configPath string, changed map[string]bool) error {
	s := newConfigSetter(changed)

	clips := fc.ClipsFile
	if clips != "" && !filepath.IsAbs(clips) && configPath != "" {
		clips = filepath.Join(filepath.Dir(configPath), clips)
	}

	s.setString("listen", fc.Listen, &cfg.ListenAddr)
	s.setString("clips", clips, &cfg.ClipsFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("sample-rate", fc.SampleRate, &cfg.SampleRate)
	s.setInt("channels", fc.Channels, &cfg.Channels)
	s.setInt("frames-per-buffer", fc.FramesPerBuffer, &cfg.FramesPerBuffer)
	s.setInt("max-conns", fc.MaxConnections, &cfg.MaxConnections)

	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}

	s.setBool("standard-echo", fc.StandardEcho, &cfg.StandardEcho)
	s.setBool("watch", fc.WatchClips, &cfg.WatchClips)
	s.setBool("no-audio", fc.NoAudio, &cfg.NoAudio)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
