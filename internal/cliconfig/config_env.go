package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "MODBUSAUDIO_"

// ApplyEnvConfig applies MODBUSAUDIO_* environment variables. Values
// override file config but not flags set on the command line.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("listen", env("LISTEN"), &cfg.ListenAddr)
	s.setString("clips", env("CLIPS"), &cfg.ClipsFile)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("sample-rate", env("SAMPLE_RATE"), &cfg.SampleRate); err != nil {
		return err
	}
	if err := s.setIntFromString("channels", env("CHANNELS"), &cfg.Channels); err != nil {
		return err
	}
	if err := s.setIntFromString("frames-per-buffer", env("FRAMES_PER_BUFFER"), &cfg.FramesPerBuffer); err != nil {
		return err
	}
	if err := s.setIntFromString("max-conns", env("MAX_CONNS"), &cfg.MaxConnections); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", env("READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}

	if err := s.setBoolFromString("standard-echo", env("STANDARD_ECHO"), &cfg.StandardEcho); err != nil {
		return err
	}
	if err := s.setBoolFromString("watch", env("WATCH"), &cfg.WatchClips); err != nil {
		return err
	}
	if err := s.setBoolFromString("no-audio", env("NO_AUDIO"), &cfg.NoAudio); err != nil {
		return err
	}

	return nil
}
