package cliconfig

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"MODBUSAUDIO_LISTEN":            "127.0.0.1:1502",
				"MODBUSAUDIO_CLIPS":             "/srv/clips.yaml",
				"MODBUSAUDIO_SAMPLE_RATE":       "48000",
				"MODBUSAUDIO_CHANNELS":          "1",
				"MODBUSAUDIO_FRAMES_PER_BUFFER": "512",
				"MODBUSAUDIO_MAX_CONNS":         "8",
				"MODBUSAUDIO_READ_TIMEOUT":      "3s",
				"MODBUSAUDIO_STANDARD_ECHO":     "true",
				"MODBUSAUDIO_WATCH":             "1",
				"MODBUSAUDIO_NO_AUDIO":          "true",
				"MODBUSAUDIO_LOG_LEVEL":         "debug",
			},
			changed: map[string]bool{},
			expected: Config{
				ListenAddr:      "127.0.0.1:1502",
				ClipsFile:       "/srv/clips.yaml",
				SampleRate:      48000,
				Channels:        1,
				FramesPerBuffer: 512,
				MaxConnections:  8,
				ReadTimeout:     3 * time.Second,
				StandardEcho:    true,
				WatchClips:      true,
				NoAudio:         true,
				LogLevel:        "debug",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"MODBUSAUDIO_LISTEN":   "127.0.0.1:1502",
				"MODBUSAUDIO_CHANNELS": "1",
			},
			changed:  map[string]bool{"listen": true},
			initial:  Config{ListenAddr: "flag:5020", Channels: 2},
			expected: Config{ListenAddr: "flag:5020", Channels: 1},
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"MODBUSAUDIO_NO_AUDIO": "false"},
			changed:  map[string]bool{},
			initial:  Config{NoAudio: true},
			expected: Config{NoAudio: false},
		},
		{
			name:     "accepts ParseBool spellings",
			envVars:  map[string]string{"MODBUSAUDIO_WATCH": "TRUE", "MODBUSAUDIO_NO_AUDIO": "0"},
			changed:  map[string]bool{},
			initial:  Config{NoAudio: true},
			expected: Config{WatchClips: true},
		},
		{
			name:    "returns error for invalid bool",
			envVars: map[string]string{"MODBUSAUDIO_NO_AUDIO": "yes"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"MODBUSAUDIO_READ_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"MODBUSAUDIO_SAMPLE_RATE": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() =\n%+v\nwant\n%+v", cfg, tt.expected)
			}
		})
	}
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, "warn")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, "loud")
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
