package clipconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluffware/modbusaudio/internal/ports"
)

func TestParse(t *testing.T) {
	src := `# clip map
audio 3 alarm.wav

  audio 4 "door open.wav"
volume 10
`
	cmds, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	want := []Command{
		{Name: "audio", Args: []string{"3", "alarm.wav"}, Line: 2},
		{Name: "audio", Args: []string{"4", "door open.wav"}, Line: 4},
		{Name: "volume", Args: []string{"10"}, Line: 5},
	}
	assert.Equal(t, want, cmds)
}

func TestParseYAML(t *testing.T) {
	src := `
- command: audio
  args: [3, alarm.wav]
- command: audio
  args: ["4", "door open.wav"]
`
	cmds, err := ParseYAML(strings.NewReader(src))
	require.NoError(t, err)

	want := []Command{
		{Name: "audio", Args: []string{"3", "alarm.wav"}, Line: 1},
		{Name: "audio", Args: []string{"4", "door open.wav"}, Line: 2},
	}
	assert.Equal(t, want, cmds)
}

func TestParseYAML_Empty(t *testing.T) {
	cmds, err := ParseYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestClipSpecs(t *testing.T) {
	cmds := []Command{
		{Name: "audio", Args: []string{"3", "alarm.wav"}, Line: 1},
		{Name: "unknown", Line: 2},
		{Name: "audio", Args: []string{"65535", "/abs/last.wav"}, Line: 3},
	}

	specs, err := ClipSpecs(cmds, "/etc/clips", nil)
	require.NoError(t, err)
	assert.Equal(t, []ports.ClipSpec{
		{Slot: 3, Path: filepath.Join("/etc/clips", "alarm.wav")},
		{Slot: 65535, Path: "/abs/last.wav"},
	}, specs)
}

func TestClipSpecs_Errors(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"missing path", Command{Name: "audio", Args: []string{"3"}, Line: 7}, "line 7: audio takes 2 arguments, got 1"},
		{"slot not a number", Command{Name: "audio", Args: []string{"x", "a.wav"}, Line: 2}, `line 2: invalid slot "x"`},
		{"slot out of range", Command{Name: "audio", Args: []string{"65536", "a.wav"}, Line: 3}, `line 3: invalid slot "65536"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ClipSpecs([]Command{tt.cmd}, "", nil)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips.conf")
	require.NoError(t, os.WriteFile(path, []byte("audio 1 one.wav\n"), 0o644))

	specs, err := FileSource{Path: path}.Clips()
	require.NoError(t, err)
	assert.Equal(t, []ports.ClipSpec{{Slot: 1, Path: filepath.Join(dir, "one.wav")}}, specs)
}

func TestFileSource_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips.yml")
	require.NoError(t, os.WriteFile(path, []byte("- command: audio\n  args: [2, two.wav]\n"), 0o644))

	specs, err := FileSource{Path: path}.Clips()
	require.NoError(t, err)
	assert.Equal(t, []ports.ClipSpec{{Slot: 2, Path: filepath.Join(dir, "two.wav")}}, specs)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "nope.conf")}.Clips()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
