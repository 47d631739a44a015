// Package clipconfig loads the clip command file: an ordered list of
// commands, one per line, such as
//
//	# slot  file
//	audio 3 "alarms/door open.wav"
//
// Files ending in .yaml or .yml hold the same records as a YAML list:
//
//	- command: audio
//	  args: [3, alarms/door open.wav]
package clipconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fluffware/modbusaudio/internal/ports"
	"github.com/fluffware/modbusaudio/pkg/log"
)

// CommandAudio binds a clip slot to a WAV file: audio <slot> <path>.
const CommandAudio = "audio"

// Command is one record of the clip command file.
type Command struct {
	Name string   `yaml:"command"`
	Args []string `yaml:"args"`

	// Line is the 1-based source line, or the record index for YAML.
	Line int `yaml:"-"`
}

// Parse reads line oriented commands. Blank lines and lines whose first
// token starts with '#' are skipped.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		tokens := Split(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}
		cmds = append(cmds, Command{Name: tokens[0], Args: tokens[1:], Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// ParseYAML reads commands from a YAML list.
func ParseYAML(r io.Reader) ([]Command, error) {
	var cmds []Command
	if err := yaml.NewDecoder(r).Decode(&cmds); err != nil && err != io.EOF {
		return nil, err
	}
	for i := range cmds {
		cmds[i].Line = i + 1
	}
	return cmds, nil
}

// Load reads the command file at path, choosing the format by extension.
func Load(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return Parse(f)
	}
}

// ClipSpecs interprets commands, returning one spec per audio command in
// order. Relative paths are resolved against baseDir. Unknown commands are
// logged and skipped.
func ClipSpecs(cmds []Command, baseDir string, logger log.Logger) ([]ports.ClipSpec, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	var specs []ports.ClipSpec
	for _, c := range cmds {
		switch c.Name {
		case CommandAudio:
			if len(c.Args) != 2 {
				return nil, fmt.Errorf("line %d: audio takes 2 arguments, got %d", c.Line, len(c.Args))
			}
			slot, err := strconv.ParseUint(c.Args[0], 10, 16)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid slot %q: %w", c.Line, c.Args[0], err)
			}
			path := c.Args[1]
			if !filepath.IsAbs(path) && baseDir != "" {
				path = filepath.Join(baseDir, path)
			}
			specs = append(specs, ports.ClipSpec{Slot: uint16(slot), Path: path})
		default:
			logger.Warn("unknown command in clip file",
				log.String("command", c.Name),
				log.Int("line", c.Line))
		}
	}
	return specs, nil
}

// FileSource is a ports.ClipSource reading a clip command file.
type FileSource struct {
	Path   string
	Logger log.Logger
}

// Clips loads and interprets the file.
func (s FileSource) Clips() ([]ports.ClipSpec, error) {
	cmds, err := Load(s.Path)
	if err != nil {
		return nil, fmt.Errorf("load clip file: %w", err)
	}
	specs, err := ClipSpecs(cmds, filepath.Dir(s.Path), s.Logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return specs, nil
}

var _ ports.ClipSource = FileSource{}
