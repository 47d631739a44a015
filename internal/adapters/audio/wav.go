package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultResampleQuality is used when WAVDecoder.Quality is zero.
const DefaultResampleQuality = 4

// WAVDecoder decodes WAV files into interleaved 16-bit samples matching the
// output stream: resampled to SampleRate, mono sources duplicated for stereo
// output and stereo sources averaged for mono output.
type WAVDecoder struct {
	SampleRate int
	Channels   int
	Quality    int
}

// Decode reads the whole file at path.
func (d WAVDecoder) Decode(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var s beep.Streamer = streamer
	target := beep.SampleRate(d.SampleRate)
	if d.SampleRate > 0 && format.SampleRate != target {
		quality := d.Quality
		if quality <= 0 {
			quality = DefaultResampleQuality
		}
		s = beep.Resample(quality, format.SampleRate, target, s)
	}

	channels := d.Channels
	if channels != 1 {
		channels = 2
	}
	out := make([]int16, 0, streamer.Len()*channels)
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			if channels == 1 {
				out = append(out, toInt16((frame[0]+frame[1])/2))
			} else {
				out = append(out, toInt16(frame[0]), toInt16(frame[1]))
			}
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func toInt16(v float64) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(math.Round(v * 32767))
}
