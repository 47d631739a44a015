package ports

// ClipDecoder decodes an audio file into interleaved 16-bit samples in the
// output stream's format.
type ClipDecoder interface {
	Decode(path string) ([]int16, error)
}

// ClipSpec binds a clip slot to an audio file.
type ClipSpec struct {
	Slot uint16
	Path string
}

// ClipSource produces the clip specs to load, in file order.
type ClipSource interface {
	Clips() ([]ClipSpec, error)
}
