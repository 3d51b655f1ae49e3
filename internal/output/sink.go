package output

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// Stream names one of the output views.
type Stream string

const (
	Raw       Stream = "raw"
	Corrected Stream = "corrected"
	Diff      Stream = "diff"
)

type destination struct {
	path    string
	w       io.WriteCloser
	written int64
}

func (d *destination) Write(p []byte) (int, error) {
	n, err := d.w.Write(p)
	d.written += int64(n)
	return n, err
}

// Sink fans page blocks out to independent streams. Blocks go straight to the
// destination writer; nothing beyond the current page is held.
type Sink struct {
	dests map[Stream]*destination
	order []Stream
}

func NewSink() *Sink {
	return &Sink{dests: make(map[Stream]*destination)}
}

// Add registers w as the destination for stream. The sink owns w from now on.
func (s *Sink) Add(stream Stream, path string, w io.WriteCloser) {
	if _, ok := s.dests[stream]; !ok {
		s.order = append(s.order, stream)
	}
	s.dests[stream] = &destination{path: path, w: w}
}

// Has reports whether stream was registered.
func (s *Sink) Has(stream Stream) bool {
	_, ok := s.dests[stream]
	return ok
}

// WriteText appends a text block to stream.
func (s *Sink) WriteText(stream Stream, page int, text string) error {
	d, ok := s.dests[stream]
	if !ok {
		return fmt.Errorf("output stream %s not open", stream)
	}
	if err := WritePageText(d, page, text); err != nil {
		return fmt.Errorf("write %s page %d to %s: %w", stream, page, d.path, err)
	}
	return nil
}

// WriteLines appends a line block to stream.
func (s *Sink) WriteLines(stream Stream, page int, lines []string) error {
	d, ok := s.dests[stream]
	if !ok {
		return fmt.Errorf("output stream %s not open", stream)
	}
	if err := WritePageLines(d, page, lines); err != nil {
		return fmt.Errorf("write %s page %d to %s: %w", stream, page, d.path, err)
	}
	return nil
}

// Stat describes one stream after (or during) a run.
type Stat struct {
	Stream Stream `json:"stream"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
}

// Stats lists registered streams in registration order.
func (s *Sink) Stats() []Stat {
	out := make([]Stat, 0, len(s.order))
	for _, name := range s.order {
		d := s.dests[name]
		out = append(out, Stat{Stream: name, Path: d.path, Bytes: d.written})
	}
	return out
}

// Close closes every stream, even when some fail.
func (s *Sink) Close() error {
	var err error
	for _, name := range s.order {
		if cerr := s.dests[name].w.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s output: %w", name, cerr))
		}
	}
	return err
}
