package exec

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter labels every line of tool output, e.g. "move │ ". A
// partial last line waits for its newline or for Flush.
type PrefixWriter struct {
	mu      sync.Mutex
	w       io.Writer
	prefix  []byte
	pending []byte
}

// NewPrefixWriter returns a PrefixWriter writing to w.
func NewPrefixWriter(w io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{w: w, prefix: []byte(prefix)}
}

func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = append(p.pending, data...)
	for {
		line, rest, found := bytes.Cut(p.pending, []byte{'\n'})
		if !found {
			return len(data), nil
		}
		if err := p.emit(line); err != nil {
			return 0, err
		}
		p.pending = rest
	}
}

// Flush terminates and writes a held partial line.
func (p *PrefixWriter) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) == 0 {
		return nil
	}
	err := p.emit(p.pending)
	p.pending = nil
	return err
}

func (p *PrefixWriter) emit(line []byte) error {
	out := make([]byte, 0, len(p.prefix)+len(line)+1)
	out = append(append(append(out, p.prefix...), line...), '\n')
	_, err := p.w.Write(out)
	return err
}
