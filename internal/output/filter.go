package output

import (
	"bytes"
	"io"
)

// LineFilter forwards only the lines containing a search string to the
// underlying writer. Partial trailing lines are held until Flush.
type LineFilter struct {
	w      io.Writer
	search []byte
	buf    []byte
}

func NewLineFilter(w io.Writer, search string) *LineFilter {
	return &LineFilter{
		w:      w,
		search: []byte(search),
	}
}

// Write implements io.Writer
func (f *LineFilter) Write(p []byte) (int, error) {
	f.buf = append(f.buf, p...)

	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			return len(p), nil
		}

		line := f.buf[:i+1]
		if bytes.Contains(line, f.search) {
			if _, err := f.w.Write(line); err != nil {
				return len(p), err
			}
		}
		f.buf = f.buf[i+1:]
	}
}

// Flush writes out a final unterminated line if it matches.
func (f *LineFilter) Flush() error {
	if len(f.buf) == 0 {
		return nil
	}

	line := f.buf
	f.buf = nil

	if !bytes.Contains(line, f.search) {
		return nil
	}

	_, err := f.w.Write(append(line, '\n'))
	return err
}

var _ io.Writer = &LineFilter{}
