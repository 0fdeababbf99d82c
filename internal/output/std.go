package output

import (
	"hash/fnv"
	"io"

	"github.com/fatih/color"
	"github.com/kr/text"
)

type std struct {
	stdout io.Writer
	stderr io.Writer
}

// NewStd returns a factory that prefixes every line with the colored
// target name, so interleaved output stays attributable.
func NewStd(stdout io.Writer, stderr io.Writer) OutputFactory {
	return &std{
		stdout: stdout,
		stderr: stderr,
	}
}

var colors = []*color.Color{
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
	color.New(color.FgWhite),
	color.New(color.FgYellow),
	color.New(color.FgHiBlue),
	color.New(color.FgHiMagenta),
	color.New(color.FgHiCyan),
	color.New(color.FgHiWhite),
	color.New(color.FgHiYellow),
}

// Stdout implements OutputFactory
func (s *std) Stdout(prefix string) io.Writer {
	c := colors[hash(prefix)%len(colors)]
	return text.NewIndentWriter(s.stdout, []byte(c.Sprintf("[%s] ", prefix)))
}

// Stderr implements OutputFactory
func (s *std) Stderr(prefix string) io.Writer {
	c := colors[hash(prefix)%len(colors)]
	return text.NewIndentWriter(s.stderr, []byte(c.Sprintf("[%s] ", prefix)))
}

func hash(s string) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32())
}

var _ OutputFactory = &std{}
