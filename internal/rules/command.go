package rules

import (
	"context"
	"io"
	"os"

	"github.com/tymbalodeon/course-request-form/internal/execext"
)

// Command is a target that delegates to a fixed sequence of shell
// commands, stopping at the first failure. Interactive commands get the
// process stdin attached.
type Command struct {
	IID  string
	Doc  string
	Srcs []string
	Deps []string
	Cmds []string

	Interactive bool

	Cwd    string
	Stdout io.Writer
	Stderr io.Writer
}

// Execute implements Rule
func (c *Command) Execute(ctx context.Context) error {
	opts := &execext.RunCommandOptions{
		Env:    os.Environ(),
		Dir:    c.Cwd,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	}
	if c.Interactive {
		opts.Stdin = os.Stdin
	}

	if err := execext.RunCommands(ctx, c.Cmds, opts); err != nil {
		return err
	}

	return flush(c.Stdout)
}

// Dependencies implements Rule
func (c *Command) Dependencies() []string {
	return c.Deps
}

// Inputs implements Rule
func (c *Command) Inputs() []string {
	return c.Srcs
}

func (c *Command) ID() string {
	return c.IID
}

func (c *Command) Help() string {
	return c.Doc
}

func (c *Command) Getwd() string {
	return c.Cwd
}

// flush drains a buffering writer such as output.LineFilter once all
// commands have completed.
func flush(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

var _ Rule = &Command{}
