package output

import "io"

// OutputFactory builds the writers a target's delegated commands write to.
type OutputFactory interface {
	Stdout(prefix string) io.Writer
	Stderr(prefix string) io.Writer
}
