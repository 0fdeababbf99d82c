package rules

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tymbalodeon/course-request-form/internal"
)

// Checksum skips the inner rule when none of its input files changed
// since the last successful run. Rules without inputs always run.
type Checksum struct {
	Inner      Rule
	ProjectDir string
	Stdout     io.Writer
}

// Execute implements Rule
func (c *Checksum) Execute(ctx context.Context) error {
	if len(c.Inner.Inputs()) == 0 {
		return c.Inner.Execute(ctx)
	}

	current, err := checksum(c.Inner.Getwd(), c.Inputs())
	if err != nil {
		return err
	}

	previous, err := c.load()
	if err != nil {
		return err
	}

	if current != previous {
		if err := c.Inner.Execute(ctx); err != nil {
			return err
		}
		if err := c.store(current); err != nil {
			logrus.Error(errors.Wrapf(err, "failed to store checksum for target %s", c.ID()))
		}
		return nil
	}

	fmt.Fprintf(c.Stdout, "%s is up-to-date\n", c.Inner.ID())
	return nil
}

// Dependencies implements Rule
func (c *Checksum) Dependencies() []string {
	return c.Inner.Dependencies()
}

// Inputs implements Rule
func (c *Checksum) Inputs() []string {
	return c.Inner.Inputs()
}

func (c *Checksum) ID() string {
	return c.Inner.ID()
}

func (c *Checksum) Help() string {
	return c.Inner.Help()
}

func (c *Checksum) Getwd() string {
	return c.Inner.Getwd()
}

var _ Rule = &Checksum{}

func checksum(cwd string, includes []string) (string, error) {
	paths := mapset.NewSet[string]()

	for _, source := range includes {
		results, err := doublestar.FilepathGlob(filepath.Join(cwd, source))
		if err != nil {
			return "", err
		}

		for _, path := range results {
			if f, err := os.Stat(path); err == nil && !f.IsDir() {
				paths.Add(path)
			}
		}
	}

	p := paths.ToSlice()
	sort.Strings(p)

	h := crc32.NewIEEE()
	for _, path := range p {
		if _, err := io.WriteString(h, path); err != nil {
			return "", err
		}

		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(h, f); err != nil {
			f.Close()
			return "", err
		}
		f.Close()
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func (c *Checksum) load() (string, error) {
	b, err := os.ReadFile(c.path())
	if os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", errors.Wrap(err, "failed to load target checksum")
	}

	return strings.TrimSpace(string(b)), nil
}

func (c *Checksum) store(sum string) error {
	path := c.path()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		if !os.IsExist(err) {
			return err
		}
	}

	if err := os.WriteFile(path, []byte(sum), 0644); err != nil {
		return errors.Wrap(err, "failed to write target checksum")
	}

	return nil
}

func (c *Checksum) path() string {
	return filepath.Join(c.ProjectDir, internal.CacheDir, c.ID())
}
