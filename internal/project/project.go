package project

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/tymbalodeon/course-request-form/internal"
	"github.com/tymbalodeon/course-request-form/internal/config"
	"github.com/tymbalodeon/course-request-form/internal/output"
	"github.com/tymbalodeon/course-request-form/internal/project/starfile"
	"github.com/tymbalodeon/course-request-form/internal/rules"
)

// Discover walks up from dir to the first directory containing the manage
// script or a tasks file, so the runner can be invoked from anywhere
// inside the project.
func Discover(dir string, cfg config.Config) (string, error) {
	for {
		for _, marker := range []string{cfg.ManageScript, internal.TasksFile} {
			p := filepath.Join(dir, marker)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return dir, nil
			}
		}

		if dir == filepath.Dir(dir) {
			return "", errors.Errorf("unable to find %s in the current directory or any parent directory", cfg.ManageScript)
		}

		dir = filepath.Dir(dir)
	}
}

// Load reads the project's optional tasks file, returning the possibly
// overridden config and any extra targets it defines.
func Load(projectDir string, cfg config.Config, out output.OutputFactory) (config.Config, []rules.Rule, error) {
	path := filepath.Join(projectDir, internal.TasksFile)

	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return cfg, nil, nil
	}

	return starfile.Exec(path, cfg, out)
}
