package config

import (
	"fmt"
	"runtime"
)

// Config holds the fixed invocation constants for a project. A value is
// built once at startup, optionally overridden by the project's tasks
// file, and passed around explicitly; nothing mutates it afterwards.
type Config struct {
	// Python is the interpreter used to run the manage script.
	Python string

	// ManageScript is the management entry point, relative to the
	// project directory.
	ManageScript string

	// Pip is the package manager executable.
	Pip string

	// Requirements is the dependency list file, relative to the project
	// directory.
	Requirements string

	// TestsPackage is the dotted package holding the test modules.
	TestsPackage string

	// TestVerbosity is passed to the test runner.
	TestVerbosity int

	// Opener is the command used to open files in a browser.
	Opener string
}

func Default() Config {
	return Config{
		Python:        "python",
		ManageScript:  "manage.py",
		Pip:           "pip",
		Requirements:  "requirements.txt",
		TestsPackage:  "form.tests",
		TestVerbosity: 2,
		Opener:        defaultOpener(),
	}
}

// Manage returns a management command line for the given subcommand.
func (c Config) Manage(sub string) string {
	return fmt.Sprintf("%s %s %s", c.Python, c.ManageScript, sub)
}

// PipCmd returns a package manager command line for the given arguments.
func (c Config) PipCmd(args string) string {
	return fmt.Sprintf("%s %s", c.Pip, args)
}

// TestLabel returns the dotted label selecting a test module, or a single
// test class within it.
func (c Config) TestLabel(module string, class string) string {
	if class == "" {
		return fmt.Sprintf("%s.test_%s", c.TestsPackage, module)
	}
	return fmt.Sprintf("%s.test_%s.%sTest", c.TestsPackage, module, class)
}

func defaultOpener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}
