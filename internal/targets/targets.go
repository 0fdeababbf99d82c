package targets

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/tymbalodeon/course-request-form/internal/config"
	"github.com/tymbalodeon/course-request-form/internal/output"
	"github.com/tymbalodeon/course-request-form/internal/rules"
)

// Options carries the per-invocation parameters. Fields are only read by
// the targets they belong to.
type Options struct {
	Package  string
	Coverage CoverageMode
	Tests    TestSelection
}

// Build constructs the fixed target table plus any extra user-defined
// rules, and the help target listing them all. Extra rules may not shadow
// a builtin name.
func Build(cfg config.Config, opts Options, projectDir string, out output.OutputFactory, extra []rules.Rule) ([]rules.Rule, error) {
	builtin := func(id string, doc string, cmds ...string) *rules.Command {
		return &rules.Command{
			IID:    id,
			Doc:    doc,
			Cmds:   cmds,
			Cwd:    projectDir,
			Stdout: out.Stdout(id),
			Stderr: out.Stderr(id),
		}
	}

	pkg := builtin("package", "install a package",
		cfg.PipCmd("install "+opts.Package))
	if opts.Package == "" {
		pkg.Cmds = nil
	}

	freezeCmd := cfg.PipCmd("freeze > " + cfg.Requirements)

	add := builtin("add", "install a package and freeze requirements", freezeCmd)
	add.Deps = []string{"package"}

	install := builtin("install", "install all packages from the requirements file",
		cfg.PipCmd("install -r "+cfg.Requirements))
	install.Srcs = []string{cfg.Requirements}

	coverage := builtin("coverage", "run the tests and report coverage",
		coverageCmds(cfg, opts.Coverage)...)
	if opts.Coverage.kind == coverageSearch {
		coverage.Stdout = output.NewLineFilter(out.Stdout("coverage"), opts.Coverage.search)
	}

	shell := builtin("shell", "open a django-aware interactive shell",
		cfg.Manage("shell_plus"))
	shell.Interactive = true
	shell.Stdout = os.Stdout
	shell.Stderr = os.Stderr

	all := []rules.Rule{
		pkg,
		add,
		builtin("check", "inspect the project for common problems",
			cfg.Manage("check")),
		coverage,
		builtin("coverage-html", "open the html coverage report in a browser",
			"coverage html",
			fmt.Sprintf("%s htmlcov/index.html", cfg.Opener)),
		builtin("freeze", "write installed package versions to the requirements file",
			freezeCmd),
		install,
		builtin("migrations", "make and run database migrations",
			cfg.Manage("makemigrations"),
			cfg.Manage("migrate")),
		shell,
		builtin("static", "collect static files",
			cfg.Manage("collectstatic --clear --noinput")),
		builtin("test", "run the tests",
			testCmd(cfg, opts.Tests)),
	}

	names := map[string]bool{"help": true}
	for _, r := range all {
		names[r.ID()] = true
	}

	for _, r := range extra {
		if names[r.ID()] {
			return nil, errors.Errorf("target %s is already defined", r.ID())
		}
		names[r.ID()] = true
		all = append(all, r)
	}

	help := &rules.Help{
		IID:    "help",
		Doc:    "display this help message",
		Cwd:    projectDir,
		Stdout: os.Stdout,
	}
	help.Entries = append(lo.Map(all, func(r rules.Rule, i int) rules.HelpEntry {
		return rules.HelpEntry{Name: r.ID(), Doc: r.Help()}
	}), rules.HelpEntry{Name: help.IID, Doc: help.Doc})

	return append(all, help), nil
}

func coverageCmds(cfg config.Config, mode CoverageMode) []string {
	run := fmt.Sprintf("coverage run %s test", cfg.ManageScript)

	switch mode.kind {
	case coverageThreshold:
		return []string{run, fmt.Sprintf("coverage report --fail-under=%d", mode.threshold)}
	default:
		return []string{run, "coverage report -m"}
	}
}

func testCmd(cfg config.Config, sel TestSelection) string {
	if sel.module == "" {
		return cfg.Manage(fmt.Sprintf("test --verbosity %d", cfg.TestVerbosity))
	}
	return cfg.Manage(fmt.Sprintf("test %s --verbosity %d",
		cfg.TestLabel(sel.module, sel.class), cfg.TestVerbosity))
}
