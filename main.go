package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/tymbalodeon/course-request-form/internal"
	"github.com/tymbalodeon/course-request-form/internal/config"
	"github.com/tymbalodeon/course-request-form/internal/execext"
	"github.com/tymbalodeon/course-request-form/internal/output"
	"github.com/tymbalodeon/course-request-form/internal/pm"
	"github.com/tymbalodeon/course-request-form/internal/project"
	"github.com/tymbalodeon/course-request-form/internal/rules"
	"github.com/tymbalodeon/course-request-form/internal/targets"
	"github.com/tymbalodeon/course-request-form/internal/taskengine"
	"github.com/tymbalodeon/course-request-form/internal/taskgraph"
)

var (
	app            = kingpin.New(internal.AppName, "developer task runner for the course request form project")
	verbose        = app.Flag("verbose", "enable verbose logging").Bool()
	projectDirFlag = app.Flag("project", "the path to the project directory").String()
	skipUnchanged  = app.Flag("skip-unchanged", "skip targets whose input files are unchanged").Bool()
	coverFailUnder = app.Flag("fail-under", "coverage: fail the report when total coverage is below this percentage").Default("-1").Int()
	coverSearch    = app.Flag("search", "coverage: only print report lines containing this text").String()
	testModule     = app.Flag("module", "test: run only the tests in this module").String()
	testClass      = app.Flag("class", "test: run only this test class, requires --module").String()
	targetArg      = app.Arg("target", "the target to run").Required().String()
	packageNameArg = app.Arg("package", "the package to install, for the package and add targets").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logrus.SetLevel(logrus.InfoLevel)
	if *verbose == true {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
		logrus.Debug("exiting...")
	}()

	if err := run(ctx, *targetArg, *projectDirFlag); err != nil {
		if status, ok := execext.ExitStatus(errors.Cause(err)); ok {
			logrus.Debug(err)
			os.Exit(int(status))
		}
		logrus.Fatal(err)
	}
}

func run(ctx context.Context, target string, projectDir string) error {
	cfg := config.Default()

	dir, err := findProject(projectDir, cfg)
	if err != nil {
		return err
	}

	out := output.NewStd(os.Stdout, os.Stderr)

	cfg, extra, err := project.Load(dir, cfg, out)
	if err != nil {
		return err
	}

	opts, err := options(target)
	if err != nil {
		return err
	}

	all, err := targets.Build(cfg, opts, dir, out, extra)
	if err != nil {
		return err
	}

	if *skipUnchanged {
		for i := 0; i < len(all); i++ {
			all[i] = &rules.Checksum{
				Inner:      all[i],
				ProjectDir: dir,
				Stdout:     os.Stdout,
			}
		}
	}

	g := taskgraph.New()

	for _, r := range all {
		if err := g.AddTask(r); err != nil {
			return err
		}
	}

	for _, r := range all {
		for _, d := range r.Dependencies() {
			if err := g.AddDependency(r.ID(), d); err != nil {
				return err
			}
		}
	}

	if g.FindTask(target) == nil {
		return errors.Errorf("unknown target %s, run \"%s help\" to list the available targets", target, internal.AppName)
	}

	engine := taskengine.New()

	if *verbose {
		if err := engine.Tree(os.Stdout, g, target); err != nil {
			return err
		}
	}

	processManager := pm.New(ctx)

	processManager.Start(func(ctx context.Context) error {
		return engine.Execute(ctx, g, target)
	})

	return processManager.Wait()
}

// options resolves the optional parameters into the tagged types the
// target table consumes, validating the combinations up front.
func options(target string) (targets.Options, error) {
	tests, err := targets.TestSelectionFor(*testModule, *testClass)
	if err != nil {
		return targets.Options{}, err
	}

	name := *packageNameArg
	if (target == "package" || target == "add") && name == "" {
		return targets.Options{}, fmt.Errorf("the %s target requires a package name", target)
	}

	return targets.Options{
		Package:  name,
		Coverage: targets.CoverageModeFor(*coverFailUnder, *coverSearch),
		Tests:    tests,
	}, nil
}

func findProject(dir string, cfg config.Config) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	if dir == "" {
		return project.Discover(cwd, cfg)
	}

	if !path.IsAbs(dir) {
		dir = filepath.Clean(filepath.Join(cwd, dir))
	}

	return dir, nil
}
