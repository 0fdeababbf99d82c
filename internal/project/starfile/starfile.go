package starfile

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"

	"github.com/tymbalodeon/course-request-form/internal/config"
	"github.com/tymbalodeon/course-request-form/internal/output"
	"github.com/tymbalodeon/course-request-form/internal/rules"
)

// Exec runs a tasks file, collecting the targets it defines and any
// settings overrides. Two builtins are exposed: task(name, cmds, deps?,
// srcs?, help?) and settings(...), the latter callable at most once.
func Exec(file string, cfg config.Config, out output.OutputFactory) (config.Config, []rules.Rule, error) {
	thread := &starlark.Thread{
		Name: file,
	}

	cwd := filepath.Dir(file)

	r := []rules.Rule{}

	task := starlark.NewBuiltin("task", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		name := ""
		cmds := &starlark.List{}
		deps := &starlark.List{}
		srcs := &starlark.List{}
		help := ""
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"name", &name,
			"cmds", &cmds,
			"deps?", &deps,
			"srcs?", &srcs,
			"help?", &help); err != nil {
			return nil, err
		}

		r = append(r, &rules.Command{
			IID:  name,
			Doc:  help,
			Srcs: tostrarr(srcs),
			Deps: tostrarr(deps),
			Cmds: tostrarr(cmds),

			Cwd:    cwd,
			Stdout: out.Stdout(name),
			Stderr: out.Stderr(name),
		})

		return starlark.None, nil
	})

	settingsSeen := false
	settings := starlark.NewBuiltin("settings", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if settingsSeen {
			return nil, fmt.Errorf("settings may only be called once")
		}
		settingsSeen = true

		overridden := cfg
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"python?", &overridden.Python,
			"manage?", &overridden.ManageScript,
			"pip?", &overridden.Pip,
			"requirements?", &overridden.Requirements,
			"tests_package?", &overridden.TestsPackage,
			"verbosity?", &overridden.TestVerbosity,
			"opener?", &overridden.Opener); err != nil {
			return nil, err
		}
		cfg = overridden

		return starlark.None, nil
	})

	if _, err := starlark.ExecFile(thread, file, nil, starlark.StringDict{
		"task":     task,
		"settings": settings,
	}); err != nil {
		return cfg, nil, err
	}

	return cfg, r, nil
}

func tostrarr(l *starlark.List) []string {
	out := make([]string, l.Len())
	i := 0
	iter := l.Iterate()
	var v starlark.Value
	for iter.Next(&v) {
		s, ok := starlark.AsString(v)
		if !ok {
			logrus.Warnf("non-string values will be coerced to strings %s -> %s", v.Type(), v.String())
			s = v.String()
		}
		out[i] = s
		i++
	}
	return out
}
