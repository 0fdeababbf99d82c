package targets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tymbalodeon/course-request-form/internal/config"
	"github.com/tymbalodeon/course-request-form/internal/output"
	"github.com/tymbalodeon/course-request-form/internal/rules"
)

func testBuild(t *testing.T, opts Options, extra ...rules.Rule) []rules.Rule {
	t.Helper()

	out := output.NewStd(&bytes.Buffer{}, &bytes.Buffer{})
	all, err := Build(config.Default(), opts, t.TempDir(), out, extra)
	require.NoError(t, err)
	return all
}

func findCommand(t *testing.T, all []rules.Rule, id string) *rules.Command {
	t.Helper()

	for _, r := range all {
		if r.ID() == id {
			c, ok := r.(*rules.Command)
			require.True(t, ok)
			return c
		}
	}
	t.Fatalf("no target with id %s", id)
	return nil
}

func TestPackageTarget(t *testing.T) {
	require := require.New(t)

	all := testBuild(t, Options{Package: "canvasapi"})
	c := findCommand(t, all, "package")

	require.Equal([]string{"pip install canvasapi"}, c.Cmds)
	require.Empty(c.Deps)
}

func TestAddComposesPackageAndFreeze(t *testing.T) {
	require := require.New(t)

	all := testBuild(t, Options{Package: "canvasapi"})
	c := findCommand(t, all, "add")

	require.Equal([]string{"package"}, c.Deps)
	require.Equal([]string{"pip freeze > requirements.txt"}, c.Cmds)
	require.Equal(c.Cmds, findCommand(t, all, "freeze").Cmds)
}

func TestCheckTarget(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{}), "check")
	require.Equal([]string{"python manage.py check"}, c.Cmds)
}

func TestCoveragePlain(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{Coverage: CoveragePlain()}), "coverage")
	require.Equal([]string{
		"coverage run manage.py test",
		"coverage report -m",
	}, c.Cmds)
}

func TestCoverageThreshold(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{Coverage: CoverageThreshold(80)}), "coverage")
	require.Equal([]string{
		"coverage run manage.py test",
		"coverage report --fail-under=80",
	}, c.Cmds)
}

func TestCoverageSearchFiltersReport(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{Coverage: CoverageSearch("form")}), "coverage")
	require.Equal([]string{
		"coverage run manage.py test",
		"coverage report -m",
	}, c.Cmds)

	_, ok := c.Stdout.(*output.LineFilter)
	require.True(ok)
}

func TestCoverageThresholdWinsOverSearch(t *testing.T) {
	require := require.New(t)

	mode := CoverageModeFor(90, "form")
	require.Equal(CoverageThreshold(90), mode)

	require.Equal(CoverageSearch("form"), CoverageModeFor(-1, "form"))
	require.Equal(CoveragePlain(), CoverageModeFor(-1, ""))
}

func TestCoverageHTMLTarget(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{}), "coverage-html")
	require.Len(c.Cmds, 2)
	require.Equal("coverage html", c.Cmds[0])
	require.Contains(c.Cmds[1], "htmlcov/index.html")
}

func TestInstallTarget(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{}), "install")
	require.Equal([]string{"pip install -r requirements.txt"}, c.Cmds)
	require.Equal([]string{"requirements.txt"}, c.Srcs)
}

func TestMigrationsRunInOrder(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{}), "migrations")
	require.Equal([]string{
		"python manage.py makemigrations",
		"python manage.py migrate",
	}, c.Cmds)
}

func TestShellTargetIsInteractive(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{}), "shell")
	require.Equal([]string{"python manage.py shell_plus"}, c.Cmds)
	require.True(c.Interactive)
}

func TestStaticTarget(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{}), "static")
	require.Equal([]string{"python manage.py collectstatic --clear --noinput"}, c.Cmds)
}

func TestFullSuite(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{Tests: AllTests()}), "test")
	require.Equal([]string{"python manage.py test --verbosity 2"}, c.Cmds)
}

func TestModuleSelection(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{Tests: ModuleTests("views")}), "test")
	require.Equal([]string{"python manage.py test form.tests.test_views --verbosity 2"}, c.Cmds)
}

func TestClassSelection(t *testing.T) {
	require := require.New(t)

	c := findCommand(t, testBuild(t, Options{Tests: ClassTests("views", "Request")}), "test")
	require.Equal([]string{"python manage.py test form.tests.test_views.RequestTest --verbosity 2"}, c.Cmds)
}

func TestClassWithoutModuleIsRejected(t *testing.T) {
	require := require.New(t)

	_, err := TestSelectionFor("", "Request")
	require.ErrorIs(err, ErrClassWithoutModule)

	sel, err := TestSelectionFor("views", "Request")
	require.NoError(err)
	require.Equal(ClassTests("views", "Request"), sel)
}

func TestExtraTargetsAreMerged(t *testing.T) {
	require := require.New(t)

	extra := &rules.Command{IID: "lint", Doc: "run the linters", Cmds: []string{"flake8"}}
	all := testBuild(t, Options{}, extra)

	require.Equal([]string{"flake8"}, findCommand(t, all, "lint").Cmds)
}

func TestExtraTargetMayNotShadowBuiltin(t *testing.T) {
	require := require.New(t)

	out := output.NewStd(&bytes.Buffer{}, &bytes.Buffer{})
	_, err := Build(config.Default(), Options{}, t.TempDir(), out, []rules.Rule{
		&rules.Command{IID: "test"},
	})
	require.Error(err)
}

func TestHelpListsEveryBuiltin(t *testing.T) {
	require := require.New(t)

	all := testBuild(t, Options{})

	var help *rules.Help
	for _, r := range all {
		if h, ok := r.(*rules.Help); ok {
			help = h
		}
	}
	require.NotNil(help)

	names := map[string]string{}
	for _, e := range help.Entries {
		names[e.Name] = e.Doc
	}

	for _, id := range []string{
		"package", "add", "check", "coverage", "coverage-html", "help",
		"freeze", "install", "migrations", "shell", "static", "test",
	} {
		require.NotEmpty(names[id], id)
	}
}
