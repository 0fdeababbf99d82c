package targets

import "github.com/pkg/errors"

type coverageKind int

const (
	coveragePlain coverageKind = iota
	coverageThreshold
	coverageSearch
)

// CoverageMode selects how the coverage report is produced: plain, failing
// below a threshold, or filtered to lines containing a search string. The
// variants are mutually exclusive.
type CoverageMode struct {
	kind      coverageKind
	threshold int
	search    string
}

func CoveragePlain() CoverageMode {
	return CoverageMode{kind: coveragePlain}
}

func CoverageThreshold(percent int) CoverageMode {
	return CoverageMode{kind: coverageThreshold, threshold: percent}
}

func CoverageSearch(text string) CoverageMode {
	return CoverageMode{kind: coverageSearch, search: text}
}

// CoverageModeFor resolves the optional report parameters. The threshold
// branch is checked first, so it wins if both are somehow set. A negative
// failUnder means unset.
func CoverageModeFor(failUnder int, search string) CoverageMode {
	switch {
	case failUnder >= 0:
		return CoverageThreshold(failUnder)
	case search != "":
		return CoverageSearch(search)
	default:
		return CoveragePlain()
	}
}

// TestSelection narrows the test run to one module, or one class within a
// module. The zero value runs the full suite.
type TestSelection struct {
	module string
	class  string
}

func AllTests() TestSelection {
	return TestSelection{}
}

func ModuleTests(module string) TestSelection {
	return TestSelection{module: module}
}

func ClassTests(module string, class string) TestSelection {
	return TestSelection{module: module, class: class}
}

var ErrClassWithoutModule = errors.New("the class parameter requires a module")

// TestSelectionFor resolves the optional test parameters. A class on its
// own has nothing to attach to and is rejected.
func TestSelectionFor(module string, class string) (TestSelection, error) {
	if class != "" && module == "" {
		return TestSelection{}, ErrClassWithoutModule
	}
	return TestSelection{module: module, class: class}, nil
}
