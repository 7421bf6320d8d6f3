package goanalysis

import (
	"sort"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/appends"
	"golang.org/x/tools/go/analysis/passes/asmdecl"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/atomicalign"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/cgocall"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/deepequalerrors"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/directive"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/fieldalignment"
	"golang.org/x/tools/go/analysis/passes/framepointer"
	"golang.org/x/tools/go/analysis/passes/httpmux"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/reflectvaluecompare"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/slog"
	"golang.org/x/tools/go/analysis/passes/sortslice"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/stdversion"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/timeformat"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unsafeptr"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/unusedwrite"
	"golang.org/x/tools/go/analysis/passes/waitgroup"

	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// catalogueEntry is a built-in analyzer and its default enablement.
type catalogueEntry struct {
	analyzer *analysis.Analyzer
	enabled  bool // part of the default set
}

// catalogue lists the built-in analyzers. The default set mirrors go vet;
// the rest are opt-in because they are noisy or expensive.
var catalogue = []catalogueEntry{
	{appends.Analyzer, true},
	{asmdecl.Analyzer, true},
	{assign.Analyzer, true},
	{atomic.Analyzer, true},
	{bools.Analyzer, true},
	{buildtag.Analyzer, true},
	{cgocall.Analyzer, true},
	{composite.Analyzer, true},
	{copylock.Analyzer, true},
	{defers.Analyzer, true},
	{directive.Analyzer, true},
	{errorsas.Analyzer, true},
	{framepointer.Analyzer, true},
	{httpresponse.Analyzer, true},
	{ifaceassert.Analyzer, true},
	{loopclosure.Analyzer, true},
	{lostcancel.Analyzer, true},
	{nilfunc.Analyzer, true},
	{printf.Analyzer, true},
	{shift.Analyzer, true},
	{sigchanyzer.Analyzer, true},
	{slog.Analyzer, true},
	{stdmethods.Analyzer, true},
	{stdversion.Analyzer, true},
	{stringintconv.Analyzer, true},
	{structtag.Analyzer, true},
	{testinggoroutine.Analyzer, true},
	{tests.Analyzer, true},
	{timeformat.Analyzer, true},
	{unmarshal.Analyzer, true},
	{unreachable.Analyzer, true},
	{unsafeptr.Analyzer, true},
	{unusedresult.Analyzer, true},
	{waitgroup.Analyzer, true},

	{atomicalign.Analyzer, false},
	{deepequalerrors.Analyzer, false},
	{fieldalignment.Analyzer, false},
	{httpmux.Analyzer, false},
	{nilness.Analyzer, false},
	{reflectvaluecompare.Analyzer, false},
	{shadow.Analyzer, false},
	{sortslice.Analyzer, false},
	{unusedwrite.Analyzer, false},
}

var (
	allAnalyzers     []lint.Analyzer
	defaultAnalyzers []lint.Analyzer
	byName           = make(map[string]lint.Analyzer)
)

func init() {
	sorted := make([]catalogueEntry, len(catalogue))
	copy(sorted, catalogue)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].analyzer.Name < sorted[j].analyzer.Name
	})

	for _, p := range sorted {
		a := Wrap(p.analyzer)
		allAnalyzers = append(allAnalyzers, a)
		byName[a.ID()] = a
		if p.enabled {
			defaultAnalyzers = append(defaultAnalyzers, a)
			lint.Register(a)
		} else {
			lint.RegisterDisabled(a)
		}
	}
}

// AllAnalyzers returns every built-in analyzer, sorted by name.
func AllAnalyzers() []lint.Analyzer {
	out := make([]lint.Analyzer, len(allAnalyzers))
	copy(out, allAnalyzers)
	return out
}

// DefaultAnalyzers returns the analyzers enabled when none are configured.
func DefaultAnalyzers() []lint.Analyzer {
	out := make([]lint.Analyzer, len(defaultAnalyzers))
	copy(out, defaultAnalyzers)
	return out
}

// Lookup returns a built-in analyzer by name.
func Lookup(name string) (lint.Analyzer, bool) {
	a, ok := byName[name]
	return a, ok
}

// RegisterAll adds the built-in analyzers to r with their default enablement.
func RegisterAll(r *lint.Registry) {
	for _, p := range catalogue {
		a, _ := Lookup(p.analyzer.Name)
		r.Register(a, p.enabled)
	}
}
