package goanalysis

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

const demoPath = "example.com/demo"

// compileSource type-checks import-free sources in memory, bypassing the
// go command.
func compileSource(t *testing.T, files map[string]string) *Compilation {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	fset := token.NewFileSet()
	var syntax []*ast.File
	var paths []string
	for _, name := range names {
		path := filepath.Join("/src/demo", name)
		f, err := parser.ParseFile(fset, path, files[name], parser.ParseComments)
		require.NoError(t, err)
		syntax = append(syntax, f)
		paths = append(paths, path)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	var conf types.Config
	tpkg, err := conf.Check(demoPath, fset, syntax, info)
	require.NoError(t, err)

	pkg := &packages.Package{
		ID:         demoPath,
		Name:       tpkg.Name(),
		PkgPath:    demoPath,
		GoFiles:    paths,
		Fset:       fset,
		Syntax:     syntax,
		Types:      tpkg,
		TypesInfo:  info,
		TypesSizes: types.SizesFor("gc", "amd64"),
	}

	docs := make([]core.Document, 0, len(paths))
	for _, p := range paths {
		docs = append(docs, core.Document{Path: p})
	}
	project := &core.Project{ID: demoPath, Name: demoPath, Dir: "/src/demo", Documents: docs}

	return &Compilation{project: project, Package: pkg, Fset: fset}
}

// badcall reports every call to a function named bad, with a fix that
// deletes the call.
var badcall = &analysis.Analyzer{
	Name:     "badcall",
	Doc:      "reports calls to bad\n\nLonger explanation.",
	URL:      "https://example.com/badcall",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run: func(pass *analysis.Pass) (any, error) {
		insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
		insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
			call := n.(*ast.CallExpr)
			if id, ok := call.Fun.(*ast.Ident); ok && id.Name == "bad" {
				pass.Report(analysis.Diagnostic{
					Pos:     call.Pos(),
					End:     call.End(),
					Message: "call to bad",
					SuggestedFixes: []analysis.SuggestedFix{{
						Message:   "remove call",
						TextEdits: []analysis.TextEdit{{Pos: call.Pos(), End: call.End()}},
					}},
				})
			}
		})
		return nil, nil
	},
}

// demoSource has four calls to bad on lines 6, 7, 9 and 10.
const demoSource = `package demo

func bad() {}

func f() {
	bad()
	bad() //nolint:badcall
	//lint:ignore badcall intentional
	bad()
	bad() //nolint:other
}
`
