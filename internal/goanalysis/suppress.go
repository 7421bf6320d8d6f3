package goanalysis

import (
	"go/ast"
	"go/token"
	"slices"
	"strings"
)

// Suppression directives:
//
//	x := f() //nolint                      every analyzer, this line
//	x := f() //nolint:printf,shadow        listed analyzers, this line
//	//lint:ignore printf reason            listed analyzers, next line
//	//lint:file-ignore printf reason       listed analyzers, whole file
const (
	nolintPrefix     = "//nolint"
	ignorePrefix     = "//lint:ignore"
	fileIgnorePrefix = "//lint:file-ignore"
)

// nolintDirective names the analyzers a comment silences; nil means all of them.
type nolintDirective []string

func (d nolintDirective) matches(id string) bool {
	if d == nil {
		return true
	}
	return slices.Contains(d, id)
}

// suppressions indexes the directives of a package by file and line.
type suppressions struct {
	lines map[string]map[int][]nolintDirective
	files map[string][]nolintDirective
}

func newSuppressions(fset *token.FileSet, files []*ast.File) *suppressions {
	s := &suppressions{
		lines: make(map[string]map[int][]nolintDirective),
		files: make(map[string][]nolintDirective),
	}
	for _, f := range files {
		for _, group := range f.Comments {
			for _, c := range group.List {
				s.add(fset.PositionFor(c.Slash, false), c.Text)
			}
		}
	}
	return s
}

func (s *suppressions) add(pos token.Position, text string) {
	switch {
	case strings.HasPrefix(text, fileIgnorePrefix):
		if ids, ok := parseIgnore(text[len(fileIgnorePrefix):]); ok {
			s.files[pos.Filename] = append(s.files[pos.Filename], ids)
		}
	case strings.HasPrefix(text, ignorePrefix):
		if ids, ok := parseIgnore(text[len(ignorePrefix):]); ok {
			s.addLine(pos.Filename, pos.Line+1, ids)
		}
	case strings.HasPrefix(text, nolintPrefix):
		if ids, ok := parseNolint(text[len(nolintPrefix):]); ok {
			s.addLine(pos.Filename, pos.Line, ids)
		}
	}
}

func (s *suppressions) addLine(file string, line int, d nolintDirective) {
	byLine, ok := s.lines[file]
	if !ok {
		byLine = make(map[int][]nolintDirective)
		s.lines[file] = byLine
	}
	byLine[line] = append(byLine[line], d)
}

// suppressed reports whether a diagnostic of analyzer id at pos is silenced.
func (s *suppressions) suppressed(id string, pos token.Position) bool {
	if s == nil || !pos.IsValid() {
		return false
	}
	for _, d := range s.files[pos.Filename] {
		if d.matches(id) {
			return true
		}
	}
	for _, d := range s.lines[pos.Filename][pos.Line] {
		if d.matches(id) {
			return true
		}
	}
	return false
}

// parseNolint parses what follows "//nolint": nothing, an explanation
// ("// reason") or ":id[,id...]".
func parseNolint(rest string) (nolintDirective, bool) {
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
		return nil, true
	}
	if rest[0] != ':' {
		// e.g. "//nolintfoo"
		return nil, false
	}
	list, _, _ := strings.Cut(rest[1:], " ")
	ids := splitIDs(list)
	if len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

// parseIgnore parses " id[,id...] reason". A reason is required.
func parseIgnore(rest string) (nolintDirective, bool) {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return nil, false
	}
	ids := splitIDs(fields[0])
	if len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

func splitIDs(list string) nolintDirective {
	var ids nolintDirective
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
