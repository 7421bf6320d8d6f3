package engine

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// DefaultPatterns are analyzed when none are given.
var DefaultPatterns = []string{"./..."}

// Discover resolves package patterns into projects.
func (e *Engine) Discover(ctx context.Context, patterns []string) ([]*core.Project, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	projects, err := e.loader.Load(ctx, e.cfg.Dir, patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover packages: %w", err)
	}
	e.logger.Debug("discovered projects", "count", len(projects), "patterns", patterns)
	return projects, nil
}

// DocumentSet returns the project's formattable set: its documents minus
// generated files (unless configured) and files filtered out by the
// include/exclude globs.
func (e *Engine) DocumentSet(project *core.Project) lint.DocumentSet {
	var paths []string
	for _, doc := range project.Documents {
		if doc.Generated && !e.cfg.IncludeGenerated {
			continue
		}
		rel := e.relativePath(doc.Path)
		if len(e.cfg.Include) > 0 && !matchAny(e.cfg.Include, rel) {
			continue
		}
		if matchAny(e.cfg.Exclude, rel) {
			continue
		}
		paths = append(paths, doc.Path)
	}
	return lint.NewDocumentSet(paths...)
}

// relativePath returns p relative to the project root with forward slashes.
// Paths outside the root are returned unchanged.
func (e *Engine) relativePath(p string) string {
	rel, err := filepath.Rel(e.cfg.Dir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// matchAny reports whether rel matches any glob. A glob without a slash
// matches the base name, like "*_gen.go"; otherwise it matches the whole
// relative path, like "internal/*/*.go". A trailing "/**" matches everything
// below a directory.
func matchAny(globs []string, rel string) bool {
	for _, glob := range globs {
		if matchGlob(glob, rel) {
			return true
		}
	}
	return false
}

func matchGlob(glob, rel string) bool {
	if dir, ok := strings.CutSuffix(glob, "/**"); ok {
		return rel == dir || strings.HasPrefix(rel, dir+"/")
	}
	target := rel
	if !strings.Contains(glob, "/") {
		target = path.Base(rel)
	}
	ok, err := path.Match(glob, target)
	return err == nil && ok
}
