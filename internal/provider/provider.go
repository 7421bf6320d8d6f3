// Package provider caches compilations shared by all analysis consumers.
// A project is compiled once per content version; concurrent requests for the
// same project share a single load.
package provider

import (
	"context"
	"encoding/binary"
	"errors"
	"hash/fnv"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// Cached wraps a CompilationProvider with a per-project cache.
// Thread-safe for concurrent access.
type Cached struct {
	inner lint.CompilationProvider

	entries   map[string]*entry // keyed by project ID
	entriesMu sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64

	version func(*core.Project) string
	logger  *slog.Logger
}

var _ lint.CompilationProvider = (*Cached)(nil)

// entry is a finished or in-flight load. done is closed once compilation
// and err are set.
type entry struct {
	version     string
	dir         string
	done        chan struct{}
	compilation lint.Compilation
	err         error
}

// New creates a Cached provider in front of inner.
func New(inner lint.CompilationProvider, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{
		inner:   inner,
		entries: make(map[string]*entry),
		version: Version,
		logger:  logger,
	}
}

// GetCompilation returns the cached compilation for the project's current
// version, loading it through the wrapped provider if needed. Errors from the
// wrapped provider are returned unchanged and are not cached.
func (c *Cached) GetCompilation(ctx context.Context, project *core.Project) (lint.Compilation, error) {
	version := c.version(project)

	for {
		c.entriesMu.RLock()
		e, ok := c.entries[project.ID]
		c.entriesMu.RUnlock()

		if !ok || e.version != version {
			c.entriesMu.Lock()
			// Double-check after acquiring write lock
			e, ok = c.entries[project.ID]
			if !ok || e.version != version {
				e = &entry{version: version, dir: project.Dir, done: make(chan struct{})}
				c.entries[project.ID] = e
				c.entriesMu.Unlock()
				return c.load(ctx, project, e)
			}
			c.entriesMu.Unlock()
		}

		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if e.err == nil {
			c.hits.Add(1)
			return e.compilation, nil
		}
		// The loading caller gave up; try again on our own context.
		if isContextErr(e.err) && ctx.Err() == nil {
			continue
		}
		return nil, e.err
	}
}

func (c *Cached) load(ctx context.Context, project *core.Project, e *entry) (lint.Compilation, error) {
	c.misses.Add(1)
	start := time.Now()

	e.compilation, e.err = c.inner.GetCompilation(ctx, project)
	close(e.done)

	if e.err != nil {
		c.remove(project.ID, e)
		return nil, e.err
	}

	c.logger.Debug("Compiled project",
		"project", project.ID,
		"version", e.version,
		"duration", time.Since(start))
	return e.compilation, nil
}

// remove deletes the entry if it is still the current one for id.
func (c *Cached) remove(id string, e *entry) {
	c.entriesMu.Lock()
	defer c.entriesMu.Unlock()
	if c.entries[id] == e {
		delete(c.entries, id)
	}
}

// Invalidate removes a project from the cache.
func (c *Cached) Invalidate(id string) {
	c.entriesMu.Lock()
	defer c.entriesMu.Unlock()
	delete(c.entries, id)
}

// InvalidateDir removes every project loaded from dir and returns how many
// were removed.
func (c *Cached) InvalidateDir(dir string) int {
	c.entriesMu.Lock()
	defer c.entriesMu.Unlock()
	n := 0
	for id, e := range c.entries {
		if e.dir == dir {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// InvalidateAll clears the entire cache.
func (c *Cached) InvalidateAll() {
	c.entriesMu.Lock()
	defer c.entriesMu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len returns the number of cached or in-flight projects.
func (c *Cached) Len() int {
	c.entriesMu.RLock()
	defer c.entriesMu.RUnlock()
	return len(c.entries)
}

// Stats returns cache hits and misses since creation.
func (c *Cached) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Version fingerprints a project's documents by path, size and modification
// time. Missing files contribute their path only, so deleting a file also
// changes the version.
func Version(project *core.Project) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, d := range project.Documents {
		_, _ = h.Write([]byte(d.Path))
		info, err := os.Stat(d.Path)
		if err != nil {
			_, _ = h.Write([]byte{0})
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(info.ModTime().UnixNano()))
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(info.Size()))
		_, _ = h.Write(buf[:])
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
