package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfix/internal/testutil"
	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

type stubCompilation struct {
	project *core.Project
	n       int32
}

func (s *stubCompilation) Project() *core.Project { return s.project }

// countingProvider returns a fresh compilation per call. When gate is set,
// loads block until it is closed.
type countingProvider struct {
	calls atomic.Int32
	gate  chan struct{}
	err   error
}

func (p *countingProvider) GetCompilation(ctx context.Context, project *core.Project) (lint.Compilation, error) {
	n := p.calls.Add(1)
	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &stubCompilation{project: project, n: n}, nil
}

func newCached(t *testing.T, inner lint.CompilationProvider) *Cached {
	c := New(inner, testutil.NewTestLogger(t))
	c.version = func(*core.Project) string { return "v1" }
	return c
}

func TestCached_HitsAfterFirstLoad(t *testing.T) {
	inner := &countingProvider{}
	c := newCached(t, inner)
	project := &core.Project{ID: "p"}

	first, err := c.GetCompilation(context.Background(), project)
	require.NoError(t, err)
	second, err := c.GetCompilation(context.Background(), project)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())
	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, c.Len())
}

func TestCached_VersionChangeReloads(t *testing.T) {
	inner := &countingProvider{}
	c := newCached(t, inner)
	project := &core.Project{ID: "p"}

	first, err := c.GetCompilation(context.Background(), project)
	require.NoError(t, err)

	c.version = func(*core.Project) string { return "v2" }
	second, err := c.GetCompilation(context.Background(), project)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCached_Invalidate(t *testing.T) {
	inner := &countingProvider{}
	c := newCached(t, inner)
	a := &core.Project{ID: "a"}
	b := &core.Project{ID: "b"}

	for _, p := range []*core.Project{a, b} {
		_, err := c.GetCompilation(context.Background(), p)
		require.NoError(t, err)
	}
	require.Equal(t, 2, c.Len())

	c.Invalidate("a")
	assert.Equal(t, 1, c.Len())
	_, err := c.GetCompilation(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, int32(3), inner.calls.Load())

	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}

func TestCached_InvalidateDir(t *testing.T) {
	c := newCached(t, &countingProvider{})
	for _, p := range []*core.Project{
		{ID: "a", Dir: "/src/a"},
		{ID: "a.test", Dir: "/src/a"},
		{ID: "b", Dir: "/src/b"},
	} {
		_, err := c.GetCompilation(context.Background(), p)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, c.InvalidateDir("/src/a"))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.InvalidateDir("/src/missing"))
}

func TestCached_ConcurrentCallersShareOneLoad(t *testing.T) {
	inner := &countingProvider{gate: make(chan struct{})}
	c := newCached(t, inner)
	project := &core.Project{ID: "p"}

	const callers = 16
	results := make([]lint.Compilation, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			comp, err := c.GetCompilation(context.Background(), project)
			assert.NoError(t, err)
			results[i] = comp
		}()
	}

	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(inner.gate)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestCached_ErrorsAreReturnedVerbatimAndNotCached(t *testing.T) {
	errBoom := errors.New("boom")
	inner := &countingProvider{err: errBoom}
	c := newCached(t, inner)
	project := &core.Project{ID: "p"}

	_, err := c.GetCompilation(context.Background(), project)
	assert.Same(t, errBoom, err)
	assert.Equal(t, 0, c.Len())

	_, err = c.GetCompilation(context.Background(), project)
	assert.Same(t, errBoom, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCached_WaiterHonorsContext(t *testing.T) {
	inner := &countingProvider{gate: make(chan struct{})}
	defer close(inner.gate)
	c := newCached(t, inner)
	project := &core.Project{ID: "p"}

	go func() { _, _ = c.GetCompilation(context.Background(), project) }()
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.GetCompilation(ctx, project)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCached_WaiterRetriesAfterLeaderCancelled(t *testing.T) {
	inner := &countingProvider{gate: make(chan struct{})}
	c := newCached(t, inner)
	project := &core.Project{ID: "p"}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.GetCompilation(leaderCtx, project)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)

	waiterDone := make(chan lint.Compilation, 1)
	go func() {
		comp, err := c.GetCompilation(context.Background(), project)
		assert.NoError(t, err)
		waiterDone <- comp
	}()

	cancelLeader()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	require.Eventually(t, func() bool { return inner.calls.Load() == 2 }, time.Second, time.Millisecond)
	close(inner.gate)
	assert.NotNil(t, <-waiterDone)
}

func TestVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))
	project := &core.Project{ID: "a", Documents: []core.Document{{Path: path}}}

	v1 := Version(project)
	assert.Equal(t, v1, Version(project), "stable for unchanged files")

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	v2 := Version(project)
	assert.NotEqual(t, v1, v2)

	require.NoError(t, os.Remove(path))
	assert.NotEqual(t, v2, Version(project))
}
