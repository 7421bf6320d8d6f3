package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

func stubAnalyzer(id string) Analyzer {
	return WrapAnalyzerDef(AnalyzerDef{
		ID:          id,
		Description: id + " description",
		Check: func(context.Context, Compilation, core.RuleOptions) ([]core.Diagnostic, error) {
			return nil, nil
		},
	})
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(stubAnalyzer("zeta"), true)
	r.Register(stubAnalyzer("alpha"), false)
	r.Register(stubAnalyzer("mid"), true)

	assert.Equal(t, 3, r.Count())

	a, ok := r.GetByID("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha description", a.Description())

	_, ok = r.GetByID("missing")
	assert.False(t, ok)

	var ids []string
	for _, a := range r.All() {
		ids = append(ids, a.ID())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ids)

	ids = nil
	for _, a := range r.Defaults() {
		ids = append(ids, a.ID())
	}
	assert.Equal(t, []string{"mid", "zeta"}, ids)
	assert.False(t, r.IsDefault("alpha"))
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register(stubAnalyzer("a"), true)
	r.Register(stubAnalyzer("b"), false)

	set, err := r.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, set.IDs())

	set, err = r.Resolve([]string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, set.IDs())

	_, err = r.Resolve([]string{"a", "nope", "nada"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAnalyzer)
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, err.Error(), "nada")
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	r.Register(stubAnalyzer("a"), true)
	r.Clear()

	assert.Equal(t, 0, r.Count())
	assert.False(t, r.IsDefault("a"))
}
