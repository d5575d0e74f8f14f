package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	base := stderrors.New("stats file missing")

	err := New(base).
		Component("pipeline").
		Category(CategoryArtifact).
		Context("path", "fid_stats/children_under3.npz").
		Build()

	require.NotNil(t, err)
	assert.Equal(t, "stats file missing", err.Error())
	assert.Equal(t, "pipeline", err.Component)
	assert.Equal(t, "artifact", err.GetCategory())
	assert.Equal(t, "fid_stats/children_under3.npz", err.GetContext()["path"])
	assert.False(t, err.Timestamp.IsZero())
}

func TestErrorBuilderDefaults(t *testing.T) {
	err := Newf("stage %s failed", "train").Build()

	assert.Equal(t, CategoryGeneric, err.Category)
	assert.NotEmpty(t, err.Component)
	assert.Equal(t, "stage train failed", err.Error())
}

func TestEnhancedErrorUnwrap(t *testing.T) {
	err := New(fs.ErrNotExist).Category(CategoryNotFound).Build()

	assert.True(t, Is(err, fs.ErrNotExist))
}

func TestEnhancedErrorIsMatchesCategory(t *testing.T) {
	a := New(stderrors.New("a")).Category(CategoryDataset).Build()
	b := New(stderrors.New("b")).Category(CategoryDataset).Build()
	c := New(stderrors.New("c")).Category(CategoryDatabase).Build()

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestContextIsCopied(t *testing.T) {
	err := New(stderrors.New("x")).Context("k", "v").Build()

	ctx := err.GetContext()
	ctx["k"] = "mutated"

	assert.Equal(t, "v", err.GetContext()["k"])
}

func TestAs(t *testing.T) {
	inner := New(stderrors.New("boom")).Category(CategoryCommandExecution).Build()
	var ee *EnhancedError

	require.True(t, As(inner, &ee))
	assert.Equal(t, CategoryCommandExecution, ee.Category)
}
