package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceDeterministic(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(100), b.IntN(100))
	}
}

func TestNewSeededSource(t *testing.T) {
	src, err := NewSeededSource()
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		n := src.IntN(10)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 10)
	}
}
