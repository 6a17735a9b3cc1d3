package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	from, limit := Calculate(1, 10)
	require.Equal(t, 0, from)
	require.Equal(t, 10, limit)

	from, limit = Calculate(3, 20)
	require.Equal(t, 40, from)
	require.Equal(t, 20, limit)

	// Out-of-range inputs fall back to defaults.
	from, limit = Calculate(0, 0)
	require.Equal(t, 0, from)
	require.Equal(t, DefaultPageSize, limit)

	from, limit = Calculate(-5, -1)
	require.Equal(t, 0, from)
	require.Equal(t, DefaultPageSize, limit)

	// Oversized requests are capped.
	_, limit = Calculate(1, 500)
	require.Equal(t, MaxPageSize, limit)
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, int64(0), TotalPages(0, 10))
	require.Equal(t, int64(1), TotalPages(1, 10))
	require.Equal(t, int64(1), TotalPages(10, 10))
	require.Equal(t, int64(2), TotalPages(11, 10))
	require.Equal(t, int64(0), TotalPages(100, 0))
}
