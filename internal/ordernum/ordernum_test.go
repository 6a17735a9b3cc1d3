package ordernum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(1)
	require.NoError(t, err)

	// Node ids outside the 10-bit range are rejected.
	_, err = New(1024)
	require.Error(t, err)
	_, err = New(-1)
	require.Error(t, err)
}

func TestNextIsUniqueAndPrefixed(t *testing.T) {
	gen, err := New(1)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		n := gen.Next()
		require.True(t, strings.HasPrefix(n, "ECO"), n)
		require.Equal(t, n, strings.ToUpper(n))
		_, dup := seen[n]
		require.False(t, dup, "duplicate order number %s", n)
		seen[n] = struct{}{}
	}
}
