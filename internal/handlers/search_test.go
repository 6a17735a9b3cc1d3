package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecofinds/marketplace/internal/models"
)

func TestRankByID(t *testing.T) {
	items := []models.Product{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second"},
		{ID: 3, Title: "third"},
	}

	ranked := rankByID(items, []uint{3, 1, 2})
	require.Len(t, ranked, 3)
	require.Equal(t, "third", ranked[0].Title)
	require.Equal(t, "first", ranked[1].Title)
	require.Equal(t, "second", ranked[2].Title)

	// Ids deleted from the catalog after indexing are dropped, the
	// surviving hits keep their relative rank.
	ranked = rankByID(items, []uint{9, 2, 3})
	require.Len(t, ranked, 2)
	require.Equal(t, "second", ranked[0].Title)
	require.Equal(t, "third", ranked[1].Title)

	require.Empty(t, rankByID(nil, []uint{1}))
	require.Empty(t, rankByID(items, nil))
}
