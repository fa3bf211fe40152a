package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/repository"
)

func uintPtr(v uint) *uint { return &v }

func foodTaxonomy() *mapActivityReader {
	eat := models.Activity{ID: 1, Name: "Eat", Children: []models.Activity{
		{ID: 2, Name: "Milk", ParentID: uintPtr(1)},
		{ID: 3, Name: "Meat", ParentID: uintPtr(1)},
	}}
	milk := models.Activity{ID: 2, Name: "Milk", ParentID: uintPtr(1)}
	meat := models.Activity{ID: 3, Name: "Meat", ParentID: uintPtr(1), Children: []models.Activity{
		{ID: 4, Name: "Sausages", ParentID: uintPtr(3)},
	}}
	sausages := models.Activity{ID: 4, Name: "Sausages", ParentID: uintPtr(3)}
	return newMapActivityReader(eat, milk, meat, sausages)
}

func TestActivityTreeResolverDepthBounds(t *testing.T) {
	resolver := NewActivityTreeResolver(testLogger())
	ctx := context.Background()

	cases := []struct {
		depth int
		want  []string
	}{
		{depth: 0, want: []string{"Eat"}},
		{depth: 1, want: []string{"Eat", "Milk", "Meat"}},
		{depth: 2, want: []string{"Eat", "Milk", "Meat", "Sausages"}},
		{depth: 3, want: []string{"Eat", "Milk", "Meat", "Sausages"}},
	}
	for _, tc := range cases {
		tree, found, err := resolver.Resolve(ctx, foodTaxonomy(), "Eat", tc.depth)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, tc.want, activityNames(tree), "depth %d", tc.depth)
	}
}

func TestActivityTreeResolverFetchesEachIncludedNodeOnce(t *testing.T) {
	reader := foodTaxonomy()
	tree, found, err := NewActivityTreeResolver(testLogger()).Resolve(context.Background(), reader, "Eat", 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, tree, 3)

	require.Equal(t, map[string]int{"Eat": 1, "Milk": 1, "Meat": 1}, reader.lookups)
}

func TestActivityTreeResolverLeafAndAbsent(t *testing.T) {
	resolver := NewActivityTreeResolver(testLogger())

	tree, found, err := resolver.Resolve(context.Background(), foodTaxonomy(), "Sausages", 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"Sausages"}, activityNames(tree))

	tree, found, err = resolver.Resolve(context.Background(), foodTaxonomy(), "Drink", 3)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, tree)
}

func TestActivityTreeResolverBreaksCycles(t *testing.T) {
	a := models.Activity{ID: 1, Name: "A", Children: []models.Activity{{ID: 2, Name: "B"}}}
	b := models.Activity{ID: 2, Name: "B", ParentID: uintPtr(1), Children: []models.Activity{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	reader := newMapActivityReader(a, b)

	tree, found, err := NewActivityTreeResolver(testLogger()).Resolve(context.Background(), reader, "A", 10)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"A", "B"}, activityNames(tree))
}

func TestActivityTreeResolverErrors(t *testing.T) {
	resolver := NewActivityTreeResolver(testLogger())

	_, _, err := resolver.Resolve(context.Background(), foodTaxonomy(), "Eat", -1)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	reader := foodTaxonomy()
	reader.err = errDatabaseDown
	_, _, err = resolver.Resolve(context.Background(), reader, "Eat", 2)
	require.ErrorIs(t, err, apperr.ErrDependencyFailure)
	require.ErrorIs(t, err, errDatabaseDown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = resolver.Resolve(ctx, foodTaxonomy(), "Eat", 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestActivityTreeResolverAgainstDatabase(t *testing.T) {
	db, fx := setupDirectoryDB(t)
	reader := repository.NewActivityRepository(db)

	tree, found, err := NewActivityTreeResolver(testLogger()).Resolve(context.Background(), reader, "Eat", 2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"Eat", "Milk", "Meat", "Sausages"}, activityNames(tree))
	require.Len(t, tree[0].Organizations, 1)
	require.Equal(t, fx.org1.ID, tree[0].Organizations[0].ID)
	require.Len(t, tree[1].Organizations, 1)
	require.Equal(t, fx.org2.ID, tree[1].Organizations[0].ID)

	seen := map[uint]bool{}
	for _, activity := range tree {
		require.False(t, seen[activity.ID])
		seen[activity.ID] = true
	}
}
