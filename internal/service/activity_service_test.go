package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/repository"
)

func TestActivityServiceSubactivities(t *testing.T) {
	db, fx := setupDirectoryDB(t)
	svc := NewActivityService(repository.NewUnitOfWork(db), NewActivityTreeResolver(testLogger()), 3, testLogger())
	ctx := context.Background()

	tree, err := svc.Subactivities(ctx, "Eat", nil)
	require.NoError(t, err)
	require.Len(t, tree, 4)
	require.Equal(t, "Eat", tree[0].Name)
	require.Nil(t, tree[0].ParentID)
	require.Equal(t, "Sausages", tree[3].Name)
	require.Equal(t, fx.meat.ID, *tree[3].ParentID)

	tree, err = svc.Subactivities(ctx, "Eat", intPtr(1))
	require.NoError(t, err)
	require.Len(t, tree, 3)

	tree, err = svc.Subactivities(ctx, "Drink", nil)
	require.NoError(t, err)
	require.Nil(t, tree)

	_, err = svc.Subactivities(ctx, "", nil)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
