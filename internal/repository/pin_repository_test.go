package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/skate-pins/internal/model"
	"github.com/iliyamo/skate-pins/internal/testdb"
)

func TestPinRepoCreateAssignsID(t *testing.T) {
	repo := NewPinRepo(testdb.Open(t))
	ctx := context.Background()

	p := &model.Pin{Lat: 37.70, Lng: -122.40, Type: model.TypePark}
	require.NoError(t, repo.Create(ctx, p))

	assert.Equal(t, "1", p.ID)
	assert.Equal(t, model.TypePark, p.Type)
	assert.Empty(t, p.Title)
	assert.NotEmpty(t, p.CreatedAt)

	second := &model.Pin{Lat: 1, Lng: 2, Type: model.TypeStreet, Title: "Ledge", Description: "waxed"}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, "Ledge", second.Title)
	assert.Equal(t, "waxed", second.Description)
}

func TestPinRepoListAll(t *testing.T) {
	repo := NewPinRepo(testdb.Open(t))
	ctx := context.Background()

	pins, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, pins)
	assert.NotNil(t, pins)

	for _, typ := range []model.PinType{model.TypeSkatingNow, model.TypePark, model.TypeStreet} {
		require.NoError(t, repo.Create(ctx, &model.Pin{Lat: 10, Lng: 20, Type: typ}))
	}
	pins, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, pins, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{pins[0].ID, pins[1].ID, pins[2].ID})
	assert.Equal(t, model.TypeStreet, pins[2].Type)
}

func TestPinRepoDeleteByID(t *testing.T) {
	repo := NewPinRepo(testdb.Open(t))
	ctx := context.Background()

	p := &model.Pin{Lat: 10, Lng: 20, Type: model.TypePark}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.DeleteByID(ctx, p.ID))
	assert.ErrorIs(t, repo.DeleteByID(ctx, p.ID), ErrPinNotFound)

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPinNotFound)
}

func TestPinRepoRejectsMalformedIDs(t *testing.T) {
	repo := NewPinRepo(testdb.Open(t))
	ctx := context.Background()

	for _, id := range []string{"", "0", "abc", "-4", "1.5"} {
		assert.ErrorIs(t, repo.DeleteByID(ctx, id), ErrInvalidID, id)
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidID, id)
	}
}
