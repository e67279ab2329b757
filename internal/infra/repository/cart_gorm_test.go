package repository

import (
	"context"
	"sync"
	"testing"

	"plantstore/internal/domain/model"
	repo "plantstore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartGorm_FindByUserID_NotFound(t *testing.T) {
	gdb := openTestDB(t)

	_, err := NewCartGormRepository(gdb).FindByUserID(context.Background(), 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// 同時に作っても1ユーザー1カート
func TestCartGorm_GetOrCreate_ConcurrentCallsShareOneCart(t *testing.T) {
	gdb := openTestDB(t)
	r := NewCartGormRepository(gdb)

	const n = 8
	ids := make([]int64, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.GetOrCreateByUserID(context.Background(), 42)
			ids[i], errs[i] = c.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, gdb.Model(&model.Cart{}).Where("user_id = ?", 42).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCartGorm_Save_ReplacesItemsAndBumpsVersion(t *testing.T) {
	gdb := openTestDB(t)
	r := NewCartGormRepository(gdb)
	ctx := context.Background()

	cart, err := r.GetOrCreateByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.NoError(t, cart.AddItem(model.Plant{ID: 10, Name: "Fern", Price: 25}, 2))
	require.NoError(t, cart.AddItem(model.Plant{ID: 11, Name: "Palm", Price: 40}, 1))
	v := cart.Version
	require.NoError(t, r.Save(ctx, &cart))
	assert.Equal(t, v+1, cart.Version)

	got, err := r.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.Version, got.Version)
	assert.Equal(t, int64(90), got.TotalPrice)
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(10), got.Items[0].PlantID)
	assert.Equal(t, "Fern", got.Items[0].NameSnapshot)
	assert.Equal(t, int64(25), got.Items[0].PriceAtTime)

	require.NoError(t, got.UpdateItem(10, 0))
	require.NoError(t, r.Save(ctx, &got))

	got, err = r.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(11), got.Items[0].PlantID)
	assert.Equal(t, int64(40), got.TotalPrice)
}

// 古いversionでの保存は負け、DBは先に保存した内容のまま
func TestCartGorm_Save_StaleVersionConflicts(t *testing.T) {
	gdb := openTestDB(t)
	r := NewCartGormRepository(gdb)
	ctx := context.Background()

	base, err := r.GetOrCreateByUserID(ctx, 1)
	require.NoError(t, err)

	first := base
	require.NoError(t, first.AddItem(model.Plant{ID: 10, Price: 25}, 1))
	require.NoError(t, r.Save(ctx, &first))

	stale := base
	stale.Items = nil
	require.NoError(t, stale.AddItem(model.Plant{ID: 11, Price: 40}, 3))
	err = r.Save(ctx, &stale)
	assert.ErrorIs(t, err, repo.ErrConflict)
	assert.Equal(t, base.Version, stale.Version)

	got, err := r.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(10), got.Items[0].PlantID)
	assert.Equal(t, int64(25), got.TotalPrice)
}
