package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"sniplink/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Link{}, &models.ClickEvent{}))

	// A single connection keeps concurrent writers serialized in sqlite.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func TestLinkStore(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormLinkStore(db)
	ctx := context.Background()

	t.Run("Create and Lookup", func(t *testing.T) {
		link := &models.Link{
			ID:             "11111111-1111-1111-1111-111111111111",
			OwnerID:        "owner-1",
			ShortCode:      "abc123",
			DestinationURL: "https://example.com",
			IsActive:       true,
		}
		assert.NoError(t, store.Create(ctx, link))

		got, err := store.ByShortCode(ctx, "abc123")
		assert.NoError(t, err)
		assert.Equal(t, link.ID, got.ID)
		assert.Equal(t, "https://example.com", got.DestinationURL)

		got, err = store.ByID(ctx, link.ID)
		assert.NoError(t, err)
		assert.Equal(t, "abc123", got.ShortCode)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := store.ByShortCode(ctx, "missing")
		assert.ErrorIs(t, err, ErrLinkNotFound)

		_, err = store.ByID(ctx, "no-such-id")
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})

	t.Run("Update Leaves Counter Alone", func(t *testing.T) {
		link := &models.Link{
			ID:             "22222222-2222-2222-2222-222222222222",
			OwnerID:        "owner-1",
			ShortCode:      "upd123",
			DestinationURL: "https://example.com",
			IsActive:       true,
		}
		assert.NoError(t, store.Create(ctx, link))
		assert.NoError(t, store.IncrementClicks(ctx, link.ID))

		link.DestinationURL = "https://example.org"
		link.IsActive = false
		link.TotalClicks = 9999
		link.UpdatedAt = time.Now()
		assert.NoError(t, store.Update(ctx, link))

		got, err := store.ByID(ctx, link.ID)
		assert.NoError(t, err)
		assert.Equal(t, "https://example.org", got.DestinationURL)
		assert.False(t, got.IsActive)
		assert.Equal(t, int64(1), got.TotalClicks)
	})

	t.Run("Delete", func(t *testing.T) {
		link := &models.Link{
			ID:             "33333333-3333-3333-3333-333333333333",
			OwnerID:        "owner-1",
			ShortCode:      "del123",
			DestinationURL: "https://example.com",
			IsActive:       true,
		}
		assert.NoError(t, store.Create(ctx, link))
		assert.NoError(t, store.Delete(ctx, link.ID))

		_, err := store.ByID(ctx, link.ID)
		assert.ErrorIs(t, err, ErrLinkNotFound)

		assert.ErrorIs(t, store.Delete(ctx, link.ID), ErrLinkNotFound)
	})
}

func TestIncrementClicksConcurrent(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormLinkStore(db)
	ctx := context.Background()

	link := &models.Link{
		ID:             "44444444-4444-4444-4444-444444444444",
		OwnerID:        "owner-1",
		ShortCode:      "conc12",
		DestinationURL: "https://example.com",
		IsActive:       true,
	}
	assert.NoError(t, store.Create(ctx, link))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, store.IncrementClicks(ctx, link.ID))
		}()
	}
	wg.Wait()

	got, err := store.ByID(ctx, link.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(workers), got.TotalClicks)
}
