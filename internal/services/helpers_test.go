package services

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"sniplink/internal/models"
	"sniplink/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	if err := db.AutoMigrate(&models.Link{}, &models.ClickEvent{}); err != nil {
		panic("failed to migrate database: " + err.Error())
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// memCache is an in-process LinkCache used to observe the cache interactions
// of the services under test.
type memCache struct {
	mu      sync.Mutex
	entries map[string]repository.CachedLink
	puts    int
	deletes int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]repository.CachedLink)}
}

func (m *memCache) Get(ctx context.Context, shortCode string) (*repository.CachedLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[shortCode]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return &entry, nil
}

func (m *memCache) Put(ctx context.Context, shortCode string, entry repository.CachedLink, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[shortCode] = entry
	m.puts++
	return nil
}

func (m *memCache) Delete(ctx context.Context, shortCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, shortCode)
	m.deletes++
	return nil
}

func (m *memCache) has(shortCode string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[shortCode]
	return ok
}

// countingLinkStore wraps a LinkStore and counts short-code lookups, so
// tests can tell a cache hit from a store round trip.
type countingLinkStore struct {
	repository.LinkStore
	mu      sync.Mutex
	lookups int
}

func (c *countingLinkStore) ByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	c.mu.Lock()
	c.lookups++
	c.mu.Unlock()
	return c.LinkStore.ByShortCode(ctx, shortCode)
}

func (c *countingLinkStore) lookupCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookups
}

// staticCountry is a CountryResolver that answers the same code for any IP.
type staticCountry string

func (s staticCountry) Country(ip string) string { return string(s) }
