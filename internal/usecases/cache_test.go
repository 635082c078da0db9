package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSource is an in-memory RowSource shared by the usecases tests.
type fakeSource struct {
	mu       sync.Mutex
	rows     [][]string
	err      error
	fetches  int
	replaced [][]string
	block    chan struct{} // when set, FetchRows waits until closed
}

func (f *fakeSource) FetchRows(ctx context.Context) ([][]string, error) {
	f.mu.Lock()
	f.fetches++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeSource) ReplaceRows(ctx context.Context, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = rows
	return nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func testRows() [][]string {
	return [][]string{
		{"id", "parent", "text", "data", "type", "extra"},
		{"root1", "", "Клиника", "", "menu", ""},
		{"c1", "root1", "Контакты", "+7 999 123 4567", "phone", ""},
	}
}

func TestCacheGetServesFromCacheWithinTTL(t *testing.T) {
	src := &fakeSource{rows: testRows()}
	cache := NewCache(src, time.Hour, zap.NewNop())

	first, err := cache.Get(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := cache.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.fetchCount())
}

func TestCacheGetRefetchesAfterTTL(t *testing.T) {
	src := &fakeSource{rows: testRows()}
	cache := NewCache(src, 30*time.Millisecond, zap.NewNop())

	_, err := cache.Get(context.Background(), false)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = cache.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, src.fetchCount())
}

func TestCacheInvalidateForcesRefetch(t *testing.T) {
	src := &fakeSource{rows: testRows()}
	cache := NewCache(src, time.Hour, zap.NewNop())

	_, err := cache.Get(context.Background(), false)
	require.NoError(t, err)

	cache.Invalidate()
	_, valid := cache.Age()
	assert.False(t, valid)

	_, err = cache.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, src.fetchCount())
}

func TestCacheForceRefreshBypassesTTL(t *testing.T) {
	src := &fakeSource{rows: testRows()}
	cache := NewCache(src, time.Hour, zap.NewNop())

	_, err := cache.Get(context.Background(), false)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, src.fetchCount())
}

func TestCacheDropsMalformedRows(t *testing.T) {
	src := &fakeSource{rows: [][]string{
		{"id", "parent", "text"}, // header, always skipped
		{"ok", "", "Первый"},
		{"short"},
		{"", "", "без id"},
		{"no_text", "", "   "},
		{"ok2", "ok", "Второй", "данные", "submenu"},
	}}
	cache := NewCache(src, time.Hour, zap.NewNop())

	snap, err := cache.Get(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, "ok", snap[0].ID)
	assert.Equal(t, "ok2", snap[1].ID)
}

func TestCacheFetchErrorPropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("spreadsheet not found")}
	cache := NewCache(src, time.Hour, zap.NewNop())

	_, err := cache.Get(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet not found")
}

func TestCacheCollapsesConcurrentRefreshes(t *testing.T) {
	block := make(chan struct{})
	src := &fakeSource{rows: testRows(), block: block}
	cache := NewCache(src, time.Hour, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background(), true)
			assert.NoError(t, err)
		}()
	}

	// Let all callers reach the in-flight fetch before releasing it
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	assert.Equal(t, 1, src.fetchCount())
}
