package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"infobot/internal/config"
	"infobot/internal/usecases"
)

type fakeSource struct {
	mu       sync.Mutex
	rows     [][]string
	fetches  int
	replaced [][]string
}

func (f *fakeSource) FetchRows(ctx context.Context) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.rows, nil
}

func (f *fakeSource) ReplaceRows(ctx context.Context, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = rows
	return nil
}

func testRouter(t *testing.T, src *fakeSource) (*gin.Engine, *usecases.Cache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "correct-horse",
	}
	auth, err := usecases.NewAuth(cfg)
	require.NoError(t, err)

	cache := usecases.NewCache(src, time.Hour, zap.NewNop())

	r := gin.New()
	SetupRoutes(r, cache, src, auth, NewMiddleware(cfg.JWTSecret), zap.NewNop())
	return r, cache
}

func login(t *testing.T, r *gin.Engine, username, password string) (string, int) {
	t.Helper()
	body, _ := json.Marshal(gin.H{"username": username, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Token, w.Code
}

func contentRows() [][]string {
	return [][]string{
		{"id", "parent", "text", "data", "type", "extra"},
		{"root1", "", "Клиника", "", "menu", ""},
	}
}

func TestHealthz(t *testing.T) {
	r, _ := testRouter(t, &fakeSource{rows: contentRows()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache_valid":false`)
}

func TestLogin(t *testing.T) {
	r, _ := testRouter(t, &fakeSource{rows: contentRows()})

	token, code := login(t, r, "admin", "correct-horse")
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, token)

	_, code = login(t, r, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	_, code = login(t, r, "intruder", "correct-horse")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestItemsRequiresAuth(t *testing.T) {
	r, _ := testRouter(t, &fakeSource{rows: contentRows()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/items", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/items", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetItems(t *testing.T) {
	r, _ := testRouter(t, &fakeSource{rows: contentRows()})
	token, _ := login(t, r, "admin", "correct-horse")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), "Клиника")
}

func TestRefreshCache(t *testing.T) {
	src := &fakeSource{rows: contentRows()}
	r, _ := testRouter(t, src)
	token, _ := login(t, r, "admin", "correct-horse")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/cache/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"refreshed"`)
	assert.Equal(t, 1, src.fetches)
}

func TestReplaceItems(t *testing.T) {
	src := &fakeSource{rows: contentRows()}
	r, cache := testRouter(t, src)
	token, _ := login(t, r, "admin", "correct-horse")

	// Warm the cache so we can observe the invalidation
	_, err := cache.Get(context.Background(), false)
	require.NoError(t, err)

	body, _ := json.Marshal([]gin.H{
		{"id": "root1", "text": "Клиника", "type": "menu"},
		{"id": "c1", "parent": "root1", "text": "Контакты", "data": "+7 999 123 4567", "type": "phone"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/items", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, src.replaced, 3) // header + 2 items
	assert.Equal(t, []string{"c1", "root1", "Контакты", "+7 999 123 4567", "phone", ""}, src.replaced[2])

	_, valid := cache.Age()
	assert.False(t, valid, "cache must be invalidated after replace")
}

func TestReplaceItemsRejectsBadID(t *testing.T) {
	src := &fakeSource{rows: contentRows()}
	r, _ := testRouter(t, src)
	token, _ := login(t, r, "admin", "correct-horse")

	body, _ := json.Marshal([]gin.H{
		{"id": "bad id!", "text": "x"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/items", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, src.replaced)
}
