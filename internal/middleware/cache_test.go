package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickyboard/sticky-board/internal/config"
)

func cacheContext(target, user string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/notes/user/:username/public")
	if user != "" {
		c.Set("username", user)
	}
	return c
}

func TestCacheKeySeparatesPathParams(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	alice := cacheKeyFrom(cfg, cacheContext("/api/notes/user/alice/public", ""))
	bob := cacheKeyFrom(cfg, cacheContext("/api/notes/user/bob/public", ""))
	assert.NotEqual(t, alice, bob, "different users' listings must not share a cache entry")

	again := cacheKeyFrom(cfg, cacheContext("/api/notes/user/alice/public", ""))
	assert.Equal(t, alice, again)
}

func TestCacheKeySeparatesQueryAndIdentity(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	base := cacheKeyFrom(cfg, cacheContext("/api/notes/user/alice/public", ""))
	query := cacheKeyFrom(cfg, cacheContext("/api/notes/user/alice/public?limit=5", ""))
	owner := cacheKeyFrom(cfg, cacheContext("/api/notes/user/alice/public", "alice"))

	assert.NotEqual(t, base, query)
	assert.NotEqual(t, base, owner)
}

func TestCacheDisabledIsPassthrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	})
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
