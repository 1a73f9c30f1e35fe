package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/userdesk/userdesk/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("fa5s3nuzsfhzlgnfdgv86g1rdg7sd361")

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	assert.False(t, r.IsEmbedded())
	return NewRedisStore(r.Client(), testKey), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := store.New(req, "userdesk")
	require.NoError(t, err)
	assert.True(t, session.IsNew)

	session.Values["LOGIN_USER"] = "alice"
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(req, rec, session))
	assert.True(t, mr.Exists(keyPrefix+session.ID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	loaded, err := store.New(next, "userdesk")
	require.NoError(t, err)
	assert.False(t, loaded.IsNew)
	assert.Equal(t, "alice", loaded.Values["LOGIN_USER"])
}

func TestRedisStoreDelete(t *testing.T) {
	store, mr := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := store.New(req, "userdesk")
	require.NoError(t, err)
	session.Values["LOGIN_USER"] = "alice"
	require.NoError(t, store.Save(req, httptest.NewRecorder(), session))
	id := session.ID

	session.Options.MaxAge = -1
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(req, rec, session))
	assert.False(t, mr.Exists(keyPrefix+id))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

func TestRedisStoreRejectsForgedCookie(t *testing.T) {
	store, _ := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "userdesk", Value: "forged"})
	session, err := store.New(req, "userdesk")
	require.NoError(t, err)
	assert.True(t, session.IsNew)
	assert.Empty(t, session.ID)
}

func TestRedisStoreExpiredSession(t *testing.T) {
	store, mr := newTestStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := store.New(req, "userdesk")
	require.NoError(t, err)
	session.Values["LOGIN_USER"] = "alice"
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(req, rec, session))

	mr.FastForward(2 * defaultMaxAge * time.Second)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(rec.Result().Cookies()[0])
	loaded, err := store.New(next, "userdesk")
	require.NoError(t, err)
	assert.True(t, loaded.IsNew)
	assert.Empty(t, loaded.Values)
}

func TestEmbeddedRedis(t *testing.T) {
	r, err := NewRedis(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	defer r.Close()

	assert.True(t, r.IsEmbedded())
	assert.NoError(t, r.Client().Ping(context.Background()).Err())
}
