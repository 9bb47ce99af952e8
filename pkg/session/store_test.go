package session_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nairobitech/duka/pkg/session"
)

var dbSeq int64

func newStore(t *testing.T) *session.GormStore {
	t.Helper()

	dsn := fmt.Sprintf("file:session_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&session.Record{}))
	return session.NewGormStore(db)
}

func TestGormStoreRoundTrip(t *testing.T) {
	store := newStore(t)

	data := map[string]interface{}{"user_id": "abc-123"}
	require.NoError(t, store.Put("sid-1", data, time.Hour))

	got, ok := store.Get("sid-1")
	require.True(t, ok)
	assert.Equal(t, "abc-123", got["user_id"])
}

func TestGormStoreExpiredSessionIsGoneAndDeleted(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Put("sid-1", map[string]interface{}{"user_id": "x"}, -time.Minute))

	_, ok := store.Get("sid-1")
	assert.False(t, ok)

	// The expired row was removed, not just skipped.
	_, ok = store.Get("sid-1")
	assert.False(t, ok)
}

func TestGormStoreDestroy(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Put("sid-1", map[string]interface{}{"user_id": "x"}, time.Hour))
	require.NoError(t, store.Destroy("sid-1"))

	_, ok := store.Get("sid-1")
	assert.False(t, ok)
}

func TestGormStorePutOverwrites(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Put("sid-1", map[string]interface{}{"user_id": "a"}, time.Hour))
	require.NoError(t, store.Put("sid-1", map[string]interface{}{"user_id": "b"}, time.Hour))

	got, ok := store.Get("sid-1")
	require.True(t, ok)
	assert.Equal(t, "b", got["user_id"])
}
