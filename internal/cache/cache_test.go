package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := New()

	c.Set("k", 42, time.Minute)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New()

	c.Set("k", "v", -time.Second)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_Overwrite(t *testing.T) {
	c := New()

	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Minute)
	v, _ := c.Get("k")
	assert.Equal(t, "new", v)
}

func TestTTLCache_Delete(t *testing.T) {
	c := New()

	c.Set("k", "v", time.Minute)
	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_DeletePrefix(t *testing.T) {
	c := New()

	c.Set("leaderboard:t1:all", 1, time.Minute)
	c.Set("leaderboard:t1:reattempts-only", 2, time.Minute)
	c.Set("leaderboard:t2:all", 3, time.Minute)
	c.Set("provider:catalog", 4, time.Minute)

	c.DeletePrefix("leaderboard:t1:")

	_, ok := c.Get("leaderboard:t1:all")
	assert.False(t, ok)
	_, ok = c.Get("leaderboard:t1:reattempts-only")
	assert.False(t, ok)
	_, ok = c.Get("leaderboard:t2:all")
	assert.True(t, ok)
	_, ok = c.Get("provider:catalog")
	assert.True(t, ok)
}
