package redis

import (
	"context"
	"testing"

	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

func TestNewStatsCacheRequiresAddr(t *testing.T) {
	if _, err := NewStatsCache(logger.Nop(), Options{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
	if _, err := NewStatsCache(nil, Options{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}

func TestNilCacheIsMiss(t *testing.T) {
	var c *statsCache
	var dst map[string]int
	ok, err := c.Get(context.Background(), "dashboard", &dst)
	if ok || err != nil {
		t.Fatalf("nil cache get: ok=%v err=%v", ok, err)
	}
	if err := c.Set(context.Background(), "dashboard", 1, 0); err != nil {
		t.Fatalf("nil cache set: %v", err)
	}
	if err := c.Delete(context.Background(), "dashboard"); err != nil {
		t.Fatalf("nil cache delete: %v", err)
	}
}

func TestKey(t *testing.T) {
	if got := Key("englishtek", " dashboard "); got != "englishtek:dashboard" {
		t.Fatalf("Key: got=%q", got)
	}
}
