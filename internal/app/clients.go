package app

import (
	"fmt"
	"strings"

	rediscache "github.com/nekobyte/englishtek-backend/internal/clients/redis"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type Clients struct {
	// StatsCache is nil when REDIS_ADDR is unset.
	StatsCache rediscache.StatsCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var cache rediscache.StatsCache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		c, err := rediscache.NewStatsCache(log, rediscache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.CachePrefix,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis stats cache: %w", err)
		}
		cache = c
	} else {
		log.Info("REDIS_ADDR not set; dashboard stats are computed per request")
	}

	return Clients{StatsCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.StatsCache != nil {
		_ = c.StatsCache.Close()
	}
}
