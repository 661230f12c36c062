package config

import "time"

// CacheConfig controls the Redis response cache on the catalog routes.
// Only GET responses are cached.
type CacheConfig struct {
	Enabled      bool          // CACHE_ENABLED
	TTL          time.Duration // CACHE_TTL
	Prefix       string        // CACHE_PREFIX, namespace for cache keys
	MaxBodyBytes int           // CACHE_MAX_BODY_BYTES, larger responses are served but not stored
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "catalog"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 256<<10),
	}
}
