package config

import "time"

type SyncConfig interface {
	GetLookupCacheTTL() time.Duration
	GetTemplatesFile() string
}

type Sync struct{}

var _ SyncConfig = Sync{}

// GetLookupCacheTTL is the TTL for cached group/form list lookups. The cache
// only serves admin-facing listings; sync correctness never depends on it.
func (Sync) GetLookupCacheTTL() time.Duration {
	return 12 * time.Hour
}

func (Sync) GetTemplatesFile() string {
	return GetEnv("TEMPLATES_FILE", "./data/templates.json")
}
