package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel_search/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DATA_SOURCE", "MAX_LIMIT", "DEFAULT_LIMIT", "CACHE_TTL_SECONDS", "CORS_ORIGINS", "SEED_WORKERS"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, SourceJSON, c.DataSource)
	assert.Equal(t, domain.DefaultLimit, c.DefaultLimit)
	assert.Equal(t, domain.MaxLimit, c.MaxLimit)
	assert.Equal(t, 300*time.Second, c.CacheTTL)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 8, c.SeedWorkers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "MySQL")
	t.Setenv("MAX_LIMIT", "20")
	t.Setenv("DEFAULT_LIMIT", "12")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("REDIS_DB", "3")

	c := Load()
	assert.Equal(t, SourceMySQL, c.DataSource)
	assert.Equal(t, 20, c.MaxLimit)
	assert.Equal(t, 12, c.DefaultLimit)
	assert.Equal(t, time.Minute, c.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
	assert.Equal(t, 3, c.RedisDB)
}

func TestLoad_ClampsLimits(t *testing.T) {
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("MAX_LIMIT", "500")
	t.Setenv("DEFAULT_LIMIT", "abc")
	t.Setenv("SEED_WORKERS", "0")

	c := Load()
	assert.Equal(t, SourceJSON, c.DataSource)
	assert.Equal(t, domain.MaxLimit, c.MaxLimit)
	assert.Equal(t, domain.DefaultLimit, c.DefaultLimit)
	assert.Equal(t, 1, c.SeedWorkers)

	t.Setenv("MAX_LIMIT", "4")
	t.Setenv("DEFAULT_LIMIT", "")
	c = Load()
	assert.Equal(t, 4, c.MaxLimit)
	assert.Equal(t, 4, c.DefaultLimit)
}
