package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestSearchEngineConfigs_PreferDataSearchNamespace(t *testing.T) {
	v := viper.New()

	v.Set("data.elasticsearch.addresses", []string{"http://legacy:9200"})
	v.Set("data.elasticsearch.username", "legacy-user")
	v.Set("data.elasticsearch.password", "legacy-pass")

	v.Set("data.search.elasticsearch.addresses", []string{"http://search:9200"})
	v.Set("data.search.elasticsearch.username", "search-user")
	v.Set("data.search.elasticsearch.password", "search-pass")

	es := getElasticsearchConfigs(v)
	if len(es.Addresses) != 1 || es.Addresses[0] != "http://search:9200" {
		t.Fatalf("expected addresses from data.search.elasticsearch, got %v", es.Addresses)
	}
	if es.Username != "search-user" || es.Password != "search-pass" {
		t.Fatalf("expected credentials from data.search.elasticsearch, got %q/%q", es.Username, es.Password)
	}
}

func TestSearchEngineConfigs_FallbackToLegacyNamespace(t *testing.T) {
	v := viper.New()

	v.Set("data.elasticsearch.addresses", []string{"http://legacy:9200"})
	v.Set("data.elasticsearch.username", "legacy-user")
	v.Set("data.elasticsearch.password", "legacy-pass")

	es := getElasticsearchConfigs(v)
	if len(es.Addresses) != 1 || es.Addresses[0] != "http://legacy:9200" {
		t.Fatalf("expected addresses from data.elasticsearch, got %v", es.Addresses)
	}
	if es.Username != "legacy-user" || es.Password != "legacy-pass" {
		t.Fatalf("expected credentials from data.elasticsearch, got %q/%q", es.Username, es.Password)
	}
}

func TestOpenSearchConfigs_InsecureSkipTLSPreferSearchNamespace(t *testing.T) {
	v := viper.New()

	v.Set("data.opensearch.insecure_skip_tls", false)
	v.Set("data.search.opensearch.insecure_skip_tls", true)

	os := getOpenSearchConfigs(v)
	if os.InsecureSkipTLS != true {
		t.Fatalf("expected insecure_skip_tls from data.search.opensearch, got %v", os.InsecureSkipTLS)
	}
}


func TestElasticsearchConfigs_MaxRetries(t *testing.T) {
	v := viper.New()
	if es := getElasticsearchConfigs(v); es.MaxRetries != 3 {
		t.Fatalf("expected default max_retries 3, got %d", es.MaxRetries)
	}

	v.Set("data.elasticsearch.connection_retry_times", 5)
	if es := getElasticsearchConfigs(v); es.MaxRetries != 5 {
		t.Fatalf("expected max_retries from connection_retry_times, got %d", es.MaxRetries)
	}

	v.Set("data.search.elasticsearch.max_retries", 1)
	if es := getElasticsearchConfigs(v); es.MaxRetries != 1 {
		t.Fatalf("expected max_retries from data.search.elasticsearch, got %d", es.MaxRetries)
	}
}

func TestGetConfig_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("app_name", "Shop")
	v.Set("environment", "Dev")

	cfg := GetConfig(v)
	if cfg.DefaultEngine != EngineElasticsearch {
		t.Fatalf("expected default engine elasticsearch, got %q", cfg.DefaultEngine)
	}
	if cfg.IndexPrefix != "shop-dev" {
		t.Fatalf("expected index prefix shop-dev, got %q", cfg.IndexPrefix)
	}
	if cfg.Breaker.Enabled || cfg.Cache.Enabled {
		t.Fatalf("expected breaker and cache disabled by default")
	}
	if cfg.Cache.TTL != time.Minute {
		t.Fatalf("expected cache ttl 1m, got %v", cfg.Cache.TTL)
	}
}

func TestCacheConfigs_FallbackToRedis(t *testing.T) {
	v := viper.New()
	v.Set("data.redis.addr", "localhost:6379")
	v.Set("data.redis.db", 2)
	v.Set("data.search.cache.enabled", true)
	v.Set("data.search.cache.ttl", "30s")

	c := getCacheConfigs(v)
	if c.Addr != "localhost:6379" || c.Db != 2 {
		t.Fatalf("expected redis connection fallback, got %q/%d", c.Addr, c.Db)
	}
	if c.TTL != 30*time.Second {
		t.Fatalf("expected ttl 30s, got %v", c.TTL)
	}
}

func TestSearchValidate(t *testing.T) {
	v := viper.New()
	cfg := GetConfig(v)
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without addresses")
	}

	v.Set("data.search.elasticsearch.addresses", []string{"http://localhost:9200"})
	cfg = GetConfig(v)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.DefaultEngine = "solr"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown engine")
	}

	cfg.DefaultEngine = EngineElasticsearch
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for enabled cache without addr")
	}
}

func TestCacheConfigs_MemoryDriver(t *testing.T) {
	v := viper.New()
	v.Set("data.search.elasticsearch.addresses", []string{"http://localhost:9200"})
	v.Set("data.search.cache.enabled", true)
	v.Set("data.search.cache.driver", "memory")

	cfg := GetConfig(v)
	if cfg.Cache.Driver != CacheMemory {
		t.Fatalf("expected memory driver, got %q", cfg.Cache.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory cache needs no addr, got %v", err)
	}
}
