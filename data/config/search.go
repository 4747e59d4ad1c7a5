package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Engine names accepted by default_engine.
const (
	EngineElasticsearch = "elasticsearch"
	EngineOpenSearch    = "opensearch"
)

// Search represents search engine configuration
type Search struct {
	IndexPrefix   string         `yaml:"index_prefix" json:"index_prefix"`
	DefaultEngine string         `yaml:"default_engine" json:"default_engine" validate:"required,oneof=elasticsearch opensearch"`
	Elasticsearch *Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`
	OpenSearch    *OpenSearch    `yaml:"opensearch" json:"opensearch"`
	Breaker       *Breaker       `yaml:"breaker" json:"breaker" validate:"-"`
	Cache         *Cache         `yaml:"cache" json:"cache" validate:"-"`
}

var validate = validator.New()

// GetConfig reads the search configuration. Keys under `data.search.*` win
// over the legacy `data.elasticsearch.*` and `data.opensearch.*` sections.
func GetConfig(v *viper.Viper) *Search {
	return &Search{
		IndexPrefix:   getSearchIndexPrefix(v),
		DefaultEngine: getSearchDefaultEngine(v),
		Elasticsearch: getElasticsearchConfigs(v),
		OpenSearch:    getOpenSearchConfigs(v),
		Breaker:       getBreakerConfigs(v),
		Cache:         getCacheConfigs(v),
	}
}

// Validate checks the struct tags and that the default engine has at least
// one address.
func (s *Search) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}
	switch s.DefaultEngine {
	case EngineElasticsearch:
		if s.Elasticsearch == nil || len(s.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("invalid search config: elasticsearch addresses are required")
		}
	case EngineOpenSearch:
		if s.OpenSearch == nil || len(s.OpenSearch.Addresses) == 0 {
			return fmt.Errorf("invalid search config: opensearch addresses are required")
		}
	}
	if s.Breaker != nil && s.Breaker.Enabled {
		if err := validate.Struct(s.Breaker); err != nil {
			return fmt.Errorf("invalid breaker config: %w", err)
		}
	}
	if s.Cache != nil && s.Cache.Enabled {
		if err := validate.Struct(s.Cache); err != nil {
			return fmt.Errorf("invalid cache config: %w", err)
		}
		if s.Cache.Driver == CacheRedis && s.Cache.Addr == "" {
			return fmt.Errorf("invalid cache config: redis addr is required")
		}
	}
	return nil
}

// getSearchIndexPrefix gets search index prefix
func getSearchIndexPrefix(v *viper.Viper) string {
	if v.IsSet("data.search.index_prefix") {
		return v.GetString("data.search.index_prefix")
	}
	return getDefaultIndexPrefix(v)
}

// getDefaultIndexPrefix builds default index prefix from app info
func getDefaultIndexPrefix(v *viper.Viper) string {
	appName := v.GetString("app_name")
	environment := v.GetString("environment")

	if appName != "" && environment != "" {
		return strings.ToLower(fmt.Sprintf("%s-%s", appName, environment))
	}

	if appName != "" {
		return strings.ToLower(appName)
	}

	return ""
}

// getSearchDefaultEngine gets default search engine
func getSearchDefaultEngine(v *viper.Viper) string {
	if v.IsSet("data.search.default_engine") {
		return strings.ToLower(v.GetString("data.search.default_engine"))
	}
	return EngineElasticsearch
}
