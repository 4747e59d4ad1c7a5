package config

import "github.com/spf13/viper"

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses  []string `json:"addresses" yaml:"addresses" validate:"dive,url"`
	Username   string   `json:"username" yaml:"username"`
	Password   string   `json:"password" yaml:"password"`
	MaxRetries int      `json:"max_retries" yaml:"max_retries" validate:"gte=0"`
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	// Prefer `data.search.elasticsearch.*` but keep backward compatibility with `data.elasticsearch.*`.
	addresses := v.GetStringSlice("data.search.elasticsearch.addresses")
	if len(addresses) == 0 {
		addresses = v.GetStringSlice("data.elasticsearch.addresses")
	}

	username := v.GetString("data.search.elasticsearch.username")
	if username == "" {
		username = v.GetString("data.elasticsearch.username")
	}

	password := v.GetString("data.search.elasticsearch.password")
	if password == "" {
		password = v.GetString("data.elasticsearch.password")
	}

	// connection_retry_times is the older spelling of max_retries.
	maxRetries := 3
	switch {
	case v.IsSet("data.search.elasticsearch.max_retries"):
		maxRetries = v.GetInt("data.search.elasticsearch.max_retries")
	case v.IsSet("data.elasticsearch.max_retries"):
		maxRetries = v.GetInt("data.elasticsearch.max_retries")
	case v.IsSet("data.elasticsearch.connection_retry_times"):
		maxRetries = v.GetInt("data.elasticsearch.connection_retry_times")
	}

	return &Elasticsearch{
		Addresses:  addresses,
		Username:   username,
		Password:   password,
		MaxRetries: maxRetries,
	}
}
