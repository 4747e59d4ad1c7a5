package config

import (
	"time"

	"github.com/spf13/viper"
)

// Cache drivers
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// Cache response cache config struct. The redis driver shares its
// connection settings with `data.redis.*`.
type Cache struct {
	Enabled      bool          `json:"enabled" yaml:"enabled"`
	Driver       string        `json:"driver" yaml:"driver" validate:"oneof=redis memory"`
	Addr         string        `json:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	Db           int           `json:"db" yaml:"db" validate:"gte=0"`
	TTL          time.Duration `json:"ttl" yaml:"ttl" validate:"gt=0"`
	Prefix       string        `json:"prefix" yaml:"prefix"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// getCacheConfigs reads cache configurations. Connection settings missing
// from `data.search.cache.*` are taken from `data.redis.*`.
func getCacheConfigs(v *viper.Viper) *Cache {
	str := func(key string) string {
		if s := v.GetString("data.search.cache." + key); s != "" {
			return s
		}
		return v.GetString("data.redis." + key)
	}
	dur := func(key string) time.Duration {
		if v.IsSet("data.search.cache." + key) {
			return v.GetDuration("data.search.cache." + key)
		}
		return v.GetDuration("data.redis." + key)
	}

	c := &Cache{
		Enabled:      v.GetBool("data.search.cache.enabled"),
		Driver:       CacheRedis,
		Addr:         str("addr"),
		Username:     str("username"),
		Password:     str("password"),
		TTL:          time.Minute,
		Prefix:       "esdsl:",
		ReadTimeout:  dur("read_timeout"),
		WriteTimeout: dur("write_timeout"),
		DialTimeout:  dur("dial_timeout"),
	}
	if v.IsSet("data.search.cache.db") {
		c.Db = v.GetInt("data.search.cache.db")
	} else {
		c.Db = v.GetInt("data.redis.db")
	}
	if d := v.GetString("data.search.cache.driver"); d != "" {
		c.Driver = d
	}
	if v.IsSet("data.search.cache.ttl") {
		c.TTL = v.GetDuration("data.search.cache.ttl")
	}
	if v.IsSet("data.search.cache.prefix") {
		c.Prefix = v.GetString("data.search.cache.prefix")
	}
	return c
}
