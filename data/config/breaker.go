package config

import (
	"time"

	"github.com/spf13/viper"
)

// Breaker circuit breaker config struct
type Breaker struct {
	Enabled          bool          `json:"enabled" yaml:"enabled"`
	MaxRequests      uint32        `json:"max_requests" yaml:"max_requests" validate:"gte=1"`
	Interval         time.Duration `json:"interval" yaml:"interval"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`
	FailureThreshold float64       `json:"failure_threshold" yaml:"failure_threshold" validate:"gt=0,lte=1"`
}

// getBreakerConfigs reads circuit breaker configurations
func getBreakerConfigs(v *viper.Viper) *Breaker {
	b := &Breaker{
		Enabled:          v.GetBool("data.search.breaker.enabled"),
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
	}
	if v.IsSet("data.search.breaker.max_requests") {
		b.MaxRequests = v.GetUint32("data.search.breaker.max_requests")
	}
	if v.IsSet("data.search.breaker.interval") {
		b.Interval = v.GetDuration("data.search.breaker.interval")
	}
	if v.IsSet("data.search.breaker.timeout") {
		b.Timeout = v.GetDuration("data.search.breaker.timeout")
	}
	if v.IsSet("data.search.breaker.failure_threshold") {
		b.FailureThreshold = v.GetFloat64("data.search.breaker.failure_threshold")
	}
	return b
}
