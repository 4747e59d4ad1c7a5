package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	dc "github.com/ncobase/esdsl/data/config"
	lc "github.com/ncobase/esdsl/logging/logger/config"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ESDSL_SERVER_PORT
const EnvPrefix = "ESDSL"

var (
	current *Config
	mu      sync.RWMutex
)

// Config represents the configuration implementation.
type Config struct {
	AppName     string
	RunMode     string
	Environment string
	Server      *Server
	Logger      *lc.Config
	Search      *dc.Search
	Observes    *Observes
	Viper       *viper.Viper
}

// Server http server config struct
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns host:port
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// GetConfig returns the last loaded configuration.
func GetConfig() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return nil, errors.New("config not loaded")
	}
	return current, nil
}

// LoadConfig loads the configuration from the file. With an empty path the
// usual locations are searched and a missing file leaves the defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/esdsl")
		v.AddConfigPath("$HOME/.esdsl")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	mu.Lock()
	current = cfg
	mu.Unlock()
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:     getStringOrDefault(v, "app_name", "esdsl"),
		RunMode:     getStringOrDefault(v, "run_mode", "release"),
		Environment: getStringOrDefault(v, "environment", "development"),
		Server:      getServerConfig(v),
		Logger:      lc.GetConfig(v),
		Search:      dc.GetConfig(v),
		Observes:    getObservesConfig(v),
		Viper:       v,
	}
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:            getStringOrDefault(v, "server.host", "127.0.0.1"),
		Port:            getIntOrDefault(v, "server.port", 8080),
		ReadTimeout:     getDurationOrDefault(v, "server.read_timeout", 15*time.Second),
		WriteTimeout:    getDurationOrDefault(v, "server.write_timeout", 30*time.Second),
		ShutdownTimeout: getDurationOrDefault(v, "server.shutdown_timeout", 10*time.Second),
	}
}

// Reload re-reads the file behind c and replaces the current configuration.
func (c *Config) Reload() (*Config, error) {
	if err := c.Viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	cfg := fromViper(c.Viper)
	mu.Lock()
	current = cfg
	mu.Unlock()
	return cfg, nil
}

// Watch watches the configuration file and reloads it when it changes.
// It does nothing when no file was loaded.
func (c *Config) Watch(callback func(*Config)) {
	if c.Viper.ConfigFileUsed() == "" {
		return
	}
	c.Viper.OnConfigChange(func(fsnotify.Event) {
		cfg := fromViper(c.Viper)
		mu.Lock()
		current = cfg
		mu.Unlock()
		if callback != nil {
			callback(cfg)
		}
	})
	c.Viper.WatchConfig()
}

// IsDebug reports whether run_mode is debug
func (c *Config) IsDebug() bool {
	return strings.EqualFold(c.RunMode, "debug")
}
