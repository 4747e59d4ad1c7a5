// Package config loads the esdsl configuration with Viper.
//
// A YAML, JSON or TOML file is read from the given path, or from
// /etc/esdsl, $HOME/.esdsl and the working directory when no path is
// given. Every key can be overridden from the environment with the ESDSL
// prefix, dots replaced by underscores:
//
//	ESDSL_SERVER_PORT=8081
//	ESDSL_DATA_SEARCH_DEFAULT_ENGINE=opensearch
//
// Example:
//
//	app_name: catalog
//	environment: production
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	logger:
//	  level: 4
//	  format: json
//	data:
//	  search:
//	    default_engine: elasticsearch
//	    elasticsearch:
//	      addresses: ["http://localhost:9200"]
//	    breaker:
//	      enabled: true
//	    cache:
//	      enabled: true
//	      driver: memory
//	observes:
//	  tracer:
//	    endpoint: localhost:4317
//
// Watch reloads the file on change through fsnotify:
//
//	cfg, err := config.LoadConfig("./config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Watch(func(c *config.Config) {
//	    logger.Infof(ctx, "config reloaded, level %d", c.Logger.Level)
//	})
package config
