package conf

import (
	"fmt"
	"sync"

	"github.com/go-arcade/orgman/pkg/conf"
	"github.com/go-arcade/orgman/pkg/database"
	"github.com/go-arcade/orgman/pkg/log"
)

// EngineConfig is the full configuration of the engine process, read from
// config.toml.
type EngineConfig struct {
	Log      log.Conf         `mapstructure:"log"`
	Mongo    database.MongoDB `mapstructure:"mongo"`
	Amqp     Amqp             `mapstructure:"amqp"`
	Dispatch Dispatch         `mapstructure:"dispatch"`
}

// Amqp configures the request consumer.
type Amqp struct {
	URL           string `mapstructure:"url"`
	RequestQueue  string `mapstructure:"request_queue"`
	PrefetchCount int    `mapstructure:"prefetch_count"`
}

// Dispatch sizes the two dispatch stages: worker counts per pool and the
// capacity of the bounded channel feeding each of them.
type Dispatch struct {
	LogicRequestDispatchInstances   int `mapstructure:"logic_request_dispatch_instances"`
	StorageRequestDispatchInstances int `mapstructure:"storage_request_dispatch_instances"`
	LogicRequestsBoundary           int `mapstructure:"logic_requests_boundary"`
	StorageRequestsBoundary         int `mapstructure:"storage_requests_boundary"`
}

var (
	cfg  EngineConfig
	once sync.Once
)

// NewEngineConfig loads the configuration once per process.
func NewEngineConfig(confDir string) EngineConfig {
	once.Do(func() {
		if _, err := conf.LoadConfigFile(confDir, &cfg); err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			panic(fmt.Sprintf("invalid configuration: %s", err))
		}
	})
	return cfg
}

func (c *EngineConfig) SetDefaults() {
	if c.Log.Output == "" {
		c.Log = *log.SetDefaults()
	}
	if c.Amqp.RequestQueue == "" {
		c.Amqp.RequestQueue = "organization_request"
	}
	if c.Amqp.PrefetchCount <= 0 {
		c.Amqp.PrefetchCount = 10
	}
	if c.Dispatch.LogicRequestDispatchInstances <= 0 {
		c.Dispatch.LogicRequestDispatchInstances = 4
	}
	if c.Dispatch.StorageRequestDispatchInstances <= 0 {
		c.Dispatch.StorageRequestDispatchInstances = 4
	}
	if c.Dispatch.LogicRequestsBoundary <= 0 {
		c.Dispatch.LogicRequestsBoundary = 1024
	}
	if c.Dispatch.StorageRequestsBoundary <= 0 {
		c.Dispatch.StorageRequestsBoundary = 1024
	}
}

func (c *EngineConfig) Validate() error {
	if c.Amqp.URL == "" {
		return fmt.Errorf("amqp.url is required")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Mongo.DB == "" {
		return fmt.Errorf("mongo.db is required")
	}
	return nil
}
