package conf

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/go-arcade/orgman/pkg/log"
)

// LoadConfigFile reads config.toml from confDir into cfg and re-reads it on change.
// cfg must be a pointer to a configuration struct.
func LoadConfigFile(confDir string, cfg interface{}) (interface{}, error) {
	cfgValue := reflect.ValueOf(cfg)
	if cfgValue.Kind() != reflect.Ptr || cfgValue.IsNil() {
		return nil, errors.New("cfg must be a pointer")
	}

	vCfg := viper.New()
	vCfg.AddConfigPath(confDir)
	vCfg.SetConfigName("config")
	vCfg.SetConfigType("toml")
	vCfg.AutomaticEnv()

	if err := vCfg.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	vCfg.WatchConfig()
	vCfg.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration changed, re-reading: %s", e.Name)
		if err := vCfg.Unmarshal(cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})

	if err := vCfg.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	return cfgValue.Interface(), nil
}
