package helpers

import (
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type appConfig struct {
	App struct {
		WebPort   int    `yaml:"web_port" koanf:"web_port"`
		PublicURL string `yaml:"public_url" koanf:"public_url"`
		HashKey   string `yaml:"hash_key" koanf:"hash_key"`
	} `yaml:"app" koanf:"app"`
	Database struct {
		DBPath string `yaml:"db_path" koanf:"db_path"`
	} `yaml:"database" koanf:"database"`
	Youtube struct {
		APIKey string `yaml:"api_key" koanf:"api_key"`
	} `yaml:"youtube" koanf:"youtube"`
}

var loadedConfig *appConfig
var loadedConfigOnce sync.Once

func GetConfig() *appConfig {
	loadedConfigOnce.Do(func() {
		var k = koanf.New(".")
		if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
			panic(err.Error())
		}
		if err := k.Load(env.Provider("APP_", ".", func(s string) string {
			return strings.Replace(strings.ToLower(
				strings.TrimPrefix(s, "APP_")), "_", ".", -1)
		}), nil); err != nil {
			panic(err.Error())
		}
		if err := k.Unmarshal("", &loadedConfig); err != nil {
			panic(err.Error())
		}
	})
	return loadedConfig
}
