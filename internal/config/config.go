package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	PublicURL string `mapstructure:"public_url"`
	WordsPath string `mapstructure:"words_path"`
	StaticDir string `mapstructure:"static_dir"`
	// 房间空闲超过这个时长后会被清理，0 表示不清理
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

func InitConfig(path string) *AppConfig {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3000)
	v.SetDefault("log_level", "info")
	v.SetDefault("public_url", "http://localhost:3000")
	v.SetDefault("words_path", "data/words.json")
	v.SetDefault("static_dir", "./impostor-fe")
	v.SetDefault("session_ttl", "60m")

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	return &config
}
