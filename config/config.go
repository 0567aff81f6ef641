package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig `mapstructure:"server"`
	Provider string       `mapstructure:"provider"`
	DB       DBConfig     `mapstructure:"db"`
	Storage  StorageConfig `mapstructure:"storage"`
	Seed     SeedConfig   `mapstructure:"seed"`
	Admin    AdminConfig  `mapstructure:"admin"`
	Shop     ShopConfig   `mapstructure:"shop"`
	Minio    MinioConfig  `mapstructure:"minio"`
}

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	GinMode   string `mapstructure:"gin_mode"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type SeedConfig struct {
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
}

type AdminConfig struct {
	Login    string `mapstructure:"login"`
	Password string `mapstructure:"password"`
}

type ShopConfig struct {
	Name           string `mapstructure:"name"`
	SupportPhone   string `mapstructure:"support_phone"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	PageSize       int    `mapstructure:"page_size"`
	AdminPageSize  int    `mapstructure:"admin_page_size"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// LoadConfig loads configuration from config.yaml and environment variables
// (SUSHI_ prefix). The remote provider is only honored when a DSN is present;
// missing credentials force local mode regardless of the requested provider.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("./deploy/")

	v.SetEnvPrefix("SUSHI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.jwt_secret", "sushi_shop_super_secret_2024")
	v.SetDefault("provider", "local")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("storage.data_dir", "./data/state")
	v.SetDefault("seed.path", "./data/seed.json")
	v.SetDefault("seed.url", "")
	v.SetDefault("admin.login", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("shop.name", "King Kong Sushi")
	v.SetDefault("shop.support_phone", "+7 (800) 200-65-59")
	v.SetDefault("shop.currency_symbol", "₽")
	v.SetDefault("shop.page_size", 18)
	v.SetDefault("shop.admin_page_size", 20)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "menu-images")
	v.SetDefault("minio.use_ssl", false)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// RemoteConfigured reports whether the remote provider can be selected.
func (c *Config) RemoteConfigured() bool {
	return c.Provider == "remote" && c.DB.DSN != ""
}
