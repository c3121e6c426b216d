package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/checkout/internal/log"
)

type Application struct {
	Env  string `mapstructure:"env"  json:"env"`
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Auth struct {
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Issuer    string `mapstructure:"issuer"     json:"issuer"`
	Audience  string `mapstructure:"audience"   json:"audience"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string        `mapstructure:"host"     json:"host"`
	Password string        `mapstructure:"password" json:"-"`
	Database int           `mapstructure:"database" json:"database"`
	Port     uint16        `mapstructure:"port"     json:"port"`
	TTL      time.Duration `mapstructure:"ttl"      json:"ttl"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Auth        `mapstructure:"auth"        json:"auth"`
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Otel        `mapstructure:"otel"        json:"otel"`
}

func (d Database) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

func (o Otel) Endpoint() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("auth.issuer", "user-service")
	v.SetDefault("auth.audience", "audience-user")
	v.SetDefault("db.migration_path", "file://migrations")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.min_connections", 2)
	v.SetDefault("db.port", 5432)
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
}

// Load reads <filename>.yaml from paths; environment variables such as
// DB_PASSWORD override file values.
func Load(filename string, paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed reading config with error=%w", err)
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed unmarshaling config with error=%w", err)
	}
	return &cfg, nil
}

func InitConfig(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		logger.Info().Msg("reading config")
		cfg, err := Load(filename, "./env")
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
		logger.Info().Any(log.KeyConfig, cfg).Msg("read config")
	})
	return config
}
