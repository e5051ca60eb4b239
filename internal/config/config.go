package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Camp     *CampConfig     `mapstructure:"camp"`
	Resend   *ResendConfig   `mapstructure:"resend"`
	Photos   *PhotosConfig   `mapstructure:"photos"`

	// camp holds the hot-reloadable copy of Camp. Pricing values may be
	// edited in config.yml mid-season without a restart.
	camp atomic.Pointer[CampConfig]
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CampConfig carries the content values the office adjusts season to season.
type CampConfig struct {
	SessionCostCents  int64  `mapstructure:"session_cost_cents"`
	WeekDiscountPct   int    `mapstructure:"week_discount_pct"`
	VenmoHandle       string `mapstructure:"venmo_handle"`
	RegistrationEmail string `mapstructure:"registration_email"`
	DirectorEmail     string `mapstructure:"director_email"`
}

type ResendConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type PhotosConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

func Load(configPath string) (*AppConfig, error) {
	conf := &AppConfig{}

	viper.SetConfigFile(configPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	conf.camp.Store(conf.Camp)

	viper.OnConfigChange(func(e fsnotify.Event) {
		reloaded := &AppConfig{}
		if err := viper.Unmarshal(reloaded); err != nil {
			zap.L().Warn("config reload failed, keeping previous values", zap.Error(err))
			return
		}
		conf.camp.Store(reloaded.Camp)
		zap.L().Info("camp content config reloaded", zap.String("file", e.Name))
	})
	viper.WatchConfig()

	return conf, nil
}

// CampContent returns the current camp content values, which may have been
// hot-reloaded since startup.
func (c *AppConfig) CampContent() *CampConfig {
	return c.camp.Load()
}
