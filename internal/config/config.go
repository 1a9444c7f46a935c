package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App   AppConfig   `toml:"app"`
	Auth  AuthConfig  `toml:"auth"`
	MySQL MySQLConfig `toml:"mysql"`
}

type AppConfig struct {
	Name         string   `toml:"name"`
	Env          string   `toml:"env"`
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	GinMode      string   `toml:"gin_mode"`
	AllowOrigins []string `toml:"allow_origins"`
}

type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	JWTExpireHour int    `toml:"jwt_expire_hour"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

// Load reads configs/config.toml if present, applies environment overrides,
// and rejects configurations the process cannot safely start with.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret is required (set JWT_SECRET)")
	}
	if strings.TrimSpace(c.MySQL.DB) == "" {
		return errors.New("mysql.db is required (set MYSQL_DB)")
	}
	if c.Auth.JWTExpireHour <= 0 {
		return errors.New("auth.jwt_expire_hour must be positive")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "todoapi",
			Env:          "dev",
			Host:         "0.0.0.0",
			Port:         8080,
			GinMode:      "debug",
			AllowOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Auth: AuthConfig{
			JWTSecret:     "",
			JWTExpireHour: 24,
		},
		MySQL: MySQLConfig{
			Host:   "127.0.0.1",
			Port:   3306,
			User:   "root",
			DB:     "todoapi",
			Params: "parseTime=true&loc=Local&charset=utf8mb4",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	if origins, ok := os.LookupEnv("APP_ALLOW_ORIGINS"); ok && origins != "" {
		cfg.App.AllowOrigins = strings.Split(origins, ",")
	}

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpireHour = getEnvAsInt("JWT_EXPIRE_HOUR", cfg.Auth.JWTExpireHour)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
