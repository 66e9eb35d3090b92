// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	// Optional, the same keys can come from the environment directly
	godotenv.Load()

	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.token_ttl_minutes", "jwt_token_ttl_minutes")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.path", "database_path")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("redis.host", "redis_host")
	v.BindEnv("redis.port", "redis_port")
	v.BindEnv("redis.db", "redis_db")
	v.BindEnv("redis.password", "redis_password")
	v.BindEnv("redis.cache_ttl_seconds", "redis_cache_ttl_seconds")

	v.BindEnv("storage.path", "storage_path")

	v.BindEnv("origin.denylist", "origin_denylist")

	v.BindEnv("ratelimit.enabled", "ratelimit_enabled")
	v.BindEnv("ratelimit.rps", "ratelimit_rps")
	v.BindEnv("ratelimit.burst", "ratelimit_burst")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)

	v.SetDefault("jwt.token_ttl_minutes", 15)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "database.db")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl_seconds", 0)

	v.SetDefault("storage.path", "/tmp/files")

	v.SetDefault("origin.denylist", []string{})

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.rps", 10)
	v.SetDefault("ratelimit.burst", 20)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetInt("jwt.token_ttl_minutes") <= 0 {
		return errors.New("jwt.token_ttl_minutes must be bigger than 0")
	}

	switch v.GetString("database.driver") {
	case "sqlite":
		if v.GetString("database.path") == "" {
			return errors.New("database path can't be empty")
		}
	case "postgres":
		if v.GetString("database.dsn") == "" {
			return errors.New("database dsn can't be empty")
		}
	default:
		return fmt.Errorf("invalid database driver provided, must be one of %v", validDrivers)
	}

	if v.GetString("storage.path") == "" {
		return errors.New("storage path can't be empty")
	}

	for _, entry := range v.GetStringSlice("origin.denylist") {
		if err := validateNetwork(entry); err != nil {
			return fmt.Errorf("invalid origin.denylist entry %q, %w", entry, err)
		}
	}

	if v.GetBool("ratelimit.enabled") && v.GetInt("ratelimit.rps") <= 0 {
		return errors.New("ratelimit.rps must be bigger than 0")
	}

	return nil
}

// validateNetwork accepts either a CIDR range or a bare IP, which is
// treated as a single-address network.
func validateNetwork(entry string) error {
	if strings.Contains(entry, "/") {
		_, _, err := net.ParseCIDR(entry)
		return err
	}

	if net.ParseIP(entry) == nil {
		return errors.New("not an IP address")
	}

	return nil
}
