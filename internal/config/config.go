package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	RedisAddr string
	RedisDB   int

	// Remote record store. sqlite keeps local setups self-contained; point
	// DBDriver/DBDSN at mysql for a shared server.
	DBDriver string
	DBDSN    string

	SyncInterval  time.Duration
	ProbeInterval time.Duration
	RemoteTimeout time.Duration

	IdempTTL time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getseconds(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return d
}

func Load() *Config {
	// optional .env for local runs; missing file is fine
	_ = godotenv.Load()

	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		DBDriver: getenv("DB_DRIVER", "sqlite"),
		DBDSN:    getenv("DB_DSN", "nexus.db"),

		SyncInterval:  getseconds("SYNC_INTERVAL_SECONDS", 30*time.Second),
		ProbeInterval: getseconds("PROBE_INTERVAL_SECONDS", 10*time.Second),
		RemoteTimeout: getseconds("REMOTE_TIMEOUT_SECONDS", 5*time.Second),
		IdempTTL:      getseconds("IDEMPOTENCY_TTL_SECONDS", 300*time.Second),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := net.LookupPort("tcp", c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "mysql" {
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or mysql)", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("missing DB_DSN")
	}
	return nil
}
