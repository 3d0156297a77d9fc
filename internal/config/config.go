package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	IsDev          bool
	Addr           string
	Port           string
	SignKey        []byte
	TokenTTL       time.Duration
	BcryptCost     int
	DBDriver       string
	DatabaseURL    string
	AdminEmail     string
	AdminUser      string
	AdminPass      string
	RequestTimeout time.Duration
}

// ListenAddr is the address handed to http.Server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.Addr, c.Port)
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		IsDev:       os.Getenv("GO_ENV") == "development",
		Addr:        os.Getenv("SERVER_ADDR"),
		Port:        getenv("SERVER_PORT", "8080"),
		SignKey:     []byte(os.Getenv("SIGN_KEY")),
		DBDriver:    getenv("DB_DRIVER", DriverSQLite),
		DatabaseURL: getenv("DATABASE_URL", "./db.sqlite"),
		AdminEmail:  os.Getenv("ADMIN_EMAIL"),
		AdminUser:   os.Getenv("ADMIN_USER"),
		AdminPass:   os.Getenv("ADMIN_PASS"),
	}
	if len(cfg.SignKey) == 0 {
		return nil, errors.New("SIGN_KEY must be set")
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getenv("TOKEN_TTL", "24h")); err != nil {
		return nil, errors.Wrap(err, "parsing TOKEN_TTL failed")
	}
	if cfg.RequestTimeout, err = time.ParseDuration(getenv("REQUEST_TIMEOUT", "30s")); err != nil {
		return nil, errors.Wrap(err, "parsing REQUEST_TIMEOUT failed")
	}
	if cfg.BcryptCost, err = strconv.Atoi(getenv("BCRYPT_COST", "10")); err != nil {
		return nil, errors.Wrap(err, "parsing BCRYPT_COST failed")
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
