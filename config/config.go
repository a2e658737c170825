package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DBConfig carries everything the database package needs to open a MySQL
// connection. DSN, when set, overrides the individual fields.
type DBConfig struct {
	Host   string
	Port   string
	User   string
	Pass   string
	Name   string
	Params string
	DSN    string

	TLS        string // "true", "preferred" or "" to disable
	TLSVerify  bool
	CAPath     string
	ClientCert string
	ClientKey  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	PingOnConnect   bool
}

type SESConfig struct {
	FromEmail string
	Region    string
}

// Config is the process configuration, built once from the environment at
// startup and handed to the components that need it.
type Config struct {
	Env            string
	DB             DBConfig
	SES            SESConfig
	MailerInterval time.Duration
}

// FromEnv assembles the configuration from environment variables with the
// same defaults the service has always shipped with.
func FromEnv() Config {
	return Config{
		Env: strings.ToLower(getenv("ENV", "development")),
		DB: DBConfig{
			Host:            getenv("DB_HOST", "127.0.0.1"),
			Port:            getenv("DB_PORT", "3306"),
			User:            getenv("DB_USER", "root"),
			Pass:            getenv("DB_PASS", ""),
			Name:            getenv("DB_NAME", "taskmanager"),
			Params:          getenv("DB_PARAMS", "charset=utf8mb4&parseTime=True&loc=Local"),
			DSN:             os.Getenv("DB_DSN"),
			TLS:             getenv("DB_TLS", "true"),
			TLSVerify:       getenv("DB_TLS_VERIFY", "false") == "true",
			CAPath:          getenv("DB_TLS_CA_PATH", ""),
			ClientCert:      getenv("DB_TLS_CLIENT_CERT", ""),
			ClientKey:       getenv("DB_TLS_CLIENT_KEY", ""),
			MaxOpenConns:    atoi(getenv("DB_MAX_OPEN_CONNS", "25"), 25),
			MaxIdleConns:    atoi(getenv("DB_MAX_IDLE_CONNS", "25"), 25),
			ConnMaxLifetime: time.Duration(atoi(getenv("DB_CONN_MAX_LIFETIME", "3600"), 3600)) * time.Second,
			ConnectRetries:  atoi(getenv("DB_CONNECT_RETRIES", "5"), 5),
			PingOnConnect:   getenv("DB_PING_ON_CONNECT", "true") == "true",
		},
		SES: SESConfig{
			FromEmail: getenv("SES_FROM_EMAIL", ""),
			Region:    getenv("AWS_REGION", ""),
		},
		MailerInterval: time.Duration(atoi(getenv("MAILER_INTERVAL_SEC", "30"), 30)) * time.Second,
	}
}

// Validate checks the fields the process cannot run without.
func (c Config) Validate() error {
	if c.DB.DSN == "" {
		if c.DB.Host == "" {
			return errors.New("config: DB_HOST is required")
		}
		if c.DB.User == "" {
			return errors.New("config: DB_USER is required")
		}
		if c.DB.Name == "" {
			return errors.New("config: DB_NAME is required")
		}
	}
	if c.MailerInterval <= 0 {
		return errors.New("config: MAILER_INTERVAL_SEC must be positive")
	}
	return nil
}

// IsDevelopment reports whether the process runs with development defaults
// (verbose SQL logging, auto-migration).
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func atoi(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
