package database

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sweetappleplus/gamified-task-manager-backend/config"
)

// Connect opens the MySQL connection with secure defaults, pooling and
// retry. All knobs come from the validated config struct instead of ambient
// environment reads.
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := cfg.DB.DSN

	if dsn == "" {
		params := cfg.DB.Params
		// Enforce encrypted connections and timeouts unless the DSN already
		// pins them.
		if !strings.Contains(params, "tls=") && (cfg.DB.TLS == "true" || cfg.DB.TLS == "preferred") {
			if cfg.DB.TLSVerify {
				params = params + "&tls=custom"
			} else {
				params = params + "&tls=true"
			}
		}
		if !strings.Contains(params, "timeout=") {
			params = params + "&timeout=10s"
		}
		if !strings.Contains(params, "readTimeout=") {
			params = params + "&readTimeout=10s"
		}
		if !strings.Contains(params, "writeTimeout=") {
			params = params + "&writeTimeout=10s"
		}

		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
			cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name, params)
	}

	safeDSN := dsn
	if cfg.DB.Pass != "" {
		safeDSN = strings.Replace(safeDSN, cfg.DB.Pass, "******", 1)
	}
	log.Printf("[database] using DSN: %s", safeDSN)

	// Strict certificate validation registers a named TLS config with the
	// mysql driver.
	if strings.Contains(dsn, "tls=custom") {
		tlsCfg := &tls.Config{}
		if cfg.DB.CAPath != "" {
			caCert, err := os.ReadFile(cfg.DB.CAPath)
			if err != nil {
				return nil, fmt.Errorf("failed reading DB TLS CA file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return nil, errors.New("failed to append CA certs")
			}
			tlsCfg.RootCAs = pool
		}
		if cfg.DB.ClientCert != "" && cfg.DB.ClientKey != "" {
			cert, err := tls.LoadX509KeyPair(cfg.DB.ClientCert, cfg.DB.ClientKey)
			if err != nil {
				return nil, fmt.Errorf("failed to load client cert/key: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}
		if err := mysqldriver.RegisterTLSConfig("custom", tlsCfg); err != nil {
			return nil, err
		}
	}

	var gormLogger logger.Interface
	if cfg.IsDevelopment() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	var db *gorm.DB
	var err error
	backoff := time.Second
	for attempt := 0; attempt < cfg.DB.ConnectRetries; attempt++ {
		db, err = gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if cfg.DB.PingOnConnect {
		if err := pingWithTimeout(sqlDB, 5*time.Second); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
	}

	return db, nil
}

func pingWithTimeout(db *sql.DB, timeout time.Duration) error {
	ch := make(chan error, 1)
	go func() {
		ch <- db.Ping()
	}()
	select {
	case err := <-ch:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("ping timeout after %s", timeout)
	}
}
