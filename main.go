package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"

	appconfig "github.com/sweetappleplus/gamified-task-manager-backend/config"
	"github.com/sweetappleplus/gamified-task-manager-backend/database"
	"github.com/sweetappleplus/gamified-task-manager-backend/email"
	"github.com/sweetappleplus/gamified-task-manager-backend/services"
)

func main() {
	// Load .env if present (do not overwrite already-set environment
	// variables) so DB_HOST, DB_NAME, etc are available when running locally.
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	cfg := appconfig.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto-migrate only in development to avoid accidental production schema
	// changes.
	if cfg.IsDevelopment() {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sender services.EmailSender = email.LogSender{}
	if cfg.SES.FromEmail != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SES.Region))
		if err != nil {
			log.Printf("[main] SES unavailable, falling back to log sender: %v", err)
		} else {
			sender = email.NewSESSender(awsCfg, cfg.SES.FromEmail)
		}
	}

	app := NewApp(db, services.SystemClock(), sender, cfg.MailerInterval)
	go app.Mailer.Run(ctx)

	log.Println("task manager core started")
	<-ctx.Done()
	log.Println("shutting down")
}
