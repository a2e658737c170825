package main

import (
	"time"

	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/services"
)

// App bundles the wired service layer. The transport layer (HTTP, RPC, CLI)
// is expected to call into these after doing its own authentication and role
// checks.
type App struct {
	Tasks         *services.TaskService
	Bulk          *services.BulkService
	Ledger        *services.LedgerService
	BonusConfigs  *services.BonusConfigService
	Categories    *services.CategoryService
	Notifications *services.NotificationService
	Mailer        *services.Mailer
}

// NewApp wires every service against the shared database handle and clock.
func NewApp(db *gorm.DB, clock services.Clock, sender services.EmailSender, mailerInterval time.Duration) *App {
	notifications := services.NewNotificationService(db)
	ledger := services.NewLedgerService(db)
	tasks := services.NewTaskService(db, clock, ledger, notifications)

	return &App{
		Tasks:         tasks,
		Bulk:          services.NewBulkService(db, tasks, notifications),
		Ledger:        ledger,
		BonusConfigs:  services.NewBonusConfigService(db),
		Categories:    services.NewCategoryService(db),
		Notifications: notifications,
		Mailer:        services.NewMailer(db, sender, clock, mailerInterval),
	}
}
