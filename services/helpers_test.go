package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.TaskCategory{},
		&models.Task{},
		&models.TaskSubmission{},
		&models.LedgerEntry{},
		&models.BonusConfig{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Name: email, Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.TaskCategory {
	t.Helper()
	category := models.TaskCategory{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return &category
}

// testEnv bundles a database, services and a controllable clock for
// lifecycle tests.
type testEnv struct {
	db       *gorm.DB
	clock    *fakeClock
	tasks    *TaskService
	bulk     *BulkService
	ledger   *LedgerService
	notifs   *NotificationService
	admin    *models.User
	worker   *models.User
	category *models.TaskCategory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	clock := newFakeClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))
	notifs := NewNotificationService(db)
	ledger := NewLedgerService(db)
	tasks := NewTaskService(db, clock, ledger, notifs)

	return &testEnv{
		db:       db,
		clock:    clock,
		tasks:    tasks,
		bulk:     NewBulkService(db, tasks, notifs),
		ledger:   ledger,
		notifs:   notifs,
		admin:    seedUser(t, db, models.UserRoleAdmin, "admin@example.com"),
		worker:   seedUser(t, db, models.UserRoleWorker, "worker@example.com"),
		category: seedCategory(t, db, "QA"),
	}
}

func (e *testEnv) createInput() CreateTaskInput {
	return CreateTaskInput{
		Title:             "Verify checkout flow",
		Description:       "Walk through the checkout and attach a recording",
		Priority:          models.TaskPriorityMedium,
		Type:              models.TaskTypeStandard,
		Budget:            decimal.RequireFromString("100.00"),
		CommissionPercent: decimal.RequireFromString("80"),
		TimeToCompleteMin: 60,
		CategoryID:        e.category.ID,
	}
}

// startedTask creates, assigns and starts a task at the current fake time.
func (e *testEnv) startedTask(t *testing.T) *models.Task {
	t.Helper()
	ctx := context.Background()

	in := e.createInput()
	in.AssignedUserID = &e.worker.ID
	task, err := e.tasks.Create(ctx, in, e.admin.ID)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	task, err = e.tasks.Start(ctx, task.ID, e.worker.ID)
	if err != nil {
		t.Fatalf("start task: %v", err)
	}
	return task
}

func (e *testEnv) seedBonusConfig(t *testing.T, taskType models.TaskType, percent string) {
	t.Helper()
	config := models.BonusConfig{
		TaskType:     taskType,
		Name:         fmt.Sprintf("%s early bonus", taskType),
		BonusPercent: decimal.RequireFromString(percent),
	}
	if err := e.db.Create(&config).Error; err != nil {
		t.Fatalf("seed bonus config: %v", err)
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}
