package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

func TestBonusConfigCreateAndLookup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	configs := NewBonusConfigService(env.db)

	created, err := configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypeStandard,
		Name:         "Standard early bonus",
		BonusPercent: mustDecimal(t, "10"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}

	byType, err := configs.ByTaskType(ctx, models.TaskTypeStandard)
	if err != nil {
		t.Fatalf("by task type: %v", err)
	}
	if byType.ID != created.ID || !byType.BonusPercent.Equal(mustDecimal(t, "10")) {
		t.Fatalf("lookup mismatch: %+v", byType)
	}

	if _, err := configs.ByTaskType(ctx, models.TaskTypePremium); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unconfigured type: want ErrNotFound, got %v", err)
	}
}

func TestBonusConfigUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	configs := NewBonusConfigService(env.db)

	_, err := configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypeStandard,
		Name:         "Standard early bonus",
		BonusPercent: mustDecimal(t, "10"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypeStandard,
		Name:         "Another standard bonus",
		BonusPercent: mustDecimal(t, "5"),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate task type: want ErrConflict, got %v", err)
	}

	_, err = configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypePremium,
		Name:         "Standard early bonus",
		BonusPercent: mustDecimal(t, "5"),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name: want ErrConflict, got %v", err)
	}
}

func TestBonusConfigValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	configs := NewBonusConfigService(env.db)

	_, err := configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypeStandard,
		BonusPercent: mustDecimal(t, "10"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing name: want ErrValidation, got %v", err)
	}

	_, err = configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypeStandard,
		Name:         "Negative",
		BonusPercent: mustDecimal(t, "-1"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("negative percent: want ErrValidation, got %v", err)
	}
}

func TestBonusConfigUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	configs := NewBonusConfigService(env.db)

	standard, err := configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypeStandard,
		Name:         "Standard early bonus",
		BonusPercent: mustDecimal(t, "10"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypePremium,
		Name:         "Premium early bonus",
		BonusPercent: mustDecimal(t, "15"),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	percent := mustDecimal(t, "12.5")
	updated, err := configs.Update(ctx, standard.ID, UpdateBonusConfigInput{BonusPercent: &percent})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.BonusPercent.Equal(percent) {
		t.Fatalf("want percent 12.5, got %s", updated.BonusPercent)
	}

	// Moving onto an occupied task type must fail.
	premium := models.TaskTypePremium
	if _, err := configs.Update(ctx, standard.ID, UpdateBonusConfigInput{TaskType: &premium}); !errors.Is(err, ErrConflict) {
		t.Fatalf("occupied task type: want ErrConflict, got %v", err)
	}

	name := "Premium early bonus"
	if _, err := configs.Update(ctx, standard.ID, UpdateBonusConfigInput{Name: &name}); !errors.Is(err, ErrConflict) {
		t.Fatalf("occupied name: want ErrConflict, got %v", err)
	}

	if _, err := configs.Update(ctx, "missing", UpdateBonusConfigInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: want ErrNotFound, got %v", err)
	}
}

func TestBonusConfigDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	configs := NewBonusConfigService(env.db)

	created, err := configs.Create(ctx, CreateBonusConfigInput{
		TaskType:     models.TaskTypeStandard,
		Name:         "Standard early bonus",
		BonusPercent: mustDecimal(t, "10"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := configs.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := configs.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := configs.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}

// Without a bonus config an approval simply pays the plain reward; the CRUD
// side must not be required for the lifecycle to work.
func TestApprovalWorksWithoutBonusConfig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := env.startedTask(t)
	env.clock.Advance(30 * time.Minute)
	if _, err := env.tasks.Submit(ctx, task.ID, env.worker.ID, SubmitTaskInput{ProofURL: "https://p"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.tasks.Review(ctx, task.ID, env.admin.ID, ReviewTaskInput{Approved: true}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	entries, err := env.ledger.ListFor(ctx, env.worker.ID, nil)
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != models.LedgerTypeTaskReward {
		t.Fatalf("want a single reward entry, got %+v", entries)
	}
}
