package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

func countTasks(t *testing.T, env *testEnv) int64 {
	t.Helper()
	var count int64
	if err := env.db.Model(&models.Task{}).Count(&count).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	return count
}

func TestBulkCreate(t *testing.T) {
	env := newTestEnv(t)

	tasks, err := env.bulk.BulkCreate(context.Background(), 5, env.createInput(), env.admin.ID)
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("want 5 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Status != models.TaskStatusNew {
			t.Fatalf("every bulk-created task must be NEW, got %s", task.Status)
		}
		if task.AssignedUserID != nil {
			t.Fatal("bulk-created tasks must not have an assignee")
		}
	}
}

func TestBulkCreateIgnoresTemplateAssignee(t *testing.T) {
	env := newTestEnv(t)

	template := env.createInput()
	template.AssignedUserID = &env.worker.ID
	tasks, err := env.bulk.BulkCreate(context.Background(), 2, template, env.admin.ID)
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	for _, task := range tasks {
		if task.Status != models.TaskStatusNew || task.AssignedUserID != nil {
			t.Fatalf("template assignee must be dropped, got %+v", task)
		}
	}
}

func TestBulkCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.bulk.BulkCreate(ctx, 0, env.createInput(), env.admin.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("count 0: want ErrValidation, got %v", err)
	}
	if _, err := env.bulk.BulkCreate(ctx, 101, env.createInput(), env.admin.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("count 101: want ErrValidation, got %v", err)
	}

	bad := env.createInput()
	bad.TimeToCompleteMin = 0
	if _, err := env.bulk.BulkCreate(ctx, 3, bad, env.admin.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad template: want ErrValidation, got %v", err)
	}

	bad = env.createInput()
	bad.CategoryID = "missing"
	if _, err := env.bulk.BulkCreate(ctx, 3, bad, env.admin.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing category: want ErrNotFound, got %v", err)
	}

	if n := countTasks(t, env); n != 0 {
		t.Fatalf("failed bulk creates must write nothing, got %d tasks", n)
	}
}

func TestBulkAssign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.bulk.BulkCreate(ctx, 3, env.createInput(), env.admin.ID)
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	ids := []string{created[0].ID, created[1].ID, created[2].ID}

	assigned, err := env.bulk.BulkAssign(ctx, ids, []string{env.worker.ID})
	if err != nil {
		t.Fatalf("bulk assign: %v", err)
	}
	if len(assigned) != 3 {
		t.Fatalf("want 3 assigned tasks, got %d", len(assigned))
	}
	for _, task := range assigned {
		if task.Status != models.TaskStatusPending {
			t.Fatalf("want PENDING, got %s", task.Status)
		}
		if task.AssignedUserID == nil || *task.AssignedUserID != env.worker.ID {
			t.Fatalf("assignee not stored: %+v", task)
		}
	}

	notifs, err := env.notifs.ListForUser(ctx, env.worker.ID, false)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 3 {
		t.Fatalf("want one notification per assignment, got %d", len(notifs))
	}
}

func TestBulkAssignLastWorkerWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	second := seedUser(t, env.db, models.UserRoleWorker, "second@example.com")

	created, err := env.bulk.BulkCreate(ctx, 1, env.createInput(), env.admin.ID)
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}

	assigned, err := env.bulk.BulkAssign(ctx, []string{created[0].ID}, []string{env.worker.ID, second.ID})
	if err != nil {
		t.Fatalf("bulk assign: %v", err)
	}
	if assigned[0].AssignedUserID == nil || *assigned[0].AssignedUserID != second.ID {
		t.Fatalf("the last worker in the list must end up as assignee, got %v", assigned[0].AssignedUserID)
	}
}

func TestBulkAssignPrevalidatesWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.bulk.BulkCreate(ctx, 2, env.createInput(), env.admin.ID)
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	ineligible := env.startedTask(t) // IN_ACTION

	_, err = env.bulk.BulkAssign(ctx, []string{created[0].ID, ineligible.ID, created[1].ID}, []string{env.worker.ID})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}

	// Nothing in the batch may have been assigned.
	for _, id := range []string{created[0].ID, created[1].ID} {
		task, err := env.tasks.Get(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if task.Status != models.TaskStatusNew || task.AssignedUserID != nil {
			t.Fatalf("failed bulk assign must write nothing, got %+v", task)
		}
	}

	_, err = env.bulk.BulkAssign(ctx, []string{created[0].ID}, []string{env.admin.ID})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("admin in worker list: want ErrValidation, got %v", err)
	}

	_, err = env.bulk.BulkAssign(ctx, nil, []string{env.worker.ID})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("empty task list: want ErrValidation, got %v", err)
	}
}
