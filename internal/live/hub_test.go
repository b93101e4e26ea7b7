package live

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "task-board.com/task-board/internal/models"
	"task-board.com/task-board/internal/notify"
	repository "task-board.com/task-board/internal/repositories"
	"task-board.com/task-board/internal/services"
)

func setupHub(t *testing.T) (*Hub, *services.TaskService, context.CancelFunc) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.Task{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	repo := repository.NewTaskRepository(db)
	notifier := notify.NewMemoryNotifier()
	hub := NewHub(repo, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	hub.Start(ctx)
	// Give the listener a moment to register with the notifier.
	time.Sleep(50 * time.Millisecond)

	return hub, services.NewTaskService(repo, notifier), cancel
}

func waitForSnapshot(t *testing.T, ch <-chan []model.Task) []model.Task {
	t.Helper()
	select {
	case tasks, ok := <-ch:
		if !ok {
			t.Fatal("snapshot channel closed unexpectedly")
		}
		return tasks
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestHubDeliversFullSnapshots(t *testing.T) {
	hub, service, cancel := setupHub(t)
	defer cancel()

	ch, unsubscribe, err := hub.Subscribe(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer unsubscribe()

	initial := waitForSnapshot(t, ch)
	if len(initial) != 0 {
		t.Errorf("expected empty initial snapshot, got %d tasks", len(initial))
	}

	task, err := service.AddTask(context.Background(), "owner-1", "Watch me appear", "")
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	next := waitForSnapshot(t, ch)
	if len(next) != 1 || next[0].ID != task.ID {
		t.Errorf("expected snapshot with the new task, got %+v", next)
	}
}

func TestHubScopesSnapshotsByOwner(t *testing.T) {
	hub, service, cancel := setupHub(t)
	defer cancel()

	ch, unsubscribe, err := hub.Subscribe(context.Background(), "owner-2")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer unsubscribe()
	_ = waitForSnapshot(t, ch)

	if _, err := service.AddTask(context.Background(), "owner-1", "Someone else's", ""); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	// owner-2 has no tasks; even if a snapshot is pushed for the
	// other owner's write, nothing of owner-1 may leak into it.
	select {
	case tasks := <-ch:
		if len(tasks) != 0 {
			t.Errorf("foreign tasks leaked into snapshot: %+v", tasks)
		}
	case <-time.After(200 * time.Millisecond):
	}
}

func TestHubResubscribeYieldsFreshSnapshot(t *testing.T) {
	hub, service, cancel := setupHub(t)
	defer cancel()

	ch, unsubscribe, err := hub.Subscribe(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	_ = waitForSnapshot(t, ch)
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Error("expected channel closed after unsubscribe")
	}

	if _, err := service.AddTask(context.Background(), "owner-1", "Added while away", ""); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	ch2, unsubscribe2, err := hub.Subscribe(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("resubscribe failed: %v", err)
	}
	defer unsubscribe2()

	fresh := waitForSnapshot(t, ch2)
	if len(fresh) != 1 {
		t.Errorf("expected fresh snapshot with 1 task, got %d", len(fresh))
	}
}
