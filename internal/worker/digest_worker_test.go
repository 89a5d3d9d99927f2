package worker_test

import (
	"context"
	"testing"
	"time"

	"dayplanner/internal/models/task"
	"dayplanner/internal/repository/task/inmemory"
	"dayplanner/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDigestWorker_Run(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskID := uuid.New()
	item, err := task.NewTaskItem(uuid.New(), taskID, task.PriorityHigh, task.DensityMedium, task.Duration60, "пункт", nil, false, 0, task.StatusCompleted)
	require.NoError(t, err)
	plan, err := task.NewTask(taskID, uuid.New(), "план", time.Now(), nil, []task.TaskItem{item})
	require.NoError(t, err)
	require.NoError(t, storage.Create(ctx, &plan))

	// прогон не должен падать и не должен менять данные
	w := worker.NewDigestWorker(storage, time.Minute)
	w.Run(ctx)

	got, err := storage.GetByID(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
}

func TestDigestWorker_StartStopsOnCancel(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	w := worker.NewDigestWorker(storage, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("воркер не остановился после отмены контекста")
	}
}
