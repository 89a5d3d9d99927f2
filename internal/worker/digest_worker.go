package worker

import (
	"context"
	"fmt"
	"time"

	"dayplanner/internal/logger"
	"dayplanner/internal/models/task"
	"dayplanner/internal/service"

	"go.uber.org/zap"
)

// DigestWorker периодически считает сводку выполнения планов за текущий
// месяц и пишет её в лог. Сводка агрегируется по владельцам
type DigestWorker struct {
	repo     service.TaskRepository
	interval time.Duration
}

func NewDigestWorker(repo service.TaskRepository, interval time.Duration) *DigestWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &DigestWorker{
		repo:     repo,
		interval: interval,
	}
}

func (w *DigestWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновый расчёт сводки", zap.Time("started_at", time.Now()))
			w.Run(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновый расчёт останавливается")
			return
		}
	}
}

type ownerDigest struct {
	taskCount        int
	plannedMinutes   int
	completedMinutes int
}

func (w *DigestWorker) Run(ctx context.Context) {
	start := time.Now()

	tasks, err := w.monthTasks(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return
	}

	digests := make(map[string]*ownerDigest)
	for _, t := range tasks {
		stats := task.ProjectStats(*t)

		owner := t.OwnerID.String()
		d, ok := digests[owner]
		if !ok {
			d = &ownerDigest{}
			digests[owner] = d
		}
		d.taskCount++
		d.plannedMinutes += stats.PlannedTaskDurationMinutes
		d.completedMinutes += stats.CompletedTaskDurationMinutes
	}

	for owner, d := range digests {
		rate := 0.0
		if d.plannedMinutes > 0 {
			rate = float64(d.completedMinutes) / float64(d.plannedMinutes) * 100
		}
		logger.Info("Worker: Сводка по владельцу",
			zap.String("owner_id", owner),
			zap.Int("tasks", d.taskCount),
			zap.Int("planned_minutes", d.plannedMinutes),
			zap.Int("completed_minutes", d.completedMinutes),
			zap.Float64("completion_rate", rate),
		)
	}

	logger.Info("Worker: Завершение расчёта сводки",
		zap.Duration("ms", time.Since(start)),
		zap.Int("tasks", len(tasks)),
		zap.Int("owners", len(digests)),
	)
}

func (w *DigestWorker) monthTasks(ctx context.Context) ([]*task.Task, error) {
	yearMonth := time.Now().Format("2006-01")

	tasks, err := w.repo.List(ctx, task.SearchCondition{YearMonth: &yearMonth})
	if err != nil {
		return nil, fmt.Errorf("получение задач за месяц: %w", err)
	}
	return tasks, nil
}
