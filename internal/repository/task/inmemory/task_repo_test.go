package inmemory_test

import (
	"context"
	"testing"
	"time"

	"dayplanner/internal/models/task"
	rep "dayplanner/internal/repository"
	"dayplanner/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedTask(t *testing.T, ownerID uuid.UUID, title string, date time.Time, orders ...int) *task.Task {
	t.Helper()
	taskID := uuid.New()
	items := make([]task.TaskItem, 0, len(orders))
	for _, order := range orders {
		item, err := task.NewTaskItem(uuid.New(), taskID, task.PriorityMedium, task.DensityMedium, task.Duration30, "пункт "+title, nil, false, order, task.StatusNotStarted)
		require.NoError(t, err)
		items = append(items, item)
	}
	plan, err := task.NewTask(taskID, ownerID, title, date, nil, items)
	require.NoError(t, err)
	return &plan
}

func TestTaskStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	plan := storedTask(t, uuid.New(), "план", time.Now(), 1, 0)
	require.NoError(t, storage.Create(ctx, plan))

	got, err := storage.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)

	// элементы возвращаются по возрастанию порядка
	require.Len(t, got.Items, 2)
	assert.Equal(t, 0, got.Items[0].Order)
	assert.Equal(t, 1, got.Items[1].Order)

	_, err = storage.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, rep.ErrNotFound)
}

func TestTaskStorage_GetByItemID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	plan := storedTask(t, uuid.New(), "план", time.Now(), 0)
	require.NoError(t, storage.Create(ctx, plan))

	got, err := storage.GetByItemID(ctx, plan.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)

	_, err = storage.GetByItemID(ctx, uuid.New())
	assert.ErrorIs(t, err, rep.ErrNotFound)
}

func TestTaskStorage_Replace(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	plan := storedTask(t, uuid.New(), "план", time.Now(), 0)
	require.NoError(t, storage.Create(ctx, plan))

	renamed, err := plan.WithTitle("другое название")
	require.NoError(t, err)
	require.NoError(t, storage.Replace(ctx, &renamed))

	got, err := storage.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "другое название", got.Title)

	ghost := storedTask(t, uuid.New(), "призрак", time.Now(), 0)
	assert.ErrorIs(t, storage.Replace(ctx, ghost), rep.ErrNotFound)
}

func TestTaskStorage_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	plan := storedTask(t, uuid.New(), "план", time.Now(), 0, 1)
	require.NoError(t, storage.Create(ctx, plan))
	require.NoError(t, storage.Delete(ctx, plan.ID))

	_, err := storage.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, rep.ErrNotFound)

	// вместе с задачей исчезают и её элементы
	_, err = storage.GetByItemID(ctx, plan.Items[0].ID)
	assert.ErrorIs(t, err, rep.ErrNotFound)

	assert.ErrorIs(t, storage.Delete(ctx, plan.ID), rep.ErrNotFound)
}

func TestTaskStorage_UpdateReview(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	plan := storedTask(t, uuid.New(), "план", time.Now(), 0)
	require.NoError(t, storage.Create(ctx, plan))

	review := "итоги дня"
	require.NoError(t, storage.UpdateReview(ctx, plan.ID, &review))

	got, err := storage.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Review)
	assert.Equal(t, review, *got.Review)

	// nil снимает отчёт
	require.NoError(t, storage.UpdateReview(ctx, plan.ID, nil))
	got, err = storage.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Review)
}

func TestTaskStorage_UpdateItemOutput(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	plan := storedTask(t, uuid.New(), "план", time.Now(), 0)
	require.NoError(t, storage.Create(ctx, plan))

	itemID := plan.Items[0].ID
	require.NoError(t, storage.UpdateItemOutput(ctx, itemID, "сделано"))

	got, err := storage.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Items[0].Output)
	assert.Equal(t, "сделано", *got.Items[0].Output)
	assert.Equal(t, task.StatusCompleted, got.Items[0].Status)

	assert.ErrorIs(t, storage.UpdateItemOutput(ctx, uuid.New(), "сделано"), rep.ErrNotFound)
}

func TestTaskStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	owner := uuid.New()
	other := uuid.New()
	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	first := storedTask(t, owner, "покупки", march, 0)
	second := storedTask(t, owner, "работа", april, 0)
	foreign := storedTask(t, other, "чужой план", march, 0)

	for _, plan := range []*task.Task{first, second, foreign} {
		require.NoError(t, storage.Create(ctx, plan))
	}

	t.Run("filter by owner", func(t *testing.T) {
		got, err := storage.List(ctx, task.SearchCondition{OwnerID: &owner})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filter by month", func(t *testing.T) {
		yearMonth := "2026-03"
		got, err := storage.List(ctx, task.SearchCondition{OwnerID: &owner, YearMonth: &yearMonth})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "покупки", got[0].Title)
	})

	t.Run("filter by keyword", func(t *testing.T) {
		keyword := "РАБОТА"
		got, err := storage.List(ctx, task.SearchCondition{OwnerID: &owner, Keyword: &keyword})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "работа", got[0].Title)
	})

	t.Run("keyword matches item content", func(t *testing.T) {
		keyword := "пункт покупки"
		got, err := storage.List(ctx, task.SearchCondition{Keyword: &keyword})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "покупки", got[0].Title)
	})

	t.Run("sorted by date", func(t *testing.T) {
		got, err := storage.List(ctx, task.SearchCondition{OwnerID: &owner, Sort: task.SortDateAsc})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "покупки", got[0].Title)
		assert.Equal(t, "работа", got[1].Title)
	})

	t.Run("result is a copy", func(t *testing.T) {
		got, err := storage.List(ctx, task.SearchCondition{OwnerID: &owner})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		got[0].Title = "испорчено"

		fresh, err := storage.GetByID(ctx, got[0].ID)
		require.NoError(t, err)
		assert.NotEqual(t, "испорчено", fresh.Title)
	})
}
