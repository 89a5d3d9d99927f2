package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dayplanner/internal/logger"
	"dayplanner/internal/models/task"
	rep "dayplanner/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQueryThreshold = 100 * time.Millisecond

// TaskStorage хранит планы и их пункты в PostgreSQL
type TaskStorage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *TaskStorage {
	return &TaskStorage{pool: pool}
}

const taskColumns = `id, owner_id, title, date, review, created_at, updated_at`

const itemColumns = `id, task_id, priority, density, duration_time, content, output, is_required, order_value, status, created_at, updated_at`

func (s *TaskStorage) Create(ctx context.Context, t *task.Task) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Ошибка открытия транзакции", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO tasks (id, owner_id, title, date, review, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.OwnerID, t.Title, t.Date, t.Review, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		logger.Error("Repository: Ошибка вставки задачи", err, zap.String("task_id", t.ID.String()))
		return fmt.Errorf("вставка задачи: %w", err)
	}

	if err := insertItems(ctx, tx, t.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Ошибка коммита транзакции", err)
		return fmt.Errorf("коммит транзакции: %w", err)
	}

	warnIfSlow(start, "Create")
	return nil
}

// Replace целиком заменяет задачу и весь набор её пунктов одной транзакцией
func (s *TaskStorage) Replace(ctx context.Context, t *task.Task) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Ошибка открытия транзакции", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE tasks SET title = $2, date = $3, review = $4, updated_at = $5 WHERE id = $1`,
		t.ID, t.Title, t.Date, t.Review, t.UpdatedAt,
	)
	if err != nil {
		logger.Error("Repository: Ошибка обновления задачи", err, zap.String("task_id", t.ID.String()))
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rep.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM task_items WHERE task_id = $1`, t.ID); err != nil {
		logger.Error("Repository: Ошибка очистки пунктов", err, zap.String("task_id", t.ID.String()))
		return fmt.Errorf("очистка пунктов: %w", err)
	}

	if err := insertItems(ctx, tx, t.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Ошибка коммита транзакции", err)
		return fmt.Errorf("коммит транзакции: %w", err)
	}

	warnIfSlow(start, "Replace")
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rep.ErrNotFound
		}
		logger.Error("Repository: Ошибка чтения задачи", err, zap.String("task_id", id.String()))
		return nil, fmt.Errorf("чтение задачи: %w", err)
	}

	if err := s.loadItems(ctx, []*task.Task{&t}); err != nil {
		return nil, err
	}

	warnIfSlow(start, "GetByID")
	return &t, nil
}

// GetByItemID находит задачу, которой принадлежит указанный пункт
func (s *TaskStorage) GetByItemID(ctx context.Context, itemID uuid.UUID) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT t.id, t.owner_id, t.title, t.date, t.review, t.created_at, t.updated_at
		 FROM tasks t JOIN task_items i ON i.task_id = t.id
		 WHERE i.id = $1`, itemID)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rep.ErrNotFound
		}
		logger.Error("Repository: Ошибка поиска задачи по пункту", err, zap.String("item_id", itemID.String()))
		return nil, fmt.Errorf("поиск задачи по пункту: %w", err)
	}

	if err := s.loadItems(ctx, []*task.Task{&t}); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete удаляет задачу, пункты снимаются каскадом на стороне базы
func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Ошибка удаления задачи", err, zap.String("task_id", id.String()))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rep.ErrNotFound
	}
	return nil
}

func (s *TaskStorage) UpdateReview(ctx context.Context, taskID uuid.UUID, review *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET review = $2, updated_at = now() WHERE id = $1`,
		taskID, review,
	)
	if err != nil {
		logger.Error("Repository: Ошибка обновления отчёта", err, zap.String("task_id", taskID.String()))
		return fmt.Errorf("обновление отчёта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rep.ErrNotFound
	}
	return nil
}

// UpdateItemOutput записывает результат пункта и переводит его в Completed
func (s *TaskStorage) UpdateItemOutput(ctx context.Context, itemID uuid.UUID, output string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE task_items SET output = $2, status = $3, updated_at = now() WHERE id = $1`,
		itemID, output, task.StatusCompleted,
	)
	if err != nil {
		logger.Error("Repository: Ошибка записи результата пункта", err, zap.String("item_id", itemID.String()))
		return fmt.Errorf("запись результата пункта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rep.ErrNotFound
	}
	return nil
}

// List выбирает задачи по условиям поиска. Фильтры и сортировки по датам
// выполняются в SQL, сортировки по статистике — в памяти, после загрузки
// пунктов, потому что им нужны собранные агрегаты
func (s *TaskStorage) List(ctx context.Context, cond task.SearchCondition) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}

	if cond.OwnerID != nil {
		args = append(args, *cond.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if cond.YearMonth != nil {
		from, to, err := task.MonthRange(*cond.YearMonth)
		if err != nil {
			return nil, fmt.Errorf("разбор периода: %w", err)
		}
		args = append(args, from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
		args = append(args, to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if cond.Keyword != nil && *cond.Keyword != "" {
		args = append(args, "%"+escapeLike(*cond.Keyword)+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (title ILIKE $%d OR EXISTS (SELECT 1 FROM task_items i WHERE i.task_id = tasks.id AND i.content ILIKE $%d))", n, n)
	}

	switch cond.Sort {
	case task.SortOldest:
		query += " ORDER BY created_at ASC"
	case task.SortDateAsc:
		query += " ORDER BY date ASC, created_at DESC"
	case task.SortDateDesc:
		query += " ORDER BY date DESC, created_at DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Ошибка выборки задач", err)
		return nil, fmt.Errorf("выборка задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение строки задачи: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк: %w", err)
	}

	if err := s.loadItems(ctx, tasks); err != nil {
		return nil, err
	}

	switch cond.Sort {
	case task.SortHighestCompletion, task.SortLowestCompletion,
		task.SortMostQuantity, task.SortLeastQuantity:
		task.SortTasks(tasks, cond.Sort)
	}

	warnIfSlow(start, "List")
	return tasks, nil
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// loadItems дозагружает пункты для всех задач одним запросом
func (s *TaskStorage) loadItems(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(tasks))
	byID := make(map[uuid.UUID]*task.Task, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM task_items WHERE task_id = ANY($1) ORDER BY order_value ASC`,
		ids,
	)
	if err != nil {
		logger.Error("Repository: Ошибка выборки пунктов", err)
		return fmt.Errorf("выборка пунктов: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it task.TaskItem
		err := rows.Scan(
			&it.ID, &it.TaskID, &it.Priority, &it.Density, &it.DurationTime,
			&it.Content, &it.Output, &it.IsRequired, &it.Order, &it.Status,
			&it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("чтение строки пункта: %w", err)
		}
		if t, ok := byID[it.TaskID]; ok {
			t.Items = append(t.Items, it)
		}
	}
	return rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, items []task.TaskItem) error {
	for _, it := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO task_items (id, task_id, priority, density, duration_time, content, output, is_required, order_value, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			it.ID, it.TaskID, it.Priority, it.Density, it.DurationTime,
			it.Content, it.Output, it.IsRequired, it.Order, it.Status,
			it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			logger.Error("Repository: Ошибка вставки пункта", err, zap.String("item_id", it.ID.String()))
			return fmt.Errorf("вставка пункта: %w", err)
		}
	}
	return nil
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Date, &t.Review, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// escapeLike экранирует подстановочные символы ILIKE, чтобы ключевое
// слово искалось буквально, как в inmemory-хранилище
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func warnIfSlow(start time.Time, op string) {
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", op),
			zap.Duration("elapsed", elapsed),
		)
	}
}
