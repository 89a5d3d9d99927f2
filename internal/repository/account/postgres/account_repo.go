package postgres

import (
	"context"
	"errors"
	"fmt"

	"dayplanner/internal/logger"
	"dayplanner/internal/models/account"
	rep "dayplanner/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AccountStorage хранит учётные записи в PostgreSQL
type AccountStorage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *AccountStorage {
	return &AccountStorage{pool: pool}
}

const accountColumns = `id, email, first_name, last_name, is_active, provider, provider_account_id, thumbnail, last_login_at, created_at, updated_at`

func (s *AccountStorage) Create(ctx context.Context, a *account.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, email, first_name, last_name, is_active, provider, provider_account_id, thumbnail, last_login_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.Email.String(), a.FirstName, a.LastName, a.IsActive,
		a.Provider, a.ProviderAccountID, a.Thumbnail, a.LastLoginAt,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		logger.Error("Repository: Ошибка создания аккаунта", err, zap.String("account_id", a.ID.String()))
		return fmt.Errorf("создание аккаунта: %w", err)
	}
	return nil
}

// UpdateLogin обновляет профильные поля, заполняемые при каждом входе
func (s *AccountStorage) UpdateLogin(ctx context.Context, a *account.Account) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts
		 SET first_name = $2, last_name = $3, thumbnail = $4, last_login_at = $5, updated_at = $6
		 WHERE id = $1`,
		a.ID, a.FirstName, a.LastName, a.Thumbnail, a.LastLoginAt, a.UpdatedAt,
	)
	if err != nil {
		logger.Error("Repository: Ошибка обновления аккаунта", err, zap.String("account_id", a.ID.String()))
		return fmt.Errorf("обновление аккаунта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rep.ErrNotFound
	}
	return nil
}

func (s *AccountStorage) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rep.ErrNotFound
		}
		logger.Error("Repository: Ошибка чтения аккаунта", err, zap.String("account_id", id.String()))
		return nil, fmt.Errorf("чтение аккаунта: %w", err)
	}
	return &a, nil
}

func (s *AccountStorage) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rep.ErrNotFound
		}
		logger.Error("Repository: Ошибка поиска аккаунта по email", err)
		return nil, fmt.Errorf("поиск аккаунта по email: %w", err)
	}
	return &a, nil
}

// ListByIDs возвращает найденные аккаунты, пропуская неизвестные идентификаторы
func (s *AccountStorage) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*account.Account, error) {
	if len(ids) == 0 {
		return []*account.Account{}, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1)`, ids)
	if err != nil {
		logger.Error("Repository: Ошибка выборки аккаунтов", err)
		return nil, fmt.Errorf("выборка аккаунтов: %w", err)
	}
	defer rows.Close()

	accounts := []*account.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение строки аккаунта: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (account.Account, error) {
	var (
		a     account.Account
		email string
	)
	err := row.Scan(
		&a.ID, &email, &a.FirstName, &a.LastName, &a.IsActive,
		&a.Provider, &a.ProviderAccountID, &a.Thumbnail, &a.LastLoginAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return account.Account{}, err
	}

	parsed, err := account.NewEmail(email)
	if err != nil {
		return account.Account{}, fmt.Errorf("разбор email из базы: %w", err)
	}
	a.Email = parsed
	return a, nil
}
