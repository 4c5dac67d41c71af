// Package repository реализует хранилище данных магазина на основе PostgreSQL:
// товары, пакеты подписок, заказы со строками и пользователи.
// Запросы выполняются либо напрямую через пул, либо внутри транзакции,
// которую сервисы открывают через InTx / InCustomerTx.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/webshop/internal/models"
)

const defaultTimeout = 5 * time.Second

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB      *sql.DB
	timeout time.Duration
}

// querier общий интерфейс *sql.DB и *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// New создаёт подключение к PostgreSQL и проверяет его.
// timeout ограничивает каждую операцию хранилища, 0 означает значение по умолчанию.
func New(storageConnectionString string, timeout time.Duration) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Storage{
		DB:      db,
		timeout: timeout,
	}, nil
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// InTx выполняет fn в транзакции. Методы Storage, вызванные с переданным
// в fn контекстом, работают внутри этой транзакции.
func (s *Storage) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.runTx(ctx, "storage.InTx", "", fn)
}

// InCustomerTx как InTx, но сначала берёт транзакционную advisory-блокировку
// по телефону покупателя. Оформление заказов одного покупателя выполняется строго
// последовательно, поэтому проверки повторной покупки и подписки не гоняются.
func (s *Storage) InCustomerTx(ctx context.Context, phone string, fn func(ctx context.Context) error) error {
	return s.runTx(ctx, "storage.InCustomerTx", phone, fn)
}

func (s *Storage) runTx(ctx context.Context, op, lockKey string, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fmt.Errorf("%s: nested transactions not supported", op)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if lockKey != "" {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return fmt.Errorf("%s: lock: %w", op, err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, translate(err))
	}
	return nil
}

// q возвращает транзакцию из контекста или пул.
func (s *Storage) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.DB
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// translate переводит ошибки драйвера в доменные.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", models.ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", models.ErrReferenceViolation, pgErr.ConstraintName)
		}
	}
	return err
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

func rowsAffected(res sql.Result, op string) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}
