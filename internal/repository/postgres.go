// Package repository contains the PostgreSQL data access layer.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/radstooling/backoffice-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrCustomerExists is returned when registering an email that is taken.
	ErrCustomerExists = errors.New("customer already exists")
	// ErrCustomerNotFound is returned when no customer matches the lookup.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrOrderNotFound is returned when no order matches the lookup.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderCodeTaken is returned when a generated order code collides.
	ErrOrderCodeTaken = errors.New("order code already taken")
	// ErrProductNotFound is returned for unknown or inactive products.
	ErrProductNotFound = errors.New("product not found")
	// ErrTermsNotFound is returned when an order has no payment decision yet.
	ErrTermsNotFound = errors.New("payment terms not found")
	// ErrVerificationNotFound is returned when no verification matches the id.
	ErrVerificationNotFound = errors.New("payment verification not found")
	// ErrPaymentIncomplete is returned when completing an order that still
	// carries a balance.
	ErrPaymentIncomplete = errors.New("order has an outstanding balance")
	// ErrAddressNotFound is returned when no address matches the lookup.
	ErrAddressNotFound = errors.New("address not found")
	// ErrFeedbackExists is returned when an order already has feedback.
	ErrFeedbackExists = errors.New("feedback already submitted for order")
	// ErrFeedbackNotFound is returned when no feedback matches the id.
	ErrFeedbackNotFound = errors.New("feedback not found")
)

// PostgresRepository provides access to the PostgreSQL store.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects the pool, waits for the database to accept
// connections and brings the schema up to date.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry re-runs fn on serialization failures, deadlocks and transient
// connection errors. Context errors end the loop immediately.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		var pgErr *pgconn.PgError
		retriable := false
		if errors.As(err, &pgErr) {
			retriable = pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
		}
		if !retriable {
			retriable = isConnectionError(err)
		}

		if retriable && i < len(delays) {
			time.Sleep(delays[i])
			continue
		}

		break
	}
	return err
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateCustomer inserts a new account.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, email, fullName string, passwordHash []byte, role model.Role) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (email, full_name, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		email, fullName, passwordHash, string(role),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrCustomerExists, email)
		}
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

// GetCustomerByEmail returns the account registered under email.
func (r *PostgresRepository) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, role, created_at FROM customers WHERE email = $1`,
		email,
	)
	return scanCustomer(row)
}

// GetCustomerByID returns the account with the given id.
func (r *PostgresRepository) GetCustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, role, created_at FROM customers WHERE id = $1`,
		id,
	)
	return scanCustomer(row)
}

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	var role string
	err := row.Scan(&c.ID, &c.Email, &c.FullName, &c.PasswordHash, &role, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.Role = model.Role(role)
	return &c, nil
}

// GetProduct returns an active catalog product.
func (r *PostgresRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price_cents, vat_rate, active FROM products WHERE id = $1 AND active`,
		id,
	).Scan(&p.ID, &p.Name, &p.PriceCents, &p.VATRate, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetDashboardSummary aggregates order counts, pending verification count and
// approved payment volume for the admin landing page.
func (r *PostgresRepository) GetDashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	s := &model.DashboardSummary{OrdersByStatus: make(map[model.OrderStatus]int64)}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		s.OrdersByStatus[model.OrderStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_verifications WHERE status = $1`,
		string(model.VerificationPending),
	).Scan(&s.PendingVerifications)
	if err != nil {
		return nil, fmt.Errorf("count pending verifications: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_reported_cents), 0) FROM payment_verifications WHERE status = $1`,
		string(model.VerificationApproved),
	).Scan(&s.ApprovedVolumeCents)
	if err != nil {
		return nil, fmt.Errorf("sum approved volume: %w", err)
	}

	return s, nil
}
