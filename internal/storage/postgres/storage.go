package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/quickedu/checkout/internal/domain/errors"
	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/domain/repository"
)

// dbPool is the subset of pgxpool.Pool the storage relies on. Tests substitute
// a pgxmock pool through it.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

type purchaseRepository struct {
	storage *Storage
}

type entitlementRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Purchases() repository.PurchaseRepository {
	return &purchaseRepository{storage: s}
}

func (s *Storage) Entitlements() repository.EntitlementRepository {
	return &entitlementRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS purchases (
            order_id TEXT PRIMARY KEY,
            gateway_order_id TEXT NOT NULL DEFAULT '',
            user_id TEXT NOT NULL,
            total_amount NUMERIC(12,2) NOT NULL,
            currency TEXT NOT NULL,
            status TEXT NOT NULL,
            from_cart BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS purchase_items (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES purchases(order_id),
            course_id TEXT NOT NULL,
            title TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS entitlements (
            user_id TEXT NOT NULL,
            course_id TEXT NOT NULL,
            granted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, course_id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_user ON purchases(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_pending ON purchases(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_items_order ON purchase_items(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- PurchaseRepository implementation ---

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	tx, err := r.storage.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertPurchase = `INSERT INTO purchases (order_id, gateway_order_id, user_id, total_amount, currency, status, from_cart)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, insertPurchase,
		purchase.OrderID,
		purchase.GatewayOrderID,
		purchase.UserID,
		purchase.TotalAmount,
		purchase.Currency,
		string(purchase.Status),
		purchase.FromCart,
	).Scan(&purchase.CreatedAt, &purchase.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}

	const insertItem = `INSERT INTO purchase_items (order_id, course_id, title, price) VALUES ($1, $2, $3, $4)`
	for _, item := range purchase.Items {
		if _, err := tx.Exec(ctx, insertItem, purchase.OrderID, item.CourseID, item.Title, item.Price); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *purchaseRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Purchase, error) {
	const query = `SELECT order_id, gateway_order_id, user_id, total_amount, currency, status, from_cart, created_at, updated_at
        FROM purchases WHERE order_id=$1`

	var p model.Purchase
	var status string
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(
		&p.OrderID, &p.GatewayOrderID, &p.UserID, &p.TotalAmount, &p.Currency, &status, &p.FromCart, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	p.Status = model.PurchaseStatus(status)

	if p.Items, err = r.itemsFor(ctx, p.OrderID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID string) ([]model.Purchase, error) {
	const query = `SELECT order_id, gateway_order_id, user_id, total_amount, currency, status, from_cart, created_at, updated_at
        FROM purchases WHERE user_id=$1 ORDER BY created_at DESC`

	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases, err := scanPurchases(rows)
	if err != nil {
		return nil, err
	}

	for i := range purchases {
		if purchases[i].Items, err = r.itemsFor(ctx, purchases[i].OrderID); err != nil {
			return nil, err
		}
	}
	return purchases, nil
}

func (r *purchaseRepository) Transition(ctx context.Context, orderID string, to model.PurchaseStatus) (bool, error) {
	const query = `UPDATE purchases SET status=$2, updated_at=NOW() WHERE order_id=$1 AND status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, string(to), string(model.PurchaseStatusPending))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *purchaseRepository) SelectStalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Purchase, error) {
	const query = `SELECT order_id, gateway_order_id, user_id, total_amount, currency, status, from_cart, created_at, updated_at
        FROM purchases WHERE status=$1 AND created_at < $2 ORDER BY created_at LIMIT $3`

	rows, err := r.storage.pool.Query(ctx, query, string(model.PurchaseStatusPending), cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPurchases(rows)
}

func (r *purchaseRepository) itemsFor(ctx context.Context, orderID string) ([]model.PurchaseItem, error) {
	const query = `SELECT course_id, title, price FROM purchase_items WHERE order_id=$1 ORDER BY id`

	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.PurchaseItem
	for rows.Next() {
		var item model.PurchaseItem
		if err := rows.Scan(&item.CourseID, &item.Title, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanPurchases(rows pgx.Rows) ([]model.Purchase, error) {
	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		var status string
		if err := rows.Scan(&p.OrderID, &p.GatewayOrderID, &p.UserID, &p.TotalAmount, &p.Currency, &status, &p.FromCart, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Status = model.PurchaseStatus(status)
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// --- EntitlementRepository implementation ---

func (r *entitlementRepository) Grant(ctx context.Context, userID string, courseIDs []string) error {
	const query = `INSERT INTO entitlements (user_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, courseID := range courseIDs {
		if _, err := r.storage.pool.Exec(ctx, query, userID, courseID); err != nil {
			return err
		}
	}
	return nil
}

func (r *entitlementRepository) List(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT course_id FROM entitlements WHERE user_id=$1 ORDER BY granted_at`

	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courseIDs []string
	for rows.Next() {
		var courseID string
		if err := rows.Scan(&courseID); err != nil {
			return nil, err
		}
		courseIDs = append(courseIDs, courseID)
	}
	return courseIDs, rows.Err()
}

func (r *entitlementRepository) Has(ctx context.Context, userID, courseID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM entitlements WHERE user_id=$1 AND course_id=$2)`

	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
