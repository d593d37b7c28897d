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

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
)

// DBPool is the subset of pgxpool.Pool the storage depends on. Narrowed to an
// interface so tests can substitute a mock pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type proofRepository struct {
	storage *Storage
}

type messageRepository struct {
	storage *Storage
}

type adminRepository struct {
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
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Proofs() repository.ProofRepository {
	return &proofRepository{storage: s}
}

func (s *Storage) Messages() repository.MessageRepository {
	return &messageRepository{storage: s}
}

func (s *Storage) Admins() repository.AdminRepository {
	return &adminRepository{storage: s}
}

// initSchema creates the minimal contract tables. The optional delivery
// columns on orders are deliberately absent here; EnsureDeliveryColumns adds
// them, mirroring deployments where that migration never ran.
func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT REFERENCES users(id),
            full_name TEXT NOT NULL,
            email TEXT NOT NULL,
            status TEXT NOT NULL,
            thread_id TEXT,
            webhook_url TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payment_proofs (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            image_url TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            user_id BIGINT,
            content TEXT NOT NULL,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            is_read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS admin_users (
            id SERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
            granted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            granted_by BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_order ON messages(order_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// EnsureDeliveryColumns idempotently adds the optional delivery columns to
// orders. Exposed through the fix-orders-schema endpoint. The columns are
// added inside one transaction so a partially migrated orders table never
// becomes visible to the capability probe.
func (s *Storage) EnsureDeliveryColumns(ctx context.Context) error {
	statements := []string{
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS account_id TEXT`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS account_password TEXT`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS account_file_url TEXT`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivery_date TIMESTAMPTZ`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS metadata TEXT`,
	}

	return s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure delivery columns: %w", err)
			}
		}
		return nil
	})
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

// Only the minimal contract columns appear in these queries; the optional
// delivery columns are reachable solely through the capability-gated methods
// below, so reads keep working on deployments that never ran the migration.
const orderColumns = `id, user_id, full_name, email, status, thread_id, webhook_url, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.FullName, &o.Email, &o.Status, &o.ThreadID, &o.WebhookURL, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, user_id, full_name, email, status) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, order.ID, order.UserID, order.FullName, order.Email, order.Status).Scan(&order.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *orderRepository) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, status)
}

func (r *orderRepository) list(ctx context.Context, query string, arg any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.FullName, &o.Email, &o.Status, &o.ThreadID, &o.WebhookURL, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetDiscordBinding(ctx context.Context, id, threadID, webhookURL string) error {
	const query = `UPDATE orders SET thread_id=$1, webhook_url=$2 WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, threadID, webhookURL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetCredentials(ctx context.Context, id string, creds model.Credentials, deliveredAt time.Time) error {
	const query = `UPDATE orders SET account_id=$1, account_password=$2, status=$3, delivery_date=$4 WHERE id=$5`
	tag, err := r.storage.pool.Exec(ctx, query, creds.AccountID, creds.Password, model.OrderStatusActive, deliveredAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) GetCredentials(ctx context.Context, id string) (*model.Credentials, error) {
	const query = `SELECT account_id, account_password FROM orders WHERE id=$1`
	var accountID, password *string
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&accountID, &password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if accountID == nil || *accountID == "" {
		return nil, nil
	}
	creds := &model.Credentials{AccountID: *accountID}
	if password != nil {
		creds.Password = *password
	}
	return creds, nil
}

func (r *orderRepository) GetMetadata(ctx context.Context, id string) (*string, error) {
	const query = `SELECT metadata FROM orders WHERE id=$1`
	var metadata *string
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&metadata)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return metadata, nil
}

func (r *orderRepository) SetMetadata(ctx context.Context, id string, metadata string, status model.OrderStatus) error {
	const query = `UPDATE orders SET metadata=$1, status=$2 WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, metadata, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- ProofRepository implementation ---

func (r *proofRepository) Create(ctx context.Context, orderID, imageURL string) (*model.PaymentProof, error) {
	const query = `INSERT INTO payment_proofs (order_id, image_url, status) VALUES ($1, $2, $3) RETURNING id, created_at`
	proof := model.PaymentProof{OrderID: orderID, ImageURL: imageURL, Status: model.ProofStatusPending}
	err := r.storage.pool.QueryRow(ctx, query, orderID, imageURL, model.ProofStatusPending).Scan(&proof.ID, &proof.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &proof, nil
}

func (r *proofRepository) GetByID(ctx context.Context, id int64) (*model.PaymentProof, error) {
	const query = `SELECT id, order_id, image_url, status, created_at FROM payment_proofs WHERE id=$1`
	var p model.PaymentProof
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.OrderID, &p.ImageURL, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *proofRepository) ListByOrder(ctx context.Context, orderID string) ([]model.PaymentProof, error) {
	const query = `SELECT id, order_id, image_url, status, created_at FROM payment_proofs WHERE order_id=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentProof
	for rows.Next() {
		var p model.PaymentProof
		if err := rows.Scan(&p.ID, &p.OrderID, &p.ImageURL, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *proofRepository) UpdateStatus(ctx context.Context, id int64, status model.ProofStatus) error {
	const query = `UPDATE payment_proofs SET status=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- MessageRepository implementation ---

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	const query = `INSERT INTO messages (order_id, user_id, content, is_admin) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query, msg.OrderID, msg.UserID, msg.Content, msg.IsAdmin).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (r *messageRepository) ListByOrder(ctx context.Context, orderID string) ([]model.Message, error) {
	const query = `SELECT id, order_id, user_id, content, is_admin, is_read, created_at
                   FROM messages WHERE order_id=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.UserID, &m.Content, &m.IsAdmin, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, orderID string, fromAdmin bool) error {
	const query = `UPDATE messages SET is_read=TRUE WHERE order_id=$1 AND is_admin=$2 AND is_read=FALSE`
	_, err := r.storage.pool.Exec(ctx, query, orderID, fromAdmin)
	return err
}

// --- AdminRepository implementation ---

func (r *adminRepository) Grant(ctx context.Context, userID, grantedBy int64) (*model.AdminGrant, error) {
	const query = `INSERT INTO admin_users (user_id, granted_by) VALUES ($1, $2) RETURNING id, granted_at`
	grant := model.AdminGrant{UserID: userID, GrantedBy: grantedBy}
	err := r.storage.pool.QueryRow(ctx, query, userID, grantedBy).Scan(&grant.ID, &grant.GrantedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domainErrors.ErrAlreadyExists
			case "23503":
				return nil, domainErrors.ErrNotFound
			}
		}
		return nil, err
	}
	return &grant, nil
}

func (r *adminRepository) Revoke(ctx context.Context, userID int64) error {
	const query = `DELETE FROM admin_users WHERE user_id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *adminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM admin_users WHERE user_id=$1)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *adminRepository) List(ctx context.Context) ([]model.AdminGrant, error) {
	const query = `SELECT id, user_id, granted_at, granted_by FROM admin_users ORDER BY granted_at`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AdminGrant
	for rows.Next() {
		var g model.AdminGrant
		if err := rows.Scan(&g.ID, &g.UserID, &g.GrantedAt, &g.GrantedBy); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Pool exposes the underlying pool for advanced use (schema probing).
func (s *Storage) Pool() DBPool {
	return s.pool
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
