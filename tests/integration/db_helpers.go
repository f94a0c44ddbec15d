package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/pkg/auth"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("bazaar"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	// Migrations ship embedded in the database package
	if err := database.Migrate(connStr); err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &database.DB{
		Pool: pool,
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         dbWrapper,
	}, nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"login_attempts",
		"account_locks",
		"sessions",
		"favorites",
		"order_items",
		"orders",
		"reviews",
		"product_comments",
		"product_models",
		"product_images",
		"products",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// SeedUser inserts a test user with hashed password
func SeedUser(ctx context.Context, pool *pgxpool.Pool, username, email, password string) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, 'Test', 'User')
		RETURNING id, username, email, password_hash, first_name, last_name, is_active, created_at, updated_at
	`

	var user models.User
	err = pool.QueryRow(ctx, query, username, email, hashedPassword).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

// SeedProduct inserts an active product for a seller
func SeedProduct(ctx context.Context, pool *pgxpool.Pool, sellerID int64, title string, price float64) (int64, error) {
	query := `
		INSERT INTO products (seller_id, title, description, price, condition_type)
		VALUES ($1, $2, 'seeded for testing', $3, 'good')
		RETURNING id
	`

	var id int64
	if err := pool.QueryRow(ctx, query, sellerID, title, price).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	return id, nil
}

// SeedLock inserts an account lock row directly, with whatever locked_until
// the test needs
func SeedLock(ctx context.Context, pool *pgxpool.Pool, identifier, ipAddress string, lockedUntil time.Time) error {
	query := `
		INSERT INTO account_locks (identifier, ip_address, locked_until, reason)
		VALUES ($1, $2, $3, 'too many failed login attempts')
	`

	if _, err := pool.Exec(ctx, query, identifier, ipAddress, lockedUntil); err != nil {
		return fmt.Errorf("failed to insert lock: %w", err)
	}

	return nil
}

// SeedSession inserts an active session row directly, with whatever
// expires_at and last_activity the test needs
func SeedSession(ctx context.Context, pool *pgxpool.Pool, userID int64, token string, expiresAt, lastActivity time.Time) error {
	query := `
		INSERT INTO sessions (session_token, user_id, ip_address, user_agent, expires_at, last_activity, is_active)
		VALUES ($1, $2, '', '', $3, $4, TRUE)
	`

	if _, err := pool.Exec(ctx, query, token, userID, expiresAt, lastActivity); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// SeedComment inserts a comment row directly, bypassing the service layer.
// parentID nil makes a root comment.
func SeedComment(ctx context.Context, pool *pgxpool.Pool, productID, userID int64, parentID *int64, text string) (int64, error) {
	query := `
		INSERT INTO product_comments (product_id, user_id, parent_comment_id, comment_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	if err := pool.QueryRow(ctx, query, productID, userID, parentID, text).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert comment: %w", err)
	}

	return id, nil
}
