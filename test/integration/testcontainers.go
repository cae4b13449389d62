package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	DatabaseURL string
	Server      *ServerInstance
	HTTPClient  *http.Client
}

// NewTestContext starts PostgreSQL in a container, applies the migrations
// and starts a registration server against it.
// Modes:
//   - Binary mode (default): set CADASTRO_BINARY to the path of the cadastroctl binary
//   - Inline mode: set CADASTRO_INLINE=1 to run the server in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	mode := ServerMode{
		Inline:     os.Getenv("CADASTRO_INLINE") == "1",
		BinaryPath: os.Getenv("CADASTRO_BINARY"),
	}
	if !mode.Inline && mode.BinaryPath == "" {
		return nil, fmt.Errorf("Either CADASTRO_BINARY or CADASTRO_INLINE=1 is required.\n\nBinary mode:\n  go build -o cadastroctl ./cmd/cadastroctl\n  INTEGRATION_TEST=1 CADASTRO_BINARY=$(pwd)/cadastroctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 CADASTRO_INLINE=1 go test -v ./test/integration/...")
	}
	if !mode.Inline {
		if _, err := os.Stat(mode.BinaryPath); err != nil {
			return nil, fmt.Errorf("CADASTRO_BINARY path does not exist: %s", mode.BinaryPath)
		}
		log.Printf("Using binary: %s", mode.BinaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("cadastro_test"),
		tcpostgres.WithUsername("canaa"),
		tcpostgres.WithPassword("canaa"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// GORM handle for test setup and assertions
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	srv, err := StartServer(mode, connStr)
	if err != nil {
		_ = rawDB.Close()
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	return &TestContext{
		DB:          db,
		RawDB:       rawDB,
		Container:   pgContainer,
		DatabaseURL: connStr,
		Server:      srv,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// ServerURL is the base URL of the server under test.
func (tc *TestContext) ServerURL() string {
	return tc.Server.ServerURL
}

// Reset empties the tables between scenarios.
func (tc *TestContext) Reset() error {
	return tc.DB.Exec(`TRUNCATE cadastros, messages RESTART IDENTITY`).Error
}

// waitForServer polls the health endpoint until it answers 200 or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Server != nil {
		tc.Server.Stop()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations applies the up migrations the same way "cadastroctl db
// migrate" does.
func runMigrations(dbURL, migrationsDir string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL+"&x-migrations-table=cadastro_schema_migrations")
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
