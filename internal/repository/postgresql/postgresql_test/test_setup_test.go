package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

var (
	testDB     *database.DB
	testDBOnce sync.Once
)

// testDatabase connects to the test database and applies the schema.
// Tests are skipped when TEST_DATABASE_URL is not set.
func testDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		db, err := database.NewPostgreSQLDB(dsn, 10, 2)
		if err != nil {
			panic("failed to connect to test database: " + err.Error())
		}

		schema, err := os.ReadFile("../../../../migrations/0001_init.sql")
		if err != nil {
			panic("failed to read schema: " + err.Error())
		}
		if _, err := db.Exec(context.Background(), string(schema)); err != nil {
			panic("failed to apply schema: " + err.Error())
		}

		testDB = db
	})

	return testDB
}

func truncateTables(t *testing.T, ctx context.Context, db *database.DB, tables ...string) {
	t.Helper()

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			continue
		}
	}
}

func seedEmployee(t *testing.T, ctx context.Context, db *database.DB) (companyID, employeeID string) {
	t.Helper()

	err := db.QueryRow(ctx, `
		INSERT INTO employees (company_id, full_name)
		VALUES (gen_random_uuid(), 'Seed Employee')
		RETURNING company_id, id
	`).Scan(&companyID, &employeeID)
	if err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}
	return companyID, employeeID
}
