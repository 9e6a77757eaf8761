package testutil

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB connects to the MySQL test database, skipping the test when it
// is not reachable. ORDERCARD_TEST_DSN overrides the default DSN.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("ORDERCARD_TEST_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/ordercard_test?parseTime=true"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the registry table and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	if _, err := db.Exec("DELETE FROM Redemptions"); err != nil {
		t.Logf("failed to clean table Redemptions: %v", err)
	}

	db.Close()
}

// SetupTestTables creates the tables the registry needs.
func SetupTestTables(t *testing.T, db *sql.DB, schema ...string) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Logf("failed to create table: %v", err)
		}
	}
}
