package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
)

const mysqlDuplicateEntry = 1062

// SchemaSQL creates the registry table. The unique code column is what keeps
// a code single-use across registry instances.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS Redemptions (
	id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	code VARCHAR(32) NOT NULL,
	name VARCHAR(255) NOT NULL,
	company VARCHAR(255) NOT NULL,
	mobile VARCHAR(50) NOT NULL,
	redeemedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uq_code (code)
)`

type MySQLRedemptionRepository struct {
	db *sql.DB
}

func NewMySQLRedemptionRepository(db *sql.DB) *MySQLRedemptionRepository {
	return &MySQLRedemptionRepository{db: db}
}

func (r *MySQLRedemptionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("creating Redemptions table: %w", err)
	}
	return nil
}

func (r *MySQLRedemptionRepository) FindByCode(ctx context.Context, code string) (*domain.Redemption, error) {
	query := `
		SELECT id, code, name, company, mobile, redeemedAt
		FROM Redemptions
		WHERE code = ?
	`

	var red domain.Redemption
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&red.ID, &red.Code, &red.Name, &red.Company, &red.Mobile, &red.RedeemedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("redemption for code %s not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("querying redemption by code: %w", err)
	}

	return &red, nil
}

// Insert appends a redemption row. A code that is already present is
// reported as a ConflictError.
func (r *MySQLRedemptionRepository) Insert(ctx context.Context, red domain.Redemption) (uint, error) {
	query := `INSERT INTO Redemptions (code, name, company, mobile, redeemedAt) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, red.Code, red.Name, red.Company, red.Mobile, red.RedeemedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return 0, apperrors.NewConflictError(fmt.Sprintf("code %s already redeemed", red.Code))
		}
		return 0, fmt.Errorf("inserting redemption: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(id), nil
}

func (r *MySQLRedemptionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Redemptions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting redemptions: %w", err)
	}
	return n, nil
}
