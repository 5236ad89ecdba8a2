package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/example/batchstock/internal/core/allocation"
	"github.com/example/batchstock/internal/core/domain"
)

const mysqlErrDuplicateEntry = 1062

type MySQLInventoryAdapter struct {
	db *sql.DB
}

func NewMySQLInventoryAdapter(db *sql.DB) *MySQLInventoryAdapter {
	return &MySQLInventoryAdapter{db: db}
}

// EnsureSchema creates the inventory tables when they do not exist yet.
func (m *MySQLInventoryAdapter) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			product_id VARCHAR(64) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS batches (
			batch_id    VARCHAR(64) PRIMARY KEY,
			product_id  VARCHAR(64) NOT NULL,
			quantity    BIGINT NOT NULL,
			expiry_date DATE NOT NULL,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL,
			CONSTRAINT fk_batches_product FOREIGN KEY (product_id) REFERENCES products (product_id),
			INDEX idx_batches_product_expiry (product_id, expiry_date)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure inventory schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLInventoryAdapter) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products (product_id, name, created_at)
		VALUES (?, ?, ?)`,
		p.ProductID, p.Name, p.CreatedAt,
	)
	if isDuplicateEntry(err) {
		return nil, fmt.Errorf("%w: product %s", domain.ErrAlreadyExists, p.ProductID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &p, nil
}

func (m *MySQLInventoryAdapter) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT product_id, name, created_at
		FROM products WHERE product_id = ?`, productID,
	).Scan(&p.ProductID, &p.Name, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (m *MySQLInventoryAdapter) GetBatch(ctx context.Context, batchID string) (*domain.Batch, error) {
	var b domain.Batch
	err := m.db.QueryRowContext(ctx, `
		SELECT batch_id, product_id, quantity, expiry_date, created_at, updated_at
		FROM batches WHERE batch_id = ?`, batchID,
	).Scan(&b.BatchID, &b.ProductID, &b.Quantity, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	return &b, nil
}

func (m *MySQLInventoryAdapter) CreateBatch(ctx context.Context, b domain.Batch) (*domain.Batch, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO batches (batch_id, product_id, quantity, expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		b.BatchID, b.ProductID, b.Quantity, b.ExpiryDate,
	)
	if isDuplicateEntry(err) {
		return nil, fmt.Errorf("%w: batch %s", domain.ErrAlreadyExists, b.BatchID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return m.mustGetBatch(ctx, b.BatchID)
}

func (m *MySQLInventoryAdapter) ListBatchesByProduct(ctx context.Context, productID string) ([]domain.Batch, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT batch_id, product_id, quantity, expiry_date, created_at, updated_at
		FROM batches WHERE product_id = ?
		ORDER BY expiry_date ASC, created_at ASC, batch_id ASC`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.Batch
	for rows.Next() {
		var b domain.Batch
		if err := rows.Scan(&b.BatchID, &b.ProductID, &b.Quantity, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// DeductBatch decrements one batch with a conditional update so that two
// concurrent deductions can never both consume the same stock.
func (m *MySQLInventoryAdapter) DeductBatch(ctx context.Context, batchID string, quantity int64) (*domain.Batch, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE batches
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE batch_id = ? AND quantity >= ?`,
		quantity, batchID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("deduct batch: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		batch, err := m.GetBatch(ctx, batchID)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return nil, fmt.Errorf("%w: batch %s", domain.ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("%w: batch %s holds %d, requested %d",
			domain.ErrInsufficientInventory, batchID, batch.Quantity, quantity)
	}

	return m.mustGetBatch(ctx, batchID)
}

// ApplyAllocation applies a full plan in one transaction. Every line uses
// the same conditional update as DeductBatch; a line that no longer fits
// (concurrent deduction) rolls the whole plan back.
func (m *MySQLInventoryAdapter) ApplyAllocation(ctx context.Context, lines []allocation.Line) ([]domain.Batch, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	affected := make([]domain.Batch, 0, len(lines))
	for _, line := range lines {
		result, err := tx.ExecContext(ctx, `
			UPDATE batches
			SET quantity = quantity - ?, updated_at = NOW()
			WHERE batch_id = ? AND quantity >= ?`,
			line.Quantity, line.BatchID, line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("apply allocation line: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return nil, fmt.Errorf("%w: batch %s was consumed concurrently",
				domain.ErrInsufficientInventory, line.BatchID)
		}

		var b domain.Batch
		err = tx.QueryRowContext(ctx, `
			SELECT batch_id, product_id, quantity, expiry_date, created_at, updated_at
			FROM batches WHERE batch_id = ?`, line.BatchID,
		).Scan(&b.BatchID, &b.ProductID, &b.Quantity, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("read back batch: %w", err)
		}
		affected = append(affected, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit allocation: %w", err)
	}
	return affected, nil
}

func (m *MySQLInventoryAdapter) mustGetBatch(ctx context.Context, batchID string) (*domain.Batch, error) {
	batch, err := m.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: batch %s", domain.ErrNotFound, batchID)
	}
	return batch, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}
