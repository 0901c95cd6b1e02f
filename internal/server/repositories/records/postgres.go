// Package records provides the PostgreSQL-backed repository for
// production records.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexskv/prodviz/internal/common"
	"github.com/alexskv/prodviz/internal/dbx"
	"github.com/alexskv/prodviz/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.Record) (*models.Record, error) {

	query :=
		`INSERT INTO records (id, product, date, quantity)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.Product, record.Date, record.Quantity)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	query :=
		`SELECT id, product, date, quantity FROM records
		 WHERE id = $1
		 `

	record := &models.Record{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&record.ID, &record.Product, &record.Date, &record.Quantity)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

// List returns every stored record in date order.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Record, error) {
	query :=
		`SELECT id, product, date, quantity FROM records
		 ORDER BY date
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		var item models.Record
		if err := rows.Scan(&item.ID, &item.Product, &item.Date, &item.Quantity); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces the mutable fields of the record with the given ID and
// returns the stored row. Returns common.ErrNotFound when no row matched.
func (r *PostgresRepository) Update(ctx context.Context, record *models.Record) (*models.Record, error) {
	query :=
		`UPDATE records SET product = $1, date = $2, quantity = $3
		 WHERE id = $4
		 RETURNING id, product, date, quantity
		 `

	updated := &models.Record{}
	err := r.db.QueryRowContext(ctx, query,
		record.Product, record.Date, record.Quantity, record.ID).
		Scan(&updated.ID, &updated.Product, &updated.Date, &updated.Quantity)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM records
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
