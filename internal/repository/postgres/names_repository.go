package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/refurbops/opsdash/internal/domain"
)

type namesRepository struct {
	db *DB
}

func NewNamesRepository(db *DB) *namesRepository {
	return &namesRepository{db: db}
}

func (r *namesRepository) DisplayNames(ctx context.Context) (map[string]string, error) {
	var rows []domain.ProductName
	if err := r.db.SelectContext(ctx, &rows, `SELECT sku, display_name, name_source FROM product_names`); err != nil {
		return nil, fmt.Errorf("failed to load display names: %w", err)
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.SKU] = row.DisplayName
	}
	return names, nil
}

func (r *namesRepository) DisplayName(ctx context.Context, sku string) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT display_name FROM product_names WHERE sku = $1`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load display name for sku %s: %w", sku, err)
	}
	return name, nil
}

func (r *namesRepository) Rebuild(ctx context.Context, rows []domain.ProductName) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_names`); err != nil {
			return fmt.Errorf("failed to clear product names: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO product_names (sku, display_name, name_source)
			VALUES ($1, $2, $3)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare name insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.SKU, row.DisplayName, row.NameSource); err != nil {
				return fmt.Errorf("failed to insert name for sku %s: %w", row.SKU, err)
			}
		}
		return nil
	})
}
