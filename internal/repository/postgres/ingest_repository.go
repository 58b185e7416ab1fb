package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/refurbops/opsdash/internal/domain"
)

type ingestRepository struct {
	db *DB
}

func NewIngestRepository(db *DB) *ingestRepository {
	return &ingestRepository{db: db}
}

// keyBatchSize bounds both the key pre-check predicates and insert batches.
const keyBatchSize = 500

type rowKey struct {
	date string
	sku  string
}

// countExistingKeys counts how many (date, sku) keys already exist in a
// table, batched to keep the predicate list bounded.
func (r *ingestRepository) countExistingKeys(ctx context.Context, table, dateCol string, keys []rowKey) (int, error) {
	existing := 0
	for i := 0; i < len(keys); i += keyBatchSize {
		batch := keys[i:min(i+keyBatchSize, len(keys))]

		conds := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*2)
		arg := 1
		for _, k := range batch {
			conds = append(conds, fmt.Sprintf("(%s = $%d::date AND sku = $%d)", dateCol, arg, arg+1))
			args = append(args, k.date, k.sku)
			arg += 2
		}

		var count int
		query := `SELECT COUNT(*) FROM ` + table + ` WHERE ` + strings.Join(conds, " OR ")
		if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
			return 0, fmt.Errorf("failed to check existing %s keys: %w", table, err)
		}
		existing += count
	}
	return existing, nil
}

func (r *ingestRepository) UpsertDailySales(ctx context.Context, rows []domain.DailySale) (domain.UpsertResult, error) {
	if len(rows) == 0 {
		return domain.UpsertResult{}, nil
	}

	seen := make(map[rowKey]struct{}, len(rows))
	keys := make([]rowKey, 0, len(rows))
	for _, row := range rows {
		k := rowKey{date: row.ShipDate, sku: row.SKU}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	existing, err := r.countExistingKeys(ctx, "daily_sales", "ship_date", keys)
	if err != nil {
		return domain.UpsertResult{}, err
	}

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO daily_sales (
				ship_date, sku, product_name, orders, qty_sold,
				subtotal, total_sales, available_qty
			) VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (ship_date, sku) DO UPDATE SET
				product_name = EXCLUDED.product_name,
				orders = EXCLUDED.orders,
				qty_sold = EXCLUDED.qty_sold,
				subtotal = EXCLUDED.subtotal,
				total_sales = EXCLUDED.total_sales,
				available_qty = EXCLUDED.available_qty
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare daily sales upsert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			_, err := stmt.ExecContext(ctx,
				row.ShipDate, row.SKU, row.ProductName, row.Orders, row.QtySold,
				row.Subtotal, row.TotalSales, row.AvailableQty,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert daily sale %s/%s: %w", row.ShipDate, row.SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.UpsertResult{}, err
	}

	return domain.UpsertResult{Inserted: len(keys) - existing, Updated: existing}, nil
}

func (r *ingestRepository) UpsertOrderPnl(ctx context.Context, rows []domain.OrderPnl) (domain.UpsertResult, error) {
	if len(rows) == 0 {
		return domain.UpsertResult{}, nil
	}

	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.OrderID]; ok {
			continue
		}
		seen[row.OrderID] = struct{}{}
		ids = append(ids, row.OrderID)
	}

	existing := 0
	for i := 0; i < len(ids); i += keyBatchSize {
		batch := ids[i:min(i+keyBatchSize, len(ids))]

		query, args, err := sqlx.In(`SELECT COUNT(*) FROM order_pnl WHERE order_id IN (?)`, batch)
		if err != nil {
			return domain.UpsertResult{}, fmt.Errorf("failed to build order id check: %w", err)
		}
		query = r.db.Rebind(query)

		var count int
		if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
			return domain.UpsertResult{}, fmt.Errorf("failed to check existing order ids: %w", err)
		}
		existing += count
	}

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO order_pnl (
				order_id, order_date, ship_date, channel_raw, company, channel,
				qty, subtotal, grand_total, items_cost, shipping_cost, commission,
				transaction_fee, posting_fee, total_fees, accrual_profit,
				cash_profit, accrual_margin
			) VALUES (
				$1, $2::date, $3::date, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18
			)
			ON CONFLICT (order_id) DO UPDATE SET
				order_date = EXCLUDED.order_date,
				ship_date = EXCLUDED.ship_date,
				channel_raw = EXCLUDED.channel_raw,
				company = EXCLUDED.company,
				channel = EXCLUDED.channel,
				qty = EXCLUDED.qty,
				subtotal = EXCLUDED.subtotal,
				grand_total = EXCLUDED.grand_total,
				items_cost = EXCLUDED.items_cost,
				shipping_cost = EXCLUDED.shipping_cost,
				commission = EXCLUDED.commission,
				transaction_fee = EXCLUDED.transaction_fee,
				posting_fee = EXCLUDED.posting_fee,
				total_fees = EXCLUDED.total_fees,
				accrual_profit = EXCLUDED.accrual_profit,
				cash_profit = EXCLUDED.cash_profit,
				accrual_margin = EXCLUDED.accrual_margin
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare order pnl upsert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			_, err := stmt.ExecContext(ctx,
				row.OrderID, row.OrderDate, row.ShipDate, row.ChannelRaw, row.Company, row.Channel,
				row.Qty, row.Subtotal, row.GrandTotal, row.ItemsCost, row.ShippingCost, row.Commission,
				row.TransactionFee, row.PostingFee, row.TotalFees, row.AccrualProfit,
				row.CashProfit, row.AccrualMargin,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert order %s: %w", row.OrderID, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.UpsertResult{}, err
	}

	return domain.UpsertResult{Inserted: len(ids) - existing, Updated: existing}, nil
}

func (r *ingestRepository) ReplaceInventory(ctx context.Context, rows []domain.InventoryItem) (domain.UpsertResult, error) {
	if len(rows) == 0 {
		return domain.UpsertResult{}, nil
	}

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_current`); err != nil {
			return fmt.Errorf("failed to clear inventory snapshot: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO inventory_current (
				sku, product_name, warehouse, physical, reserved, available,
				cost, value, list_price, site_price, last_received,
				prefix, category, grade, bucket, product_family, snapshot_date
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17::date
			)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare inventory insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			_, err := stmt.ExecContext(ctx,
				row.SKU, row.ProductName, row.Warehouse, row.Physical, row.Reserved, row.Available,
				row.Cost, row.Value, row.ListPrice, row.SitePrice, row.LastReceived,
				row.Prefix, row.Category, row.Grade, row.Bucket, row.ProductFamily, row.SnapshotDate,
			)
			if err != nil {
				return fmt.Errorf("failed to insert inventory for sku %s: %w", row.SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.UpsertResult{}, err
	}

	return domain.UpsertResult{Inserted: len(rows)}, nil
}

func (r *ingestRepository) UpsertChannelSales(ctx context.Context, rows []domain.ChannelSale) (domain.UpsertResult, error) {
	if len(rows) == 0 {
		return domain.UpsertResult{}, nil
	}

	seen := make(map[rowKey]struct{}, len(rows))
	keys := make([]rowKey, 0, len(rows))
	for _, row := range rows {
		k := rowKey{date: row.ReportDate, sku: row.SKU}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	existing, err := r.countExistingKeys(ctx, "channel_sales", "report_date", keys)
	if err != nil {
		return domain.UpsertResult{}, err
	}

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO channel_sales (
				report_date, sku, product_name, total_units, total_orders,
				total_sales, channel_data
			) VALUES ($1::date, $2, $3, $4, $5, $6, $7::jsonb)
			ON CONFLICT (report_date, sku) DO UPDATE SET
				product_name = EXCLUDED.product_name,
				total_units = EXCLUDED.total_units,
				total_orders = EXCLUDED.total_orders,
				total_sales = EXCLUDED.total_sales,
				channel_data = EXCLUDED.channel_data
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare channel sales upsert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			_, err := stmt.ExecContext(ctx,
				row.ReportDate, row.SKU, row.ProductName, row.TotalUnits, row.TotalOrders,
				row.TotalSales, row.ChannelData,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert channel sales %s/%s: %w", row.ReportDate, row.SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.UpsertResult{}, err
	}

	return domain.UpsertResult{Inserted: len(keys) - existing, Updated: existing}, nil
}

var clearableTables = map[string]bool{
	"daily_sales":       true,
	"order_pnl":         true,
	"inventory_current": true,
	"channel_sales":     true,
}

func (r *ingestRepository) ClearTable(ctx context.Context, table string) error {
	if !clearableTables[table] {
		return fmt.Errorf("table %q cannot be cleared", table)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", table, err)
	}
	return nil
}

func (r *ingestRepository) TableCounts(ctx context.Context) ([]domain.TableCount, error) {
	tables := []string{"daily_sales", "order_pnl", "inventory_current", "channel_sales"}

	counts := make([]domain.TableCount, 0, len(tables))
	for _, table := range tables {
		var count int
		if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM `+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, domain.TableCount{Table: table, Rows: count})
	}
	return counts, nil
}
