package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/radstooling/backoffice-system/internal/model"
)

const orderColumns = `id, code, customer_id, subtotal_cents, vat_cents, total_cents, amount_paid_cents,
	delivery_mode, delivery_full_name, delivery_phone, delivery_email,
	delivery_province, delivery_province_code, delivery_city, delivery_city_code,
	delivery_barangay, delivery_barangay_code, delivery_street, delivery_postal_code,
	status, payment_status, status_notes, terms_agreed, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var status, paymentStatus, mode string
	err := row.Scan(
		&o.ID, &o.Code, &o.CustomerID, &o.SubtotalCents, &o.VATCents, &o.TotalCents, &o.AmountPaidCents,
		&mode, &o.Delivery.FullName, &o.Delivery.Phone, &o.Delivery.Email,
		&o.Delivery.Province, &o.Delivery.ProvinceCode, &o.Delivery.City, &o.Delivery.CityCode,
		&o.Delivery.Barangay, &o.Delivery.BarangayCode, &o.Delivery.Street, &o.Delivery.PostalCode,
		&status, &paymentStatus, &o.StatusNotes, &o.TermsAgreed, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.DeliveryMode = model.DeliveryMode(mode)
	o.Status = model.OrderStatus(status)
	o.PaymentStatus = model.PaymentStatus(paymentStatus)
	return &o, nil
}

// CreateOrder inserts the order and its items in one transaction and returns
// the new order id. A collision on the generated code maps to
// ErrOrderCodeTaken so the caller can regenerate.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (code, customer_id, subtotal_cents, vat_cents, total_cents,
			delivery_mode, delivery_full_name, delivery_phone, delivery_email,
			delivery_province, delivery_province_code, delivery_city, delivery_city_code,
			delivery_barangay, delivery_barangay_code, delivery_street, delivery_postal_code,
			status, payment_status, terms_agreed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING id`,
		o.Code, o.CustomerID, o.SubtotalCents, o.VATCents, o.TotalCents,
		string(o.DeliveryMode), o.Delivery.FullName, o.Delivery.Phone, o.Delivery.Email,
		o.Delivery.Province, o.Delivery.ProvinceCode, o.Delivery.City, o.Delivery.CityCode,
		o.Delivery.Barangay, o.Delivery.BarangayCode, o.Delivery.Street, o.Delivery.PostalCode,
		string(model.OrderStatusPending), string(model.PaymentStatusPending), o.TermsAgreed,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrOrderCodeTaken, o.Code)
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, name, unit_price_cents, quantity, vat_rate)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, it.ProductID, it.Name, it.UnitPriceCents, it.Quantity, it.VATRate,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return id, nil
}

// GetOrder returns a single order by id.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// GetOrderItems returns the line items of an order.
func (r *PostgresRepository) GetOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, name, unit_price_cents, quantity, vat_rate
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.UnitPriceCents, &it.Quantity, &it.VATRate); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// ListOrders returns all orders, newest first. status filters when non-empty.
func (r *PostgresRepository) ListOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	return r.listOrders(ctx, query, args...)
}

// ListOrdersByCustomer returns a customer's orders, newest first.
func (r *PostgresRepository) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID,
	)
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus sets the order status after re-checking the completion
// gate under a row lock: Completed is refused while a single centavo remains
// outstanding, no matter what the caller already read.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes string) (*model.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var totalCents, paidCents int64
	err = tx.QueryRow(ctx,
		`SELECT total_cents, amount_paid_cents FROM orders WHERE id = $1 FOR UPDATE`,
		orderID,
	).Scan(&totalCents, &paidCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}

	if status == model.OrderStatusCompleted && totalCents-paidCents > 0 {
		return nil, ErrPaymentIncomplete
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $2, status_notes = $3 WHERE id = $1`,
		orderID, string(status), notes,
	)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return o, nil
}

// UpdatePaymentStatus sets the payment status directly. This is the manual
// admin override: amount_paid_cents is left untouched.
func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (*model.Order, error) {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2 WHERE id = $1`,
		orderID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, ErrOrderNotFound
	}

	return r.GetOrder(ctx, orderID)
}
