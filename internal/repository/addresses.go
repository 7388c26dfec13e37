package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/radstooling/backoffice-system/internal/model"
)

const addressColumns = `id, customer_id, nickname, full_name, phone, email,
	province, province_code, city, city_code, barangay, barangay_code,
	street, postal_code, is_default, created_at`

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	err := row.Scan(
		&a.ID, &a.CustomerID, &a.Nickname, &a.FullName, &a.Phone, &a.Email,
		&a.Province, &a.ProvinceCode, &a.City, &a.CityCode, &a.Barangay, &a.BarangayCode,
		&a.Street, &a.PostalCode, &a.IsDefault, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}
	return &a, nil
}

// CreateAddress inserts a customer address. The first address of a customer
// becomes the default; when IsDefault is requested, the previous default is
// unset in the same transaction.
func (r *PostgresRepository) CreateAddress(ctx context.Context, a *model.Address) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing int64
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM customer_addresses WHERE customer_id = $1`,
		a.CustomerID,
	).Scan(&existing)
	if err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}

	isDefault := a.IsDefault || existing == 0

	if isDefault {
		_, err = tx.Exec(ctx,
			`UPDATE customer_addresses SET is_default = false WHERE customer_id = $1`,
			a.CustomerID,
		)
		if err != nil {
			return 0, fmt.Errorf("unset defaults: %w", err)
		}
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO customer_addresses
			(customer_id, nickname, full_name, phone, email,
			 province, province_code, city, city_code, barangay, barangay_code,
			 street, postal_code, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		a.CustomerID, a.Nickname, a.FullName, a.Phone, a.Email,
		a.Province, a.ProvinceCode, a.City, a.CityCode, a.Barangay, a.BarangayCode,
		a.Street, a.PostalCode, isDefault,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return id, nil
}

// ListAddresses returns a customer's addresses, default first, then newest.
func (r *PostgresRepository) ListAddresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM customer_addresses
		 WHERE customer_id = $1
		 ORDER BY is_default DESC, created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	defer rows.Close()

	var res []model.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetAddress returns a single address owned by the customer.
func (r *PostgresRepository) GetAddress(ctx context.Context, customerID, id int64) (*model.Address, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM customer_addresses WHERE id = $1 AND customer_id = $2`,
		id, customerID,
	)
	return scanAddress(row)
}

// UpdateAddress rewrites an address owned by the customer. The default flag
// is handled by SetDefaultAddress, not here.
func (r *PostgresRepository) UpdateAddress(ctx context.Context, a *model.Address) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE customer_addresses
		 SET nickname = $3, full_name = $4, phone = $5, email = $6,
		     province = $7, province_code = $8, city = $9, city_code = $10,
		     barangay = $11, barangay_code = $12, street = $13, postal_code = $14
		 WHERE id = $1 AND customer_id = $2`,
		a.ID, a.CustomerID, a.Nickname, a.FullName, a.Phone, a.Email,
		a.Province, a.ProvinceCode, a.City, a.CityCode,
		a.Barangay, a.BarangayCode, a.Street, a.PostalCode,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// DeleteAddress removes an address. When the default is deleted, the most
// recently created remaining address is promoted so the customer keeps
// exactly one default while any address exists.
func (r *PostgresRepository) DeleteAddress(ctx context.Context, customerID, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var wasDefault bool
	err = tx.QueryRow(ctx,
		`SELECT is_default FROM customer_addresses WHERE id = $1 AND customer_id = $2`,
		id, customerID,
	).Scan(&wasDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("select address: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM customer_addresses WHERE id = $1 AND customer_id = $2`,
		id, customerID,
	)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	if wasDefault {
		_, err = tx.Exec(ctx,
			`UPDATE customer_addresses SET is_default = true
			 WHERE id = (
				SELECT id FROM customer_addresses
				WHERE customer_id = $1
				ORDER BY created_at DESC
				LIMIT 1
			 )`,
			customerID,
		)
		if err != nil {
			return fmt.Errorf("promote default: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// SetDefaultAddress marks one address as the default and unsets the rest.
func (r *PostgresRepository) SetDefaultAddress(ctx context.Context, customerID, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int
	err = tx.QueryRow(ctx,
		`SELECT 1 FROM customer_addresses WHERE id = $1 AND customer_id = $2`,
		id, customerID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("select address: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE customer_addresses SET is_default = false WHERE customer_id = $1`,
		customerID,
	)
	if err != nil {
		return fmt.Errorf("unset defaults: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE customer_addresses SET is_default = true WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set default: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
