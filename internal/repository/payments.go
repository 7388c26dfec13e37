package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/radstooling/backoffice-system/internal/model"
)

// UpsertPaymentTerms stores the payment decision for an order. There is one
// terms row per order; a repeated decision overwrites it in place.
func (r *PostgresRepository) UpsertPaymentTerms(ctx context.Context, t *model.PaymentTerms) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO payment_terms (order_id, method, deposit_rate, amount_due_cents, decided_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (order_id) DO UPDATE
		 SET method = EXCLUDED.method,
		     deposit_rate = EXCLUDED.deposit_rate,
		     amount_due_cents = EXCLUDED.amount_due_cents,
		     decided_at = now()`,
		t.OrderID, t.Method, t.DepositRate, t.AmountDueCents,
	)
	if err != nil {
		return fmt.Errorf("upsert payment terms: %w", err)
	}
	return nil
}

// GetPaymentTerms returns the payment decision for an order.
func (r *PostgresRepository) GetPaymentTerms(ctx context.Context, orderID int64) (*model.PaymentTerms, error) {
	var t model.PaymentTerms
	err := r.pool.QueryRow(ctx,
		`SELECT order_id, method, deposit_rate, amount_due_cents, decided_at
		 FROM payment_terms WHERE order_id = $1`,
		orderID,
	).Scan(&t.OrderID, &t.Method, &t.DepositRate, &t.AmountDueCents, &t.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTermsNotFound
		}
		return nil, fmt.Errorf("get payment terms: %w", err)
	}
	return &t, nil
}

const verificationColumns = `id, order_id, method, account_name, account_number,
	reference_number, amount_reported_cents, proof_ref, status, reject_reason, created_at, decided_at`

func scanVerification(row pgx.Row) (*model.PaymentVerification, error) {
	var v model.PaymentVerification
	var status string
	err := row.Scan(
		&v.ID, &v.OrderID, &v.Method, &v.AccountName, &v.AccountNumber,
		&v.ReferenceNumber, &v.AmountReportedCents, &v.ProofRef, &status, &v.RejectReason,
		&v.CreatedAt, &v.DecidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("scan verification: %w", err)
	}
	v.Status = model.VerificationStatus(status)
	return &v, nil
}

// CreateVerification inserts a pending proof-of-payment row. The order itself
// is untouched until an admin decides.
func (r *PostgresRepository) CreateVerification(ctx context.Context, v *model.PaymentVerification) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payment_verifications
			(order_id, method, account_name, account_number, reference_number,
			 amount_reported_cents, proof_ref, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		v.OrderID, v.Method, v.AccountName, v.AccountNumber, v.ReferenceNumber,
		v.AmountReportedCents, v.ProofRef, string(model.VerificationPending),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert verification: %w", err)
	}
	return id, nil
}

// GetVerification returns a verification by id.
func (r *PostgresRepository) GetVerification(ctx context.Context, id int64) (*model.PaymentVerification, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+verificationColumns+` FROM payment_verifications WHERE id = $1`, id)
	return scanVerification(row)
}

// ListVerificationsByOrder returns an order's verifications, newest first.
func (r *PostgresRepository) ListVerificationsByOrder(ctx context.Context, orderID int64) ([]model.PaymentVerification, error) {
	return r.listVerifications(ctx,
		`SELECT `+verificationColumns+` FROM payment_verifications WHERE order_id = $1 ORDER BY created_at DESC`,
		orderID,
	)
}

// ListVerificationsByStatus returns verifications in a decision state,
// oldest first so the admin queue is FIFO.
func (r *PostgresRepository) ListVerificationsByStatus(ctx context.Context, status model.VerificationStatus) ([]model.PaymentVerification, error) {
	return r.listVerifications(ctx,
		`SELECT `+verificationColumns+` FROM payment_verifications WHERE status = $1 ORDER BY created_at`,
		string(status),
	)
}

// ListVerificationsByReference returns every verification submitted under the
// same method and reference number. Reference reuse across orders is not
// rejected at storage level, but this lets the review surface flag it.
func (r *PostgresRepository) ListVerificationsByReference(ctx context.Context, method, reference string) ([]model.PaymentVerification, error) {
	return r.listVerifications(ctx,
		`SELECT `+verificationColumns+` FROM payment_verifications
		 WHERE method = $1 AND reference_number = $2 ORDER BY created_at`,
		method, reference,
	)
}

func (r *PostgresRepository) listVerifications(ctx context.Context, query string, args ...any) ([]model.PaymentVerification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select verifications: %w", err)
	}
	defer rows.Close()

	var res []model.PaymentVerification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// SetVerificationStatus applies an admin decision and reconciles the order in
// the same transaction. The order row is locked first, then amount_paid is
// re-derived as the sum over all currently-APPROVED verifications. Summing
// instead of incrementing keeps repeated approve/reject toggles exact.
func (r *PostgresRepository) SetVerificationStatus(ctx context.Context, id int64, status model.VerificationStatus, reason string) (*model.Order, error) {
	var order *model.Order

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var orderID int64
		err = tx.QueryRow(ctx,
			`SELECT order_id FROM payment_verifications WHERE id = $1`,
			id,
		).Scan(&orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrVerificationNotFound
			}
			return fmt.Errorf("select verification: %w", err)
		}

		// Lock the order so concurrent admin decisions serialize on the
		// re-sum below.
		var totalCents int64
		err = tx.QueryRow(ctx,
			`SELECT total_cents FROM orders WHERE id = $1 FOR UPDATE`,
			orderID,
		).Scan(&totalCents)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE payment_verifications
			 SET status = $2, reject_reason = $3, decided_at = now()
			 WHERE id = $1`,
			id, string(status), reason,
		)
		if err != nil {
			return fmt.Errorf("update verification: %w", err)
		}

		var paidCents int64
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount_reported_cents), 0)
			 FROM payment_verifications
			 WHERE order_id = $1 AND status = $2`,
			orderID, string(model.VerificationApproved),
		).Scan(&paidCents)
		if err != nil {
			return fmt.Errorf("sum approved verifications: %w", err)
		}

		paymentStatus := model.DerivePaymentStatus(paidCents, totalCents)

		_, err = tx.Exec(ctx,
			`UPDATE orders SET amount_paid_cents = $2, payment_status = $3 WHERE id = $1`,
			orderID, paidCents, string(paymentStatus),
		)
		if err != nil {
			return fmt.Errorf("update order payment: %w", err)
		}

		order, err = scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
