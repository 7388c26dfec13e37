package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/radstooling/backoffice-system/internal/model"
)

// CreateFeedback inserts a pending feedback row. One feedback per order.
func (r *PostgresRepository) CreateFeedback(ctx context.Context, f *model.Feedback) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO feedback (order_id, customer_id, rating, comment, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		f.OrderID, f.CustomerID, f.Rating, f.Comment, string(model.FeedbackPending),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: order %d", ErrFeedbackExists, f.OrderID)
		}
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	return id, nil
}

// ListFeedbackByStatus returns feedback in a moderation state, newest first.
// An empty status returns everything.
func (r *PostgresRepository) ListFeedbackByStatus(ctx context.Context, status model.FeedbackStatus) ([]model.Feedback, error) {
	query := `SELECT id, order_id, customer_id, rating, comment, status, created_at FROM feedback`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select feedback: %w", err)
	}
	defer rows.Close()

	var res []model.Feedback
	for rows.Next() {
		var f model.Feedback
		var s string
		if err := rows.Scan(&f.ID, &f.OrderID, &f.CustomerID, &f.Rating, &f.Comment, &s, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.Status = model.FeedbackStatus(s)
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// SetFeedbackStatus moderates a feedback entry.
func (r *PostgresRepository) SetFeedbackStatus(ctx context.Context, id int64, status model.FeedbackStatus) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE feedback SET status = $2 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

// Testimonial is a released feedback entry joined with its author and order
// code for the public feed.
type Testimonial struct {
	Rating       int
	Comment      string
	CustomerName string
	OrderCode    string
	CreatedAt    time.Time
}

// ListTestimonials returns released feedback for public display.
func (r *PostgresRepository) ListTestimonials(ctx context.Context, limit int) ([]Testimonial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT f.rating, f.comment, c.full_name, o.code, f.created_at
		 FROM feedback f
		 JOIN customers c ON c.id = f.customer_id
		 JOIN orders o ON o.id = f.order_id
		 WHERE f.status = $1
		 ORDER BY f.created_at DESC
		 LIMIT $2`,
		string(model.FeedbackReleased), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select testimonials: %w", err)
	}
	defer rows.Close()

	var res []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.Rating, &t.Comment, &t.CustomerName, &t.OrderCode, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
