package service

import (
	"context"
	"strings"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/repository"
)

// CreateFeedback records a customer's rating of their own order. One feedback
// per order; moderation starts at PENDING.
func (s *Service) CreateFeedback(ctx context.Context, customerID, orderID int64, rating int, comment string) (int64, error) {
	if rating < 1 || rating > 5 {
		return 0, &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if order.CustomerID != customerID {
		return 0, repository.ErrOrderNotFound
	}

	return s.repo.CreateFeedback(ctx, &model.Feedback{
		OrderID:    orderID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	})
}

// ModerateFeedback releases or rejects a pending feedback entry.
func (s *Service) ModerateFeedback(ctx context.Context, feedbackID int64, status model.FeedbackStatus) error {
	switch status {
	case model.FeedbackReleased, model.FeedbackRejected:
	default:
		return &ValidationError{Field: "status", Message: "feedback can only be released or rejected"}
	}
	return s.repo.SetFeedbackStatus(ctx, feedbackID, status)
}

// ListFeedback returns feedback in a moderation state for the admin queue.
func (s *Service) ListFeedback(ctx context.Context, status model.FeedbackStatus) ([]model.Feedback, error) {
	switch status {
	case model.FeedbackPending, model.FeedbackReleased, model.FeedbackRejected:
	default:
		return nil, &ValidationError{Field: "status", Message: "unknown feedback status"}
	}
	return s.repo.ListFeedbackByStatus(ctx, status)
}

// Testimonials returns released feedback for the public storefront feed.
func (s *Service) Testimonials(ctx context.Context, limit int) ([]repository.Testimonial, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListTestimonials(ctx, limit)
}
