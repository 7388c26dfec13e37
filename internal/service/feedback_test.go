package service

import (
	"context"
	"errors"
	"testing"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/repository"
)

func TestCreateFeedback_RatingBounds(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	order := placeOrder(ctx, svc, repo, 100000)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateFeedback(ctx, order.CustomerID, order.ID, rating, "")
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Field != "rating" {
			t.Errorf("rating %d: err = %v, want rating ValidationError", rating, err)
		}
	}
}

func TestCreateFeedback_OwnOrdersOnly(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	order := placeOrder(ctx, svc, repo, 100000)

	_, err := svc.CreateFeedback(ctx, order.CustomerID+100, order.ID, 5, "great molds")
	if !errors.Is(err, repository.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestCreateFeedback_OnePerOrder(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	order := placeOrder(ctx, svc, repo, 100000)

	if _, err := svc.CreateFeedback(ctx, order.CustomerID, order.ID, 5, "great molds"); err != nil {
		t.Fatalf("first feedback: %v", err)
	}
	_, err := svc.CreateFeedback(ctx, order.CustomerID, order.ID, 4, "second thoughts")
	if !errors.Is(err, repository.ErrFeedbackExists) {
		t.Fatalf("err = %v, want ErrFeedbackExists", err)
	}
}

func TestModerateFeedback(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	order := placeOrder(ctx, svc, repo, 100000)

	id, err := svc.CreateFeedback(ctx, order.CustomerID, order.ID, 5, "great molds")
	if err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}

	if err := svc.ModerateFeedback(ctx, id, model.FeedbackPending); err == nil {
		t.Fatalf("moderation back to PENDING must be refused")
	}

	if err := svc.ModerateFeedback(ctx, id, model.FeedbackReleased); err != nil {
		t.Fatalf("release: %v", err)
	}

	released, err := svc.ListFeedback(ctx, model.FeedbackReleased)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(released) != 1 || released[0].ID != id {
		t.Fatalf("released = %+v", released)
	}
}
