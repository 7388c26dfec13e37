package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/radstooling/backoffice-system/internal/model"
)

func TestCreateOrder_PricesFromCatalog(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	customerID, _ := repo.CreateCustomer(ctx, "buyer@example.com", "Buyer", []byte("x"), model.RoleCustomer)

	order, err := svc.CreateOrder(ctx, customerID, CreateOrderInput{
		Items: []LineItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		DeliveryMode: model.DeliveryModePickup,
		TermsAgreed:  true,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// 2 x 1000.00 + 250.00 = 2250.00, VAT 12% = 270.00.
	if order.SubtotalCents != 225000 {
		t.Fatalf("subtotal = %d, want 225000", order.SubtotalCents)
	}
	if order.VATCents != 27000 {
		t.Fatalf("vat = %d, want 27000", order.VATCents)
	}
	if order.TotalCents != 252000 {
		t.Fatalf("total = %d, want 252000", order.TotalCents)
	}
	if order.Status != model.OrderStatusPending || order.PaymentStatus != model.PaymentStatusPending {
		t.Fatalf("new order statuses = %q/%q", order.Status, order.PaymentStatus)
	}
	if !strings.HasPrefix(order.Code, "RT-") || len(order.Code) != len("RT-20060102-XXXXXX") {
		t.Fatalf("order code = %q", order.Code)
	}
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	customerID, _ := repo.CreateCustomer(ctx, "buyer@example.com", "Buyer", []byte("x"), model.RoleCustomer)

	_, err := svc.CreateOrder(ctx, customerID, CreateOrderInput{
		Items:        []LineItemInput{{ProductID: 999, Quantity: 1}},
		DeliveryMode: model.DeliveryModePickup,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "product_id" {
		t.Fatalf("err = %v, want product_id ValidationError", err)
	}
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	customerID, _ := repo.CreateCustomer(ctx, "buyer@example.com", "Buyer", []byte("x"), model.RoleCustomer)

	_, err := svc.CreateOrder(ctx, customerID, CreateOrderInput{
		Items:        []LineItemInput{{ProductID: 3, Quantity: 1}},
		DeliveryMode: model.DeliveryModePickup,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError for retired product", err)
	}
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	customerID, _ := repo.CreateCustomer(ctx, "buyer@example.com", "Buyer", []byte("x"), model.RoleCustomer)

	for _, qty := range []int{0, -1} {
		_, err := svc.CreateOrder(ctx, customerID, CreateOrderInput{
			Items:        []LineItemInput{{ProductID: 1, Quantity: qty}},
			DeliveryMode: model.DeliveryModePickup,
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Field != "quantity" {
			t.Errorf("qty %d: err = %v, want quantity ValidationError", qty, err)
		}
	}
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{DeliveryMode: model.DeliveryModePickup})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "items" {
		t.Fatalf("err = %v, want items ValidationError", err)
	}
}

func TestCreateOrder_DeliveryRequiresAddress(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	customerID, _ := repo.CreateCustomer(ctx, "buyer@example.com", "Buyer", []byte("x"), model.RoleCustomer)

	_, err := svc.CreateOrder(ctx, customerID, CreateOrderInput{
		Items:        []LineItemInput{{ProductID: 1, Quantity: 1}},
		DeliveryMode: model.DeliveryModeDelivery,
		Delivery: model.DeliveryInfo{
			FullName: "Juan Dela Cruz",
			Phone:    "09123456789",
		},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "address" {
		t.Fatalf("err = %v, want address ValidationError", err)
	}
}

func TestCreateOrder_DeliveryNormalizesPhone(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	customerID, _ := repo.CreateCustomer(ctx, "buyer@example.com", "Buyer", []byte("x"), model.RoleCustomer)

	order, err := svc.CreateOrder(ctx, customerID, CreateOrderInput{
		Items:        []LineItemInput{{ProductID: 1, Quantity: 1}},
		DeliveryMode: model.DeliveryModeDelivery,
		Delivery: model.DeliveryInfo{
			FullName:     "Juan Dela Cruz",
			Phone:        "0912 345 6789",
			Province:     "Laguna",
			ProvinceCode: "043400000",
			City:         "Calamba",
			CityCode:     "043405000",
			Barangay:     "Real",
			BarangayCode: "043405031",
			Street:       "123 National Hwy",
			PostalCode:   "4027",
		},
		TermsAgreed: true,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Delivery.Phone != "+639123456789" {
		t.Fatalf("phone = %q, want +639123456789", order.Delivery.Phone)
	}
}

func TestUpdateOrderStatus_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	order := placeOrder(ctx, svc, repo, 100000)

	_, err := svc.UpdateOrderStatus(ctx, order.ID, "Shipped", "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestUpdateOrderStatus_CancelAlwaysAllowed(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	order := placeOrder(ctx, svc, repo, 100000)

	updated, err := svc.UpdateOrderStatus(ctx, order.ID, model.OrderStatusCancelled, "customer request")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Status != model.OrderStatusCancelled {
		t.Fatalf("status = %q, want Cancelled", updated.Status)
	}

	// Cancellation is reversible.
	updated, err = svc.UpdateOrderStatus(ctx, order.ID, model.OrderStatusProcessing, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if updated.Status != model.OrderStatusProcessing {
		t.Fatalf("status = %q, want Processing", updated.Status)
	}
}

func TestGetOrderDetails_TermsOptional(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	order := placeOrder(ctx, svc, repo, 100000)

	details, err := svc.GetOrderDetails(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrderDetails: %v", err)
	}
	if details.Terms != nil {
		t.Fatalf("terms = %+v, want nil before a payment decision", details.Terms)
	}

	if _, err := svc.DecidePayment(ctx, order.ID, "gcash", 100); err != nil {
		t.Fatalf("DecidePayment: %v", err)
	}

	details, err = svc.GetOrderDetails(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrderDetails: %v", err)
	}
	if details.Terms == nil || details.Terms.AmountDueCents != 100000 {
		t.Fatalf("terms = %+v", details.Terms)
	}
}
