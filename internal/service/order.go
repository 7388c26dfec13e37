package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/repository"
	"github.com/radstooling/backoffice-system/internal/validation"
)

// LineItemInput is one requested order line.
type LineItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput is the checkout payload for a new order.
type CreateOrderInput struct {
	Items        []LineItemInput
	DeliveryMode model.DeliveryMode
	Delivery     model.DeliveryInfo
	TermsAgreed  bool
}

// OrderDetails bundles an order with its line items and, when decided, its
// payment terms.
type OrderDetails struct {
	Order *model.Order
	Items []model.OrderItem
	Terms *model.PaymentTerms
}

// CreateOrder validates the checkout payload, prices the lines from the
// catalog and persists the order with the delivery address snapshotted onto
// the row.
func (s *Service) CreateOrder(ctx context.Context, customerID int64, in CreateOrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	switch in.DeliveryMode {
	case model.DeliveryModePickup, model.DeliveryModeDelivery:
	default:
		return nil, &ValidationError{Field: "mode", Message: "delivery mode must be pickup or delivery"}
	}

	delivery := in.Delivery
	if in.DeliveryMode == model.DeliveryModeDelivery {
		if strings.TrimSpace(delivery.FullName) == "" {
			return nil, &ValidationError{Field: "full_name", Message: "recipient name is required for delivery"}
		}
		phone, ok := validation.NormalizePHPhone(delivery.Phone)
		if !ok {
			return nil, &ValidationError{Field: "phone", Message: "mobile number must be a PH number (+639XXXXXXXXX)"}
		}
		delivery.Phone = phone
		if delivery.Province == "" || delivery.City == "" || delivery.Barangay == "" {
			return nil, &ValidationError{Field: "address", Message: "province, city and barangay are required for delivery"}
		}
		if strings.TrimSpace(delivery.Street) == "" {
			return nil, &ValidationError{Field: "street", Message: "street address is required for delivery"}
		}
		if !validation.IsValidPostalCode(delivery.PostalCode) {
			return nil, &ValidationError{Field: "postal_code", Message: "postal code must be 4-5 digits"}
		}
	}

	var (
		items         []model.OrderItem
		subtotalCents int64
		vatCents      int64
	)
	for _, li := range in.Items {
		if li.Quantity <= 0 {
			return nil, &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
		}

		p, err := s.repo.GetProduct(ctx, li.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, &ValidationError{Field: "product_id", Message: fmt.Sprintf("unknown product %d", li.ProductID)}
			}
			return nil, err
		}

		lineSubtotal := p.PriceCents * int64(li.Quantity)
		lineVAT := int64(math.Round(float64(lineSubtotal) * p.VATRate))

		subtotalCents += lineSubtotal
		vatCents += lineVAT

		items = append(items, model.OrderItem{
			ProductID:      p.ID,
			Name:           p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       li.Quantity,
			VATRate:        p.VATRate,
		})
	}

	totalCents := subtotalCents + vatCents
	if totalCents <= 0 {
		return nil, &ValidationError{Field: "total", Message: "order total must be greater than zero"}
	}

	order := &model.Order{
		CustomerID:    customerID,
		SubtotalCents: subtotalCents,
		VATCents:      vatCents,
		TotalCents:    totalCents,
		DeliveryMode:  in.DeliveryMode,
		Delivery:      delivery,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		TermsAgreed:   in.TermsAgreed,
	}

	// Regenerate on the rare code collision instead of failing checkout.
	var id int64
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		order.Code = generateOrderCode()
		id, err = s.repo.CreateOrder(ctx, order, items)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrOrderCodeTaken) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	return s.repo.GetOrder(ctx, id)
}

const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func generateOrderCode() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return fmt.Sprintf("RT-%s-%s", time.Now().Format("20060102"), string(b))
}

// GetOrderDetails returns one order with its items and payment terms.
func (s *Service) GetOrderDetails(ctx context.Context, orderID int64) (*OrderDetails, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	terms, err := s.repo.GetPaymentTerms(ctx, orderID)
	if err != nil && !errors.Is(err, repository.ErrTermsNotFound) {
		return nil, err
	}

	return &OrderDetails{Order: order, Items: items, Terms: terms}, nil
}

// ListOrders returns all orders for the admin surface, optionally filtered
// by status.
func (s *Service) ListOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "unknown order status"}
	}
	return s.repo.ListOrders(ctx, status)
}

// ListOrdersByCustomer returns a customer's own orders.
func (s *Service) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

// UpdateOrderStatus applies an admin status change. Moving to Completed is
// refused while the order carries a balance; every other transition is
// allowed in any direction.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "unknown order status"}
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, status, notes)
}

// UpdatePaymentStatus applies the manual admin payment-status override. The
// derived amount_paid is left untouched; the next verification decision will
// recompute the status from the approved sum again.
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (*model.Order, error) {
	if !model.ValidPaymentStatus(status) {
		return nil, &ValidationError{Field: "payment_status", Message: "unknown payment status"}
	}
	return s.repo.UpdatePaymentStatus(ctx, orderID, status)
}
