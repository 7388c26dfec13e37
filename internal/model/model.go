// Package model contains the domain entities of the back office.
package model

import "time"

// Role separates the customer storefront from the admin review surface.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Customer is a registered account. Admins are customers with RoleAdmin.
type Customer struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}

// OrderStatus describes the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus describes how much of the order total has been covered by
// approved payment verifications.
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "Pending"
	PaymentStatusWithBalance PaymentStatus = "With Balance"
	PaymentStatusFullyPaid   PaymentStatus = "Fully Paid"
)

// ValidPaymentStatus reports whether s is one of the known payment statuses.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusWithBalance, PaymentStatusFullyPaid:
		return true
	}
	return false
}

// DerivePaymentStatus computes the payment status from the approved total.
// Amounts are integer centavos, so "fully paid" means not a single centavo
// outstanding.
func DerivePaymentStatus(amountPaidCents, totalCents int64) PaymentStatus {
	if amountPaidCents <= 0 {
		return PaymentStatusPending
	}
	if amountPaidCents >= totalCents {
		return PaymentStatusFullyPaid
	}
	return PaymentStatusWithBalance
}

// DeliveryMode is how the customer receives the order.
type DeliveryMode string

const (
	DeliveryModePickup   DeliveryMode = "pickup"
	DeliveryModeDelivery DeliveryMode = "delivery"
)

// DeliveryInfo is the address snapshot taken at checkout. It is copied by
// value onto the order row so later edits to the saved address never change
// a placed order.
type DeliveryInfo struct {
	FullName     string
	Phone        string
	Email        string
	Province     string
	ProvinceCode string
	City         string
	CityCode     string
	Barangay     string
	BarangayCode string
	Street       string
	PostalCode   string
}

// Product is a catalog entry used to price order line items server-side.
type Product struct {
	ID         int64
	Name       string
	PriceCents int64
	VATRate    float64
	Active     bool
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID             int64
	OrderID        int64
	ProductID      int64
	Name           string
	UnitPriceCents int64
	Quantity       int
	VATRate        float64
}

// Order is the persisted order row. AmountPaidCents is always the sum of
// amount_reported over the order's APPROVED verifications, re-derived on
// every approve/reject.
type Order struct {
	ID              int64
	Code            string
	CustomerID      int64
	SubtotalCents   int64
	VATCents        int64
	TotalCents      int64
	AmountPaidCents int64
	DeliveryMode    DeliveryMode
	Delivery        DeliveryInfo
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	StatusNotes     string
	TermsAgreed     bool
	CreatedAt       time.Time
}

// RemainingCents is the outstanding balance, clamped at zero.
func (o *Order) RemainingCents() int64 {
	r := o.TotalCents - o.AmountPaidCents
	if r < 0 {
		return 0
	}
	return r
}

// PaymentTerms is the one-to-one payment decision for an order.
// AmountDueCents is recomputed from current order state on every decision,
// never carried stale after amount_paid changes.
type PaymentTerms struct {
	OrderID        int64
	Method         string
	DepositRate    int
	AmountDueCents int64
	DecidedAt      time.Time
}

// VerificationStatus is the admin decision state of a submitted proof.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// PaymentVerification is a customer-submitted claim of having paid, awaiting
// admin approval. Decisions are reversible: APPROVED and REJECTED can both be
// re-decided at any time.
type PaymentVerification struct {
	ID                  int64
	OrderID             int64
	Method              string
	AccountName         string
	AccountNumber       string
	ReferenceNumber     string
	AmountReportedCents int64
	ProofRef            string
	Status              VerificationStatus
	RejectReason        string
	CreatedAt           time.Time
	DecidedAt           *time.Time
}

// Address is a saved customer address. Province, city and barangay carry both
// the human name and the PSGC code.
type Address struct {
	ID           int64
	CustomerID   int64
	Nickname     string
	FullName     string
	Phone        string
	Email        string
	Province     string
	ProvinceCode string
	City         string
	CityCode     string
	Barangay     string
	BarangayCode string
	Street       string
	PostalCode   string
	IsDefault    bool
	CreatedAt    time.Time
}

// FeedbackStatus is the moderation state of customer feedback.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "PENDING"
	FeedbackReleased FeedbackStatus = "RELEASED"
	FeedbackRejected FeedbackStatus = "REJECTED"
)

// Feedback is a customer rating of an order. Released feedback forms the
// public testimonials feed.
type Feedback struct {
	ID         int64
	OrderID    int64
	CustomerID int64
	Rating     int
	Comment    string
	Status     FeedbackStatus
	CreatedAt  time.Time
}

// DashboardSummary aggregates the admin landing numbers.
type DashboardSummary struct {
	OrdersByStatus       map[OrderStatus]int64
	PendingVerifications int64
	ApprovedVolumeCents  int64
}
