package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/repository"
	"github.com/radstooling/backoffice-system/internal/validation"
)

// DecidePayment records the customer's payment decision for an order. The
// first decision prices the deposit from the order total; any later decision
// charges the remaining balance regardless of the chosen rate.
func (s *Service) DecidePayment(ctx context.Context, orderID int64, method string, depositRate int) (*model.PaymentTerms, error) {
	switch depositRate {
	case 30, 50, 100:
	default:
		return nil, ErrInvalidDepositRate
	}

	method = strings.ToLower(strings.TrimSpace(method))
	if !s.knownChannel(method) {
		return nil, ErrUnknownPaymentMethod
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var dueCents int64
	_, err = s.repo.GetPaymentTerms(ctx, orderID)
	switch {
	case errors.Is(err, repository.ErrTermsNotFound):
		// Round half up on the deposit split so 30% of an odd total does
		// not lose a centavo.
		dueCents = (order.TotalCents*int64(depositRate) + 50) / 100
	case err != nil:
		return nil, err
	default:
		dueCents = order.RemainingCents()
	}

	terms := &model.PaymentTerms{
		OrderID:        orderID,
		Method:         method,
		DepositRate:    depositRate,
		AmountDueCents: dueCents,
	}
	if err := s.repo.UpsertPaymentTerms(ctx, terms); err != nil {
		return nil, err
	}

	return s.repo.GetPaymentTerms(ctx, orderID)
}

// SubmitProofInput is a customer's claim of having paid the amount due.
type SubmitProofInput struct {
	OrderID             int64
	AccountName         string
	AccountNumber       string
	ReferenceNumber     string
	AmountReportedCents int64
	ProofRef            string
	TermsAccepted       bool
}

// SubmitProof validates a submitted payment proof against the order's payment
// terms and queues it for admin review. The payment method is the one chosen
// at decision time, never taken from the submission.
func (s *Service) SubmitProof(ctx context.Context, customerID int64, in SubmitProofInput) (*model.PaymentVerification, error) {
	order, err := s.repo.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, repository.ErrOrderNotFound
	}

	terms, err := s.repo.GetPaymentTerms(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	if !in.TermsAccepted {
		return nil, &ValidationError{Field: "terms_accepted", Message: "you must accept the payment terms"}
	}
	if strings.TrimSpace(in.AccountName) == "" {
		return nil, &ValidationError{Field: "account_name", Message: "account name is required"}
	}

	account, ok := validation.CheckAccountNumber(terms.Method, in.AccountNumber)
	if !ok {
		switch terms.Method {
		case "gcash":
			return nil, &ValidationError{Field: "account_number", Message: "GCash number must be 11 digits (09XXXXXXXXX)"}
		case "bpi":
			return nil, &ValidationError{Field: "account_number", Message: "BPI account number must be 9-12 digits"}
		default:
			return nil, &ValidationError{Field: "account_number", Message: "account number must contain digits only"}
		}
	}

	if !validation.IsValidReferenceNumber(in.ReferenceNumber) {
		return nil, &ValidationError{Field: "reference_number", Message: "Reference number must be 6-20 alphanumeric characters"}
	}
	if in.ProofRef == "" {
		return nil, &ValidationError{Field: "screenshot", Message: "payment screenshot is required"}
	}

	if in.AmountReportedCents != terms.AmountDueCents {
		return nil, &AmountMismatchError{
			ExpectedCents: terms.AmountDueCents,
			ActualCents:   in.AmountReportedCents,
		}
	}

	v := &model.PaymentVerification{
		OrderID:             in.OrderID,
		Method:              terms.Method,
		AccountName:         strings.TrimSpace(in.AccountName),
		AccountNumber:       account,
		ReferenceNumber:     strings.TrimSpace(in.ReferenceNumber),
		AmountReportedCents: in.AmountReportedCents,
		ProofRef:            in.ProofRef,
	}

	id, err := s.repo.CreateVerification(ctx, v)
	if err != nil {
		return nil, err
	}
	return s.repo.GetVerification(ctx, id)
}

// ApproveVerification marks a verification APPROVED and returns the order with
// its re-derived paid amount and payment status. Approving an already approved
// verification is a no-op on the totals.
func (s *Service) ApproveVerification(ctx context.Context, verificationID int64) (*model.Order, error) {
	order, err := s.repo.SetVerificationStatus(ctx, verificationID, model.VerificationApproved, "")
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, verificationID, model.VerificationApproved, "")
	return order, nil
}

// RejectVerification marks a verification REJECTED with a reason and returns
// the order with its re-derived totals. A previously approved verification can
// be rejected; its amount is then subtracted from the paid sum.
func (s *Service) RejectVerification(ctx context.Context, verificationID int64, reason string) (*model.Order, error) {
	order, err := s.repo.SetVerificationStatus(ctx, verificationID, model.VerificationRejected, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, verificationID, model.VerificationRejected, reason)
	return order, nil
}

// notifyDecision mails the customer about the decision. Mail is best effort;
// failures are logged and never surfaced to the admin.
func (s *Service) notifyDecision(ctx context.Context, verificationID int64, status model.VerificationStatus, reason string) {
	if s.mailer == nil {
		return
	}

	v, err := s.repo.GetVerification(ctx, verificationID)
	if err != nil {
		s.logger.Warn("notify: load verification", zap.Int64("verification_id", verificationID), zap.Error(err))
		return
	}
	order, err := s.repo.GetOrder(ctx, v.OrderID)
	if err != nil {
		s.logger.Warn("notify: load order", zap.Int64("order_id", v.OrderID), zap.Error(err))
		return
	}
	customer, err := s.repo.GetCustomerByID(ctx, order.CustomerID)
	if err != nil {
		s.logger.Warn("notify: load customer", zap.Int64("customer_id", order.CustomerID), zap.Error(err))
		return
	}

	if err := s.mailer.VerificationDecided(customer.Email, order.Code, status, v.AmountReportedCents, reason); err != nil {
		s.logger.Warn("notify: send mail", zap.String("order_code", order.Code), zap.Error(err))
	}
}

// ListVerifications returns verifications in a given decision state, oldest
// first so the review queue is first in, first out.
func (s *Service) ListVerifications(ctx context.Context, status model.VerificationStatus) ([]model.PaymentVerification, error) {
	switch status {
	case model.VerificationPending, model.VerificationApproved, model.VerificationRejected:
	default:
		return nil, &ValidationError{Field: "status", Message: "unknown verification status"}
	}
	return s.repo.ListVerificationsByStatus(ctx, status)
}

// ListVerificationsByOrder returns an order's verifications, newest first.
func (s *Service) ListVerificationsByOrder(ctx context.Context, orderID int64) ([]model.PaymentVerification, error) {
	return s.repo.ListVerificationsByOrder(ctx, orderID)
}

// FindVerificationsByReference looks up submissions sharing a reference
// number. Duplicate references are stored, not refused; this is the admin's
// tool for spotting a reused receipt.
func (s *Service) FindVerificationsByReference(ctx context.Context, method, reference string) ([]model.PaymentVerification, error) {
	return s.repo.ListVerificationsByReference(ctx, strings.ToLower(strings.TrimSpace(method)), strings.TrimSpace(reference))
}
