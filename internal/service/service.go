// Package service implements the business logic of the back office.
package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/notify"
	"github.com/radstooling/backoffice-system/internal/psgc"
	"github.com/radstooling/backoffice-system/internal/repository"
)

// Repository describes the data access contract used by the service.
type Repository interface {
	Close() error

	CreateCustomer(ctx context.Context, email, fullName string, passwordHash []byte, role model.Role) (int64, error)
	GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*model.Customer, error)

	GetProduct(ctx context.Context, id int64) (*model.Product, error)

	CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) (int64, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes string) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (*model.Order, error)

	UpsertPaymentTerms(ctx context.Context, t *model.PaymentTerms) error
	GetPaymentTerms(ctx context.Context, orderID int64) (*model.PaymentTerms, error)
	CreateVerification(ctx context.Context, v *model.PaymentVerification) (int64, error)
	GetVerification(ctx context.Context, id int64) (*model.PaymentVerification, error)
	ListVerificationsByOrder(ctx context.Context, orderID int64) ([]model.PaymentVerification, error)
	ListVerificationsByStatus(ctx context.Context, status model.VerificationStatus) ([]model.PaymentVerification, error)
	ListVerificationsByReference(ctx context.Context, method, reference string) ([]model.PaymentVerification, error)
	SetVerificationStatus(ctx context.Context, id int64, status model.VerificationStatus, reason string) (*model.Order, error)

	CreateAddress(ctx context.Context, a *model.Address) (int64, error)
	ListAddresses(ctx context.Context, customerID int64) ([]model.Address, error)
	GetAddress(ctx context.Context, customerID, id int64) (*model.Address, error)
	UpdateAddress(ctx context.Context, a *model.Address) error
	DeleteAddress(ctx context.Context, customerID, id int64) error
	SetDefaultAddress(ctx context.Context, customerID, id int64) error

	CreateFeedback(ctx context.Context, f *model.Feedback) (int64, error)
	ListFeedbackByStatus(ctx context.Context, status model.FeedbackStatus) ([]model.Feedback, error)
	SetFeedbackStatus(ctx context.Context, id int64, status model.FeedbackStatus) error
	ListTestimonials(ctx context.Context, limit int) ([]repository.Testimonial, error)

	GetDashboardSummary(ctx context.Context) (*model.DashboardSummary, error)
}

// Service contains the business logic of the back office.
type Service struct {
	repo     Repository
	psgc     *psgc.Client
	mailer   *notify.Mailer
	logger   *zap.Logger
	channels []string
}

// NewService creates the service. psgcClient and mailer may be nil; the PSGC
// lookups and notification mail are then disabled.
func NewService(repo Repository, psgcClient *psgc.Client, mailer *notify.Mailer, logger *zap.Logger, channels []string) *Service {
	if len(channels) == 0 {
		channels = []string{"gcash", "bpi"}
	}
	return &Service{
		repo:     repo,
		psgc:     psgcClient,
		mailer:   mailer,
		logger:   logger,
		channels: channels,
	}
}

// Close releases the service resources.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

func (s *Service) knownChannel(method string) bool {
	for _, c := range s.channels {
		if c == method {
			return true
		}
	}
	return false
}

// RegisterCustomer creates a customer account.
func (s *Service) RegisterCustomer(ctx context.Context, email, password, fullName string) (int64, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return 0, &ValidationError{Field: "email", Message: "a valid email address is required"}
	}
	if len(password) < 8 {
		return 0, &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	return s.repo.CreateCustomer(ctx, email, strings.TrimSpace(fullName), hash, model.RoleCustomer)
}

// AuthenticateCustomer checks credentials and returns the account.
func (s *Service) AuthenticateCustomer(ctx context.Context, email, password string) (*model.Customer, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	c, err := s.repo.GetCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return c, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.repo.CreateCustomer(ctx, strings.ToLower(email), "Administrator", hash, model.RoleAdmin)
	if errors.Is(err, repository.ErrCustomerExists) {
		return nil
	}
	return err
}

// Provinces lists the deliverable provinces from the PSGC service.
func (s *Service) Provinces(ctx context.Context) ([]psgc.Place, error) {
	return s.psgc.Provinces(ctx)
}

// Cities lists the cities of a province from the PSGC service.
func (s *Service) Cities(ctx context.Context, provinceCode string) ([]psgc.Place, error) {
	return s.psgc.Cities(ctx, provinceCode)
}

// Barangays lists the barangays of a city from the PSGC service.
func (s *Service) Barangays(ctx context.Context, cityCode string) ([]psgc.Place, error) {
	return s.psgc.Barangays(ctx, cityCode)
}

// DashboardSummary returns the admin landing aggregates.
func (s *Service) DashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	return s.repo.GetDashboardSummary(ctx)
}
