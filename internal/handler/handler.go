// Package handler contains the HTTP handlers of the back office API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/radstooling/backoffice-system/internal/middleware"
	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/psgc"
	"github.com/radstooling/backoffice-system/internal/repository"
	"github.com/radstooling/backoffice-system/internal/service"
)

// Service defines the business logic contract used by the HTTP handlers.
type Service interface {
	RegisterCustomer(ctx context.Context, email, password, fullName string) (int64, error)
	AuthenticateCustomer(ctx context.Context, email, password string) (*model.Customer, error)

	CreateOrder(ctx context.Context, customerID int64, in service.CreateOrderInput) (*model.Order, error)
	GetOrderDetails(ctx context.Context, orderID int64) (*service.OrderDetails, error)
	ListOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes string) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (*model.Order, error)

	DecidePayment(ctx context.Context, orderID int64, method string, depositRate int) (*model.PaymentTerms, error)
	SubmitProof(ctx context.Context, customerID int64, in service.SubmitProofInput) (*model.PaymentVerification, error)
	ApproveVerification(ctx context.Context, verificationID int64) (*model.Order, error)
	RejectVerification(ctx context.Context, verificationID int64, reason string) (*model.Order, error)
	ListVerifications(ctx context.Context, status model.VerificationStatus) ([]model.PaymentVerification, error)
	ListVerificationsByOrder(ctx context.Context, orderID int64) ([]model.PaymentVerification, error)
	FindVerificationsByReference(ctx context.Context, method, reference string) ([]model.PaymentVerification, error)

	CreateAddress(ctx context.Context, customerID int64, in service.AddressInput) (*model.Address, error)
	UpdateAddress(ctx context.Context, customerID, addressID int64, in service.AddressInput) (*model.Address, error)
	ListAddresses(ctx context.Context, customerID int64) ([]model.Address, error)
	DeleteAddress(ctx context.Context, customerID, addressID int64) error
	SetDefaultAddress(ctx context.Context, customerID, addressID int64) error

	CreateFeedback(ctx context.Context, customerID, orderID int64, rating int, comment string) (int64, error)
	ModerateFeedback(ctx context.Context, feedbackID int64, status model.FeedbackStatus) error
	ListFeedback(ctx context.Context, status model.FeedbackStatus) ([]model.Feedback, error)
	Testimonials(ctx context.Context, limit int) ([]repository.Testimonial, error)

	Provinces(ctx context.Context) ([]psgc.Place, error)
	Cities(ctx context.Context, provinceCode string) ([]psgc.Place, error)
	Barangays(ctx context.Context, cityCode string) ([]psgc.Place, error)

	DashboardSummary(ctx context.Context) (*model.DashboardSummary, error)
}

// Handler implements the HTTP handlers of the back office API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	validate       *validator.Validate
	uploadDir      string
}

// NewHandler creates a new HTTP handler.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, uploadDir string) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		uploadDir:      uploadDir,
	}
}

// envelope is the uniform JSON response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response", zap.Error(err))
	}
}

func (h *Handler) ok(w http.ResponseWriter, data any) {
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (h *Handler) created(w http.ResponseWriter, data any) {
	h.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeServiceError maps service and repository errors onto HTTP statuses.
// Unexpected errors are logged and answered with an opaque 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	var amountErr *service.AmountMismatchError

	switch {
	case errors.As(err, &vErr):
		h.fail(w, http.StatusBadRequest, vErr.Message)
	case errors.As(err, &amountErr):
		h.fail(w, http.StatusBadRequest, amountErr.Error())
	case errors.Is(err, service.ErrInvalidDepositRate):
		h.fail(w, http.StatusBadRequest, "deposit rate must be 30, 50 or 100")
	case errors.Is(err, service.ErrUnknownPaymentMethod):
		h.fail(w, http.StatusBadRequest, "unknown payment method")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.fail(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, repository.ErrCustomerExists):
		h.fail(w, http.StatusConflict, "an account with this email already exists")
	case errors.Is(err, repository.ErrFeedbackExists):
		h.fail(w, http.StatusConflict, "feedback for this order already exists")
	case errors.Is(err, repository.ErrPaymentIncomplete):
		h.fail(w, http.StatusConflict, "order cannot be completed with an outstanding balance")
	case errors.Is(err, repository.ErrTermsNotFound):
		h.fail(w, http.StatusConflict, "payment has not been decided for this order")
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrVerificationNotFound),
		errors.Is(err, repository.ErrAddressNotFound),
		errors.Is(err, repository.ErrFeedbackNotFound):
		h.fail(w, http.StatusNotFound, "not found")
	default:
		h.logger.Error("internal error", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.fail(w, http.StatusBadRequest, "missing or invalid fields")
		return false
	}
	return true
}

func customerIDFrom(r *http.Request) (int64, bool) {
	return middleware.GetUserIDFromContext(r.Context())
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a customer account and signs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.service.RegisterCustomer(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, id, model.RoleCustomer); err != nil {
		h.logger.Error("set auth cookie", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.created(w, map[string]any{"customer_id": id})
}

// Login authenticates a customer and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.AuthenticateCustomer(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, c.ID, c.Role); err != nil {
		h.logger.Error("set auth cookie", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.ok(w, map[string]any{
		"customer_id": c.ID,
		"full_name":   c.FullName,
		"role":        c.Role,
	})
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	h.ok(w, nil)
}

func pesos(cents int64) float64 {
	return float64(cents) / 100
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
