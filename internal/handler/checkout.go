package handler

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/qr"
	"github.com/radstooling/backoffice-system/internal/service"
)

const maxProofSize = 10 << 20

type createOrderRequest struct {
	Items []struct {
		ProductID int64 `json:"product_id" validate:"required"`
		Quantity  int   `json:"quantity" validate:"required"`
	} `json:"items" validate:"required,min=1"`
	DeliveryMode string       `json:"delivery_mode" validate:"required"`
	Delivery     deliveryView `json:"delivery"`
	TermsAgreed  bool         `json:"terms_agreed"`
}

// CreateOrder places a new order for the signed-in customer.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	in := service.CreateOrderInput{
		DeliveryMode: model.DeliveryMode(req.DeliveryMode),
		Delivery: model.DeliveryInfo{
			FullName:     req.Delivery.FullName,
			Phone:        req.Delivery.Phone,
			Email:        req.Delivery.Email,
			Province:     req.Delivery.Province,
			ProvinceCode: req.Delivery.ProvinceCode,
			City:         req.Delivery.City,
			CityCode:     req.Delivery.CityCode,
			Barangay:     req.Delivery.Barangay,
			BarangayCode: req.Delivery.BarangayCode,
			Street:       req.Delivery.Street,
			PostalCode:   req.Delivery.PostalCode,
		},
		TermsAgreed: req.TermsAgreed,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.LineItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.service.CreateOrder(r.Context(), customerID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.created(w, newOrderView(order))
}

// MyOrders lists the signed-in customer's orders.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.service.ListOrdersByCustomer(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newOrderViews(orders))
}

// MyOrder returns one of the signed-in customer's orders with items and
// payment terms.
func (h *Handler) MyOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, ok := h.pathID(w, r, "orderID")
	if !ok {
		return
	}

	details, err := h.service.GetOrderDetails(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if details.Order.CustomerID != customerID {
		h.fail(w, http.StatusNotFound, "not found")
		return
	}
	h.ok(w, newOrderDetailsView(details))
}

type decidePaymentRequest struct {
	Method      string `json:"method" validate:"required"`
	DepositRate int    `json:"deposit_rate" validate:"required"`
}

// DecidePayment records the payment method and deposit rate for an order and
// returns the amount due together with a QR payment code.
func (h *Handler) DecidePayment(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, ok := h.pathID(w, r, "orderID")
	if !ok {
		return
	}
	if !h.ownsOrder(w, r, customerID, orderID) {
		return
	}

	var req decidePaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	terms, err := h.service.DecidePayment(r.Context(), orderID, req.Method, req.DepositRate)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	details, err := h.service.GetOrderDetails(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	code, err := qr.PaymentCode(details.Order.Code, terms.AmountDueCents)
	if err != nil {
		h.logger.Warn("payment qr", zap.String("order_code", details.Order.Code), zap.Error(err))
	}

	h.ok(w, map[string]any{
		"terms":   newTermsView(terms),
		"qr_code": code,
	})
}

// SubmitProof accepts a multipart payment proof: the claim fields plus the
// payment screenshot.
func (h *Handler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	orderID, err := strconv.ParseInt(r.FormValue("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		h.fail(w, http.StatusBadRequest, "invalid order id")
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("amount_paid"), 64)
	if err != nil || amount <= 0 {
		h.fail(w, http.StatusBadRequest, "invalid amount")
		return
	}

	proofRef, err := h.saveProof(r)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			h.fail(w, http.StatusBadRequest, vErr.Message)
			return
		}
		h.logger.Error("save proof", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	v, err := h.service.SubmitProof(r.Context(), customerID, service.SubmitProofInput{
		OrderID:             orderID,
		AccountName:         r.FormValue("account_name"),
		AccountNumber:       r.FormValue("account_number"),
		ReferenceNumber:     r.FormValue("reference_number"),
		AmountReportedCents: int64(math.Round(amount * 100)),
		ProofRef:            proofRef,
		TermsAccepted:       r.FormValue("terms_accepted") == "true",
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.created(w, newVerificationView(v))
}

// saveProof stores the uploaded screenshot under a generated name and returns
// the stored filename.
func (h *Handler) saveProof(r *http.Request) (string, error) {
	file, header, err := r.FormFile("screenshot")
	if err != nil {
		return "", &service.ValidationError{Field: "screenshot", Message: "payment screenshot is required"}
	}
	defer file.Close()

	if header.Size > maxProofSize {
		return "", &service.ValidationError{Field: "screenshot", Message: "screenshot must be 10 MB or smaller"}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", &service.ValidationError{Field: "screenshot", Message: "screenshot must be a JPG, PNG or WebP image"}
	}
	if !isImageUpload(file, header) {
		return "", &service.ValidationError{Field: "screenshot", Message: "screenshot must be an image file"}
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create proof file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write proof file: %w", err)
	}
	return name, nil
}

func isImageUpload(file multipart.File, header *multipart.FileHeader) bool {
	if ct := header.Header.Get("Content-Type"); strings.HasPrefix(ct, "image/") {
		return true
	}

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	detected := http.DetectContentType(buf[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return false
	}
	return strings.HasPrefix(detected, "image/")
}

type createFeedbackRequest struct {
	OrderID int64  `json:"order_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

// CreateFeedback records a customer's rating of their order.
func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createFeedbackRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.service.CreateFeedback(r.Context(), customerID, req.OrderID, req.Rating, req.Comment)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.created(w, map[string]any{"feedback_id": id})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.fail(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) ownsOrder(w http.ResponseWriter, r *http.Request, customerID, orderID int64) bool {
	details, err := h.service.GetOrderDetails(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return false
	}
	if details.Order.CustomerID != customerID {
		h.fail(w, http.StatusNotFound, "not found")
		return false
	}
	return true
}
