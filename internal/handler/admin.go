package handler

import (
	"net/http"

	"github.com/radstooling/backoffice-system/internal/model"
)

// AdminListOrders lists orders for the review surface, optionally filtered by
// the status query parameter.
func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	status := model.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.service.ListOrders(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newOrderViews(orders))
}

// AdminGetOrder returns one order with items, terms and its verification
// history.
func (h *Handler) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.pathID(w, r, "orderID")
	if !ok {
		return
	}

	details, err := h.service.GetOrderDetails(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	verifications, err := h.service.ListVerificationsByOrder(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.ok(w, map[string]any{
		"order":         newOrderDetailsView(details),
		"verifications": newVerificationViews(verifications),
	})
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// AdminUpdateOrderStatus applies an order status change.
func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.pathID(w, r, "orderID")
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), orderID, model.OrderStatus(req.Status), req.Notes)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newOrderView(order))
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// AdminUpdatePaymentStatus applies the manual payment status override.
func (h *Handler) AdminUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.pathID(w, r, "orderID")
	if !ok {
		return
	}

	var req updatePaymentStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.service.UpdatePaymentStatus(r.Context(), orderID, model.PaymentStatus(req.PaymentStatus))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newOrderView(order))
}

// AdminListVerifications returns the review queue. The status query parameter
// defaults to PENDING.
func (h *Handler) AdminListVerifications(w http.ResponseWriter, r *http.Request) {
	status := model.VerificationStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.VerificationPending
	}

	if reference := r.URL.Query().Get("reference"); reference != "" {
		vs, err := h.service.FindVerificationsByReference(r.Context(), r.URL.Query().Get("method"), reference)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.ok(w, newVerificationViews(vs))
		return
	}

	vs, err := h.service.ListVerifications(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newVerificationViews(vs))
}

// AdminApproveVerification approves a submitted proof and returns the order
// with its recomputed paid amount.
func (h *Handler) AdminApproveVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "verificationID")
	if !ok {
		return
	}

	order, err := h.service.ApproveVerification(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newOrderView(order))
}

type rejectVerificationRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// AdminRejectVerification rejects a submitted proof with a reason and returns
// the order with its recomputed paid amount.
func (h *Handler) AdminRejectVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "verificationID")
	if !ok {
		return
	}

	var req rejectVerificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.service.RejectVerification(r.Context(), id, req.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newOrderView(order))
}

// AdminListFeedback returns feedback awaiting moderation. The status query
// parameter defaults to PENDING.
func (h *Handler) AdminListFeedback(w http.ResponseWriter, r *http.Request) {
	status := model.FeedbackStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.FeedbackPending
	}

	fs, err := h.service.ListFeedback(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newFeedbackViews(fs))
}

type moderateFeedbackRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminModerateFeedback releases or rejects a feedback entry.
func (h *Handler) AdminModerateFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "feedbackID")
	if !ok {
		return
	}

	var req moderateFeedbackRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ModerateFeedback(r.Context(), id, model.FeedbackStatus(req.Status)); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, nil)
}

// AdminDashboard returns the landing aggregates.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DashboardSummary(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	byStatus := make(map[string]int64, len(summary.OrdersByStatus))
	for status, n := range summary.OrdersByStatus {
		byStatus[string(status)] = n
	}

	h.ok(w, map[string]any{
		"orders_by_status":      byStatus,
		"pending_verifications": summary.PendingVerifications,
		"approved_volume":       pesos(summary.ApprovedVolumeCents),
	})
}
