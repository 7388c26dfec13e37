package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/radstooling/backoffice-system/internal/middleware"
)

// SetupRouter wires the HTTP routes and middleware of the back office API.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		r.Get("/psgc/provinces", h.Provinces)
		r.Get("/psgc/provinces/{provinceCode}/cities", h.Cities)
		r.Get("/psgc/cities/{cityCode}/barangays", h.Barangays)

		r.Get("/testimonials", h.Testimonials)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Post("/checkout/orders", h.CreateOrder)
			r.Get("/orders", h.MyOrders)
			r.Get("/orders/{orderID}", h.MyOrder)
			r.Post("/orders/{orderID}/payment-decision", h.DecidePayment)
			r.Post("/payments/submit", h.SubmitProof)

			r.Post("/addresses", h.CreateAddress)
			r.Get("/addresses", h.ListAddresses)
			r.Put("/addresses/{addressID}", h.UpdateAddress)
			r.Delete("/addresses/{addressID}", h.DeleteAddress)
			r.Post("/addresses/{addressID}/default", h.SetDefaultAddress)

			r.Post("/feedback", h.CreateFeedback)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Use(h.authMiddleware.RequireAdmin)

			r.Get("/admin/dashboard", h.AdminDashboard)

			r.Get("/admin/orders", h.AdminListOrders)
			r.Get("/admin/orders/{orderID}", h.AdminGetOrder)
			r.Patch("/admin/orders/{orderID}/status", h.AdminUpdateOrderStatus)
			r.Patch("/admin/orders/{orderID}/payment-status", h.AdminUpdatePaymentStatus)

			r.Get("/admin/verifications", h.AdminListVerifications)
			r.Post("/admin/verifications/{verificationID}/approve", h.AdminApproveVerification)
			r.Post("/admin/verifications/{verificationID}/reject", h.AdminRejectVerification)

			r.Get("/admin/feedback", h.AdminListFeedback)
			r.Patch("/admin/feedback/{feedbackID}", h.AdminModerateFeedback)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, http.StatusNotFound, "not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
