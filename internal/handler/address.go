package handler

import (
	"net/http"

	"github.com/radstooling/backoffice-system/internal/service"
)

type addressRequest struct {
	Nickname     string `json:"nickname"`
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Province     string `json:"province" validate:"required"`
	ProvinceCode string `json:"province_code" validate:"required"`
	City         string `json:"city" validate:"required"`
	CityCode     string `json:"city_code" validate:"required"`
	Barangay     string `json:"barangay" validate:"required"`
	BarangayCode string `json:"barangay_code" validate:"required"`
	Street       string `json:"street" validate:"required"`
	PostalCode   string `json:"postal_code"`
	IsDefault    bool   `json:"is_default"`
}

func (req *addressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Nickname:     req.Nickname,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		Province:     req.Province,
		ProvinceCode: req.ProvinceCode,
		City:         req.City,
		CityCode:     req.CityCode,
		Barangay:     req.Barangay,
		BarangayCode: req.BarangayCode,
		Street:       req.Street,
		PostalCode:   req.PostalCode,
		IsDefault:    req.IsDefault,
	}
}

// CreateAddress saves a new address for the signed-in customer.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req addressRequest
	if !h.decode(w, r, &req) {
		return
	}

	a, err := h.service.CreateAddress(r.Context(), customerID, req.toInput())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.created(w, newAddressView(a))
}

// ListAddresses returns the signed-in customer's saved addresses.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	addrs, err := h.service.ListAddresses(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newAddressViews(addrs))
}

// UpdateAddress overwrites one of the customer's addresses.
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	addressID, ok := h.pathID(w, r, "addressID")
	if !ok {
		return
	}

	var req addressRequest
	if !h.decode(w, r, &req) {
		return
	}

	a, err := h.service.UpdateAddress(r.Context(), customerID, addressID, req.toInput())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, newAddressView(a))
}

// DeleteAddress removes one of the customer's addresses.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	addressID, ok := h.pathID(w, r, "addressID")
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(r.Context(), customerID, addressID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, nil)
}

// SetDefaultAddress makes one address the customer's default.
func (h *Handler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDFrom(r)
	if !ok {
		h.fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	addressID, ok := h.pathID(w, r, "addressID")
	if !ok {
		return
	}

	if err := h.service.SetDefaultAddress(r.Context(), customerID, addressID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, nil)
}
