package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/radstooling/backoffice-system/internal/psgc"
)

func (h *Handler) writePlaces(w http.ResponseWriter, places []psgc.Place, err error) {
	if err != nil {
		if errors.Is(err, psgc.ErrLookupFailed) {
			h.fail(w, http.StatusBadGateway, "address lookup is unavailable")
			return
		}
		h.writeServiceError(w, err)
		return
	}
	h.ok(w, places)
}

// Provinces proxies the PSGC province list.
func (h *Handler) Provinces(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.Provinces(r.Context())
	h.writePlaces(w, places, err)
}

// Cities proxies the PSGC city list of a province.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.Cities(r.Context(), chi.URLParam(r, "provinceCode"))
	h.writePlaces(w, places, err)
}

// Barangays proxies the PSGC barangay list of a city.
func (h *Handler) Barangays(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.Barangays(r.Context(), chi.URLParam(r, "cityCode"))
	h.writePlaces(w, places, err)
}

type testimonialView struct {
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	CustomerName string `json:"customer_name"`
	OrderCode    string `json:"order_code"`
	CreatedAt    string `json:"created_at"`
}

// Testimonials returns released customer feedback for the storefront.
func (h *Handler) Testimonials(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ts, err := h.service.Testimonials(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	views := make([]testimonialView, 0, len(ts))
	for _, t := range ts {
		views = append(views, testimonialView{
			Rating:       t.Rating,
			Comment:      t.Comment,
			CustomerName: t.CustomerName,
			OrderCode:    t.OrderCode,
			CreatedAt:    formatTime(t.CreatedAt),
		})
	}
	h.ok(w, views)
}
