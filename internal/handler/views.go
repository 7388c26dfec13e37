package handler

import (
	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/service"
)

// View structs render the API shapes. Money crosses the wire in pesos; it is
// integer centavos everywhere behind this edge.

type orderView struct {
	ID            int64             `json:"id"`
	Code          string            `json:"code"`
	CustomerID    int64             `json:"customer_id"`
	Subtotal      float64           `json:"subtotal"`
	VAT           float64           `json:"vat"`
	Total         float64           `json:"total"`
	AmountPaid    float64           `json:"amount_paid"`
	Remaining     float64           `json:"remaining"`
	DeliveryMode  string            `json:"delivery_mode"`
	Delivery      deliveryView      `json:"delivery"`
	Status        model.OrderStatus `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	StatusNotes   string            `json:"status_notes,omitempty"`
	CreatedAt     string            `json:"created_at"`
}

type deliveryView struct {
	FullName     string `json:"full_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Province     string `json:"province,omitempty"`
	ProvinceCode string `json:"province_code,omitempty"`
	City         string `json:"city,omitempty"`
	CityCode     string `json:"city_code,omitempty"`
	Barangay     string `json:"barangay,omitempty"`
	BarangayCode string `json:"barangay_code,omitempty"`
	Street       string `json:"street,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

func newOrderView(o *model.Order) orderView {
	return orderView{
		ID:           o.ID,
		Code:         o.Code,
		CustomerID:   o.CustomerID,
		Subtotal:     pesos(o.SubtotalCents),
		VAT:          pesos(o.VATCents),
		Total:        pesos(o.TotalCents),
		AmountPaid:   pesos(o.AmountPaidCents),
		Remaining:    pesos(o.RemainingCents()),
		DeliveryMode: string(o.DeliveryMode),
		Delivery: deliveryView{
			FullName:     o.Delivery.FullName,
			Phone:        o.Delivery.Phone,
			Email:        o.Delivery.Email,
			Province:     o.Delivery.Province,
			ProvinceCode: o.Delivery.ProvinceCode,
			City:         o.Delivery.City,
			CityCode:     o.Delivery.CityCode,
			Barangay:     o.Delivery.Barangay,
			BarangayCode: o.Delivery.BarangayCode,
			Street:       o.Delivery.Street,
			PostalCode:   o.Delivery.PostalCode,
		},
		Status:        o.Status,
		PaymentStatus: string(o.PaymentStatus),
		StatusNotes:   o.StatusNotes,
		CreatedAt:     formatTime(o.CreatedAt),
	}
}

func newOrderViews(orders []model.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views
}

type orderItemView struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

func newOrderItemViews(items []model.OrderItem) []orderItemView {
	views := make([]orderItemView, 0, len(items))
	for _, it := range items {
		views = append(views, orderItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: pesos(it.UnitPriceCents),
			Quantity:  it.Quantity,
			LineTotal: pesos(it.UnitPriceCents * int64(it.Quantity)),
		})
	}
	return views
}

type termsView struct {
	OrderID     int64   `json:"order_id"`
	Method      string  `json:"method"`
	DepositRate int     `json:"deposit_rate"`
	AmountDue   float64 `json:"amount_due"`
	DecidedAt   string  `json:"decided_at"`
}

func newTermsView(t *model.PaymentTerms) termsView {
	return termsView{
		OrderID:     t.OrderID,
		Method:      t.Method,
		DepositRate: t.DepositRate,
		AmountDue:   pesos(t.AmountDueCents),
		DecidedAt:   formatTime(t.DecidedAt),
	}
}

type orderDetailsView struct {
	Order orderView       `json:"order"`
	Items []orderItemView `json:"items"`
	Terms *termsView      `json:"payment_terms,omitempty"`
}

func newOrderDetailsView(d *service.OrderDetails) orderDetailsView {
	view := orderDetailsView{
		Order: newOrderView(d.Order),
		Items: newOrderItemViews(d.Items),
	}
	if d.Terms != nil {
		t := newTermsView(d.Terms)
		view.Terms = &t
	}
	return view
}

type verificationView struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"order_id"`
	Method          string  `json:"method"`
	AccountName     string  `json:"account_name"`
	AccountNumber   string  `json:"account_number"`
	ReferenceNumber string  `json:"reference_number"`
	AmountReported  float64 `json:"amount_reported"`
	ProofRef        string  `json:"proof_ref"`
	Status          string  `json:"status"`
	RejectReason    string  `json:"reject_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	DecidedAt       string  `json:"decided_at,omitempty"`
}

func newVerificationView(v *model.PaymentVerification) verificationView {
	view := verificationView{
		ID:              v.ID,
		OrderID:         v.OrderID,
		Method:          v.Method,
		AccountName:     v.AccountName,
		AccountNumber:   v.AccountNumber,
		ReferenceNumber: v.ReferenceNumber,
		AmountReported:  pesos(v.AmountReportedCents),
		ProofRef:        v.ProofRef,
		Status:          string(v.Status),
		RejectReason:    v.RejectReason,
		CreatedAt:       formatTime(v.CreatedAt),
	}
	if v.DecidedAt != nil {
		view.DecidedAt = formatTime(*v.DecidedAt)
	}
	return view
}

func newVerificationViews(vs []model.PaymentVerification) []verificationView {
	views := make([]verificationView, 0, len(vs))
	for i := range vs {
		views = append(views, newVerificationView(&vs[i]))
	}
	return views
}

type addressView struct {
	ID           int64  `json:"id"`
	Nickname     string `json:"nickname,omitempty"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	City         string `json:"city"`
	CityCode     string `json:"city_code"`
	Barangay     string `json:"barangay"`
	BarangayCode string `json:"barangay_code"`
	Street       string `json:"street"`
	PostalCode   string `json:"postal_code,omitempty"`
	IsDefault    bool   `json:"is_default"`
	CreatedAt    string `json:"created_at"`
}

func newAddressView(a *model.Address) addressView {
	return addressView{
		ID:           a.ID,
		Nickname:     a.Nickname,
		FullName:     a.FullName,
		Phone:        a.Phone,
		Email:        a.Email,
		Province:     a.Province,
		ProvinceCode: a.ProvinceCode,
		City:         a.City,
		CityCode:     a.CityCode,
		Barangay:     a.Barangay,
		BarangayCode: a.BarangayCode,
		Street:       a.Street,
		PostalCode:   a.PostalCode,
		IsDefault:    a.IsDefault,
		CreatedAt:    formatTime(a.CreatedAt),
	}
}

func newAddressViews(addrs []model.Address) []addressView {
	views := make([]addressView, 0, len(addrs))
	for i := range addrs {
		views = append(views, newAddressView(&addrs[i]))
	}
	return views
}

type feedbackView struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func newFeedbackViews(fs []model.Feedback) []feedbackView {
	views := make([]feedbackView, 0, len(fs))
	for _, f := range fs {
		views = append(views, feedbackView{
			ID:        f.ID,
			OrderID:   f.OrderID,
			Rating:    f.Rating,
			Comment:   f.Comment,
			Status:    string(f.Status),
			CreatedAt: formatTime(f.CreatedAt),
		})
	}
	return views
}
