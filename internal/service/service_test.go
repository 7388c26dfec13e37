package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/repository"
)

// memRepo is an in-memory Repository with the same derivation semantics as
// the Postgres implementation: amount_paid is always recomputed as the sum of
// approved verification amounts, and the move to Completed is refused while a
// balance remains.
type memRepo struct {
	nextID int64

	customers     map[int64]*model.Customer
	products      map[int64]*model.Product
	orders        map[int64]*model.Order
	items         map[int64][]model.OrderItem
	terms         map[int64]*model.PaymentTerms
	verifications map[int64]*model.PaymentVerification
	addresses     map[int64]*model.Address
	feedback      map[int64]*model.Feedback
}

func newMemRepo() *memRepo {
	return &memRepo{
		customers:     make(map[int64]*model.Customer),
		products:      make(map[int64]*model.Product),
		orders:        make(map[int64]*model.Order),
		items:         make(map[int64][]model.OrderItem),
		terms:         make(map[int64]*model.PaymentTerms),
		verifications: make(map[int64]*model.PaymentVerification),
		addresses:     make(map[int64]*model.Address),
		feedback:      make(map[int64]*model.Feedback),
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) Close() error { return nil }

func (m *memRepo) CreateCustomer(ctx context.Context, email, fullName string, passwordHash []byte, role model.Role) (int64, error) {
	for _, c := range m.customers {
		if c.Email == email {
			return 0, repository.ErrCustomerExists
		}
	}
	id := m.id()
	m.customers[id] = &model.Customer{ID: id, Email: email, FullName: fullName, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	return id, nil
}

func (m *memRepo) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrCustomerNotFound
}

func (m *memRepo) GetCustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.Active {
		return nil, repository.ErrProductNotFound
	}
	pp := *p
	return &pp, nil
}

func (m *memRepo) CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) (int64, error) {
	for _, existing := range m.orders {
		if existing.Code == o.Code {
			return 0, repository.ErrOrderCodeTaken
		}
	}
	id := m.id()
	op := *o
	op.ID = id
	op.CreatedAt = time.Now()
	m.orders[id] = &op
	for i := range items {
		items[i].ID = m.id()
		items[i].OrderID = id
	}
	m.items[id] = items
	return id, nil
}

func (m *memRepo) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	op := *o
	return &op, nil
}

func (m *memRepo) GetOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), m.items[orderID]...), nil
}

func (m *memRepo) ListOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var res []model.Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			res = append(res, *o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memRepo) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	var res []model.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			res = append(res, *o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes string) (*model.Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if status == model.OrderStatusCompleted && o.TotalCents-o.AmountPaidCents > 0 {
		return nil, repository.ErrPaymentIncomplete
	}
	o.Status = status
	o.StatusNotes = notes
	op := *o
	return &op, nil
}

func (m *memRepo) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (*model.Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.PaymentStatus = status
	op := *o
	return &op, nil
}

func (m *memRepo) UpsertPaymentTerms(ctx context.Context, t *model.PaymentTerms) error {
	tp := *t
	tp.DecidedAt = time.Now()
	m.terms[t.OrderID] = &tp
	return nil
}

func (m *memRepo) GetPaymentTerms(ctx context.Context, orderID int64) (*model.PaymentTerms, error) {
	t, ok := m.terms[orderID]
	if !ok {
		return nil, repository.ErrTermsNotFound
	}
	tp := *t
	return &tp, nil
}

func (m *memRepo) CreateVerification(ctx context.Context, v *model.PaymentVerification) (int64, error) {
	id := m.id()
	vp := *v
	vp.ID = id
	vp.Status = model.VerificationPending
	vp.CreatedAt = time.Now()
	m.verifications[id] = &vp
	return id, nil
}

func (m *memRepo) GetVerification(ctx context.Context, id int64) (*model.PaymentVerification, error) {
	v, ok := m.verifications[id]
	if !ok {
		return nil, repository.ErrVerificationNotFound
	}
	vp := *v
	return &vp, nil
}

func (m *memRepo) ListVerificationsByOrder(ctx context.Context, orderID int64) ([]model.PaymentVerification, error) {
	var res []model.PaymentVerification
	for _, v := range m.verifications {
		if v.OrderID == orderID {
			res = append(res, *v)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (m *memRepo) ListVerificationsByStatus(ctx context.Context, status model.VerificationStatus) ([]model.PaymentVerification, error) {
	var res []model.PaymentVerification
	for _, v := range m.verifications {
		if v.Status == status {
			res = append(res, *v)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memRepo) ListVerificationsByReference(ctx context.Context, method, reference string) ([]model.PaymentVerification, error) {
	var res []model.PaymentVerification
	for _, v := range m.verifications {
		if v.Method == method && v.ReferenceNumber == reference {
			res = append(res, *v)
		}
	}
	return res, nil
}

func (m *memRepo) SetVerificationStatus(ctx context.Context, id int64, status model.VerificationStatus, reason string) (*model.Order, error) {
	v, ok := m.verifications[id]
	if !ok {
		return nil, repository.ErrVerificationNotFound
	}
	now := time.Now()
	v.Status = status
	v.RejectReason = reason
	v.DecidedAt = &now

	o, ok := m.orders[v.OrderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	var sum int64
	for _, other := range m.verifications {
		if other.OrderID == v.OrderID && other.Status == model.VerificationApproved {
			sum += other.AmountReportedCents
		}
	}
	o.AmountPaidCents = sum
	o.PaymentStatus = model.DerivePaymentStatus(sum, o.TotalCents)

	op := *o
	return &op, nil
}

func (m *memRepo) CreateAddress(ctx context.Context, a *model.Address) (int64, error) {
	var count int
	for _, existing := range m.addresses {
		if existing.CustomerID == a.CustomerID {
			count++
		}
	}
	ap := *a
	ap.ID = m.id()
	ap.CreatedAt = time.Now()
	if count == 0 {
		ap.IsDefault = true
	} else if ap.IsDefault {
		for _, existing := range m.addresses {
			if existing.CustomerID == a.CustomerID {
				existing.IsDefault = false
			}
		}
	}
	m.addresses[ap.ID] = &ap
	return ap.ID, nil
}

func (m *memRepo) ListAddresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	var res []model.Address
	for _, a := range m.addresses {
		if a.CustomerID == customerID {
			res = append(res, *a)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].IsDefault != res[j].IsDefault {
			return res[i].IsDefault
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (m *memRepo) GetAddress(ctx context.Context, customerID, id int64) (*model.Address, error) {
	a, ok := m.addresses[id]
	if !ok || a.CustomerID != customerID {
		return nil, repository.ErrAddressNotFound
	}
	ap := *a
	return &ap, nil
}

func (m *memRepo) UpdateAddress(ctx context.Context, a *model.Address) error {
	existing, ok := m.addresses[a.ID]
	if !ok || existing.CustomerID != a.CustomerID {
		return repository.ErrAddressNotFound
	}
	ap := *a
	ap.IsDefault = existing.IsDefault
	ap.CreatedAt = existing.CreatedAt
	m.addresses[a.ID] = &ap
	return nil
}

func (m *memRepo) DeleteAddress(ctx context.Context, customerID, id int64) error {
	a, ok := m.addresses[id]
	if !ok || a.CustomerID != customerID {
		return repository.ErrAddressNotFound
	}
	wasDefault := a.IsDefault
	delete(m.addresses, id)

	if wasDefault {
		var newest *model.Address
		for _, other := range m.addresses {
			if other.CustomerID == customerID && (newest == nil || other.ID > newest.ID) {
				newest = other
			}
		}
		if newest != nil {
			newest.IsDefault = true
		}
	}
	return nil
}

func (m *memRepo) SetDefaultAddress(ctx context.Context, customerID, id int64) error {
	a, ok := m.addresses[id]
	if !ok || a.CustomerID != customerID {
		return repository.ErrAddressNotFound
	}
	for _, other := range m.addresses {
		if other.CustomerID == customerID {
			other.IsDefault = false
		}
	}
	a.IsDefault = true
	return nil
}

func (m *memRepo) CreateFeedback(ctx context.Context, f *model.Feedback) (int64, error) {
	for _, existing := range m.feedback {
		if existing.OrderID == f.OrderID {
			return 0, repository.ErrFeedbackExists
		}
	}
	fp := *f
	fp.ID = m.id()
	fp.Status = model.FeedbackPending
	fp.CreatedAt = time.Now()
	m.feedback[fp.ID] = &fp
	return fp.ID, nil
}

func (m *memRepo) ListFeedbackByStatus(ctx context.Context, status model.FeedbackStatus) ([]model.Feedback, error) {
	var res []model.Feedback
	for _, f := range m.feedback {
		if f.Status == status {
			res = append(res, *f)
		}
	}
	return res, nil
}

func (m *memRepo) SetFeedbackStatus(ctx context.Context, id int64, status model.FeedbackStatus) error {
	f, ok := m.feedback[id]
	if !ok {
		return repository.ErrFeedbackNotFound
	}
	f.Status = status
	return nil
}

func (m *memRepo) ListTestimonials(ctx context.Context, limit int) ([]repository.Testimonial, error) {
	return nil, nil
}

func (m *memRepo) GetDashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	summary := &model.DashboardSummary{OrdersByStatus: make(map[model.OrderStatus]int64)}
	for _, o := range m.orders {
		summary.OrdersByStatus[o.Status]++
	}
	for _, v := range m.verifications {
		switch v.Status {
		case model.VerificationPending:
			summary.PendingVerifications++
		case model.VerificationApproved:
			summary.ApprovedVolumeCents += v.AmountReportedCents
		}
	}
	return summary, nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	repo.products[1] = &model.Product{ID: 1, Name: "Injection mold base", PriceCents: 100000, VATRate: 0.12, Active: true}
	repo.products[2] = &model.Product{ID: 2, Name: "Trim die set", PriceCents: 25000, VATRate: 0.12, Active: true}
	repo.products[3] = &model.Product{ID: 3, Name: "Retired jig", PriceCents: 10000, VATRate: 0.12, Active: false}

	return NewService(repo, nil, nil, zap.NewNop(), nil), repo
}

func placeOrder(ctx context.Context, svc *Service, repo *memRepo, totalCents int64) *model.Order {
	id, _ := repo.CreateCustomer(ctx, "buyer@example.com", "Buyer", []byte("x"), model.RoleCustomer)
	order := &model.Order{
		Code:          "RT-20260831-TESTAA",
		CustomerID:    id,
		TotalCents:    totalCents,
		SubtotalCents: totalCents,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		DeliveryMode:  model.DeliveryModePickup,
	}
	oid, _ := repo.CreateOrder(ctx, order, nil)
	placed, _ := repo.GetOrder(ctx, oid)
	return placed
}

func validProof(orderID int64, amountCents int64) SubmitProofInput {
	return SubmitProofInput{
		OrderID:             orderID,
		AccountName:         "Juan Dela Cruz",
		AccountNumber:       "09123456789",
		ReferenceNumber:     "REF123456",
		AmountReportedCents: amountCents,
		ProofRef:            "proof.png",
		TermsAccepted:       true,
	}
}
