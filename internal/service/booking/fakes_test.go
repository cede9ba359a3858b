package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
	"github.com/Alijeyrad/transfers_backend/pkg/dispatch"
	"github.com/Alijeyrad/transfers_backend/pkg/email"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
)

// fakeStore keeps rows in memory. InTx does not roll back.
type fakeStore struct {
	mu            sync.Mutex
	bookings      map[uuid.UUID]*repo.Booking
	customers     map[uuid.UUID]*repo.Customer
	payments      []*repo.PaymentTransaction
	invoices      map[uuid.UUID]*repo.Invoice
	reviews       []*repo.ReviewRequest
	notifications []*repo.AdminNotification
	cancellations map[string]*repo.CancellationRequest
	assignments   map[uuid.UUID]*repo.TripAssignment
	vehicles      map[uuid.UUID]*repo.Vehicle
	logs          []*repo.AutomationLog
	failBookings  map[uuid.UUID]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings:      map[uuid.UUID]*repo.Booking{},
		customers:     map[uuid.UUID]*repo.Customer{},
		invoices:      map[uuid.UUID]*repo.Invoice{},
		cancellations: map[string]*repo.CancellationRequest{},
		assignments:   map[uuid.UUID]*repo.TripAssignment{},
		vehicles:      map[uuid.UUID]*repo.Vehicle{},
		failBookings:  map[uuid.UUID]error{},
	}
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx Store) error) error { return fn(f) }

func (f *fakeStore) GetBooking(_ context.Context, id uuid.UUID) (*repo.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repo.NewNotFoundError("booking")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) GetBookingForUpdate(ctx context.Context, id uuid.UUID) (*repo.Booking, error) {
	if err := f.failBookings[id]; err != nil {
		return nil, err
	}
	return f.GetBooking(ctx, id)
}

func (f *fakeStore) CreateBooking(_ context.Context, b *repo.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, id uuid.UUID, u repo.BookingUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return repo.NewNotFoundError("booking")
	}
	if u.CustomerID != nil {
		b.CustomerID = u.CustomerID
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.PaymentStatus != nil {
		b.PaymentStatus = *u.PaymentStatus
	}
	if u.WorkflowStatus != nil {
		b.WorkflowStatus = *u.WorkflowStatus
	}
	if u.PaymentMethod != nil {
		b.PaymentMethod = u.PaymentMethod
	}
	if u.StripePaymentID != nil {
		b.StripePaymentID = u.StripePaymentID
	}
	if u.CompletedAt != nil {
		b.CompletedAt = u.CompletedAt
	}
	if u.CompletionEmailSent != nil {
		b.CompletionEmailSent = *u.CompletionEmailSent
	}
	return nil
}

func (f *fakeStore) ListNoShowCandidates(_ context.Context, cutoff time.Time) ([]*repo.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repo.Booking
	for _, b := range f.bookings {
		if b.PickupDatetime.Before(cutoff) && isNoShowCandidate(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) FindCustomerByEmail(_ context.Context, addr string) (*repo.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if strings.EqualFold(c.Email, addr) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repo.NewNotFoundError("customer")
}

func (f *fakeStore) CreateCustomer(_ context.Context, c *repo.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateCustomer(_ context.Context, id uuid.UUID, u repo.CustomerUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return repo.NewNotFoundError("customer")
	}
	c.TotalBookings += u.Bookings
	c.CompletedTrips += u.CompletedTrips
	c.NoShowCount += u.NoShows
	c.TotalSpent = c.TotalSpent.Add(u.Spent)
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.LastBookingAt != nil {
		c.LastBookingAt = u.LastBookingAt
	}
	if u.LastTripAt != nil {
		c.LastTripAt = u.LastTripAt
	}
	return nil
}

func (f *fakeStore) CreatePaymentTransaction(_ context.Context, t *repo.PaymentTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, t)
	return nil
}

func (f *fakeStore) CreateInvoice(_ context.Context, inv *repo.Invoice) (*repo.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.invoices[inv.BookingID]; ok {
		return cur, nil
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	f.invoices[inv.BookingID] = inv
	return inv, nil
}

func (f *fakeStore) SetInvoiceDocument(_ context.Context, id uuid.UUID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.ID == id {
			k := key
			inv.DocumentKey = &k
			return nil
		}
	}
	return repo.NewNotFoundError("invoice")
}

func (f *fakeStore) CreateReviewRequest(_ context.Context, r *repo.ReviewRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeStore) CreateAdminNotification(_ context.Context, n *repo.AdminNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeStore) CreateCancellationRequest(_ context.Context, r *repo.CancellationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.cancellations[r.Token] = r
	return nil
}

func (f *fakeStore) GetCancellationRequestByToken(_ context.Context, token string) (*repo.CancellationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.cancellations[token]
	if !ok {
		return nil, repo.NewNotFoundError("cancellation request")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) MarkCancellationSubmitted(_ context.Context, id uuid.UUID, reason *string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.cancellations {
		if r.ID == id && r.Status == repo.CancellationPending {
			r.Status = repo.CancellationSubmitted
			r.SubmittedAt = &at
			if reason != nil {
				r.Reason = reason
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetTripAssignmentByBooking(_ context.Context, bookingID uuid.UUID) (*repo.TripAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[bookingID]
	if !ok {
		return nil, repo.NewNotFoundError("trip assignment")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) UpdateTripAssignmentStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return repo.NewNotFoundError("trip assignment")
}

func (f *fakeStore) AddVehicleMileage(_ context.Context, id uuid.UUID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return repo.NewNotFoundError("vehicle")
	}
	v.Mileage += delta
	return nil
}

func (f *fakeStore) SetVehicleStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return repo.NewNotFoundError("vehicle")
	}
	v.Status = status
	return nil
}

func (f *fakeStore) CreateAutomationLog(_ context.Context, l *repo.AutomationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, l)
	return nil
}

type fakeCommissions struct {
	pending  []uuid.UUID
	approved []uuid.UUID
	err      error
}

func (f *fakeCommissions) ApproveBookingCommission(_ context.Context, b *repo.Booking) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.approved = append(f.approved, b.ID)
	return true, nil
}

func (f *fakeCommissions) CreatePendingCommission(_ context.Context, b *repo.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.pending = append(f.pending, b.ID)
	return nil
}

type fakeQuotes map[string]*pricing.Quote

func (f fakeQuotes) GetQuote(_ context.Context, number string) (*pricing.Quote, error) {
	q, ok := f[strings.ToUpper(number)]
	if !ok {
		return nil, pricing.ErrQuoteNotFound
	}
	return q, nil
}

type published struct {
	topic string
	ev    events.Event
}

type fakePublisher struct {
	events []published
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, ev events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, published{topic: topic, ev: ev})
	return nil
}

func (f *fakePublisher) topics() []string {
	out := make([]string, len(f.events))
	for i, p := range f.events {
		out[i] = p.topic
	}
	return out
}

type fakeArchiver struct {
	keys       []string
	bodies     [][]byte
	putErr     error
	presignErr error
}

func (f *fakeArchiver) Put(_ context.Context, key, _ string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeArchiver) PresignDownload(_ context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://files.example.com/" + key + "?X-Amz-Signature=test", nil
}

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

type fakeDispatcher struct {
	requests []dispatch.Request
	err      error
}

func (f *fakeDispatcher) AutoDispatch(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &dispatch.Result{Assigned: true, AssignmentID: "as-1"}, nil
}
