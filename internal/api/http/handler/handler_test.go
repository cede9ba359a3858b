package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/transfers_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/internal/service/commission"
	"github.com/Alijeyrad/transfers_backend/internal/service/partner"
	"github.com/Alijeyrad/transfers_backend/internal/service/pricing"
	"github.com/Alijeyrad/transfers_backend/pkg/reqctx"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler:    ErrorHandler,
		StructValidator: NewStructValidator(),
	})
}

// do sends body (a string is sent as-is, anything else as JSON) and decodes
// a JSON object response.
func do(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func withPrincipal(p *reqctx.Principal) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(middleware.LocalsPrincipal, p)
		return c.Next()
	}
}

// ---------------------------------------------------------------------------
// Quotes
// ---------------------------------------------------------------------------

func quoteApp(svc *fakePricing) *fiber.App {
	app := newApp()
	h := NewQuoteHandler(svc)
	app.Post("/calculate-quote", h.Calculate)
	app.Post("/calculate-multi-quote", h.CalculateMulti)
	app.Get("/quotes/:number", h.Get)
	return app
}

func TestCalculateQuote(t *testing.T) {
	svc := &fakePricing{quote: &pricing.Quote{QuoteNumber: "Q-20260314-ABC123", TotalPrice: decimal.NewFromInt(171)}}
	app := quoteApp(svc)

	status, out := do(t, app, http.MethodPost, "/calculate-quote", map[string]any{
		"from_address":    "PUJ Airport",
		"to_address":      "Bavaro",
		"pickup_datetime": "2026-03-20T10:30:00Z",
		"vehicle_type":    "Sedan",
		"trip_type":       "round-trip",
		"passengers":      2,
	})

	require.Equal(t, http.StatusOK, status)
	quote, ok := out["quote"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Q-20260314-ABC123", quote["quote_number"])

	assert.Equal(t, "PUJ Airport", svc.gotReq.FromAddress)
	assert.Equal(t, "round-trip", svc.gotReq.TripType)
	assert.Equal(t, 2, svc.gotReq.Passengers)
	assert.True(t, svc.gotReq.PickupDatetime.Equal(time.Date(2026, 3, 20, 10, 30, 0, 0, time.UTC)))
}

func TestCalculateQuote_LocalDatetime(t *testing.T) {
	svc := &fakePricing{quote: &pricing.Quote{QuoteNumber: "Q-1"}}
	app := quoteApp(svc)

	status, _ := do(t, app, http.MethodPost, "/calculate-quote", map[string]any{
		"from_address":    "SDQ",
		"to_address":      "Santo Domingo",
		"pickup_datetime": "2026-03-20T10:30",
		"vehicle_type":    "Van",
	})

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10, svc.gotReq.PickupDatetime.Hour())
}

func TestCalculateQuote_Validation(t *testing.T) {
	app := quoteApp(&fakePricing{})

	status, out := do(t, app, http.MethodPost, "/calculate-quote", map[string]any{
		"to_address":      "Bavaro",
		"pickup_datetime": "2026-03-20T10:30:00Z",
		"vehicle_type":    "Sedan",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "from_address is required", out["error"])

	status, out = do(t, app, http.MethodPost, "/calculate-quote", map[string]any{
		"from_address":    "PUJ",
		"to_address":      "Bavaro",
		"pickup_datetime": "next tuesday",
		"vehicle_type":    "Sedan",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out["error"], "pickup_datetime")

	status, out = do(t, app, http.MethodPost, "/calculate-quote", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", out["error"])
}

func TestCalculateQuote_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{pricing.ErrVehicleTypeNotFound, http.StatusNotFound},
		{pricing.ErrNoPricingRule, http.StatusNotFound},
		{pricing.ErrInvalidTripType, http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := quoteApp(&fakePricing{err: tt.err})
			status, out := do(t, app, http.MethodPost, "/calculate-quote", map[string]any{
				"from_address":    "PUJ",
				"to_address":      "Bavaro",
				"pickup_datetime": "2026-03-20T10:30:00Z",
				"vehicle_type":    "Sedan",
			})
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.err.Error(), out["error"])
		})
	}
}

func TestCalculateMultiQuote(t *testing.T) {
	svc := &fakePricing{quotes: []*pricing.Quote{{QuoteNumber: "Q-1"}, {QuoteNumber: "Q-2"}}}
	app := quoteApp(svc)

	status, out := do(t, app, http.MethodPost, "/calculate-multi-quote", map[string]any{
		"from_address":    "PUJ",
		"to_address":      "Bavaro",
		"pickup_datetime": "2026-03-20T10:30:00Z",
		"passengers":      5,
		"luggage":         4,
	})

	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out["quotes"], 2)
	assert.Equal(t, 5, svc.gotMulti.Passengers)
	assert.Equal(t, 4, svc.gotMulti.Luggage)
}

func TestGetQuote(t *testing.T) {
	svc := &fakePricing{quote: &pricing.Quote{QuoteNumber: "Q-1"}}
	status, _ := do(t, quoteApp(svc), http.MethodGet, "/quotes/q-1", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "q-1", svc.gotNum)

	status, out := do(t, quoteApp(&fakePricing{err: pricing.ErrQuoteNotFound}), http.MethodGet, "/quotes/Q-2", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, pricing.ErrQuoteNotFound.Error(), out["error"])
}

// ---------------------------------------------------------------------------
// Bookings
// ---------------------------------------------------------------------------

func bookingApp(svc *fakeBookings, p *reqctx.Principal) *fiber.App {
	app := newApp()
	h := NewBookingHandler(svc)
	if p != nil {
		app.Use(withPrincipal(p))
	}
	app.Post("/bookings", h.Create)
	app.Post("/request-cancellation", h.RequestCancellation)
	app.Post("/handle-new-booking", h.HandleNew)
	app.Post("/handle-payment-confirmation", h.ConfirmPayment)
	app.Post("/complete-booking", h.Complete)
	return app
}

func TestCreateBooking(t *testing.T) {
	svc := &fakeBookings{created: &repo.Booking{ID: uuid.New(), Reference: "TR-ABCD2345"}}

	status, out := do(t, bookingApp(svc, nil), http.MethodPost, "/bookings", map[string]any{
		"quote_number":   "Q-1",
		"customer_name":  "Ana Pérez",
		"customer_email": "ana@example.com",
		"customer_phone": "+1 809 555 0101",
	})

	require.Equal(t, http.StatusCreated, status)
	b, ok := out["booking"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "TR-ABCD2345", b["reference"])
	assert.Equal(t, "Q-1", svc.gotCreate.QuoteNumber)
	assert.Nil(t, svc.gotCreate.PartnerID)
}

func TestCreateBooking_PartnerKey(t *testing.T) {
	partnerID := uuid.New()
	svc := &fakeBookings{created: &repo.Booking{ID: uuid.New()}}
	app := bookingApp(svc, &reqctx.Principal{Name: "hotel", Role: "partner", PartnerID: partnerID.String()})

	status, _ := do(t, app, http.MethodPost, "/bookings", map[string]any{
		"quote_number":   "Q-1",
		"customer_name":  "Ana",
		"customer_email": "ana@example.com",
	})

	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, svc.gotCreate.PartnerID)
	assert.Equal(t, partnerID, *svc.gotCreate.PartnerID)
}

func TestCreateBooking_Errors(t *testing.T) {
	status, out := do(t, bookingApp(&fakeBookings{}, nil), http.MethodPost, "/bookings", map[string]any{
		"quote_number":   "Q-1",
		"customer_name":  "Ana",
		"customer_email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "customer_email must be a valid email address", out["error"])

	status, _ = do(t, bookingApp(&fakeBookings{err: pricing.ErrQuoteNotFound}, nil), http.MethodPost, "/bookings", map[string]any{
		"quote_number":   "Q-1",
		"customer_name":  "Ana",
		"customer_email": "ana@example.com",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandleNewBooking(t *testing.T) {
	svc := &fakeBookings{}
	id := uuid.New()

	status, out := do(t, bookingApp(svc, nil), http.MethodPost, "/handle-new-booking", map[string]any{"booking_id": id.String()})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, true, out["new_customer"])
	assert.Equal(t, id, svc.gotID)

	status, out = do(t, bookingApp(svc, nil), http.MethodPost, "/handle-new-booking", map[string]any{"booking_id": "42"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "booking_id must be a valid UUID", out["error"])

	status, _ = do(t, bookingApp(&fakeBookings{err: booking.ErrBookingNotFound}, nil), http.MethodPost, "/handle-new-booking", map[string]any{"booking_id": id.String()})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConfirmPayment(t *testing.T) {
	svc := &fakeBookings{}
	id := uuid.New()

	status, out := do(t, bookingApp(svc, nil), http.MethodPost, "/handle-payment-confirmation",
		`{"booking_id":"`+id.String()+`","payment_method":"card","amount_paid":100.5,"stripe_payment_id":"pi_123"}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "awaiting_assignment", out["workflow_status"])
	assert.Equal(t, true, out["auto_dispatch_triggered"])

	assert.Equal(t, id, svc.gotPayment.BookingID)
	assert.True(t, decimal.RequireFromString("100.5").Equal(svc.gotPayment.AmountPaid))
	require.NotNil(t, svc.gotPayment.StripePaymentID)
	assert.Equal(t, "pi_123", *svc.gotPayment.StripePaymentID)
}

func TestConfirmPayment_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{booking.ErrInvalidTransition, http.StatusConflict},
		{booking.ErrInvalidAmount, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, out := do(t, bookingApp(&fakeBookings{err: tt.err}, nil), http.MethodPost, "/handle-payment-confirmation",
				map[string]any{"booking_id": uuid.NewString()})
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.err.Error(), out["error"])
		})
	}
}

func TestCompleteBooking(t *testing.T) {
	svc := &fakeBookings{}
	id := uuid.New()

	status, out := do(t, bookingApp(svc, nil), http.MethodPost, "/complete-booking", map[string]any{"booking_id": id.String()})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "INV-202603-ABCD2345", out["invoice_number"])
	assert.Equal(t, id, svc.gotID)

	status, _ = do(t, bookingApp(&fakeBookings{err: booking.ErrInvalidTransition}, nil), http.MethodPost, "/complete-booking", map[string]any{"booking_id": id.String()})
	assert.Equal(t, http.StatusConflict, status)
}

func TestRequestCancellation(t *testing.T) {
	svc := &fakeBookings{}

	status, out := do(t, bookingApp(svc, nil), http.MethodPost, "/request-cancellation", map[string]any{
		"token":  "tok-1",
		"reason": "flight cancelled",
	})

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["success"])
	ref, ok := out["booking"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "TR-ABCD2345", ref["reference"])
	assert.Equal(t, "tok-1", svc.gotToken)
	require.NotNil(t, svc.gotReason)
	assert.Equal(t, "flight cancelled", *svc.gotReason)
}

func TestRequestCancellation_Errors(t *testing.T) {
	status, out := do(t, bookingApp(&fakeBookings{}, nil), http.MethodPost, "/request-cancellation", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "token is required", out["error"])

	tests := []struct {
		err    error
		status int
	}{
		{booking.ErrCancellationNotFound, http.StatusNotFound},
		{booking.ErrAlreadyProcessed, http.StatusBadRequest},
		{booking.ErrBookingCancelled, http.StatusBadRequest},
	}
	for _, tt := range tests {
		status, out := do(t, bookingApp(&fakeBookings{err: tt.err}, nil), http.MethodPost, "/request-cancellation", map[string]any{"token": "x"})
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.err.Error(), out["error"])
	}
}

// ---------------------------------------------------------------------------
// Jobs
// ---------------------------------------------------------------------------

func jobApp(c *fakeCommissions, b *fakeBookings) *fiber.App {
	app := newApp()
	h := NewJobHandler(c, b)
	h.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	app.Post("/jobs/calculate-partner-commissions", h.CalculatePartnerCommissions)
	app.Post("/jobs/handle-no-shows", h.HandleNoShows)
	return app
}

func TestCalculatePartnerCommissions(t *testing.T) {
	c := &fakeCommissions{}
	status, out := do(t, jobApp(c, &fakeBookings{}), http.MethodPost, "/jobs/calculate-partner-commissions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", out["status"])
	assert.True(t, c.gotDay.IsZero())

	c = &fakeCommissions{}
	status, _ = do(t, jobApp(c, &fakeBookings{}), http.MethodPost, "/jobs/calculate-partner-commissions?date=2026-03-10", nil)
	require.Equal(t, http.StatusOK, status)
	y, m, d := c.gotDay.Date()
	assert.Equal(t, []int{2026, 3, 10}, []int{y, int(m), d})
}

func TestCalculatePartnerCommissions_Errors(t *testing.T) {
	c := &fakeCommissions{}
	status, _ := do(t, jobApp(c, &fakeBookings{}), http.MethodPost, "/jobs/calculate-partner-commissions?date=10/03/2026", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, c.called)

	status, out := do(t, jobApp(&fakeCommissions{err: commission.ErrJobRunning}, &fakeBookings{}), http.MethodPost, "/jobs/calculate-partner-commissions", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, commission.ErrJobRunning.Error(), out["error"])
}

func TestHandleNoShows(t *testing.T) {
	b := &fakeBookings{}
	status, out := do(t, jobApp(&fakeCommissions{}, b), http.MethodPost, "/jobs/handle-no-shows", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), out["marked"])
	assert.Equal(t, 12, b.gotNow.Hour())

	status, _ = do(t, jobApp(&fakeCommissions{}, &fakeBookings{err: booking.ErrJobRunning}), http.MethodPost, "/jobs/handle-no-shows", nil)
	assert.Equal(t, http.StatusConflict, status)
}

// ---------------------------------------------------------------------------
// Partners
// ---------------------------------------------------------------------------

func partnerApp(svc *fakePartners) *fiber.App {
	app := newApp()
	h := NewPartnerHandler(svc)
	app.Get("/partners/:id/stats", h.Stats)
	app.Get("/partners/:id/transactions", h.Transactions)
	app.Get("/partners/:id/payouts", h.Payouts)
	return app
}

func TestPartnerStats(t *testing.T) {
	svc := &fakePartners{}
	id := uuid.New()

	status, out := do(t, partnerApp(svc), http.MethodGet, "/partners/"+id.String()+"/stats?from=2026-03-01&to=2026-03-31", nil)
	require.Equal(t, http.StatusOK, status)
	data, ok := out["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id.String(), data["partner_id"])
	assert.True(t, svc.gotReq.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, svc.gotReq.To.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestPartnerStats_Errors(t *testing.T) {
	status, _ := do(t, partnerApp(&fakePartners{}), http.MethodGet, "/partners/nope/stats", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, partnerApp(&fakePartners{}), http.MethodGet, "/partners/"+uuid.NewString()+"/stats?from=March", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, partnerApp(&fakePartners{err: partner.ErrPartnerNotFound}), http.MethodGet, "/partners/"+uuid.NewString()+"/stats", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, partnerApp(&fakePartners{err: partner.ErrInvalidRange}), http.MethodGet, "/partners/"+uuid.NewString()+"/stats", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPartnerLists_Pagination(t *testing.T) {
	svc := &fakePartners{}
	id := uuid.NewString()

	status, out := do(t, partnerApp(svc), http.MethodGet, "/partners/"+id+"/transactions?page=2&per_page=500", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, repo.Page{Page: 2, PerPage: 100}, svc.gotPage)
	assert.Equal(t, float64(100), out["per_page"])
	assert.Equal(t, []any{}, out["data"])

	status, _ = do(t, partnerApp(svc), http.MethodGet, "/partners/"+id+"/payouts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, repo.Page{Page: 1, PerPage: 20}, svc.gotPage)
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/unauthorized", func(c fiber.Ctx) error { return fiber.ErrUnauthorized })
	app.Get("/boom", func(c fiber.Ctx) error { return errors.New("boom") })

	status, out := do(t, app, http.MethodGet, "/unauthorized", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", out["error"])

	status, out = do(t, app, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "boom", out["error"])

	status, _ = do(t, app, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
