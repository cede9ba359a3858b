package repo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking status values.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment status values.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Workflow status values.
const (
	WorkflowPending            = "pending"
	WorkflowPaymentPending     = "payment_pending"
	WorkflowAwaitingAssignment = "awaiting_assignment"
	WorkflowAssigned           = "assigned"
	WorkflowConfirmed          = "confirmed"
	WorkflowDriverEnRoute      = "driver_en_route"
	WorkflowCompleted          = "completed"
	WorkflowNoShow             = "no_show"
	WorkflowCancelled          = "cancelled"
)

// Trip assignment status values.
const (
	AssignmentPending    = "pending"
	AssignmentAssigned   = "assigned"
	AssignmentEnRoute    = "en_route"
	AssignmentArrived    = "arrived"
	AssignmentInProgress = "in_progress"
	AssignmentCompleted  = "completed"
	AssignmentCancelled  = "cancelled"
)

const (
	VehicleAvailable   = "available"
	VehicleInService   = "in_service"
	VehicleMaintenance = "maintenance"
)

// Partner transaction types and statuses.
const (
	TxCommissionPending  = "commission_pending"
	TxCommissionApproved = "commission_approved"

	TxStatusPending  = "pending"
	TxStatusApproved = "approved"
	TxStatusPaid     = "paid"
)

const (
	PayoutPending   = "pending"
	PayoutCompleted = "completed"
)

// Payment transaction types.
const (
	PaymentTypePayment       = "payment"
	PaymentTypeNoShowPenalty = "no_show_penalty"

	PaymentTxCompleted = "completed"
	PaymentTxPending   = "pending"
)

const (
	AutomationSuccess = "success"
	AutomationPartial = "partial"
	AutomationError   = "error"
)

const (
	InvoiceIssued = "issued"

	ReviewPending = "pending"
)

const (
	CancellationPending   = "pending"
	CancellationSubmitted = "submitted"
	CancellationApproved  = "approved"
	CancellationRejected  = "rejected"
)

const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

type VehicleType struct {
	ID                uuid.UUID `json:"id" sql:"id"`
	Name              string    `json:"name" sql:"name"`
	PassengerCapacity int       `json:"passenger_capacity" sql:"passenger_capacity"`
	LuggageCapacity   int       `json:"luggage_capacity" sql:"luggage_capacity"`
	IsActive          bool      `json:"is_active" sql:"is_active"`
}

type PricingRule struct {
	ID                uuid.UUID       `json:"id" sql:"id"`
	Origin            string          `json:"origin" sql:"origin"`
	Destination       string          `json:"destination" sql:"destination"`
	VehicleTypeID     uuid.UUID       `json:"vehicle_type_id" sql:"vehicle_type_id"`
	BasePrice         decimal.Decimal `json:"base_price" sql:"base_price"`
	NoDiscountAllowed bool            `json:"no_discount_allowed" sql:"no_discount_allowed"`
	Priority          int             `json:"priority" sql:"priority"`
	IsActive          bool            `json:"is_active" sql:"is_active"`
}

type GlobalDiscountSetting struct {
	ID                 uuid.UUID       `json:"id" sql:"id"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" sql:"discount_percentage"`
	IsActive           bool            `json:"is_active" sql:"is_active"`
	StartDate          *time.Time      `json:"start_date,omitempty" sql:"start_date"`
	EndDate            *time.Time      `json:"end_date,omitempty" sql:"end_date"`
	CreatedAt          time.Time       `json:"created_at" sql:"created_at"`
}

type Partner struct {
	ID             uuid.UUID       `json:"id" sql:"id"`
	Name           string          `json:"name" sql:"name"`
	Email          string          `json:"email" sql:"email"`
	CommissionRate decimal.Decimal `json:"commission_rate" sql:"commission_rate"`
	TotalEarnings  decimal.Decimal `json:"total_earnings" sql:"total_earnings"`
	PendingPayout  decimal.Decimal `json:"pending_payout" sql:"pending_payout"`
	TotalBookings  int             `json:"total_bookings" sql:"total_bookings"`
	CreatedAt      time.Time       `json:"created_at" sql:"created_at"`
}

type Customer struct {
	ID             uuid.UUID       `json:"id" sql:"id"`
	Email          string          `json:"email" sql:"email"`
	Name           string          `json:"name" sql:"name"`
	Phone          string          `json:"phone" sql:"phone"`
	TotalBookings  int             `json:"total_bookings" sql:"total_bookings"`
	CompletedTrips int             `json:"completed_trips" sql:"completed_trips"`
	TotalSpent     decimal.Decimal `json:"total_spent" sql:"total_spent"`
	NoShowCount    int             `json:"no_show_count" sql:"no_show_count"`
	LastBookingAt  *time.Time      `json:"last_booking_at,omitempty" sql:"last_booking_at"`
	LastTripAt     *time.Time      `json:"last_trip_at,omitempty" sql:"last_trip_at"`
	CreatedAt      time.Time       `json:"created_at" sql:"created_at"`
}

type Booking struct {
	ID                  uuid.UUID       `json:"id" sql:"id"`
	Reference           string          `json:"reference" sql:"reference"`
	CustomerID          *uuid.UUID      `json:"customer_id,omitempty" sql:"customer_id"`
	PartnerID           *uuid.UUID      `json:"partner_id,omitempty" sql:"partner_id"`
	CustomerEmail       string          `json:"customer_email" sql:"customer_email"`
	CustomerName        string          `json:"customer_name" sql:"customer_name"`
	CustomerPhone       string          `json:"customer_phone" sql:"customer_phone"`
	PickupLocation      string          `json:"pickup_location" sql:"pickup_location"`
	DropoffLocation     string          `json:"dropoff_location" sql:"dropoff_location"`
	VehicleType         string          `json:"vehicle_type" sql:"vehicle_type"`
	TripType            string          `json:"trip_type" sql:"trip_type"`
	Passengers          int             `json:"passengers" sql:"passengers"`
	Luggage             int             `json:"luggage" sql:"luggage"`
	Price               decimal.Decimal `json:"price" sql:"price"`
	Status              string          `json:"status" sql:"status"`
	PaymentStatus       string          `json:"payment_status" sql:"payment_status"`
	WorkflowStatus      string          `json:"workflow_status" sql:"workflow_status"`
	PickupDatetime      time.Time       `json:"pickup_datetime" sql:"pickup_datetime"`
	PaymentMethod       *string         `json:"payment_method,omitempty" sql:"payment_method"`
	StripePaymentID     *string         `json:"stripe_payment_id,omitempty" sql:"stripe_payment_id"`
	QuoteNumber         *string         `json:"quote_number,omitempty" sql:"quote_number"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty" sql:"completed_at"`
	CompletionEmailSent bool            `json:"completion_email_sent" sql:"completion_email_sent"`
	CreatedAt           time.Time       `json:"created_at" sql:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" sql:"updated_at"`
}

type TripAssignment struct {
	ID         uuid.UUID  `json:"id" sql:"id"`
	BookingID  uuid.UUID  `json:"booking_id" sql:"booking_id"`
	VehicleID  *uuid.UUID `json:"vehicle_id,omitempty" sql:"vehicle_id"`
	DriverName *string    `json:"driver_name,omitempty" sql:"driver_name"`
	Status     string     `json:"status" sql:"status"`
	UpdatedAt  time.Time  `json:"updated_at" sql:"updated_at"`
}

type Vehicle struct {
	ID            uuid.UUID  `json:"id" sql:"id"`
	VehicleTypeID *uuid.UUID `json:"vehicle_type_id,omitempty" sql:"vehicle_type_id"`
	Plate         string     `json:"plate" sql:"plate"`
	Status        string     `json:"status" sql:"status"`
	Mileage       int        `json:"mileage" sql:"mileage"`
}

type PaymentTransaction struct {
	ID              uuid.UUID       `json:"id" sql:"id"`
	BookingID       uuid.UUID       `json:"booking_id" sql:"booking_id"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty" sql:"customer_id"`
	TransactionType string          `json:"transaction_type" sql:"transaction_type"`
	Amount          decimal.Decimal `json:"amount" sql:"amount"`
	PaymentMethod   string          `json:"payment_method" sql:"payment_method"`
	ExternalID      *string         `json:"external_id,omitempty" sql:"external_id"`
	Status          string          `json:"status" sql:"status"`
	CreatedAt       time.Time       `json:"created_at" sql:"created_at"`
}

type PartnerTransaction struct {
	ID              uuid.UUID       `json:"id" sql:"id"`
	PartnerID       uuid.UUID       `json:"partner_id" sql:"partner_id"`
	BookingID       uuid.UUID       `json:"booking_id" sql:"booking_id"`
	TransactionType string          `json:"transaction_type" sql:"transaction_type"`
	Amount          decimal.Decimal `json:"amount" sql:"amount"`
	PlatformFee     decimal.Decimal `json:"platform_fee" sql:"platform_fee"`
	NetAmount       decimal.Decimal `json:"net_amount" sql:"net_amount"`
	Status          string          `json:"status" sql:"status"`
	PayoutID        *uuid.UUID      `json:"payout_id,omitempty" sql:"payout_id"`
	CreatedAt       time.Time       `json:"created_at" sql:"created_at"`
}

type PartnerPayout struct {
	ID                   uuid.UUID       `json:"id" sql:"id"`
	PartnerID            uuid.UUID       `json:"partner_id" sql:"partner_id"`
	Amount               decimal.Decimal `json:"amount" sql:"amount"`
	Status               string          `json:"status" sql:"status"`
	IncludedTransactions []uuid.UUID     `json:"included_transactions" sql:"included_transactions"`
	CreatedAt            time.Time       `json:"created_at" sql:"created_at"`
}

type PartnerDailyStat struct {
	PartnerID        uuid.UUID       `json:"partner_id" sql:"partner_id"`
	Date             time.Time       `json:"date" sql:"date"`
	BookingsCount    int             `json:"bookings_count" sql:"bookings_count"`
	Revenue          decimal.Decimal `json:"revenue" sql:"revenue"`
	CommissionEarned decimal.Decimal `json:"commission_earned" sql:"commission_earned"`
	PlatformFees     decimal.Decimal `json:"platform_fees" sql:"platform_fees"`
}

type AutomationLog struct {
	ID         uuid.UUID      `json:"id" sql:"id"`
	JobName    string         `json:"job_name" sql:"job_name"`
	Status     string         `json:"status" sql:"status"`
	Processed  int            `json:"processed" sql:"processed"`
	Failed     int            `json:"failed" sql:"failed"`
	Details    map[string]any `json:"details,omitempty" sql:"details"`
	Error      *string        `json:"error,omitempty" sql:"error"`
	StartedAt  time.Time      `json:"started_at" sql:"started_at"`
	FinishedAt time.Time      `json:"finished_at" sql:"finished_at"`
}

type Invoice struct {
	ID            uuid.UUID       `json:"id" sql:"id"`
	BookingID     uuid.UUID       `json:"booking_id" sql:"booking_id"`
	InvoiceNumber string          `json:"invoice_number" sql:"invoice_number"`
	Subtotal      decimal.Decimal `json:"subtotal" sql:"subtotal"`
	Tax           decimal.Decimal `json:"tax" sql:"tax"`
	Total         decimal.Decimal `json:"total" sql:"total"`
	Status        string          `json:"status" sql:"status"`
	DocumentKey   *string         `json:"document_key,omitempty" sql:"document_key"`
	IssuedAt      time.Time       `json:"issued_at" sql:"issued_at"`
}

type ReviewRequest struct {
	ID         uuid.UUID  `json:"id" sql:"id"`
	BookingID  uuid.UUID  `json:"booking_id" sql:"booking_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty" sql:"customer_id"`
	Token      string     `json:"token" sql:"token"`
	Status     string     `json:"status" sql:"status"`
	ExpiresAt  time.Time  `json:"expires_at" sql:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" sql:"created_at"`
}

type AdminNotification struct {
	ID        uuid.UUID  `json:"id" sql:"id"`
	Type      string     `json:"type" sql:"type"`
	Title     string     `json:"title" sql:"title"`
	Message   string     `json:"message" sql:"message"`
	BookingID *uuid.UUID `json:"booking_id,omitempty" sql:"booking_id"`
	Priority  string     `json:"priority" sql:"priority"`
	IsRead    bool       `json:"is_read" sql:"is_read"`
	CreatedAt time.Time  `json:"created_at" sql:"created_at"`
}

type CancellationRequest struct {
	ID          uuid.UUID  `json:"id" sql:"id"`
	BookingID   uuid.UUID  `json:"booking_id" sql:"booking_id"`
	Token       string     `json:"token" sql:"token"`
	Reason      *string    `json:"reason,omitempty" sql:"reason"`
	Status      string     `json:"status" sql:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" sql:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at" sql:"created_at"`
}
