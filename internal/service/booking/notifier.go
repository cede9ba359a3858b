package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/dispatch"
	"github.com/Alijeyrad/transfers_backend/pkg/email"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
)

// BookingRecords is the slice of the repository the notifier reads and
// flags delivery on.
type BookingRecords interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*repo.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, u repo.BookingUpdate) error
}

// Notifier performs the side effects behind booking events: customer and
// operations email, and auto-dispatch requests.
type Notifier struct {
	bookings   BookingRecords
	sender     email.Sender
	dispatcher Dispatcher
	mail       email.Config
}

func NewNotifier(bookings BookingRecords, sender email.Sender, dispatcher Dispatcher, mail email.Config) *Notifier {
	return &Notifier{bookings: bookings, sender: sender, dispatcher: dispatcher, mail: mail}
}

// BookingCreated sends the confirmation to the customer and a heads-up to
// operations.
func (n *Notifier) BookingCreated(ctx context.Context, ev events.Event) error {
	data, err := n.bookingData(ctx, ev.BookingID)
	if err != nil {
		return err
	}
	if ev.Token != "" {
		data.CancellationURL = n.link("/cancel", ev.Token)
	}

	msg, err := email.BuildBookingConfirmationEmail(data)
	if err != nil {
		return err
	}
	errs := []error{n.send(ctx, msg)}
	if n.mail.AdminAddress != "" {
		admin, err := email.BuildAdminNewBookingEmail(n.mail.AdminAddress, data)
		if err != nil {
			return err
		}
		errs = append(errs, n.send(ctx, admin))
	}
	return errors.Join(errs...)
}

// BookingCompleted sends the thank-you email with the review link and marks
// the booking once the message is handed to the mail server. A booking that
// is already marked is skipped so redelivered events do not mail twice.
func (n *Notifier) BookingCompleted(ctx context.Context, ev events.Event) error {
	b, err := n.bookings.GetBooking(ctx, ev.BookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if b.CompletionEmailSent {
		slog.Debug("completion email already sent", "booking_id", b.ID)
		return nil
	}
	data := n.dataFor(b)
	if ev.Token != "" {
		data.ReviewURL = n.link("/review", ev.Token)
	}
	msg, err := email.BuildBookingCompletedEmail(data)
	if err != nil {
		return err
	}
	delivered, err := n.deliver(ctx, msg)
	if err != nil || !delivered {
		return err
	}
	if err := n.bookings.UpdateBooking(ctx, b.ID, repo.BookingUpdate{
		CompletionEmailSent: lo.ToPtr(true),
	}); err != nil {
		return fmt.Errorf("mark completion email sent: %w", err)
	}
	return nil
}

func (n *Notifier) CancellationSubmitted(ctx context.Context, ev events.Event) error {
	if n.mail.AdminAddress == "" {
		slog.Debug("no admin address configured, skipping cancellation email", "booking_id", ev.BookingID)
		return nil
	}
	data, err := n.bookingData(ctx, ev.BookingID)
	if err != nil {
		return err
	}
	data.Reason = ev.Reason
	msg, err := email.BuildCancellationRequestEmail(n.mail.AdminAddress, data)
	if err != nil {
		return err
	}
	return n.send(ctx, msg)
}

// DispatchRequested asks the fleet dispatcher to assign the trip.
func (n *Notifier) DispatchRequested(ctx context.Context, ev events.Event) error {
	if n.dispatcher == nil {
		return nil
	}
	b, err := n.bookings.GetBooking(ctx, ev.BookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	res, err := n.dispatcher.AutoDispatch(ctx, dispatch.Request{
		BookingID:      b.ID,
		Reference:      b.Reference,
		PickupLocation: b.PickupLocation,
		Dropoff:        b.DropoffLocation,
		PickupDatetime: b.PickupDatetime,
		VehicleType:    b.VehicleType,
		Passengers:     b.Passengers,
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrDisabled) {
			slog.Debug("auto-dispatch disabled", "booking_id", b.ID)
			return nil
		}
		return err
	}
	slog.Info("auto-dispatch answered",
		"booking_id", b.ID,
		"assigned", res.Assigned,
		"assignment_id", res.AssignmentID,
	)
	return nil
}

func (n *Notifier) send(ctx context.Context, m email.Message) error {
	_, err := n.deliver(ctx, m)
	return err
}

// deliver reports whether m actually left the process. A disabled sender
// drops the message without error.
func (n *Notifier) deliver(ctx context.Context, m email.Message) (bool, error) {
	err := n.sender.Send(ctx, m)
	var disabled email.ErrDisabled
	if errors.As(err, &disabled) {
		slog.Debug("email disabled, dropping message", "subject", m.Subject)
		return false, nil
	}
	return err == nil, err
}

func (n *Notifier) bookingData(ctx context.Context, id uuid.UUID) (email.BookingData, error) {
	b, err := n.bookings.GetBooking(ctx, id)
	if err != nil {
		return email.BookingData{}, fmt.Errorf("get booking: %w", err)
	}
	return n.dataFor(b), nil
}

func (n *Notifier) dataFor(b *repo.Booking) email.BookingData {
	return email.BookingData{
		AppName:       n.mail.AppName,
		BaseURL:       n.mail.BaseURL,
		Reference:     b.Reference,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Pickup:        b.PickupLocation,
		Dropoff:       b.DropoffLocation,
		PickupTime:    b.PickupDatetime.Format(time.RFC1123),
		VehicleType:   b.VehicleType,
		TripType:      b.TripType,
		Passengers:    b.Passengers,
		Price:         b.Price.StringFixed(2),
	}
}

func (n *Notifier) link(path, token string) string {
	return n.mail.BaseURL + path + "?token=" + url.QueryEscape(token)
}
