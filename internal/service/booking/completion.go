package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
	"github.com/Alijeyrad/transfers_backend/pkg/money"
	"github.com/Alijeyrad/transfers_backend/pkg/s3"
	"github.com/Alijeyrad/transfers_backend/pkg/util/codes"
)

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*CompletionResult, error) {
	var (
		booking     *repo.Booking
		invoice     *repo.Invoice
		reviewToken string
	)
	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := s.getBookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := checkCompletable(b); err != nil {
			return err
		}

		now := s.now()
		if err := tx.UpdateBooking(ctx, b.ID, repo.BookingUpdate{
			Status:         lo.ToPtr(repo.BookingStatusCompleted),
			WorkflowStatus: lo.ToPtr(repo.WorkflowCompleted),
			CompletedAt:    &now,
		}); err != nil {
			return err
		}
		b.Status, b.WorkflowStatus, b.CompletedAt = repo.BookingStatusCompleted, repo.WorkflowCompleted, &now

		tax := money.Cents(money.Percent(b.Price, s.taxPct))
		invoice, err = tx.CreateInvoice(ctx, &repo.Invoice{
			BookingID:     b.ID,
			InvoiceNumber: codes.InvoiceNumber(now, b.Reference),
			Subtotal:      b.Price,
			Tax:           tax,
			Total:         money.Cents(b.Price.Add(tax)),
			Status:        repo.InvoiceIssued,
			IssuedAt:      now,
		})
		if err != nil {
			return err
		}

		if b.CustomerID != nil {
			if err := tx.UpdateCustomer(ctx, *b.CustomerID, repo.CustomerUpdate{
				CompletedTrips: 1,
				LastTripAt:     &now,
			}); err != nil {
				return err
			}
		}

		if reviewToken, err = codes.GenerateToken(); err != nil {
			return fmt.Errorf("review token: %w", err)
		}
		if err := tx.CreateReviewRequest(ctx, &repo.ReviewRequest{
			BookingID:  b.ID,
			CustomerID: b.CustomerID,
			Token:      reviewToken,
			Status:     repo.ReviewPending,
			ExpiresAt:  now.Add(s.reviewExpiry),
		}); err != nil {
			return err
		}

		a, err := tx.GetTripAssignmentByBooking(ctx, b.ID)
		switch {
		case err == nil:
			if err := tx.UpdateTripAssignmentStatus(ctx, a.ID, repo.AssignmentCompleted); err != nil {
				return err
			}
			// Mileage is a flat increment until trip distances are recorded.
			if a.VehicleID != nil {
				if err := tx.AddVehicleMileage(ctx, *a.VehicleID, s.mileage); err != nil {
					return err
				}
			}
		case !repo.IsNotFound(err):
			return fmt.Errorf("get trip assignment: %w", err)
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &CompletionResult{
		Success:       true,
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceTotal:  invoice.Total,
	}
	if booking.PartnerID != nil {
		approved, err := s.commissions.ApproveBookingCommission(ctx, booking)
		if err != nil {
			slog.Warn("failed to approve partner commission", "booking_id", booking.ID, "error", err)
		}
		res.CommissionApproved = approved
	}
	res.InvoiceURL = s.archiveInvoice(ctx, booking, invoice)
	s.publish(ctx, events.TopicBookingCompleted, events.Event{BookingID: booking.ID, Token: reviewToken})
	return res, nil
}

// archiveInvoice uploads the rendered invoice and returns a presigned
// download link for it, or "" when nothing was archived.
func (s *bookingService) archiveInvoice(ctx context.Context, b *repo.Booking, inv *repo.Invoice) string {
	if s.archiver == nil || inv.DocumentKey != nil {
		return ""
	}
	key := s3.InvoiceKey(inv.IssuedAt, inv.InvoiceNumber)
	if err := s.archiver.Put(ctx, key, "text/plain; charset=utf-8", renderInvoice(b, inv)); err != nil {
		slog.Warn("failed to archive invoice", "invoice_number", inv.InvoiceNumber, "error", err)
		return ""
	}
	if err := s.store.SetInvoiceDocument(ctx, inv.ID, key); err != nil {
		slog.Warn("failed to record invoice document", "invoice_number", inv.InvoiceNumber, "error", err)
	}
	url, err := s.archiver.PresignDownload(ctx, key)
	if err != nil {
		slog.Warn("failed to presign invoice", "invoice_number", inv.InvoiceNumber, "error", err)
		return ""
	}
	return url
}

func renderInvoice(b *repo.Booking, inv *repo.Invoice) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INVOICE %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&sb, "Issued:    %s\n", inv.IssuedAt.Format(time.DateOnly))
	fmt.Fprintf(&sb, "Booking:   %s\n", b.Reference)
	fmt.Fprintf(&sb, "Customer:  %s <%s>\n\n", b.CustomerName, b.CustomerEmail)
	fmt.Fprintf(&sb, "%s transfer (%s), %d passenger(s)\n", b.VehicleType, b.TripType, b.Passengers)
	fmt.Fprintf(&sb, "  from %s\n  to   %s\n  on   %s\n\n", b.PickupLocation, b.DropoffLocation, b.PickupDatetime.Format(time.RFC1123))
	fmt.Fprintf(&sb, "Subtotal:  %s\n", inv.Subtotal.StringFixed(2))
	fmt.Fprintf(&sb, "Tax:       %s\n", inv.Tax.StringFixed(2))
	fmt.Fprintf(&sb, "Total:     %s\n", inv.Total.StringFixed(2))
	return []byte(sb.String())
}
