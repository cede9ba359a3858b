package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/redis"
)

const (
	NoShowJobName  = "handle_no_shows"
	noShowLockName = "no-show-sweep"
	noShowLockTTL  = 10 * time.Minute
)

// errNotNoShow marks a candidate that turned out to be served or moved on.
var errNotNoShow = errors.New("booking is not a no-show")

func (s *bookingService) SweepNoShows(ctx context.Context, now time.Time) (*NoShowResult, error) {
	if s.locker != nil {
		lock, err := s.locker.Acquire(ctx, noShowLockName, noShowLockTTL)
		if err != nil {
			if errors.Is(err, redis.ErrLocked) {
				return nil, ErrJobRunning
			}
			return nil, fmt.Errorf("acquire no-show lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("failed to release no-show lock", "error", err)
			}
		}()
	}

	if now.IsZero() {
		now = s.now()
	}
	started := s.now()
	res := &NoShowResult{Bookings: []string{}}

	candidates, err := s.store.ListNoShowCandidates(ctx, now.Add(-s.noShowGrace))
	if err != nil {
		err = fmt.Errorf("list no-show candidates: %w", err)
		res.Status = repo.AutomationError
		s.logSweep(ctx, started, res, err)
		return nil, err
	}

	var failures []string
	for _, c := range candidates {
		res.Processed++
		err := s.markNoShow(ctx, c)
		switch {
		case err == nil:
			res.Marked++
			res.Bookings = append(res.Bookings, c.Reference)
		case errors.Is(err, errNotNoShow):
			res.Skipped++
		default:
			res.Failed++
			failures = append(failures, c.Reference+": "+err.Error())
			slog.Error("no-show handling failed", "booking_id", c.ID, "reference", c.Reference, "error", err)
		}
	}

	res.Status = repo.AutomationSuccess
	if res.Failed > 0 {
		res.Status = repo.AutomationPartial
	}
	var runErr error
	if len(failures) > 0 {
		runErr = errors.New(strings.Join(failures, "; "))
	}
	s.logSweep(ctx, started, res, runErr)
	s.metrics.NoShowsMarked(ctx, res.Marked)

	slog.Info("no-show sweep finished",
		"processed", res.Processed,
		"marked", res.Marked,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, nil
}

func (s *bookingService) markNoShow(ctx context.Context, candidate *repo.Booking) error {
	return s.store.InTx(ctx, func(tx Store) error {
		b, err := s.getBookingForUpdate(ctx, tx, candidate.ID)
		if err != nil {
			return err
		}
		if !isNoShowCandidate(b) {
			return errNotNoShow
		}

		a, err := tx.GetTripAssignmentByBooking(ctx, b.ID)
		switch {
		case err == nil:
			if slices.Contains(servedAssignments, a.Status) {
				return errNotNoShow
			}
		case repo.IsNotFound(err):
			a = nil
		default:
			return fmt.Errorf("get trip assignment: %w", err)
		}

		if err := tx.UpdateBooking(ctx, b.ID, repo.BookingUpdate{
			Status:         lo.ToPtr(repo.BookingStatusCancelled),
			WorkflowStatus: lo.ToPtr(repo.WorkflowNoShow),
		}); err != nil {
			return err
		}

		if a != nil {
			if err := tx.UpdateTripAssignmentStatus(ctx, a.ID, repo.AssignmentCancelled); err != nil {
				return err
			}
			if a.VehicleID != nil {
				if err := tx.SetVehicleStatus(ctx, *a.VehicleID, repo.VehicleAvailable); err != nil {
					return err
				}
			}
		}

		if b.CustomerID != nil {
			if err := tx.UpdateCustomer(ctx, *b.CustomerID, repo.CustomerUpdate{NoShows: 1}); err != nil {
				return err
			}
		}

		if err := tx.CreatePaymentTransaction(ctx, &repo.PaymentTransaction{
			BookingID:       b.ID,
			CustomerID:      b.CustomerID,
			TransactionType: repo.PaymentTypeNoShowPenalty,
			Amount:          s.noShowPenalty,
			PaymentMethod:   lo.FromPtrOr(b.PaymentMethod, "card"),
			Status:          repo.PaymentTxPending,
		}); err != nil {
			return err
		}

		return tx.CreateAdminNotification(ctx, &repo.AdminNotification{
			Type:  notificationNoShow,
			Title: "No-show " + b.Reference,
			Message: fmt.Sprintf("%s did not show up for the pickup at %s on %s. A %s penalty is pending.",
				b.CustomerName, b.PickupLocation, b.PickupDatetime.Format(time.RFC3339), s.noShowPenalty.StringFixed(2)),
			BookingID: &b.ID,
			Priority:  repo.PriorityHigh,
		})
	})
}

func (s *bookingService) logSweep(ctx context.Context, started time.Time, res *NoShowResult, runErr error) {
	entry := &repo.AutomationLog{
		JobName:   NoShowJobName,
		Status:    res.Status,
		Processed: res.Processed,
		Failed:    res.Failed,
		Details: map[string]any{
			"marked":   res.Marked,
			"skipped":  res.Skipped,
			"bookings": res.Bookings,
		},
		StartedAt:  started,
		FinishedAt: s.now(),
	}
	if runErr != nil {
		entry.Error = lo.ToPtr(runErr.Error())
	}
	if err := s.store.CreateAutomationLog(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("failed to write automation log", "job", NoShowJobName, "error", err)
	}
}
