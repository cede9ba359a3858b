package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
)

func (s *bookingService) RequestCancellation(ctx context.Context, token string, reason *string) (*CancellationResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrCancellationNotFound
	}

	cr, err := s.store.GetCancellationRequestByToken(ctx, token)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCancellationNotFound
		}
		return nil, fmt.Errorf("get cancellation request: %w", err)
	}
	if cr.Status != repo.CancellationPending {
		return nil, ErrAlreadyProcessed
	}

	b, err := s.getBooking(ctx, s.store, cr.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == repo.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}

	if reason != nil {
		reason = lo.EmptyableToPtr(strings.TrimSpace(*reason))
	}
	ok, err := s.store.MarkCancellationSubmitted(ctx, cr.ID, reason, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}

	s.publish(ctx, events.TopicCancellationSubmitted, events.Event{
		BookingID: b.ID,
		Token:     token,
		Reason:    lo.FromPtr(reason),
	})
	return &CancellationResult{
		Success: true,
		Booking: BookingRef{ID: b.ID, Reference: b.Reference},
	}, nil
}
