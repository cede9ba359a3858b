package booking

import (
	"fmt"
	"slices"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
)

var terminalWorkflows = []string{
	repo.WorkflowCompleted,
	repo.WorkflowNoShow,
	repo.WorkflowCancelled,
}

// servedAssignments mean the driver reached the customer.
var servedAssignments = []string{
	repo.AssignmentArrived,
	repo.AssignmentInProgress,
	repo.AssignmentCompleted,
}

func isTerminal(b *repo.Booking) bool {
	return slices.Contains(terminalWorkflows, b.WorkflowStatus) ||
		b.Status == repo.BookingStatusCancelled ||
		b.Status == repo.BookingStatusCompleted
}

func checkPayable(b *repo.Booking) error {
	if isTerminal(b) {
		return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.WorkflowStatus)
	}
	if b.PaymentStatus == repo.PaymentStatusPaid {
		return fmt.Errorf("%w: booking is already paid", ErrInvalidTransition)
	}
	return nil
}

func checkCompletable(b *repo.Booking) error {
	if isTerminal(b) {
		return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.WorkflowStatus)
	}
	if b.PaymentStatus != repo.PaymentStatusPaid {
		return fmt.Errorf("%w: booking is not paid", ErrInvalidTransition)
	}
	return nil
}

// isNoShowCandidate re-checks the listing filter under the row lock.
func isNoShowCandidate(b *repo.Booking) bool {
	return b.PaymentStatus == repo.PaymentStatusPaid &&
		slices.Contains(repo.ActiveWorkflowStatuses, b.WorkflowStatus)
}
