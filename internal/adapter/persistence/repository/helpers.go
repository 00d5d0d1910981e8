package repository

import (
	"fmt"
	"time"

	"payhub/internal/domain/entities"
)

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", entities.ErrStoreUnavailable, op, err)
}

func nowUTC() time.Time { return time.Now().UTC() }

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// outcomeFor classifies a status update that did not match a pending record.
func outcomeFor(current entities.PaymentRecord, requested entities.PaymentStatus) entities.StatusUpdateOutcome {
	switch {
	case current.ID == "":
		return entities.StatusUpdateNotFound
	case current.Status == requested:
		return entities.StatusUpdateUnchanged
	default:
		return entities.StatusUpdateConflict
	}
}

func requireTerminal(status entities.PaymentStatus) error {
	if !status.IsTerminal() {
		return fmt.Errorf("%w: status %q is not terminal", entities.ErrInvalidRequest, status)
	}
	return nil
}
