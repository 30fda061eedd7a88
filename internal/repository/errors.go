package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

var (
	// ErrUniqueViolation is returned when an insert or update collides with a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrNotPending is returned when a temp registration has already left the PENDING state.
	ErrNotPending = errors.New("temp registration is not pending")
)

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", ErrUniqueViolation, pqErr.Constraint)
	}
	return err
}
