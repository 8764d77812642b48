package votes

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated  = errors.New("no authenticated user")
	ErrPostNotFound     = errors.New("post not found")
	ErrInvalidVoteType  = errors.New("vote type must be up or down")
	ErrVoteConflict     = errors.New("concurrent vote modification")
	ErrStoreUnavailable = errors.New("vote store unavailable")
)

// postgres SQLSTATE codes that mean the transaction lost a race
const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// classify maps a persistence failure onto the ledger's error taxonomy.
// Errors that are already part of the taxonomy pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{ErrUnauthenticated, ErrPostNotFound, ErrInvalidVoteType, ErrVoteConflict, ErrStoreUnavailable} {
		if errors.Is(err, known) {
			return err
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrVoteConflict, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation, serializationFailure, deadlockDetected:
			return fmt.Errorf("%w: %w", ErrVoteConflict, err)
		}
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return err
}
