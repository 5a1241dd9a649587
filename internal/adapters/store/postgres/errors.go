package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
)

// SQLSTATE codes the store reacts to.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateConnectionClass      = "08"
)

// errThrottled marks a call the local rate limiter refused to admit.
var errThrottled = errors.New("store rate limit exceeded")

// domainSentinels are outcomes decided by the application, not failures of
// the database.
var domainSentinels = []error{
	domain.ErrNotFound,
	domain.ErrValidation,
	domain.ErrConflict,
	domain.ErrForbidden,
	domain.ErrUnauthenticated,
	domain.ErrPartialFailure,
}

// sqlStater is implemented by the pgx error type wrapped inside gorm errors.
type sqlStater interface {
	SQLState() string
}

func isDomainError(err error) bool {
	for _, sentinel := range domainSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// sqlState returns the SQLSTATE carried by err, or "".
func sqlState(err error) string {
	var st sqlStater
	if errors.As(err, &st) {
		return st.SQLState()
	}
	return ""
}

// isConnectionError reports whether err means the database could not be
// reached or dropped the connection.
func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if strings.HasPrefix(sqlState(err), sqlStateConnectionClass) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isTransient reports whether retrying the whole unit of work may succeed.
// Context cancellation and application outcomes are never transient.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch sqlState(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return true
	}
	return isConnectionError(err)
}

// countsAsSuccess tells the circuit breaker which errors say nothing about
// database health.
func countsAsSuccess(err error) bool {
	if err == nil || isDomainError(err) || errors.Is(err, errThrottled) {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// translate maps driver and breaker errors onto domain sentinels. Errors
// already carrying a domain sentinel pass through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainError(err):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, errThrottled):
		return fmt.Errorf("postgres: %w: %w", domain.ErrUnavailable, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("postgres: %w", domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("postgres: %w: %w", domain.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("postgres: %w: referenced row missing: %w", domain.ErrNotFound, err)
	case isConnectionError(err):
		return fmt.Errorf("postgres: %w: %w", domain.ErrUnavailable, err)
	default:
		return fmt.Errorf("postgres: %w", err)
	}
}

// notFound turns gorm.ErrRecordNotFound into a domain not-found error for
// the given entity.
func notFound(err error, kind string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundError(kind, id)
	}
	return err
}
