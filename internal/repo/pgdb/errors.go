package pgdb

import (
	"errors"

	"agro-market-api/internal/repo/repo_errors"

	"github.com/lib/pq"
)

const (
	pqLockNotAvailable = "55P03"
	pqUniqueViolation  = "23505"
)

// translatePgError maps driver error codes onto repo sentinels so services
// never see lib/pq types.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqLockNotAvailable:
			return repo_errors.ErrLocked
		case pqUniqueViolation:
			return repo_errors.ErrAlreadyExists
		}
	}

	return err
}
