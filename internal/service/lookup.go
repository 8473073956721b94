package service

import (
	"errors"

	"github.com/lib/pq"
)

// pqInvalidText is raised when an id cannot be cast to the column type.
const pqInvalidText = "22P02"

// isMissing reports whether err means the requested row does not exist. An id
// Postgres refuses to parse cannot name a stored row either.
func isMissing(err error) bool {
	if isMissing(err) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqInvalidText
}
