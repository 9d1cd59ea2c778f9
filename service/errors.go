package service

import "errors"

// ErrDuplicateKey is returned by IdempotencyRepository.Insert when a
// reservation for the key already exists. The coordinator turns it into a
// replay or a CONFLICT_IN_PROGRESS depending on the existing record's state.
var ErrDuplicateKey = errors.New("idempotency key already reserved")
