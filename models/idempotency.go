package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord reserves a client-supplied key for at-most-one execution.
// ResponseBody is nil while the command is in flight, set exactly once on
// success; the row is deleted when the command fails so a retry can run fresh.
type IdempotencyRecord struct {
	Key            string          `db:"key"`
	RequestPath    string          `db:"request_path"`
	RequestMethod  string          `db:"request_method"`
	UserID         *uuid.UUID      `db:"user_id"`
	ResponseStatus *int            `db:"response_status"`
	ResponseBody   json.RawMessage `db:"response_body"`
	CreatedAt      time.Time       `db:"created_at"`
}
