package lenient

import (
	"github.com/google/uuid"
)

// UUIDAdapter converts between canonical UUID strings and uuid.UUID.
func UUIDAdapter() Adapter {
	return ScalarAdapter("uuid.UUID", uuidFrom, func(id uuid.UUID) any { return id.String() })
}

func uuidFrom(r *Reader, v any) (uuid.UUID, error) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, IssueAt(r, CodeInvalidType, "expected UUID string", nil)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, IssueAt(r, CodeInvalidFormat, "invalid UUID", err)
	}
	return id, nil
}
