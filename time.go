package lenient

import (
	"time"
)

// TimeAdapter converts between RFC3339 strings and time.Time. Times are
// written in UTC with RFC3339Nano precision.
func TimeAdapter() Adapter {
	return ScalarAdapter("time.Time", timeFrom, func(t time.Time) any { return formatRFC3339Canonical(t) })
}

func timeFrom(r *Reader, v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, IssueAt(r, CodeInvalidType, "expected RFC3339 string", nil)
	}
	t, err := parseRFC3339(s)
	if err != nil {
		return time.Time{}, IssueAt(r, CodeInvalidFormat, "invalid RFC3339 time", err)
	}
	return t, nil
}

func parseRFC3339(s string) (time.Time, error) {
	// RFC3339Nano accepts inputs without fractional seconds as well
	return time.Parse(time.RFC3339Nano, s)
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
