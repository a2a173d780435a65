package lenient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/lenient/i18n"
	eng "github.com/reoring/lenient/internal/engine"
)

// Issue codes
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeOverflow      = "overflow"
	CodeDuplicateKey  = "duplicate_key"
	CodeParseError    = "parse_error"
	CodeTruncated     = "truncated"
	// Mismatch log projections.
	CodeRemovedElement = "removed_element"
	CodeUnknownEnum    = "unknown_enum"
)

// ErrNoAdapter is returned when no adapter can be resolved for a type.
var ErrNoAdapter = errors.New("lenient: no adapter for type")

// Issue represents a single decode failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected type, format names, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
}

func (it Issue) String() string {
	if it.Hint != "" {
		return fmt.Sprintf("%s at %s: %s (%s)", it.Code, it.Path, it.Message, it.Hint)
	}
	return fmt.Sprintf("%s at %s: %s", it.Code, it.Path, it.Message)
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is can see through Issues.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueAt builds a single-issue error at the reader's current path.
func IssueAt(r *Reader, code, hint string, cause error) Issues {
	it := Issue{Code: code, Message: i18n.T(code, nil), Hint: hint, Cause: cause, Offset: -1}
	if r != nil {
		it.Path = r.Path()
		it.Offset = r.Location()
	} else {
		it.Path = "/"
	}
	return Issues{it}
}

// tokenError converts driver and enforcement errors into Issues.
func tokenError(r *Reader, err error) error {
	if _, ok := AsIssues(err); ok {
		return err
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: ie.Path, Code: ie.Code, Message: ie.Message, Cause: err, Offset: r.Location()}}
	}
	return IssueAt(r, CodeParseError, "", err)
}
