package lenient

// NumberMode dictates how numbers are materialized by Reader.ReadValue.
type NumberMode int

const (
	NumberJSONNumber NumberMode = iota // Preserve json.Number (lossless).
	NumberFloat64                      // Fast mode (with potential precision loss).
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ReadOpt bundles reader options.
type ReadOpt struct {
	NumberMode     NumberMode
	OnDuplicateKey Severity
	MaxDepth       int
	MaxBytes       int64
	// Log receives mismatches for the session. A fresh log is created when nil.
	Log *MismatchLog
}

// DecodeOpt bundles options for the Unmarshal family.
type DecodeOpt struct {
	ReadOpt
	Registry *Registry
	Driver   JSONDriver
}

func lastOpt[O any](opts []O) O {
	var opt O
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}
