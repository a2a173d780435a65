// Package lenient decodes JSON arrays into typed lists and sets, optionally
// tolerating elements that fail to convert.
//
// # Collections
//
// Four container types select the decoding behavior at the type level:
//
//	List[T]         ordered, strict
//	LenientList[T]  ordered, tolerant
//	Set[T]          insertion-ordered unique elements, strict
//	LenientSet[T]   insertion-ordered unique elements, tolerant
//
// Plain slices ([]T) decode like List[T].
//
// A strict collection fails the whole decode on the first element that cannot
// be converted. A tolerant collection first reads the complete array as generic
// JSON values, then converts each element on its own; elements that fail are
// left out and recorded in the session's MismatchLog with their JSON Pointer
// and the original error. Malformed JSON is always fatal.
//
//	colors, log, err := lenient.Unmarshal[lenient.LenientList[Color]](data, lenient.DecodeOpt{Registry: reg})
//	for _, rm := range log.RemovedElements() {
//	    fmt.Println(rm.Path, rm.Err)
//	}
//
// # Adapters
//
// An Adapter converts one JSON value. A Registry resolves adapters for Go types
// through a chain of factories: explicit registrations, user factories, the
// built-in scalars (strings, booleans, numbers, json.Number, time.Time,
// uuid.UUID, any, pointers) and finally collections. Enumerations are registered
// explicitly with Enum or StringEnum; an enum with a fallback records unknown
// literals in the MismatchLog instead of failing.
//
// # Sessions
//
// A Reader is one decode session. It tracks the path of the value being read
// and owns the MismatchLog shared by every adapter in the session. Readers and
// logs are not safe for concurrent use; Registries are.
package lenient
