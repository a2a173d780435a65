package lenient

import (
	"github.com/reoring/lenient/i18n"
)

// RemovedElement records a collection element dropped by a tolerant decode.
type RemovedElement struct {
	Path string // JSON Pointer of the dropped element.
	Err  error  // The element adapter's failure, kept verbatim.
}

// UnknownEnum records an enum literal that had no matching constant.
type UnknownEnum struct {
	Path string
	Name string
}

// MismatchLog accumulates the anomalies of one decode session.
//
// Both record lists stay nil until their first append, so callers can tell
// "nothing was ever recorded" (nil) from a recorded list. A MismatchLog is not
// safe for concurrent use; give each session its own log.
type MismatchLog struct {
	unknownEnums    []UnknownEnum
	removedElements []RemovedElement
}

// NewMismatchLog returns an empty log.
func NewMismatchLog() *MismatchLog { return &MismatchLog{} }

// AddUnknownEnum tracks an unknown enum value.
func (l *MismatchLog) AddUnknownEnum(e UnknownEnum) {
	l.unknownEnums = append(l.unknownEnums, e)
}

// AddRemovedElement tracks a collection element removed because it failed to decode.
func (l *MismatchLog) AddRemovedElement(e RemovedElement) {
	l.removedElements = append(l.removedElements, e)
}

// UnknownEnums returns the recorded unknown enum values in order, or nil if none
// were recorded. The returned slice is a copy.
func (l *MismatchLog) UnknownEnums() []UnknownEnum {
	if l == nil || l.unknownEnums == nil {
		return nil
	}
	return append([]UnknownEnum(nil), l.unknownEnums...)
}

// RemovedElements returns the removed elements in order, or nil if none were
// recorded. The returned slice is a copy.
func (l *MismatchLog) RemovedElements() []RemovedElement {
	if l == nil || l.removedElements == nil {
		return nil
	}
	return append([]RemovedElement(nil), l.removedElements...)
}

// Copy returns an independent deep copy of the log.
func (l *MismatchLog) Copy() *MismatchLog {
	c := &MismatchLog{}
	if l == nil {
		return c
	}
	for _, e := range l.unknownEnums {
		c.AddUnknownEnum(UnknownEnum{Path: e.Path, Name: e.Name})
	}
	for _, e := range l.removedElements {
		c.AddRemovedElement(RemovedElement{Path: e.Path, Err: e.Err})
	}
	return c
}

// Len returns the total number of records.
func (l *MismatchLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.unknownEnums) + len(l.removedElements)
}

// Empty reports whether nothing has been recorded.
func (l *MismatchLog) Empty() bool { return l.Len() == 0 }

// Issues projects the log into Issues: removed elements first, then unknown
// enums, each in recording order. It returns nil for an empty log.
func (l *MismatchLog) Issues() Issues {
	if l.Empty() {
		return nil
	}
	var iss Issues
	for _, e := range l.removedElements {
		it := Issue{Path: e.Path, Code: CodeRemovedElement, Message: i18n.T(CodeRemovedElement, nil), Cause: e.Err, Offset: -1}
		if e.Err != nil {
			it.Hint = e.Err.Error()
		}
		iss = AppendIssues(iss, it)
	}
	for _, e := range l.unknownEnums {
		iss = AppendIssues(iss, Issue{
			Path:    e.Path,
			Code:    CodeUnknownEnum,
			Message: i18n.T(CodeUnknownEnum, map[string]string{"name": e.Name}),
			Offset:  -1,
		})
	}
	return iss
}
