package things

import (
	"bytes"
	"fmt"
)

// RecurrenceInfo is the decoded slice of a task's recurrence rule.
// The rule blob is a rich binary property list; only the frequency
// unit is extracted here. A full parser could replace extractRecurrence
// without touching any call site.
type RecurrenceInfo struct {
	Recurring bool
	Frequency string
}

// fuKey is the binary-plist encoding of the two-character key "fu"
// (frequency unit): an ASCII-string marker byte for length 2 followed
// by the characters themselves.
var fuKey = []byte{0x52, 'f', 'u'}

// extractRecurrence pattern-matches the frequency unit out of the rule
// blob. An absent blob means not recurring; a blob that does not match
// the expected structure still means recurring, just with no frequency
// label — the rule's presence is the signal, the label is best-effort.
func extractRecurrence(blob []byte) RecurrenceInfo {
	if len(blob) == 0 {
		return RecurrenceInfo{}
	}
	info := RecurrenceInfo{Recurring: true}

	i := bytes.Index(blob, fuKey)
	if i < 0 {
		return info
	}
	// The key is followed by a one-byte integer: marker 0x10, then the
	// value itself.
	v := i + len(fuKey)
	if v+1 >= len(blob) || blob[v] != 0x10 {
		return info
	}
	info.Frequency = frequencyLabel(int(blob[v+1]))
	return info
}

// frequencyLabel maps known frequency-unit codes to labels. Unknown
// codes are surfaced rather than hidden so a schema drift shows up in
// API output instead of silently reading as "not recurring".
func frequencyLabel(code int) string {
	switch code {
	case 0:
		return "daily"
	case 1:
		return "weekly"
	case 2:
		return "monthly"
	case 3:
		return "yearly"
	default:
		return fmt.Sprintf("every-%d", code)
	}
}
