package wire

import (
	"fmt"
	"strings"
)

// StructuralError reports a response buffer that does not match the
// expected replay layout. Data holds the offending bytes and Segment the
// enclosing match segment when one is available; both are rendered
// escaped so the error is printable as-is.
type StructuralError struct {
	Msg     string
	Data    []byte
	Segment []byte
}

func (e *StructuralError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Msg)
	if len(e.Data) > 0 {
		sb.WriteString(": ")
		sb.WriteString(escapeBytes(e.Data))
	}
	if len(e.Segment) > 0 {
		sb.WriteString(" in ")
		sb.WriteString(escapeBytes(e.Segment))
	}
	return sb.String()
}

func structuralf(data, segment []byte, format string, args ...any) *StructuralError {
	return &StructuralError{
		Msg:     fmt.Sprintf(format, args...),
		Data:    data,
		Segment: segment,
	}
}

// escapeBytes renders raw bytes with printable ASCII kept and everything
// else hex-escaped.
func escapeBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	return sb.String()
}
