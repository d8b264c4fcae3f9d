package dbx

import (
	"database/sql/driver"
	"strconv"
	"strings"
)

// Placeholders renders n positional parameters starting at $start,
// e.g. Placeholders(2, 3) == "$2, $3, $4".
func Placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}

// NullString maps nil to SQL NULL.
func NullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// StringPtr is the reverse of NullString for scanned values.
func StringPtr(ns driver.Valuer) *string {
	v, _ := ns.Value()
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
