package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Render returns the console form of e:
//
//	[State] (<id>) {'id': '<id>', 'created_at': datetime.datetime(...), ..., 'name': 'Alabama'}
//
// The attribute mapping is written as a Python literal so output stays
// byte-compatible with existing transcripts.
func Render(e Entity) string {
	b := e.Meta()
	attrs := NewRecord()
	attrs.Set(FieldID, b.ID)
	attrs.Set(FieldCreatedAt, b.CreatedAt)
	attrs.Set(FieldUpdatedAt, b.UpdatedAt)
	for _, k := range b.Attributes() {
		v, _ := b.attrs.Get(k)
		attrs.Set(k, v)
	}
	return fmt.Sprintf("[%s] (%s) %s", e.Kind(), b.ID, repr(attrs))
}

// Repr writes v as a Python literal.
func Repr(v any) string {
	return repr(v)
}

func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return reprString(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return reprFloat(x)
	case time.Time:
		return reprTime(x)
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = reprString(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = repr(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Record:
		parts := make([]string, 0, x.Len())
		for _, k := range x.Keys() {
			item, _ := x.Get(k)
			parts = append(parts, reprString(k)+": "+repr(item))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = reprString(k) + ": " + repr(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(v)
}

// reprString quotes like Python: single quotes unless the text holds a
// single quote and no double quote.
func reprString(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var sb strings.Builder
	sb.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r > 0x7f && !unicode.IsPrint(r):
			if r > 0xffff {
				fmt.Fprintf(&sb, `\U%08x`, r)
			} else if r > 0xff {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				fmt.Fprintf(&sb, `\x%02x`, r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}

// reprFloat matches Python's float repr: shortest round-trip digits,
// scientific notation outside 1e-4 <= |x| < 1e16.
func reprFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// reprTime renders datetime.datetime(Y, M, D, h, m[, s[, us]]), dropping a
// zero microsecond and then a zero second.
func reprTime(t time.Time) string {
	parts := []int{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond() / 1000}
	if parts[6] == 0 {
		parts = parts[:6]
		if parts[5] == 0 {
			parts = parts[:5]
		}
	}
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = strconv.Itoa(p)
	}
	return "datetime.datetime(" + strings.Join(strs, ", ") + ")"
}
